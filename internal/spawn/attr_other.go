//go:build !unix

package spawn

import "syscall"

func detachedAttr() *syscall.SysProcAttr {
	return nil
}
