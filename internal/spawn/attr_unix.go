//go:build unix

package spawn

import "syscall"

// detachedAttr puts the child in a new session so it outlives us.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
