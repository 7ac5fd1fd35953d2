//go:build linux

package sysmetrics

import (
	"fmt"

	"golang.org/x/sys/unix"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// sysinfo is the system call used by readMemCounters; replaced in tests.
var sysinfo = unix.Sysinfo

// readMemCounters converts sysinfo's buffer and total RAM to bytes.
func readMemCounters() (collectors.MemCounters, error) {
	var info unix.Sysinfo_t
	if err := sysinfo(&info); err != nil {
		return collectors.MemCounters{}, fmt.Errorf("sysinfo: %w", err)
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return collectors.MemCounters{
		Buffers: uint64(info.Bufferram) * unit,
		Total:   uint64(info.Totalram) * unit,
	}, nil
}
