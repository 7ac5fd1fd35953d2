//go:build linux

package sysmetrics

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestReadMemCountersScalesByUnit(t *testing.T) {
	orig := sysinfo
	t.Cleanup(func() { sysinfo = orig })

	sysinfo = func(info *unix.Sysinfo_t) error {
		info.Bufferram = 300
		info.Totalram = 1000
		info.Unit = 4096
		return nil
	}

	mem, err := readMemCounters()
	if err != nil {
		t.Fatalf("readMemCounters: %v", err)
	}
	if mem.Buffers != 300*4096 || mem.Total != 1000*4096 {
		t.Errorf("mem = %+v", mem)
	}
}

func TestReadMemCountersZeroUnit(t *testing.T) {
	orig := sysinfo
	t.Cleanup(func() { sysinfo = orig })

	sysinfo = func(info *unix.Sysinfo_t) error {
		info.Bufferram = 7
		info.Totalram = 9
		return nil
	}

	mem, _ := readMemCounters()
	if mem.Buffers != 7 || mem.Total != 9 {
		t.Errorf("mem = %+v", mem)
	}
}

func TestReadMemCountersError(t *testing.T) {
	orig := sysinfo
	t.Cleanup(func() { sysinfo = orig })

	sysinfo = func(*unix.Sysinfo_t) error { return errors.New("EFAULT") }

	if _, err := readMemCounters(); err == nil {
		t.Error("expected error")
	}
}

func TestReadMemCountersLive(t *testing.T) {
	mem, err := readMemCounters()
	if err != nil {
		t.Fatalf("readMemCounters: %v", err)
	}
	if mem.Total == 0 {
		t.Error("live sysinfo reported zero total memory")
	}
	if mem.Buffers > mem.Total {
		t.Errorf("buffers %d exceed total %d", mem.Buffers, mem.Total)
	}
}
