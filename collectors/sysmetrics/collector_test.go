package sysmetrics

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// stringReadCloser wraps a strings.Reader to implement io.ReadCloser.
type stringReadCloser struct {
	*strings.Reader
}

func (s *stringReadCloser) Close() error { return nil }

func newReadCloser(content string) io.ReadCloser {
	return &stringReadCloser{strings.NewReader(content)}
}

func newReading() *collectors.Reading {
	return &collectors.Reading{BatteryState: collectors.BatteryUnknown}
}

// TestCPUCollect verifies counter parsing from mock /proc/stat data.
func TestCPUCollect(t *testing.T) {
	c := NewCPUCollector("/proc/stat", nil)
	c.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  100 5 50 800 10 5 3 0 0 0\ncpu0 50 2 25 400 5 2 1 0 0 0\n"), nil
	}

	r := newReading()
	if err := c.Collect(context.Background(), r); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if !r.CPUValid {
		t.Fatalf("CPUValid = false, warnings %v", r.Warnings)
	}
	want := collectors.CPUCounters{User: 100, Nice: 5, System: 50, Idle: 800}
	if r.CPU != want {
		t.Errorf("CPU = %+v, want %+v", r.CPU, want)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", r.Warnings)
	}
}

// TestCPUCollectSkipsPerCoreLines checks that only the aggregate line counts.
func TestCPUCollectSkipsPerCoreLines(t *testing.T) {
	c := NewCPUCollector("/proc/stat", nil)
	c.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu0 1 2 3 4\nintr 12345\ncpu  10 20 30 40\n"), nil
	}

	r := newReading()
	_ = c.Collect(context.Background(), r)
	if r.CPU.User != 10 || r.CPU.Idle != 40 {
		t.Errorf("CPU = %+v, want aggregate line", r.CPU)
	}
}

func TestCPUCollectFailures(t *testing.T) {
	tests := []struct {
		name   string
		opener func() (io.ReadCloser, error)
	}{
		{"open error", func() (io.ReadCloser, error) { return nil, errors.New("permission denied") }},
		{"no cpu line", func() (io.ReadCloser, error) { return newReadCloser("intr 1 2 3\n"), nil }},
		{"short line", func() (io.ReadCloser, error) { return newReadCloser("cpu  1 2 3\n"), nil }},
		{"bad field", func() (io.ReadCloser, error) { return newReadCloser("cpu  1 x 3 4\n"), nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCPUCollector("/proc/stat", nil)
			c.openProcStat = tt.opener

			r := newReading()
			if err := c.Collect(context.Background(), r); err != nil {
				t.Fatalf("Collect should not fail, got %v", err)
			}
			if r.CPUValid {
				t.Error("CPUValid = true, want false")
			}
			if len(r.Warnings) != 1 {
				t.Errorf("warnings = %v, want one", r.Warnings)
			}
		})
	}
}

// TestCollectCancelled verifies that every collector respects context cancellation.
func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, c := range []collectors.Collector{
		NewCPUCollector("/proc/stat", nil),
		NewMemoryCollector(nil),
		NewFrequencyCollector("/nonexistent", nil),
		NewLinkCollector("/nonexistent", 8, nil),
	} {
		if err := c.Collect(ctx, newReading()); err == nil {
			t.Errorf("%s: expected error for cancelled context", c.Name())
		}
	}
}

// TestCollectorInterface verifies Name and Description.
func TestCollectorInterface(t *testing.T) {
	tests := []struct {
		c    collectors.Collector
		name string
	}{
		{NewCPUCollector("/proc/stat", nil), "cpu"},
		{NewMemoryCollector(nil), "memory"},
		{NewFrequencyCollector("/f", nil), "freq"},
		{NewLinkCollector("/l", 8, nil), "link"},
	}
	for _, tt := range tests {
		if tt.c.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", tt.c.Name(), tt.name)
		}
		if tt.c.Description() == "" {
			t.Errorf("%s: Description() should not be empty", tt.name)
		}
	}
}

func TestMemoryCollect(t *testing.T) {
	c := NewMemoryCollector(nil)
	c.read = func() (collectors.MemCounters, error) {
		return collectors.MemCounters{Buffers: 512 << 20, Total: 8 << 30}, nil
	}

	r := newReading()
	_ = c.Collect(context.Background(), r)
	if r.Mem.Buffers != 512<<20 || r.Mem.Total != 8<<30 {
		t.Errorf("Mem = %+v", r.Mem)
	}
}

func TestMemoryCollectFailure(t *testing.T) {
	c := NewMemoryCollector(nil)
	c.read = func() (collectors.MemCounters, error) {
		return collectors.MemCounters{}, errors.New("boom")
	}

	r := newReading()
	if err := c.Collect(context.Background(), r); err != nil {
		t.Fatalf("Collect should not fail, got %v", err)
	}
	if r.Mem.Total != 0 || len(r.Warnings) != 1 {
		t.Errorf("Mem = %+v, warnings = %v", r.Mem, r.Warnings)
	}
}

func TestFrequencyCollect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaling_cur_freq")
	if err := os.WriteFile(path, []byte("2400000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := newReading()
	_ = NewFrequencyCollector(path, nil).Collect(context.Background(), r)
	if r.FreqRaw != 2400000 {
		t.Errorf("FreqRaw = %d, want 2400000", r.FreqRaw)
	}

	r = newReading()
	_ = NewFrequencyCollector(filepath.Join(dir, "missing"), nil).Collect(context.Background(), r)
	if r.FreqRaw != -1 {
		t.Errorf("FreqRaw for missing file = %d, want -1", r.FreqRaw)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("warnings = %v, want one", r.Warnings)
	}
}

func TestLinkCollect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "link")
	if err := os.WriteFile(path, []byte("home-wifi-5g\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := newReading()
	_ = NewLinkCollector(path, 8, nil).Collect(context.Background(), r)
	if r.Link != "home-wif" {
		t.Errorf("Link = %q, want %q", r.Link, "home-wif")
	}

	r = newReading()
	_ = NewLinkCollector(filepath.Join(dir, "missing"), 8, nil).Collect(context.Background(), r)
	if r.Link != "" {
		t.Errorf("Link for missing file = %q, want empty", r.Link)
	}
}
