// Package sysmetrics provides the host sensor collectors for dwmstatus:
// aggregate CPU counters, buffer memory, CPU frequency and the wireless link.
package sysmetrics

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// CPUCollector reads the aggregate "cpu " line of the kernel stat file.
type CPUCollector struct {
	logger *slog.Logger
	path   string

	// Overridable file opener for testing.
	openProcStat func() (io.ReadCloser, error)
}

// NewCPUCollector creates a CPUCollector reading path (normally /proc/stat).
// If logger is nil, a no-op logger is used.
func NewCPUCollector(path string, logger *slog.Logger) *CPUCollector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CPUCollector{
		logger: logger,
		path:   path,
		openProcStat: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Name returns the collector's unique identifier.
func (c *CPUCollector) Name() string { return "cpu" }

// Description returns a human-readable description of what this collector reads.
func (c *CPUCollector) Description() string { return "Aggregate CPU time counters from " + c.path }

// Collect stores the user, nice, system and idle counters in r.
// Unreadable counters leave r.CPUValid false.
func (c *CPUCollector) Collect(ctx context.Context, r *collectors.Reading) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	counters, err := c.readCounters()
	if err != nil {
		r.Warn("sysmetrics: %v", err)
		c.logger.Debug("cpu counters unavailable", "path", c.path, "error", err)
		return nil
	}
	r.CPU = counters
	r.CPUValid = true
	return nil
}

// readCounters scans for the aggregate cpu line and parses its first four fields.
func (c *CPUCollector) readCounters() (collectors.CPUCounters, error) {
	f, err := c.openProcStat()
	if err != nil {
		return collectors.CPUCounters{}, fmt.Errorf("open %s: %w", c.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}

		// Fields: cpu user nice system idle iowait irq softirq ...
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return collectors.CPUCounters{}, fmt.Errorf("%s: cpu line too short", c.path)
		}

		var vals [4]uint64
		for i := range vals {
			v, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return collectors.CPUCounters{}, fmt.Errorf("parse %s field %d: %w", c.path, i+1, err)
			}
			vals[i] = v
		}
		return collectors.CPUCounters{User: vals[0], Nice: vals[1], System: vals[2], Idle: vals[3]}, nil
	}
	if err := scanner.Err(); err != nil {
		return collectors.CPUCounters{}, fmt.Errorf("read %s: %w", c.path, err)
	}
	return collectors.CPUCounters{}, fmt.Errorf("cpu line not found in %s", c.path)
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*CPUCollector)(nil)
