package sysmetrics

import (
	"context"
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// MemoryCollector reports buffer and total memory from the kernel's
// system information call.
type MemoryCollector struct {
	logger *slog.Logger

	// read returns the current counters; replaced in tests.
	read func() (collectors.MemCounters, error)
}

// NewMemoryCollector creates a MemoryCollector for the running platform.
// If logger is nil, a no-op logger is used.
func NewMemoryCollector(logger *slog.Logger) *MemoryCollector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MemoryCollector{
		logger: logger,
		read:   readMemCounters,
	}
}

// Name returns the collector's unique identifier.
func (c *MemoryCollector) Name() string { return "memory" }

// Description returns a human-readable description of what this collector reads.
func (c *MemoryCollector) Description() string { return "Buffer and total memory" }

// Collect stores memory counters in r. Failures leave them zero.
func (c *MemoryCollector) Collect(ctx context.Context, r *collectors.Reading) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	mem, err := c.read()
	if err != nil {
		r.Warn("sysmetrics: %v", err)
		c.logger.Debug("memory counters unavailable", "error", err)
		return nil
	}
	r.Mem = mem
	return nil
}

var _ collectors.Collector = (*MemoryCollector)(nil)
