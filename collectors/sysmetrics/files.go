package sysmetrics

import (
	"context"
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// FrequencyCollector reads the raw CPU frequency (kHz) from a cpufreq file.
type FrequencyCollector struct {
	logger *slog.Logger
	path   string
}

// NewFrequencyCollector creates a FrequencyCollector reading path.
func NewFrequencyCollector(path string, logger *slog.Logger) *FrequencyCollector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FrequencyCollector{logger: logger, path: path}
}

func (c *FrequencyCollector) Name() string        { return "freq" }
func (c *FrequencyCollector) Description() string { return "CPU frequency from " + c.path }

// Collect stores the raw value, keeping the -1/0 sentinels of ReadInt.
func (c *FrequencyCollector) Collect(ctx context.Context, r *collectors.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := collectors.ReadInt(c.path)
	if err != nil {
		r.Warn("sysmetrics: freq: %v", err)
		c.logger.Debug("frequency unavailable", "path", c.path, "error", err)
	}
	r.FreqRaw = raw
	return nil
}

// LinkCollector reads the wireless link name, truncated to max bytes.
type LinkCollector struct {
	logger *slog.Logger
	path   string
	max    int
}

// NewLinkCollector creates a LinkCollector reading at most max bytes of path.
func NewLinkCollector(path string, max int, logger *slog.Logger) *LinkCollector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LinkCollector{logger: logger, path: path, max: max}
}

func (c *LinkCollector) Name() string        { return "link" }
func (c *LinkCollector) Description() string { return "Wireless link name from " + c.path }

// Collect stores the link text; an unreadable file yields "".
func (c *LinkCollector) Collect(ctx context.Context, r *collectors.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	link, err := collectors.ReadText(c.path, c.max)
	if err != nil {
		r.Warn("sysmetrics: link: %v", err)
		c.logger.Debug("link unavailable", "path", c.path, "error", err)
	}
	r.Link = link
	return nil
}

var (
	_ collectors.Collector = (*FrequencyCollector)(nil)
	_ collectors.Collector = (*LinkCollector)(nil)
)
