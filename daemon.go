package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
	"gitlab.com/tinyland/lab/dwmstatus/collectors/power"
	"gitlab.com/tinyland/lab/dwmstatus/collectors/sysmetrics"
	"gitlab.com/tinyland/lab/dwmstatus/config"
	"gitlab.com/tinyland/lab/dwmstatus/display/sink"
	"gitlab.com/tinyland/lab/dwmstatus/display/statusline"
	"gitlab.com/tinyland/lab/dwmstatus/internal/spawn"
	"gitlab.com/tinyland/lab/dwmstatus/status"
)

// defaultPollInterval is used when the configured interval does not parse.
const defaultPollInterval = time.Second

// daemon owns the sampling loop and all state carried between ticks.
type daemon struct {
	config   *config.Config
	logger   *slog.Logger
	registry *collectors.Registry
	tracker  collectors.CPUTracker
	guard    *status.Guard
	sink     sink.Sink
	pidFile  string
	health   string // heartbeat path; empty outside run
	interval time.Duration
}

// newDaemon wires collectors and the guard around out. suspender may be nil.
func newDaemon(cfg *config.Config, logger *slog.Logger, out sink.Sink, suspender status.Suspender) *daemon {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	guardCfg := status.GuardConfig{
		Threshold: cfg.Battery.Threshold,
		Timeout:   cfg.Battery.Timeout,
		Suspend:   cfg.Suspend.Enabled,
	}

	return &daemon{
		config:   cfg,
		logger:   logger,
		registry: buildRegistry(cfg, logger),
		guard:    status.NewGuard(guardCfg, suspender, logger),
		sink:     out,
		pidFile:  resolvePIDFile(cfg.PIDFile),
		interval: parseDuration(cfg.Interval),
	}
}

// buildRegistry registers one collector per source family, in the order the
// status line reads them.
func buildRegistry(cfg *config.Config, logger *slog.Logger) *collectors.Registry {
	src := cfg.Sources
	registry := collectors.NewRegistry()

	registry.Register(sysmetrics.NewCPUCollector(src.ProcStat, logger))
	registry.Register(sysmetrics.NewFrequencyCollector(src.CPUFreq, logger))
	registry.Register(sysmetrics.NewMemoryCollector(logger))
	registry.Register(sysmetrics.NewLinkCollector(src.Link, src.LinkMax, logger))

	switch src.BatteryBackend {
	case config.BackendSystem:
		registry.Register(power.NewSystemBattery(src.BatteryIndex, logger))
	default:
		registry.Register(power.NewSysfsBattery(src.BatteryNow, src.BatteryFull, src.BatteryStatus, logger))
	}

	return registry
}

// buildSuspender returns the configured suspend action, or nil when suspend
// is disabled. Dry runs write to w.
func buildSuspender(cfg *config.Config, w io.Writer, logger *slog.Logger) (status.Suspender, error) {
	if !cfg.Suspend.Enabled {
		return nil, nil
	}
	if cfg.Suspend.DryRun {
		return spawn.DryRun{W: w}, nil
	}
	cmd, err := spawn.New(cfg.Suspend.Command, logger)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("suspend enabled", "command", cmd.String(), "timeout", cfg.Battery.Timeout)
	}
	return cmd, nil
}

// resolvePIDFile returns path, or $XDG_RUNTIME_DIR/dwmstatus.pid, or a
// per-user file in the temp directory.
func resolvePIDFile(path string) string {
	if path != "" {
		return path
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "dwmstatus.pid")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("dwmstatus-%d.pid", os.Getuid()))
}

// parseDuration parses s, falling back to defaultPollInterval when s is
// empty, malformed or not positive.
func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultPollInterval
	}
	return d
}

// writePIDFile writes the current process PID to the PID file.
func (d *daemon) writePIDFile() error {
	dir := filepath.Dir(d.pidFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create PID file directory: %w", err)
	}
	pid := os.Getpid()
	if err := os.WriteFile(d.pidFile, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	d.logger.Info("wrote PID file", "path", d.pidFile, "pid", pid)
	return nil
}

// removePIDFile removes the PID file on shutdown.
func (d *daemon) removePIDFile() {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		d.logger.Error("failed to remove PID file", "path", d.pidFile, "error", err)
		return
	}
	d.logger.Info("removed PID file", "path", d.pidFile)
}

// isRunning checks if another instance owns the PID file. Stale or corrupt
// PID files are removed.
func (d *daemon) isRunning() (bool, int) {
	return pidFileOwner(d.pidFile, d.logger)
}

// pidState is what a PID file says about the owning process.
type pidState int

const (
	pidAbsent  pidState = iota // no file, or it holds our own PID
	pidRunning                 // another live process
	pidStale                   // the recorded process is gone
	pidCorrupt                 // not a PID
)

// readPIDFile inspects path without changing it, signalling the recorded
// process with signal 0.
func readPIDFile(path string) (pidState, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pidAbsent, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return pidCorrupt, 0
	}
	if pid == os.Getpid() {
		return pidAbsent, pid
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return pidStale, pid
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return pidStale, pid
	}
	return pidRunning, pid
}

// pidFileOwner reports whether another live process owns path. Stale and
// corrupt PID files are removed.
func pidFileOwner(path string, logger *slog.Logger) (bool, int) {
	state, pid := readPIDFile(path)
	switch state {
	case pidRunning:
		return true, pid
	case pidCorrupt:
		logger.Warn("corrupt PID file, removing", "path", path)
		os.Remove(path)
	case pidStale:
		logger.Warn("stale PID file, removing", "path", path, "pid", pid)
		os.Remove(path)
	}
	return false, 0
}

// run holds the PID file, ticks immediately, then once per interval until
// ctx is cancelled. Cancellation is a clean exit and returns nil.
func (d *daemon) run(ctx context.Context) error {
	if running, pid := d.isRunning(); running {
		return fmt.Errorf("dwmstatus already running (PID %d)", pid)
	}
	if err := d.writePIDFile(); err != nil {
		return err
	}
	defer d.removePIDFile()

	d.health = healthPath(d.pidFile)
	defer os.Remove(d.health)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("status loop started", "interval", d.interval, "sink", d.config.Sink)

	if _, err := d.tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
		d.logger.Error("tick failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("status loop stopping")
			return nil
		case <-ticker.C:
			if _, err := d.tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Error("tick failed", "error", err)
			}
		}
	}
}

// tick samples, derives, runs the guard, then formats and publishes one
// frame and records the heartbeat. Publish failures are logged, not returned.
func (d *daemon) tick(ctx context.Context) (statusline.Frame, error) {
	reading, err := d.registry.Sample(ctx)
	if err != nil {
		return statusline.Frame{}, fmt.Errorf("sample: %w", err)
	}
	for _, w := range reading.Warnings {
		d.logger.Debug("sensor warning", "warning", w)
	}

	var cpu float64
	if reading.CPUValid {
		cpu = d.tracker.Observe(reading.CPU)
	}

	metrics := statusline.FromReading(reading, cpu, d.config.DateTimeFormat)
	decision := d.guard.Observe(metrics.State, metrics.Battery)
	frame := statusline.Build(metrics, decision, reading.Timestamp)

	if err := d.sink.Publish(frame); err != nil {
		d.logger.Warn("publish failed", "error", err)
	}
	if d.health != "" {
		if err := writeHealthFile(d.health, frame, reading.Warnings, d.sinkHealth()); err != nil {
			d.logger.Warn("health file not written", "path", d.health, "error", err)
		}
	}
	return frame, nil
}

// sinkHealth reports the breaker around a reconnecting sink, or nil.
func (d *daemon) sinkHealth() *SinkHealth {
	b, ok := d.sink.(*sink.Breaker)
	if !ok {
		return nil
	}
	return &SinkHealth{State: b.State().String(), Dropped: b.Dropped()}
}

// prime records a CPU baseline without publishing.
func (d *daemon) prime(ctx context.Context) error {
	reading, err := d.registry.Sample(ctx)
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}
	if reading.CPUValid {
		d.tracker.Observe(reading.CPU)
	}
	return nil
}

// once primes the CPU baseline, waits one interval and publishes one frame.
// Without a baseline there is nothing to wait for, so it publishes at once.
func (d *daemon) once(ctx context.Context) (statusline.Frame, error) {
	if err := d.prime(ctx); err != nil {
		return statusline.Frame{}, err
	}
	if !d.tracker.Primed() {
		return d.tick(ctx)
	}
	timer := time.NewTimer(d.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return statusline.Frame{}, ctx.Err()
	case <-timer.C:
	}
	return d.tick(ctx)
}
