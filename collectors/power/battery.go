// Package power provides the battery collectors for dwmstatus. The sysfs
// backend reads the configured charge and status files directly; the system
// backend asks the platform battery API.
package power

import (
	"context"
	"io"
	"log/slog"

	"github.com/distatus/battery"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// SysfsBattery reads charge now, charge full and status from three files.
type SysfsBattery struct {
	logger     *slog.Logger
	nowPath    string
	fullPath   string
	statusPath string
}

// NewSysfsBattery creates a SysfsBattery. If logger is nil, a no-op logger is used.
func NewSysfsBattery(nowPath, fullPath, statusPath string, logger *slog.Logger) *SysfsBattery {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SysfsBattery{
		logger:     logger,
		nowPath:    nowPath,
		fullPath:   fullPath,
		statusPath: statusPath,
	}
}

// Name returns the collector's unique identifier.
func (b *SysfsBattery) Name() string { return "battery" }

// Description returns a human-readable description of what this collector reads.
func (b *SysfsBattery) Description() string { return "Battery charge and status from sysfs" }

// Collect stores charge and state in r, keeping the ReadInt sentinels.
func (b *SysfsBattery) Collect(ctx context.Context, r *collectors.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now, err := collectors.ReadInt(b.nowPath)
	if err != nil {
		r.Warn("power: charge now: %v", err)
	}
	full, err := collectors.ReadInt(b.fullPath)
	if err != nil {
		r.Warn("power: charge full: %v", err)
	}
	state, err := collectors.ReadBatteryStatus(b.statusPath)
	if err != nil {
		r.Warn("power: status: %v", err)
	}

	r.BatteryNow = float64(now)
	r.BatteryFull = float64(full)
	r.BatteryState = state

	b.logger.Debug("battery read", "now", now, "full", full, "state", state)
	return nil
}

// SystemBattery reads one battery through github.com/distatus/battery.
type SystemBattery struct {
	logger *slog.Logger
	index  int

	// get is the battery lookup; replaced in tests.
	get func(idx int) (*battery.Battery, error)
}

// NewSystemBattery creates a SystemBattery for the battery at index.
func NewSystemBattery(index int, logger *slog.Logger) *SystemBattery {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SystemBattery{
		logger: logger,
		index:  index,
		get:    battery.Get,
	}
}

// Name returns the collector's unique identifier.
func (b *SystemBattery) Name() string { return "battery" }

// Description returns a human-readable description of what this collector reads.
func (b *SystemBattery) Description() string { return "Battery charge and status from the platform API" }

// Collect stores charge and state in r. A missing battery leaves the -1
// sentinels and an unknown state; a partial read keeps what was returned.
func (b *SystemBattery) Collect(ctx context.Context, r *collectors.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bat, err := b.get(b.index)
	if bat == nil {
		r.BatteryNow, r.BatteryFull = -1, -1
		r.BatteryState = collectors.BatteryUnknown
		r.Warn("power: battery %d: %v", b.index, err)
		b.logger.Debug("battery unavailable", "index", b.index, "error", err)
		return nil
	}
	if err != nil {
		r.Warn("power: battery %d: partial read: %v", b.index, err)
	}

	r.BatteryNow = bat.Current
	r.BatteryFull = bat.Full
	r.BatteryState = stateFromName(bat.State.String())

	b.logger.Debug("battery read", "index", b.index, "now", bat.Current, "full", bat.Full, "state", r.BatteryState)
	return nil
}

// stateFromName maps the library's state names onto BatteryState.
func stateFromName(name string) collectors.BatteryState {
	switch name {
	case "Charging":
		return collectors.BatteryCharging
	case "Discharging":
		return collectors.BatteryDischarging
	case "Full":
		return collectors.BatteryFull
	default:
		return collectors.BatteryUnknown
	}
}

var (
	_ collectors.Collector = (*SysfsBattery)(nil)
	_ collectors.Collector = (*SystemBattery)(nil)
)
