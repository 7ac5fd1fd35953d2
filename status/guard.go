// Package status holds the low-battery guard: the NORMAL/LOW state machine
// that decides which status line is shown and when to suspend.
package status

import (
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// State is the guard's view of the battery.
type State int

const (
	StateNormal State = iota // Show the full metrics line
	StateLow                 // Discharging below threshold
)

// String returns the human-readable name for a State.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateLow:
		return "low"
	default:
		return "unknown"
	}
}

// Suspender starts the system suspend action. Implementations must not
// wait for the action to finish.
type Suspender interface {
	Suspend() error
}

// GuardConfig holds the guard thresholds.
type GuardConfig struct {
	Threshold float64 // Percent below which a discharging battery is low. Default: 5
	Timeout   int     // Ticks spent low before suspending. Default: 40
	Suspend   bool    // Whether the countdown and suspend are armed
}

// DefaultGuardConfig returns sensible defaults.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Threshold: 5,
		Timeout:   40,
		Suspend:   false,
	}
}

// Decision is the outcome of one Observe call.
type Decision struct {
	State   State
	Percent float64
	// Remaining is Timeout minus the timer before this tick's increment.
	// Only meaningful while LOW with suspend armed.
	Remaining int
	// SuspendArmed reports whether the countdown is shown.
	SuspendArmed bool
	// Suspended is true on the tick the suspender was invoked.
	Suspended bool
}

// Guard tracks the low-battery timer across ticks. It is owned by the
// sampling loop and is not safe for concurrent use.
type Guard struct {
	config    GuardConfig
	suspender Suspender
	logger    *slog.Logger

	state State
	timer int
}

// NewGuard creates a Guard. A nil suspender disables suspend regardless of
// cfg.Suspend. Non-positive thresholds take the defaults. If logger is nil,
// a no-op logger is used.
func NewGuard(cfg GuardConfig, suspender Suspender, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	defaults := DefaultGuardConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = defaults.Threshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if suspender == nil {
		cfg.Suspend = false
	}
	return &Guard{
		config:    cfg,
		suspender: suspender,
		logger:    logger,
		state:     StateNormal,
	}
}

// Observe advances the guard by one tick.
func (g *Guard) Observe(state collectors.BatteryState, percent float64) Decision {
	d := Decision{Percent: percent, SuspendArmed: g.config.Suspend}

	if state != collectors.BatteryDischarging || percent >= g.config.Threshold {
		if g.state == StateLow {
			g.logger.Info("battery recovered", "state", state, "percent", percent)
		}
		g.state = StateNormal
		g.timer = 0
		d.State = StateNormal
		return d
	}

	if g.state != StateLow {
		g.logger.Warn("battery low", "percent", percent, "threshold", g.config.Threshold)
	}
	g.state = StateLow
	d.State = StateLow

	if !g.config.Suspend {
		return d
	}

	d.Remaining = g.config.Timeout - g.timer
	g.timer++
	if g.timer >= g.config.Timeout {
		g.timer = 0
		d.Suspended = true
		g.logger.Warn("suspending on low battery", "percent", percent)
		if err := g.suspender.Suspend(); err != nil {
			g.logger.Error("suspend failed", "error", err)
		}
	}
	return d
}
