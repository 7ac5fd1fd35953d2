// Package statusline assembles the single status line from derived metrics
// and the guard's decision.
package statusline

import (
	"fmt"
	"math"
	"time"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
	"gitlab.com/tinyland/lab/dwmstatus/internal/format"
	"gitlab.com/tinyland/lab/dwmstatus/status"
)

// Metrics holds the derived values of one tick.
type Metrics struct {
	CPU      float64 // Utilisation percent since the previous tick
	FreqGHz  float64
	RAM      float64 // Buffer memory percent
	Link     string
	State    collectors.BatteryState
	Battery  float64 // Uncapped battery percent
	DateTime string
}

// FromReading derives Metrics from a Reading. cpu is the utilisation
// already computed by the caller's tracker.
func FromReading(r *collectors.Reading, cpu float64, layout string) Metrics {
	return Metrics{
		CPU:      cpu,
		FreqGHz:  collectors.FrequencyGHz(r.FreqRaw),
		RAM:      collectors.MemoryPercent(r.Mem.Buffers, r.Mem.Total),
		Link:     r.Link,
		State:    r.BatteryState,
		Battery:  collectors.BatteryPercent(r.BatteryNow, r.BatteryFull),
		DateTime: format.Clock(r.Timestamp, layout),
	}
}

// Normal renders the full metrics line. Battery is capped at 100 for display.
func Normal(m Metrics) string {
	return fmt.Sprintf("cpu %.1f%% %.1f GHz | ram %.0f%% | wifi %s | %s%.0f%% | %s",
		m.CPU, m.FreqGHz, m.RAM, m.Link, m.State.Symbol(), math.Min(m.Battery, 100), m.DateTime)
}

// Low renders the low-battery warning. The percentage is not capped.
func Low(percent float64, armed bool, remaining int) string {
	if armed {
		return fmt.Sprintf("LOW BATTERY: remaining %.1f%% suspending after %d ", percent, remaining)
	}
	return fmt.Sprintf("!!! LOW BATTERY !!! remaining %.1f%%", percent)
}

// Frame is what sinks publish: the rendered line plus the values behind it.
type Frame struct {
	Text      string
	Low       bool
	Metrics   Metrics
	Decision  status.Decision
	Timestamp time.Time
}

// Build renders the line for d and wraps it in a Frame.
func Build(m Metrics, d status.Decision, ts time.Time) Frame {
	f := Frame{Metrics: m, Decision: d, Timestamp: ts}
	if d.State == status.StateLow {
		f.Low = true
		f.Text = Low(d.Percent, d.SuspendArmed, d.Remaining)
	} else {
		f.Text = Normal(m)
	}
	return f
}
