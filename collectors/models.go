package collectors

import (
	"fmt"
	"time"
)

// ========== Battery State ==========

// BatteryState is the charging state reported by the battery status source.
type BatteryState int

const (
	BatteryCharging BatteryState = iota
	BatteryDischarging
	BatteryUnknown
	BatteryFull
)

// String returns the human-readable name for a BatteryState.
func (s BatteryState) String() string {
	switch s {
	case BatteryCharging:
		return "charging"
	case BatteryDischarging:
		return "discharging"
	case BatteryUnknown:
		return "unknown"
	case BatteryFull:
		return "full"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Symbol returns the one-character marker shown before the battery percentage.
func (s BatteryState) Symbol() string {
	switch s {
	case BatteryCharging:
		return "+"
	case BatteryDischarging:
		return "-"
	case BatteryFull:
		return "="
	default:
		return "?"
	}
}

// BatteryStateFromByte maps the first byte of a status file ("Charging",
// "Discharging", "Full", ...) to a BatteryState.
func BatteryStateFromByte(b byte) BatteryState {
	switch b {
	case 'C':
		return BatteryCharging
	case 'D':
		return BatteryDischarging
	case 'F':
		return BatteryFull
	default:
		return BatteryUnknown
	}
}

// ========== Counters ==========

// CPUCounters is one snapshot of the aggregate CPU time counters, in jiffies.
type CPUCounters struct {
	User   uint64 `json:"user"`
	Nice   uint64 `json:"nice"`
	System uint64 `json:"system"`
	Idle   uint64 `json:"idle"`
}

// Busy returns non-idle time: user + nice + system.
func (c CPUCounters) Busy() uint64 {
	return c.User + c.Nice + c.System
}

// Total returns busy plus idle time.
func (c CPUCounters) Total() uint64 {
	return c.Busy() + c.Idle
}

// MemCounters holds buffer and total memory in bytes.
type MemCounters struct {
	Buffers uint64 `json:"buffers"`
	Total   uint64 `json:"total"`
}

// ========== Reading ==========

// Reading is the raw output of one sampling pass. It lives for a single tick.
type Reading struct {
	// Timestamp records when the pass started.
	Timestamp time.Time `json:"timestamp"`

	// BatteryNow and BatteryFull share whatever unit the source reports.
	// -1 marks an unreadable source.
	BatteryNow   float64      `json:"battery_now"`
	BatteryFull  float64      `json:"battery_full"`
	BatteryState BatteryState `json:"battery_state"`

	// Link is the wireless link name, already truncated.
	Link string `json:"link"`

	// FreqRaw is the raw CPU frequency value, -1 when unreadable.
	FreqRaw int `json:"freq_raw"`

	// CPU holds the counters; CPUValid is false when they could not be read.
	CPU      CPUCounters `json:"cpu"`
	CPUValid bool        `json:"cpu_valid"`

	// Mem holds memory counters; zero when unavailable.
	Mem MemCounters `json:"mem"`

	// Warnings contains non-fatal issues encountered during collection.
	Warnings []string `json:"warnings,omitempty"`
}

// Warn appends a formatted warning to the reading.
func (r *Reading) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
