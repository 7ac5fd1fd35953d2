// Package format provides shared string and time formatting utilities.
package format

import (
	"fmt"
	"time"
)

// DefaultClockLayout renders as "Mon 14.03.2024 09:05".
const DefaultClockLayout = "Mon 02.01.2006 15:04"

// Clock formats t with layout, falling back to DefaultClockLayout.
// Weekday and month names are always English.
func Clock(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultClockLayout
	}
	return t.Format(layout)
}

// FormatDuration renders a time.Duration as a concise human-readable string.
// Returns strings like "1s", "5m 30s", "2h 15m", "3d 4h".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	if d < time.Second {
		return "0s"
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
