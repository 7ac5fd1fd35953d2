package collectors

// CPUUtilization returns the share of busy time between two snapshots as a
// percentage. A zero previous total marks the first observation and yields 0,
// as does a total that did not advance.
func CPUUtilization(prevBusy, prevTotal, curBusy, curTotal uint64) float64 {
	if prevTotal == 0 || curTotal <= prevTotal {
		return 0
	}
	var deltaBusy uint64
	if curBusy > prevBusy {
		deltaBusy = curBusy - prevBusy
	}
	return float64(deltaBusy) / float64(curTotal-prevTotal) * 100.0
}

// BatteryPercent returns now/full*100. An unreadable source (negative
// sentinel) or a non-positive full charge yields 0. The result is not
// clamped; a worn battery can report more than 100.
func BatteryPercent(now, full float64) float64 {
	if full <= 0 || now < 0 {
		return 0
	}
	return now / full * 100.0
}

// MemoryPercent returns buffers/total*100, or 0 when total is unknown.
func MemoryPercent(buffers, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(buffers) / float64(total) * 100.0
}

// FrequencyGHz scales the raw frequency reading (kHz) to GHz.
// Unreadable sources (negative) render as 0.
func FrequencyGHz(raw int) float64 {
	if raw < 0 {
		return 0
	}
	return float64(raw) / 1000.0 / 1000.0
}

// CPUTracker carries the previous busy/total pair between ticks.
// The zero value is ready to use.
type CPUTracker struct {
	prevBusy  uint64
	prevTotal uint64
}

// Observe computes utilisation against the previous snapshot and stores c
// as the new baseline.
func (t *CPUTracker) Observe(c CPUCounters) float64 {
	busy, total := c.Busy(), c.Total()
	pct := CPUUtilization(t.prevBusy, t.prevTotal, busy, total)
	t.prevBusy = busy
	t.prevTotal = total
	return pct
}

// Primed reports whether a baseline snapshot has been recorded.
func (t *CPUTracker) Primed() bool {
	return t.prevTotal != 0
}
