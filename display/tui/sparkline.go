package tui

import (
	"math"
	"strings"
)

// sparkBlocks contains 8 unicode block characters for sparkline rendering,
// ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// maxHistorySamples is the number of CPU samples kept for the sparkline.
const maxHistorySamples = 60

// appendAndTrim appends a value to a history slice and trims it to
// maxHistorySamples, discarding the oldest entries.
func appendAndTrim(history []float64, value float64) []float64 {
	history = append(history, value)
	if len(history) > maxHistorySamples {
		history = history[len(history)-maxHistorySamples:]
	}
	return history
}

// sparkline renders the last width points of data scaled to [0, 100],
// left-padded with spaces when there are fewer points than width.
func sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(data)))
	for _, v := range data {
		normalized := math.Max(0, math.Min(1, v/100))
		idx := int(normalized * float64(len(sparkBlocks)-1))
		sb.WriteRune(sparkBlocks[idx])
	}
	return sb.String()
}
