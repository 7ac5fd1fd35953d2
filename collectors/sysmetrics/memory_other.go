//go:build !linux

package sysmetrics

import (
	"errors"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// readMemCounters is unsupported off Linux; the ram field renders as 0%.
func readMemCounters() (collectors.MemCounters, error) {
	return collectors.MemCounters{}, errors.New("buffer memory not supported on this platform")
}
