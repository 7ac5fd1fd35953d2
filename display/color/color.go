// Package color decides whether dwmstatus output is styled.
//
// It implements the NO_COLOR convention (https://no-color.org/) and
// pipe/redirect detection for the "auto" mode.
package color

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Modes accepted by the color option.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// ShouldDisableColor returns true if output to fd should be plain.
// "never" and "always" are absolute; "auto" disables color when NO_COLOR
// is set (any value) or fd is not a terminal.
func ShouldDisableColor(mode string, fd uintptr) bool {
	switch mode {
	case ModeNever:
		return true
	case ModeAlways:
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return true
	}
	return false
}

// Profile returns the termenv profile for mode and fd: Ascii when color is
// disabled, otherwise ANSI.
func Profile(mode string, fd uintptr) termenv.Profile {
	if ShouldDisableColor(mode, fd) {
		return termenv.Ascii
	}
	return termenv.ANSI
}
