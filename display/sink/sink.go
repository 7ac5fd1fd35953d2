// Package sink publishes status frames to their destination.
package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/dwmstatus/display/statusline"
)

// Sink receives one frame per tick.
type Sink interface {
	Publish(f statusline.Frame) error
	Close() error
}

// Stdout writes each frame's text followed by a newline. LOW frames are
// rendered bold red unless the profile is Ascii.
type Stdout struct {
	mu      sync.Mutex
	w       io.Writer
	styled  bool
	lowLine lipgloss.Style
}

// NewStdout creates a Stdout sink writing to w with the given color profile.
func NewStdout(w io.Writer, profile termenv.Profile) *Stdout {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Stdout{
		w:       w,
		styled:  profile != termenv.Ascii,
		lowLine: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// Publish writes the frame.
func (s *Stdout) Publish(f statusline.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := f.Text
	if f.Low && s.styled {
		text = s.lowLine.Render(text)
	}
	if _, err := fmt.Fprintln(s.w, text); err != nil {
		return fmt.Errorf("sink: stdout: %w", err)
	}
	return nil
}

// Close is a no-op; the writer belongs to the caller.
func (s *Stdout) Close() error { return nil }

var _ Sink = (*Stdout)(nil)
