package tui

import (
	"errors"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"gitlab.com/tinyland/lab/dwmstatus/display/statusline"
)

// Sink runs the dashboard program on its own goroutine and forwards frames
// to it by message passing.
type Sink struct {
	program *tea.Program
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// ErrNotTerminal is returned by NewSink when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("tui: stdin and stdout must be a terminal")

// NewSink starts the dashboard in the alternate screen. onExit, if set, is
// called once the program stops for any reason (typically the quit key),
// so the caller can cancel its sampling loop.
func NewSink(onExit func()) (*Sink, error) {
	if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
		return nil, ErrNotTerminal
	}
	return Start(onExit, tea.WithAltScreen()), nil
}

// Start runs a program over NewModel with opts. It performs no terminal
// checks, so tests can pass their own input and output.
func Start(onExit func(), opts ...tea.ProgramOption) *Sink {
	s := &Sink{
		program: tea.NewProgram(NewModel(), opts...),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		_, err := s.program.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			s.mu.Lock()
			s.err = fmt.Errorf("tui: %w", err)
			s.mu.Unlock()
		}
		if onExit != nil {
			onExit()
		}
	}()
	return s
}

// Publish hands f to the program. It never blocks once the program has exited.
func (s *Sink) Publish(f statusline.Frame) error {
	select {
	case <-s.done:
		return errors.New("tui: program exited")
	default:
	}
	s.program.Send(FrameMsg{Frame: f})
	return nil
}

// Close stops the program, restores the terminal and returns any run error.
func (s *Sink) Close() error {
	s.program.Quit()
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
