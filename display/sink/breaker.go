package sink

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/dwmstatus/display/statusline"
)

// Compile-time check: Breaker satisfies the Sink interface.
var _ Sink = (*Breaker)(nil)

// BreakerState represents the circuit breaker state.
type BreakerState int

const (
	// BreakerClosed is normal operation; frames go to the inner sink.
	BreakerClosed BreakerState = iota
	// BreakerOpen means the inner sink was dropped after repeated failures.
	BreakerOpen
	// BreakerHalfOpen is a probe: the sink is reopened and one frame is tried.
	BreakerHalfOpen
)

// String returns the human-readable state name.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Opener opens a fresh inner sink.
type Opener func() (Sink, error)

// BreakerConfig configures the circuit breaker behavior.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive publish failures before the
	// inner sink is closed.
	MaxFailures int
	// ResetTimeout is the initial wait before reopening the inner sink.
	ResetTimeout time.Duration
	// MaxResetTimeout caps the exponential backoff.
	MaxResetTimeout time.Duration
	// BackoffMultiplier is the factor by which ResetTimeout grows on each failed probe.
	BackoffMultiplier float64
	// Logger for breaker events. Nil is safe (a discard logger is used).
	Logger *slog.Logger
}

// DefaultBreakerConfig returns defaults suited to a one second tick.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:       3,
		ResetTimeout:      5 * time.Second,
		MaxResetTimeout:   2 * time.Minute,
		BackoffMultiplier: 2.0,
	}
}

// Breaker wraps a Sink that can be reopened, such as an X display
// connection. After MaxFailures consecutive failures the inner sink is
// closed and frames are dropped until the timeout elapses, then the sink is
// reopened and probed with the next frame.
type Breaker struct {
	open   Opener
	config BreakerConfig
	logger *slog.Logger
	now    func() time.Time

	mu             sync.Mutex
	inner          Sink
	state          BreakerState
	failures       int
	lastFailure    time.Time
	currentTimeout time.Duration
	dropped        int
}

// NewBreaker opens the inner sink once. A failure here is returned so that
// a misconfigured sink fails at startup.
func NewBreaker(open Opener, cfg BreakerConfig) (*Breaker, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = 1
	}
	inner, err := open()
	if err != nil {
		return nil, err
	}
	return &Breaker{
		open:           open,
		config:         cfg,
		logger:         logger,
		now:            time.Now,
		inner:          inner,
		state:          BreakerClosed,
		currentTimeout: cfg.ResetTimeout,
	}, nil
}

// Publish forwards f to the inner sink. While the breaker is open frames
// are dropped and Publish returns nil.
func (b *Breaker) Publish(f statusline.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		if b.inner == nil {
			return fmt.Errorf("sink: breaker closed")
		}
		if err := b.inner.Publish(f); err != nil {
			b.recordFailure()
			return err
		}
		b.failures = 0
		return nil

	case BreakerOpen:
		elapsed := b.now().Sub(b.lastFailure)
		if elapsed < b.currentTimeout {
			b.dropped++
			b.logger.Debug("sink breaker open, dropping frame",
				"failures", b.failures,
				"retry_in", b.currentTimeout-elapsed,
			)
			return nil
		}
		b.state = BreakerHalfOpen
		b.logger.Info("sink breaker transitioning to half-open")
		return b.probe(f)

	case BreakerHalfOpen:
		return b.probe(f)

	default:
		return fmt.Errorf("sink: breaker in unknown state: %d", b.state)
	}
}

// probe reopens the inner sink and publishes f through it.
func (b *Breaker) probe(f statusline.Frame) error {
	inner, err := b.open()
	if err != nil {
		b.reopen()
		return fmt.Errorf("sink: reopen: %w", err)
	}
	if err := inner.Publish(f); err != nil {
		inner.Close()
		b.reopen()
		return err
	}

	b.inner = inner
	b.state = BreakerClosed
	b.failures = 0
	b.dropped = 0
	b.currentTimeout = b.config.ResetTimeout
	b.logger.Info("sink breaker closed after successful probe")
	return nil
}

// reopen returns to the open state with a longer timeout. Caller holds mu.
func (b *Breaker) reopen() {
	b.failures++
	b.lastFailure = b.now()
	b.currentTimeout = time.Duration(float64(b.currentTimeout) * b.config.BackoffMultiplier)
	if b.currentTimeout > b.config.MaxResetTimeout {
		b.currentTimeout = b.config.MaxResetTimeout
	}
	b.state = BreakerOpen
	b.logger.Warn("sink breaker re-opened after failed probe",
		"failures", b.failures,
		"next_timeout", b.currentTimeout,
	)
}

// recordFailure counts a closed-state failure and opens the breaker at the
// limit. Caller holds mu.
func (b *Breaker) recordFailure() {
	b.failures++
	b.lastFailure = b.now()
	if b.failures < b.config.MaxFailures {
		return
	}
	if err := b.inner.Close(); err != nil {
		b.logger.Debug("closing failed sink", "error", err)
	}
	b.inner = nil
	b.state = BreakerOpen
	b.currentTimeout = b.config.ResetTimeout
	b.logger.Warn("sink breaker opened",
		"failures", b.failures,
		"timeout", b.currentTimeout,
	)
}

// State returns the current breaker state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Dropped returns the number of frames dropped since the breaker last closed.
func (b *Breaker) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close closes the inner sink, if one is open.
func (b *Breaker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inner == nil {
		return nil
	}
	err := b.inner.Close()
	b.inner = nil
	return err
}
