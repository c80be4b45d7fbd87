// Package render runs the draw/poll loop over a fixed frame.
package render

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-tui/internal/observability"
	"github.com/kjstillabower/weather-tui/internal/view"
)

const (
	DefaultPollTimeout = 50 * time.Millisecond
	DefaultQuitKey     = "q"
)

// State is the loop state (Running, Terminating).
type State int

const (
	StateRunning State = iota
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// EventKind distinguishes key presses from everything else the terminal reports.
type EventKind int

const (
	EventOther EventKind = iota
	EventKeyPress
)

func (k EventKind) String() string {
	if k == EventKeyPress {
		return "key_press"
	}
	return "other"
}

// Event is one input event observed during a poll.
type Event struct {
	Kind EventKind
	Key  string
}

// Surface is where frames are drawn and input is read.
type Surface interface {
	Draw(f view.Frame) error
	// Poll waits up to timeout for one event. ok is false when none arrived.
	Poll(timeout time.Duration) (ev Event, ok bool)
}

// TerminalError wraps a failure to draw on the surface.
type TerminalError struct {
	Err error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal: %v", e.Err)
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// Options configure a Loop. Zero values take the defaults.
type Options struct {
	PollTimeout time.Duration
	QuitKey     string
}

// Loop redraws the same frame until the quit key is pressed or the context ends.
type Loop struct {
	surface     Surface
	frame       view.Frame
	pollTimeout time.Duration
	quitKey     string
	logger      *zap.Logger
	state       State
	frames      int
}

func NewLoop(surface Surface, frame view.Frame, opts Options, logger *zap.Logger) *Loop {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	if opts.QuitKey == "" {
		opts.QuitKey = DefaultQuitKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		surface:     surface,
		frame:       frame,
		pollTimeout: opts.PollTimeout,
		quitKey:     opts.QuitKey,
		logger:      logger,
		state:       StateRunning,
	}
}

// Run draws one frame and polls once per iteration while Running. It returns nil
// after the quit key or context cancellation, and a *TerminalError if a draw fails.
// No draw happens after the transition to Terminating.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("render loop started",
		zap.String("mode", l.frame.Mode.String()),
		zap.Duration("poll_timeout", l.pollTimeout),
		zap.String("quit_key", l.quitKey))

	for l.state == StateRunning {
		if err := l.surface.Draw(l.frame); err != nil {
			l.state = StateTerminating
			return &TerminalError{Err: err}
		}
		l.frames++
		observability.FramesRenderedTotal.Inc()

		l.state = l.step(ctx)
	}

	l.logger.Info("render loop stopped", zap.Int("frames", l.frames))
	return nil
}

// step polls once and returns the next state.
func (l *Loop) step(ctx context.Context) State {
	ev, ok := l.surface.Poll(l.pollTimeout)
	if ok {
		observability.InputEventsTotal.WithLabelValues(ev.Kind.String()).Inc()
		if ev.Kind == EventKeyPress && ev.Key == l.quitKey {
			l.logger.Info("quit key pressed", zap.String("key", ev.Key))
			return StateTerminating
		}
	}
	if err := ctx.Err(); err != nil {
		l.logger.Info("render loop interrupted", zap.Error(err))
		return StateTerminating
	}
	return StateRunning
}

// State returns the current loop state.
func (l *Loop) State() State {
	return l.state
}

// Frames returns how many frames have been drawn.
func (l *Loop) Frames() int {
	return l.frames
}
