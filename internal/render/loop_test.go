package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kjstillabower/weather-tui/internal/view"
)

// fakeSurface replays scripted poll results and records draws.
type fakeSurface struct {
	events   []*Event // nil entry means the poll timed out
	polls    int
	draws    int
	drawErr  error
	timeouts []time.Duration
	onPoll   func(n int)
	log      []string
}

func (s *fakeSurface) Draw(f view.Frame) error {
	s.draws++
	s.log = append(s.log, "draw")
	return s.drawErr
}

func (s *fakeSurface) Poll(timeout time.Duration) (Event, bool) {
	s.polls++
	s.log = append(s.log, "poll")
	s.timeouts = append(s.timeouts, timeout)
	if s.onPoll != nil {
		s.onPoll(s.polls)
	}
	if len(s.events) == 0 {
		return Event{}, false
	}
	ev := s.events[0]
	s.events = s.events[1:]
	if ev == nil {
		return Event{}, false
	}
	return *ev, true
}

func key(k string) *Event {
	return &Event{Kind: EventKeyPress, Key: k}
}

func TestState_String(t *testing.T) {
	if StateRunning.String() != "running" || StateTerminating.String() != "terminating" || State(9).String() != "unknown" {
		t.Error("State.String() mismatch")
	}
}

func TestNewLoop_Defaults(t *testing.T) {
	l := NewLoop(&fakeSurface{}, view.Frame{}, Options{}, nil)
	if l.pollTimeout != DefaultPollTimeout {
		t.Errorf("pollTimeout = %v, want %v", l.pollTimeout, DefaultPollTimeout)
	}
	if l.quitKey != DefaultQuitKey {
		t.Errorf("quitKey = %q, want %q", l.quitKey, DefaultQuitKey)
	}
	if l.State() != StateRunning {
		t.Errorf("initial State() = %v, want running", l.State())
	}
}

func TestLoop_QuitKeyStopsAfterCurrentFrame(t *testing.T) {
	s := &fakeSurface{events: []*Event{nil, key("x"), {Kind: EventOther}, key("q"), key("x")}}
	l := NewLoop(s, view.Frame{}, Options{}, nil)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.draws != 4 || s.polls != 4 {
		t.Errorf("draws = %d, polls = %d; want 4 and 4", s.draws, s.polls)
	}
	if last := s.log[len(s.log)-1]; last != "poll" {
		t.Errorf("last surface call = %q, want poll (no draw after quit)", last)
	}
	if l.State() != StateTerminating {
		t.Errorf("State() = %v, want terminating", l.State())
	}
	if l.Frames() != 4 {
		t.Errorf("Frames() = %d, want 4", l.Frames())
	}
}

func TestLoop_DrawThenPollEachIteration(t *testing.T) {
	s := &fakeSurface{events: []*Event{nil, nil, key("q")}}
	if err := NewLoop(s, view.Frame{}, Options{PollTimeout: 10 * time.Millisecond}, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"draw", "poll", "draw", "poll", "draw", "poll"}
	if len(s.log) != len(want) {
		t.Fatalf("log = %v, want %v", s.log, want)
	}
	for i := range want {
		if s.log[i] != want[i] {
			t.Fatalf("log = %v, want %v", s.log, want)
		}
	}
	for _, timeout := range s.timeouts {
		if timeout != 10*time.Millisecond {
			t.Errorf("poll timeout = %v, want 10ms", timeout)
		}
	}
}

func TestLoop_CustomQuitKey(t *testing.T) {
	s := &fakeSurface{events: []*Event{key("q"), key("<Escape>")}}
	if err := NewLoop(s, view.Frame{}, Options{QuitKey: "<Escape>"}, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.draws != 2 {
		t.Errorf("draws = %d, want 2 ('q' is not the quit key)", s.draws)
	}
}

func TestLoop_NonKeyEventWithQuitIDDoesNotQuit(t *testing.T) {
	s := &fakeSurface{events: []*Event{{Kind: EventOther, Key: "q"}, key("q")}}
	if err := NewLoop(s, view.Frame{}, Options{}, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.draws != 2 {
		t.Errorf("draws = %d, want 2", s.draws)
	}
}

func TestLoop_ContextCancelTerminates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &fakeSurface{onPoll: func(n int) {
		if n == 3 {
			cancel()
		}
	}}

	if err := NewLoop(s, view.Frame{}, Options{}, nil).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.draws != 3 {
		t.Errorf("draws = %d, want 3", s.draws)
	}
}

func TestLoop_DrawErrorIsTerminalError(t *testing.T) {
	cause := errors.New("screen gone")
	s := &fakeSurface{drawErr: cause}
	l := NewLoop(s, view.Frame{}, Options{}, nil)

	err := l.Run(context.Background())
	var termErr *TerminalError
	if !errors.As(err, &termErr) {
		t.Fatalf("Run() error = %v, want *TerminalError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Run() error = %v, want it to wrap %v", err, cause)
	}
	if s.polls != 0 {
		t.Errorf("polls = %d, want 0 after failed draw", s.polls)
	}
	if l.State() != StateTerminating {
		t.Errorf("State() = %v, want terminating", l.State())
	}
}

func TestLoop_DrawsSameFrame(t *testing.T) {
	frame := view.Frame{Title: "Weather Info", Text: "Temperature: 77.5°F"}
	var seen []view.Frame
	s := &recordingSurface{fakeSurface: fakeSurface{events: []*Event{nil, key("q")}}, seen: &seen}
	if err := NewLoop(s, frame, Options{}, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, f := range seen {
		if f.Title != frame.Title || f.Text != frame.Text {
			t.Errorf("drew %+v, want %+v", f, frame)
		}
	}
}

type recordingSurface struct {
	fakeSurface
	seen *[]view.Frame
}

func (s *recordingSurface) Draw(f view.Frame) error {
	*s.seen = append(*s.seen, f)
	return s.fakeSurface.Draw(f)
}
