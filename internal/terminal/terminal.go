// Package terminal owns the screen while the program runs: alternate screen,
// raw input and drawing frames with termui.
package terminal

import (
	"fmt"
	"time"

	ui "github.com/gizak/termui/v3"

	"github.com/kjstillabower/weather-tui/internal/render"
	"github.com/kjstillabower/weather-tui/internal/view"
)

// Error reports a setup or teardown failure of the terminal.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Terminal implements render.Surface on the real terminal.
type Terminal struct {
	events <-chan ui.Event
}

var _ render.Surface = (*Terminal)(nil)

// Open switches to the alternate screen and raw input mode. The caller must
// defer Close on success.
func Open() (*Terminal, error) {
	if err := ui.Init(); err != nil {
		return nil, &Error{Op: "init", Err: err}
	}
	return &Terminal{events: ui.PollEvents()}, nil
}

// Close restores the terminal state that was active before Open.
func (t *Terminal) Close() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Op: "close", Err: fmt.Errorf("%v", r)}
		}
	}()
	ui.Close()
	return nil
}

// Draw lays f out for the current terminal size and renders it.
func (t *Terminal) Draw(f view.Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw: %v", r)
		}
	}()
	width, height := ui.TerminalDimensions()
	ui.Clear()
	ui.Render(Layout(f, width, height)...)
	return nil
}

// Poll waits up to timeout for one terminal event.
func (t *Terminal) Poll(timeout time.Duration) (render.Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e, ok := <-t.events:
		if !ok {
			// Reader goroutine ended; a nil channel keeps later polls on the timer.
			t.events = nil
			return render.Event{}, false
		}
		return toEvent(e), true
	case <-timer.C:
		return render.Event{}, false
	}
}

func toEvent(e ui.Event) render.Event {
	if e.Type == ui.KeyboardEvent {
		return render.Event{Kind: render.EventKeyPress, Key: e.ID}
	}
	return render.Event{Kind: render.EventOther, Key: e.ID}
}
