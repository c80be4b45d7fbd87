// Package lifecycle tracks which phase the process is in so the debug server
// can report it without touching the render loop.
package lifecycle

import "sync/atomic"

// Phase is a coarse process state.
type Phase int32

const (
	PhaseStarting Phase = iota
	PhaseFetching
	PhaseRunning
	PhaseTerminating
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseFetching:
		return "fetching"
	case PhaseRunning:
		return "running"
	case PhaseTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

var current atomic.Int32

// SetPhase records the current phase. Call from main as the program advances.
func SetPhase(p Phase) {
	current.Store(int32(p))
}

// CurrentPhase returns the last phase passed to SetPhase.
func CurrentPhase() Phase {
	return Phase(current.Load())
}

// IsTerminating returns true once the render loop has been asked to stop.
// The health handler returns 503 while true.
func IsTerminating() bool {
	return CurrentPhase() == PhaseTerminating
}
