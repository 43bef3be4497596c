package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle stage of one pipeline run.
type State string

const (
	StateReceived    State = "received"
	StateNormalizing State = "normalizing"
	StateRecognizing State = "recognizing"
	StateFormatting  State = "formatting"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

// transitions lists the single legal successor chain; any state may also
// move to StateFailed. Completed and Failed are terminal, no stage is
// ever re-entered.
var transitions = map[State]State{
	StateReceived:    StateNormalizing,
	StateNormalizing: StateRecognizing,
	StateRecognizing: StateFormatting,
	StateFormatting:  StateCompleted,
}

// Run tracks one end-to-end pipeline invocation.
type Run struct {
	ID         string
	State      State
	Reason     string // failure reason, set on StateFailed
	ReceivedAt time.Time
}

func newRun() *Run {
	return &Run{
		ID:         uuid.New().String(),
		State:      StateReceived,
		ReceivedAt: time.Now(),
	}
}

// advance moves the run to the next stage, rejecting skips, re-entry and
// movement out of a terminal state.
func (r *Run) advance(next State) error {
	if transitions[r.State] != next {
		return fmt.Errorf("pipeline: illegal transition %s -> %s", r.State, next)
	}
	r.State = next
	return nil
}

// fail marks the run failed with the given reason. Failing a terminal
// run is a no-op.
func (r *Run) fail(reason string) {
	if r.State == StateCompleted || r.State == StateFailed {
		return
	}
	r.State = StateFailed
	r.Reason = reason
}
