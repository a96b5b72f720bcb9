package protocol

import "fmt"

type stateKind uint8

const (
	stateNew stateKind = iota
	stateClientInfoSent
	stateFailure
)

// State is the server handshake state. It is a small value type; compare
// with ==.
type State struct {
	kind   stateKind
	reason string
}

var (
	// StateNew is the initial state of every connection.
	StateNew = State{kind: stateNew}
	// StateClientInfoSent is entered after replying to the server-hello.
	StateClientInfoSent = State{kind: stateClientInfoSent}
)

// Failure returns the terminal state with the given reason.
func Failure(reason string) State {
	return State{kind: stateFailure, reason: reason}
}

// IsFailure reports whether the state is terminal.
func (s State) IsFailure() bool { return s.kind == stateFailure }

// FailureReason returns the reason for a Failure state, or "" otherwise.
func (s State) FailureReason() string { return s.reason }

func (s State) String() string {
	switch s.kind {
	case stateNew:
		return "New"
	case stateClientInfoSent:
		return "ClientInfoSent"
	case stateFailure:
		return fmt.Sprintf("Failure(%s)", s.reason)
	default:
		return fmt.Sprintf("State(%d)", s.kind)
	}
}

// StateTransition is the result of feeding one message to the state machine:
// the next state plus the side effects the caller must execute, in order.
type StateTransition struct {
	State   State
	Actions []HandleAction
}

// transition wraps a bare state into a transition with no actions.
func transition(s State) StateTransition {
	return StateTransition{State: s}
}
