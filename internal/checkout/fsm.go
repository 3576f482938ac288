package checkout

import (
	"fmt"

	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
)

// State is the checkout session lifecycle position.
type State string

const (
	StateCollectingInfo  State = "collecting_info"
	StateAwaitingPayment State = "awaiting_payment"
	StateConfirmed       State = "confirmed"
	StateTimedOut        State = "timed_out"
	StateClosed          State = "closed"
)

// Event drives state transitions. All transitions flow through Reduce.
type Event string

const (
	EventSubmit             Event = "submit"
	EventPaymentAuthorized  Event = "payment_authorized"
	EventPollCeilingReached Event = "poll_ceiling_reached"
	EventClose              Event = "close"
)

// Terminal reports whether the session can no longer move except by closing.
func (s State) Terminal() bool {
	switch s {
	case StateConfirmed, StateTimedOut, StateClosed:
		return true
	}
	return false
}

// Reduce is the pure transition function. It holds no session data and has no
// side effects; callers own persistence of the returned state.
func Reduce(state State, event Event) (State, error) {
	if event == EventClose {
		// Closing discards the session from any position.
		return StateClosed, nil
	}

	switch state {
	case StateCollectingInfo:
		if event == EventSubmit {
			return StateAwaitingPayment, nil
		}
	case StateAwaitingPayment:
		switch event {
		case EventPaymentAuthorized:
			return StateConfirmed, nil
		case EventPollCeilingReached:
			return StateTimedOut, nil
		}
	}

	return state, pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("event %s not allowed in state %s", event, state))
}
