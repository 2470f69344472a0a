// Package dispatch defines the user handler contract (spec §6) and the
// trampoline that invokes it inside a fault-isolating boundary (spec §4.3).
package dispatch

import "context"

// Handler is the six-operation callback contract a caller supplies to drive
// a streaming session (spec §6). Implementations own user_state as an
// opaque value threaded sequentially through every call — no callback
// overlaps another (spec §5).
type Handler interface {
	// Init is invoked once, synchronously, when the session starts.
	Init(ctx context.Context, args interface{}) Init

	// HandleStatus is invoked for every wire record that is not a
	// recognized control event — a status payload passed through verbatim.
	HandleStatus(ctx context.Context, record interface{}, state interface{}) Outcome

	// HandleEvent is invoked for stream_start, stream_end, stream_error,
	// and any server-sent control event (spec §6, GLOSSARY "Event").
	HandleEvent(ctx context.Context, event string, data interface{}, state interface{}) Outcome

	// HandleCall answers a synchronous query issued via the public facade's
	// Call method (spec §4.4.B).
	HandleCall(ctx context.Context, request interface{}, state interface{}) CallOutcome

	// HandleInfo is invoked for any mailbox message the session itself does
	// not recognize.
	HandleInfo(ctx context.Context, message interface{}, state interface{}) Outcome

	// Terminate is invoked exactly once, as the final callback, before the
	// session ends.
	Terminate(ctx context.Context, reason interface{}, state interface{})
}

// Init is the outcome of Handler.Init: either continue with a user_state,
// stop before ever opening a request, or silently decline to start.
type Init struct {
	kind  initKind
	State interface{}
	Reason interface{}
}

type initKind int

const (
	initContinue initKind = iota
	initStop
	initIgnore
)

// InitContinue starts the session with the given initial user_state.
func InitContinue(state interface{}) Init { return Init{kind: initContinue, State: state} }

// InitStop ends the session immediately with reason, before any request is
// opened (spec §3: "Lifecycles").
func InitStop(reason interface{}) Init { return Init{kind: initStop, Reason: reason} }

// InitIgnore ends the session immediately with no error, no request ever
// opened (spec §3).
func InitIgnore() Init { return Init{kind: initIgnore} }

func (i Init) IsStop() bool   { return i.kind == initStop }
func (i Init) IsIgnore() bool { return i.kind == initIgnore }

// Outcome is the normalized result of HandleStatus / HandleEvent /
// HandleInfo: either continue with a new user_state, or stop with a reason
// and a final user_state (spec §4.3).
type Outcome struct {
	stop   bool
	State  interface{}
	Reason interface{}
}

// Continue carries the session forward with the given new user_state.
func Continue(state interface{}) Outcome { return Outcome{stop: false, State: state} }

// Stop ends the session with reason, committing state as the final
// user_state (spec §4.4: "Handler return policy").
func Stop(reason interface{}, state interface{}) Outcome {
	return Outcome{stop: true, Reason: reason, State: state}
}

func (o Outcome) IsStop() bool { return o.stop }

// CallOutcome is the normalized result of HandleCall: either an ok reply
// that keeps the session running, or a reply followed by termination
// (spec §4.4.B).
type CallOutcome struct {
	stop  bool
	Reply interface{}
	State interface{}
	Reason interface{}
}

// CallOK answers a synchronous call without stopping the session.
func CallOK(reply interface{}, state interface{}) CallOutcome {
	return CallOutcome{stop: false, Reply: reply, State: state}
}

// CallStop answers a synchronous call and then stops the session.
func CallStop(reason interface{}, reply interface{}, state interface{}) CallOutcome {
	return CallOutcome{stop: true, Reason: reason, Reply: reply, State: state}
}

func (c CallOutcome) IsStop() bool { return c.stop }
