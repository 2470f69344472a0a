package dispatch

import (
	"context"
	"fmt"

	streamerrors "github.com/eternisai/socialstream/internal/errors"
)

// Dispatcher invokes a Handler's callbacks inside a fault-isolating
// boundary: a panic inside a callback is recovered and normalized into the
// same BadReturnError a malformed return value would produce (spec §4.3:
// "thrown values and returned values are treated identically").
type Dispatcher struct {
	handler Handler
}

// New wraps handler in a Dispatcher.
func New(handler Handler) *Dispatcher {
	return &Dispatcher{handler: handler}
}

// Init invokes Handler.Init, recovering any panic as a BadReturnError.
func (d *Dispatcher) Init(ctx context.Context, args interface{}) (result Init, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &streamerrors.BadReturnError{Callback: "init", Value: r}
		}
	}()
	return d.handler.Init(ctx, args), nil
}

// HandleStatus invokes Handler.HandleStatus under the same boundary.
func (d *Dispatcher) HandleStatus(ctx context.Context, record interface{}, state interface{}) (result Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &streamerrors.BadReturnError{Callback: "handle_status", Value: r}
		}
	}()
	return d.handler.HandleStatus(ctx, record, state), nil
}

// HandleEvent invokes Handler.HandleEvent under the same boundary.
func (d *Dispatcher) HandleEvent(ctx context.Context, event string, data interface{}, state interface{}) (result Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &streamerrors.BadReturnError{Callback: "handle_event", Value: r}
		}
	}()
	return d.handler.HandleEvent(ctx, event, data, state), nil
}

// HandleCall invokes Handler.HandleCall under the same boundary.
func (d *Dispatcher) HandleCall(ctx context.Context, request interface{}, state interface{}) (result CallOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &streamerrors.BadReturnError{Callback: "handle_call", Value: r}
		}
	}()
	return d.handler.HandleCall(ctx, request, state), nil
}

// HandleInfo invokes Handler.HandleInfo under the same boundary.
func (d *Dispatcher) HandleInfo(ctx context.Context, message interface{}, state interface{}) (result Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &streamerrors.BadReturnError{Callback: "handle_info", Value: r}
		}
	}()
	return d.handler.HandleInfo(ctx, message, state), nil
}

// Terminate invokes Handler.Terminate. A panic here is swallowed rather than
// surfaced as a BadReturnError — terminate is the last callback the session
// ever makes, and there is no further state to report failure against, only
// a best-effort note it fell through (spec §4.4: "terminate ... is given no
// opportunity to affect session state").
func (d *Dispatcher) Terminate(ctx context.Context, reason interface{}, state interface{}) (panicValue interface{}) {
	defer func() {
		if r := recover(); r != nil {
			panicValue = fmt.Errorf("terminate panicked: %v", r)
		}
	}()
	d.handler.Terminate(ctx, reason, state)
	return nil
}
