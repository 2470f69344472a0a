package dispatch

import (
	"context"
	"errors"
	"testing"

	streamerrors "github.com/eternisai/socialstream/internal/errors"
)

type fakeHandler struct {
	initFn         func(ctx context.Context, args interface{}) Init
	handleStatusFn func(ctx context.Context, record, state interface{}) Outcome
	handleEventFn  func(ctx context.Context, event string, data, state interface{}) Outcome
	handleCallFn   func(ctx context.Context, request, state interface{}) CallOutcome
	handleInfoFn   func(ctx context.Context, message, state interface{}) Outcome
	terminateFn    func(ctx context.Context, reason, state interface{})
}

func (f *fakeHandler) Init(ctx context.Context, args interface{}) Init {
	return f.initFn(ctx, args)
}

func (f *fakeHandler) HandleStatus(ctx context.Context, record interface{}, state interface{}) Outcome {
	return f.handleStatusFn(ctx, record, state)
}

func (f *fakeHandler) HandleEvent(ctx context.Context, event string, data interface{}, state interface{}) Outcome {
	return f.handleEventFn(ctx, event, data, state)
}

func (f *fakeHandler) HandleCall(ctx context.Context, request interface{}, state interface{}) CallOutcome {
	return f.handleCallFn(ctx, request, state)
}

func (f *fakeHandler) HandleInfo(ctx context.Context, message interface{}, state interface{}) Outcome {
	return f.handleInfoFn(ctx, message, state)
}

func (f *fakeHandler) Terminate(ctx context.Context, reason interface{}, state interface{}) {
	if f.terminateFn != nil {
		f.terminateFn(ctx, reason, state)
	}
}

func TestDispatcherInitNormalReturn(t *testing.T) {
	h := &fakeHandler{initFn: func(ctx context.Context, args interface{}) Init {
		return InitContinue("ready")
	}}
	result, err := New(h).Init(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsStop() || result.IsIgnore() || result.State != "ready" {
		t.Fatalf("result = %+v, want continue with state 'ready'", result)
	}
}

func TestDispatcherInitPanicBecomesBadReturn(t *testing.T) {
	h := &fakeHandler{initFn: func(ctx context.Context, args interface{}) Init {
		panic("boom")
	}}
	_, err := New(h).Init(context.Background(), nil)
	var badReturn *streamerrors.BadReturnError
	if !errors.As(err, &badReturn) {
		t.Fatalf("err = %v, want *BadReturnError", err)
	}
	if badReturn.Callback != "init" {
		t.Fatalf("callback = %q, want init", badReturn.Callback)
	}
}

func TestDispatcherHandleStatusPanicIsolated(t *testing.T) {
	h := &fakeHandler{handleStatusFn: func(ctx context.Context, record, state interface{}) Outcome {
		panic(errors.New("bad status"))
	}}
	_, err := New(h).HandleStatus(context.Background(), map[string]string{"text": "hi"}, "state")
	var badReturn *streamerrors.BadReturnError
	if !errors.As(err, &badReturn) || badReturn.Callback != "handle_status" {
		t.Fatalf("err = %v, want *BadReturnError for handle_status", err)
	}
}

func TestDispatcherHandleCallStopCarriesReplyAndReason(t *testing.T) {
	h := &fakeHandler{handleCallFn: func(ctx context.Context, request, state interface{}) CallOutcome {
		return CallStop("done", "final-reply", "final-state")
	}}
	result, err := New(h).HandleCall(context.Background(), "query", "state")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsStop() || result.Reply != "final-reply" || result.Reason != "done" {
		t.Fatalf("result = %+v, want stop with reply/reason set", result)
	}
}

func TestDispatcherTerminateSwallowsPanic(t *testing.T) {
	h := &fakeHandler{terminateFn: func(ctx context.Context, reason, state interface{}) {
		panic("terminate exploded")
	}}
	panicValue := New(h).Terminate(context.Background(), "shutdown", "state")
	if panicValue == nil {
		t.Fatalf("expected a non-nil diagnostic value for the recovered panic")
	}
}

func TestDispatcherTerminateNormalReturn(t *testing.T) {
	called := false
	h := &fakeHandler{terminateFn: func(ctx context.Context, reason, state interface{}) {
		called = true
	}}
	if panicValue := New(h).Terminate(context.Background(), "shutdown", "state"); panicValue != nil {
		t.Fatalf("unexpected panic value: %v", panicValue)
	}
	if !called {
		t.Fatalf("expected terminate to be invoked")
	}
}
