package stream

import (
	"context"
	"errors"
	"testing"

	streamerrors "github.com/eternisai/socialstream/internal/errors"
)

type noopHandler struct{}

func (noopHandler) Init(ctx context.Context, args interface{}) Init { return InitContinue(nil) }
func (noopHandler) HandleStatus(ctx context.Context, record interface{}, state interface{}) Outcome {
	return Continue(state)
}
func (noopHandler) HandleEvent(ctx context.Context, event string, data interface{}, state interface{}) Outcome {
	return Continue(state)
}
func (noopHandler) HandleCall(ctx context.Context, request interface{}, state interface{}) CallOutcome {
	return CallOK(nil, state)
}
func (noopHandler) HandleInfo(ctx context.Context, message interface{}, state interface{}) Outcome {
	return Continue(state)
}
func (noopHandler) Terminate(ctx context.Context, reason interface{}, state interface{}) {}

func TestStartMissingUserFails(t *testing.T) {
	_, err := Start(context.Background(), noopHandler{}, nil, StartOptions{Password: "p"})
	var missing *streamerrors.MissingOptionError
	if !errors.As(err, &missing) || missing.Option != "user" {
		t.Fatalf("err = %v, want missing user option", err)
	}
}

func TestStartMissingPasswordFails(t *testing.T) {
	_, err := Start(context.Background(), noopHandler{}, nil, StartOptions{User: "u"})
	var missing *streamerrors.MissingOptionError
	if !errors.As(err, &missing) || missing.Option != "password" {
		t.Fatalf("err = %v, want missing password option", err)
	}
}

func TestStartSucceedsWithCredentials(t *testing.T) {
	srv, err := Start(context.Background(), noopHandler{}, nil, StartOptions{User: "u", Password: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srv.Stop("done")
	<-srv.Done()
}
