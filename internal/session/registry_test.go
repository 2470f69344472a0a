package session

import (
	"context"
	"testing"

	"github.com/eternisai/socialstream/internal/transport"
)

func TestRegistryPutGetRemove(t *testing.T) {
	reg := NewRegistry(nil, nil)
	defer reg.Shutdown()

	h := &recordingHandler{}
	s := NewWithClient(h, transport.Credentials{User: "u", Password: "p"}, &testClient{baseURL: "http://unused.invalid"}, nil)

	reg.Put("main", s)
	got, ok := reg.Get("main")
	if !ok || got != s {
		t.Fatalf("Get = (%v,%v), want the session we put", got, ok)
	}

	if len(reg.Names()) != 1 || reg.Names()[0] != "main" {
		t.Fatalf("Names = %v, want [main]", reg.Names())
	}

	reg.Remove("main")
	if _, ok := reg.Get("main"); ok {
		t.Fatalf("expected session to be removed")
	}
}

func TestRegistrySweepPrunesTerminatedSessions(t *testing.T) {
	reg := NewRegistry(nil, nil)
	defer reg.Shutdown()

	stopping := &stoppingInitHandler{recordingHandler: &recordingHandler{}}
	s := NewWithClient(stopping, transport.Credentials{User: "u", Password: "p"}, &testClient{baseURL: "http://unused.invalid"}, nil)
	_ = s.Start(context.Background(), nil)
	<-s.Done()

	reg.Put("gone", s)
	reg.sweep()

	if _, ok := reg.Get("gone"); ok {
		t.Fatalf("expected terminated session to be pruned by sweep")
	}
}
