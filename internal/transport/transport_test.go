package transport

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/eternisai/socialstream/internal/teststream"
)

func TestOpenDeliversHeadersAndChunks(t *testing.T) {
	srv := teststream.NewServer(teststream.Script{
		Status:  200,
		Headers: map[string]string{"X-Test": "1"},
		Chunks:  teststream.StringChunks(`{"text":"a"}`+"\r", `{"text":"b"}`+"\r"),
	})
	defer srv.Close()

	req, err := Open(context.Background(), DefaultClient(), srv.URL, Credentials{User: "u", Password: "p"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer req.Close()

	if req.StatusCode() != 200 {
		t.Fatalf("status = %d, want 200", req.StatusCode())
	}
	if req.Header().Get("X-Test") != "1" {
		t.Fatalf("missing response header")
	}

	var all []byte
	for {
		chunk, err := req.Next()
		all = append(all, chunk...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	want := `{"text":"a"}` + "\r" + `{"text":"b"}` + "\r"
	if string(all) != want {
		t.Fatalf("body = %q, want %q", all, want)
	}
}

func TestOpenSendsBasicAuth(t *testing.T) {
	srv := teststream.NewServer(teststream.Script{Chunks: teststream.StringChunks("{}\r")})
	defer srv.Close()

	req, err := Open(context.Background(), DefaultClient(), srv.URL, Credentials{User: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer req.Close()
	for {
		_, err := req.Next()
		if err != nil {
			break
		}
	}

	if len(srv.Requests) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(srv.Requests))
	}
	user, pass, ok := srv.Requests[0].BasicAuth()
	if !ok || user != "alice" || pass != "secret" {
		t.Fatalf("basic auth = (%q,%q,%v), want (alice,secret,true)", user, pass, ok)
	}
}

func TestOpenDeliversChunksOverDelay(t *testing.T) {
	srv := teststream.NewServer(teststream.Script{
		Chunks: []teststream.Chunk{
			{Data: []byte(`{"a":1}` + "\r")},
			{Data: []byte(`{"b":2}` + "\r"), Delay: 20 * time.Millisecond},
		},
	})
	defer srv.Close()

	req, err := Open(context.Background(), DefaultClient(), srv.URL, Credentials{User: "u", Password: "p"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer req.Close()

	var chunks int
	for {
		_, err := req.Next()
		chunks++
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	if chunks == 0 {
		t.Fatalf("expected at least one chunk")
	}
}
