// Package teststream provides a scripted httptest-based stub streaming
// server, generalizing the teacher's mockReadCloser/slowMockReadCloser test
// doubles into something that exercises the real net/http transport rather
// than a fake io.ReadCloser (spec §1 mentions a "test stub" for verifying
// client behavior against controlled server responses).
package teststream

import (
	"net/http"
	"net/http/httptest"
	"time"
)

// Chunk is one write the stub server makes to the response body, optionally
// preceded by a delay — used to exercise chunk-boundary and slow-producer
// behavior the way the teacher's slowMockReadCloser did.
type Chunk struct {
	Data  []byte
	Delay time.Duration
}

// Script describes one scripted response: a status code, headers, and an
// ordered list of chunks flushed as they're written.
type Script struct {
	Status  int
	Headers map[string]string
	Chunks  []Chunk
}

// Server is an httptest server that replays a Script on every request.
type Server struct {
	*httptest.Server
	Requests []*http.Request
}

// NewServer starts a stub server that replays script for every request it
// receives, flushing after each chunk so partial reads are observable by
// the client under test.
func NewServer(script Script) *Server {
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Requests = append(s.Requests, r)

		for k, v := range script.Headers {
			w.Header().Set(k, v)
		}
		status := script.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)

		flusher, _ := w.(http.Flusher)
		for _, c := range script.Chunks {
			if c.Delay > 0 {
				time.Sleep(c.Delay)
			}
			_, _ = w.Write(c.Data)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	return s
}

// StringChunks converts a slice of strings into unscripted, delay-free
// chunks for the common case of a canned record stream.
func StringChunks(records ...string) []Chunk {
	chunks := make([]Chunk, len(records))
	for i, r := range records {
		chunks[i] = Chunk{Data: []byte(r)}
	}
	return chunks
}
