package session

import (
	"io"
	"sync/atomic"

	"github.com/eternisai/socialstream/internal/frame"
	"github.com/eternisai/socialstream/internal/transport"
)

// handleSeq issues the per-process-unique tokens used to identify a request
// and filter stale messages from a superseded one (spec §9:
// "stale-request filtering ... explicit per-request tokens").
var handleSeq int64

// requestHandle identifies one opened streaming HTTP request. Equality is
// by pointer; a copy is never made, so a handle compare is an identity
// compare (spec §3: "active_request ... a handle identifying the current
// in-flight streaming HTTP request").
type requestHandle struct {
	token     int64
	extractor *frame.Extractor
	advance   chan struct{}
	stop      chan struct{}
	req       *transport.Request
}

func newRequestHandle(req *transport.Request) *requestHandle {
	return &requestHandle{
		token:     atomic.AddInt64(&handleSeq, 1),
		extractor: frame.New(),
		advance:   make(chan struct{}, 1),
		stop:      make(chan struct{}),
		req:       req,
	}
}

// requestNext signals the reader goroutine to pull the next chunk (spec
// §4.4.D: the actor must explicitly request each next chunk — no blocking
// I/O ever happens inside the actor's own goroutine).
func (h *requestHandle) requestNext() {
	select {
	case h.advance <- struct{}{}:
	default:
	}
}

// close tells the reader goroutine to stop and release the connection. It
// is safe to call more than once.
func (h *requestHandle) close() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	if h.req != nil {
		_ = h.req.Close()
	}
}

// runReader pulls chunks from the handle's request one at a time, only
// after being told to via handle.advance, and forwards each as a mailbox
// message tagged with handle so the actor can discard it if the handle has
// since gone stale.
func runReader(handle *requestHandle, mailbox chan<- actorMessage) {
	req := handle.req
	for {
		select {
		case <-handle.stop:
			return
		case <-handle.advance:
		}

		chunk, err := req.Next()
		if err != nil && err != io.EOF {
			select {
			case mailbox <- transportErrorEvent{handle: handle, reason: err}:
			case <-handle.stop:
			}
			return
		}

		if len(chunk) > 0 {
			select {
			case mailbox <- chunkEvent{handle: handle, bytes: chunk}:
			case <-handle.stop:
				return
			}
		}

		if err == io.EOF {
			select {
			case mailbox <- endEvent{handle: handle}:
			case <-handle.stop:
			}
			return
		}
	}
}
