package session

import (
	"net/http"

	"github.com/eternisai/socialstream/internal/transport"
)

// actorMessage is the sealed set of mailbox messages the actor loop
// accepts: external control, synchronous queries, and transport events
// share one queue to guarantee ordering (spec §4.4, §9: "control,
// synchronous, and transport messages share one queue").
type actorMessage interface{ isActorMessage() }

// initEvent carries the one-time handler.init invocation (spec §3:
// "Lifecycles").
type initEvent struct {
	args interface{}
	done chan error
}

func (initEvent) isActorMessage() {}

// switchMethodControl is the fire-and-forget control message that opens a
// new streaming request (spec §4.4.A).
type switchMethodControl struct {
	method Method
}

func (switchMethodControl) isActorMessage() {}

// openResultEvent carries the asynchronous outcome of opening a streaming
// request, so the actor loop never blocks on transport I/O itself (spec
// §5: "no operation blocks on I/O: opening a request enqueues a send and
// returns a handle").
type openResultEvent struct {
	token  int64
	method Method
	req    *transport.Request
	err    error
}

func (openResultEvent) isActorMessage() {}

// stopControl is an external stop call (spec §3: "external stop call").
type stopControl struct {
	reason interface{}
}

func (stopControl) isActorMessage() {}

// currentMethodQuery answers current_method() (spec §4.4.B).
type currentMethodQuery struct {
	reply chan *Method
}

func (currentMethodQuery) isActorMessage() {}

// userCallQuery answers a synchronous user_call(payload) (spec §4.4.B).
type userCallQuery struct {
	payload interface{}
	reply   chan CallResult
}

func (userCallQuery) isActorMessage() {}

// CallResult is the synchronous reply to a user_call (spec §4.4.B).
type CallResult struct {
	Reply interface{}
	Err   error
}

// headersEvent carries the response headers for a just-opened request
// (spec §4.4.C).
type headersEvent struct {
	handle  *requestHandle
	code    int
	headers http.Header
}

func (headersEvent) isActorMessage() {}

// chunkEvent carries one body chunk for an open request (spec §4.4.C).
type chunkEvent struct {
	handle *requestHandle
	bytes  []byte
}

func (chunkEvent) isActorMessage() {}

// endEvent signals end-of-response for an open request (spec §4.4.C).
type endEvent struct {
	handle *requestHandle
}

func (endEvent) isActorMessage() {}

// transportErrorEvent signals a mid-stream transport failure (spec
// §4.4.C).
type transportErrorEvent struct {
	handle *requestHandle
	reason error
}

func (transportErrorEvent) isActorMessage() {}

// infoMessage is any mailbox message the actor itself does not recognize,
// forwarded to handler.handle_info (spec §6).
type infoMessage struct {
	message interface{}
}

func (infoMessage) isActorMessage() {}
