// Package session implements the streaming-session actor (spec §4.4): the
// single-threaded component that owns one active streaming HTTP request at
// a time, reassembles records, dispatches typed callbacks, and multiplexes
// control messages, synchronous queries, and transport events through one
// mailbox.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/eternisai/socialstream/internal/dispatch"
	streamerrors "github.com/eternisai/socialstream/internal/errors"
	"github.com/eternisai/socialstream/internal/transport"
	"github.com/eternisai/socialstream/internal/urlbuilder"
)

// knownEvents is the set of JSON object keys that are treated as control
// events rather than status payloads when a record is a single-entry
// object (spec §4.4.C item 2, GLOSSARY "Event"). This list is the set the
// wire protocol is documented to emit; anything else single-keyed is still
// dispatched as a status, matching the source's observed behavior.
var knownEvents = map[string]bool{
	"delete":          true,
	"scrub_geo":       true,
	"limit":           true,
	"status_withheld": true,
	"user_withheld":   true,
	"disconnect":      true,
	"warning":         true,
}

// BaseURL is the streaming endpoint template (spec §6).
const BaseURL = "https://stream.twitter.com/1/statuses/"

// Options carries the optional start options forwarded to the actor
// (spec §4.5: "timeout, debug ... forwarded unchanged"). Timeout bounds
// how long Start waits for handler.Init to complete; Debug makes the
// loop log every mailbox message it processes at debug level.
type Options struct {
	Timeout time.Duration
	Debug   bool
}

// Session is the streaming-session actor. Exactly one goroutine (loop)
// ever touches its unexported fields; every external interaction goes
// through the mailbox (spec §5: "single-threaded cooperative").
type Session struct {
	dispatcher *dispatch.Dispatcher
	creds      transport.Credentials
	httpClient transportClient

	mailbox chan actorMessage
	done    chan struct{}

	log  *slog.Logger
	opts Options

	// actor-owned state (spec §3), mutated only inside loop.
	userState     interface{}
	active        *requestHandle
	httpStatus    int
	httpHeaders   http.Header
	currentMethod *Method
	stopReason    interface{}

	switchSeq   int64
	pendingOpen int64
}

// transportClient is the minimal surface Session needs from *http.Client,
// narrowed so tests can swap in a stub without reaching into net/http.
type transportClient interface {
	Open(ctx context.Context, url string, creds transport.Credentials) (*transport.Request, error)
}

// httpTransportClient adapts a shared *http.Client to the transportClient
// interface via transport.Open.
type httpTransportClient struct{ client *http.Client }

func (c *httpTransportClient) Open(ctx context.Context, url string, creds transport.Credentials) (*transport.Request, error) {
	return transport.Open(ctx, c.client, url, creds)
}

// New constructs a Session bound to handler and creds. Call Start to begin
// it.
func New(handler dispatch.Handler, creds transport.Credentials, log *slog.Logger) *Session {
	return NewWithClient(handler, creds, &httpTransportClient{client: transport.DefaultClient()}, log)
}

// NewWithClient is like New but takes an explicit transportClient,
// letting tests substitute a stub that never touches the network.
func NewWithClient(handler dispatch.Handler, creds transport.Credentials, client transportClient, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		dispatcher: dispatch.New(handler),
		creds:      creds,
		httpClient: client,
		mailbox:    make(chan actorMessage, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// SetOptions records the start options forwarded by the caller (spec
// §4.5). Must be called before Start.
func (s *Session) SetOptions(opts Options) {
	s.opts = opts
}

// Start invokes handler.Init and, unless it returns stop or ignore, begins
// the actor loop (spec §3: "Lifecycles"). It blocks until init completes,
// or until opts.Timeout elapses first, if set.
func (s *Session) Start(ctx context.Context, initArgs interface{}) error {
	done := make(chan error, 1)
	go s.loop(ctx)
	s.mailbox <- initEvent{args: initArgs, done: done}

	if s.opts.Timeout <= 0 {
		return <-done
	}

	select {
	case err := <-done:
		return err
	case <-time.After(s.opts.Timeout):
		return fmt.Errorf("session: init did not complete within %s", s.opts.Timeout)
	}
}

// SwitchMethod enqueues a control message to open a new streaming request
// for method, superseding any currently active one (spec §4.4.A).
func (s *Session) SwitchMethod(name string, options []urlbuilder.Option) {
	s.mailbox <- switchMethodControl{method: Method{Name: name, Options: options}}
}

// Stop enqueues an external stop call (spec §3).
func (s *Session) Stop(reason interface{}) {
	s.mailbox <- stopControl{reason: reason}
}

// CurrentMethod answers current_method() (spec §4.4.B). It blocks until
// the actor processes the query or the session ends.
func (s *Session) CurrentMethod() *Method {
	reply := make(chan *Method, 1)
	select {
	case s.mailbox <- currentMethodQuery{reply: reply}:
	case <-s.done:
		return nil
	}
	select {
	case m := <-reply:
		return m
	case <-s.done:
		return nil
	}
}

// Call issues a synchronous user_call(payload) (spec §4.4.B).
func (s *Session) Call(payload interface{}) (interface{}, error) {
	reply := make(chan CallResult, 1)
	select {
	case s.mailbox <- userCallQuery{payload: payload, reply: reply}:
	case <-s.done:
		return nil, fmt.Errorf("session already terminated")
	}
	select {
	case r := <-reply:
		return r.Reply, r.Err
	case <-s.done:
		return nil, fmt.Errorf("session terminated before reply")
	}
}

// Done is closed once the session has terminated and Terminate has run.
func (s *Session) Done() <-chan struct{} { return s.done }

// loop is the single consumer of the mailbox (spec §5, §9: "actor
// mailbox").
func (s *Session) loop(ctx context.Context) {
	defer close(s.done)

	msg := <-s.mailbox
	init, ok := msg.(initEvent)
	if !ok {
		panic("session: first mailbox message must be initEvent")
	}
	if !s.handleInit(ctx, init) {
		return
	}

	for msg := range s.mailbox {
		if !s.dispatchMessage(ctx, msg) {
			return
		}
	}
}

// handleInit runs handler.Init and reports whether the loop should
// continue running.
func (s *Session) handleInit(ctx context.Context, ev initEvent) bool {
	result, err := s.dispatcher.Init(ctx, ev.args)
	if err != nil {
		ev.done <- err
		s.terminate(ctx, err)
		return false
	}

	switch {
	case result.IsStop():
		ev.done <- &streamerrors.SessionStoppedError{Reason: result.Reason}
		s.terminate(ctx, result.Reason)
		return false
	case result.IsIgnore():
		ev.done <- nil
		s.terminate(ctx, nil)
		return false
	default:
		s.userState = result.State
		ev.done <- nil
		return true
	}
}

// dispatchMessage handles one mailbox message and reports whether the loop
// should continue.
func (s *Session) dispatchMessage(ctx context.Context, msg actorMessage) bool {
	if s.opts.Debug {
		s.log.Debug("mailbox message", "type", fmt.Sprintf("%T", msg))
	}

	switch m := msg.(type) {
	case switchMethodControl:
		s.handleSwitchMethod(ctx, m)
		return true
	case stopControl:
		s.terminate(ctx, m.reason)
		return false
	case currentMethodQuery:
		m.reply <- s.currentMethod
		return true
	case userCallQuery:
		return s.handleUserCall(ctx, m)
	case openResultEvent:
		return s.handleOpenResult(ctx, m)
	case headersEvent:
		return s.handleHeaders(ctx, m)
	case chunkEvent:
		return s.handleChunk(ctx, m)
	case endEvent:
		return s.handleEnd(ctx, m)
	case transportErrorEvent:
		return s.handleTransportError(ctx, m)
	case infoMessage:
		return s.handleInfo(ctx, m)
	default:
		return true
	}
}

// handleSwitchMethod kicks off an asynchronous open for the new request;
// the actor loop itself never blocks on transport I/O (spec §5). The open
// result is matched back to this call by token so a rapid second switch
// correctly supersedes a still-opening first one.
func (s *Session) handleSwitchMethod(ctx context.Context, m switchMethodControl) {
	url, _ := urlbuilder.Build(BaseURL+m.method.Name+".json", m.method.Options)

	s.switchSeq++
	token := s.switchSeq
	s.pendingOpen = token

	go func() {
		req, err := s.httpClient.Open(ctx, url, s.creds)
		s.mailbox <- openResultEvent{token: token, method: m.method, req: req, err: err}
	}()
}

// handleOpenResult processes the asynchronous outcome of opening a
// streaming request (spec §4.4.A): on success it opens the new request
// before closing the old one, so no gap in coverage ever forms (§3
// invariant); a result superseded by a later switch is discarded.
func (s *Session) handleOpenResult(ctx context.Context, ev openResultEvent) bool {
	if ev.token != s.pendingOpen {
		if ev.err == nil {
			_ = ev.req.Close()
		}
		return true
	}

	if ev.err != nil {
		s.terminate(ctx, &streamerrors.TransportOpenError{Method: ev.method.Name, Cause: ev.err})
		return false
	}

	handle := newRequestHandle(ev.req)
	previous := s.active
	s.active = handle
	s.currentMethod = &ev.method

	go runReader(handle, s.mailbox)

	s.mailbox <- headersEvent{handle: handle, code: ev.req.StatusCode(), headers: ev.req.Header()}

	if previous != nil {
		previous.close()
	}
	return true
}

func (s *Session) handleUserCall(ctx context.Context, m userCallQuery) bool {
	result, err := s.dispatcher.HandleCall(ctx, m.payload, s.userState)
	if err != nil {
		m.reply <- CallResult{Err: err}
		s.terminate(ctx, err)
		return false
	}

	s.userState = result.State
	m.reply <- CallResult{Reply: result.Reply}

	if result.IsStop() {
		s.terminate(ctx, result.Reason)
		return false
	}
	return true
}

// handleHeaders processes the headers event for a just-opened request
// (spec §4.4.C).
func (s *Session) handleHeaders(ctx context.Context, m headersEvent) bool {
	if m.handle != s.active {
		s.log.Debug("ignoring headers from stale request")
		return true
	}

	s.httpStatus = m.code
	s.httpHeaders = m.headers
	m.handle.extractor.Reset()

	if !s.dispatchEvent(ctx, "stream_start", nil) {
		return false
	}

	m.handle.requestNext()
	return true
}

// handleChunk processes one body chunk (spec §4.4.C).
func (s *Session) handleChunk(ctx context.Context, m chunkEvent) bool {
	if m.handle != s.active {
		s.log.Debug("ignoring chunk from stale request")
		return true
	}

	if len(m.bytes) == 0 || (len(m.bytes) == 1 && m.bytes[0] == '\n') {
		m.handle.requestNext()
		return true
	}

	if s.httpStatus != 200 {
		// Non-200 responses accumulate their entire body until
		// end-of-response (spec §4.4.C).
		m.handle.extractor.Append(m.bytes)
		m.handle.requestNext()
		return true
	}

	records, decodeErr := m.handle.extractor.Consume(m.bytes)
	if decodeErr != nil {
		s.log.Warn("invalid json record", "error", decodeErr)
	}

	for _, record := range records {
		if !s.dispatchRecord(ctx, record) {
			return false
		}
	}

	m.handle.requestNext()
	return true
}

// dispatchRecord classifies one decoded record and dispatches it as either
// a control event or a status payload (spec §4.4.C item 2).
func (s *Session) dispatchRecord(ctx context.Context, record json.RawMessage) bool {
	if name, data, ok := asSingleKeyEvent(record); ok && knownEvents[name] {
		return s.dispatchEvent(ctx, name, data)
	}

	var payload interface{}
	_ = json.Unmarshal(record, &payload)

	outcome, err := s.dispatcher.HandleStatus(ctx, payload, s.userState)
	if err != nil {
		s.terminate(ctx, err)
		return false
	}
	s.userState = outcome.State
	if outcome.IsStop() {
		s.terminate(ctx, outcome.Reason)
		return false
	}
	return true
}

// handleEnd processes end-of-response for a request (spec §4.4.C).
func (s *Session) handleEnd(ctx context.Context, m endEvent) bool {
	if m.handle != s.active {
		return true
	}

	if s.httpStatus == 200 {
		if !s.dispatchEvent(ctx, "stream_end", nil) {
			return false
		}
		s.terminate(ctx, "normal")
		return false
	}

	errData := map[string]interface{}{
		"code":    s.httpStatus,
		"headers": s.httpHeaders,
		"body":    string(m.handle.extractor.PendingBuffer()),
	}

	outcome, err := s.dispatcher.HandleEvent(ctx, "stream_error", errData, s.userState)
	if err != nil {
		s.terminate(ctx, err)
		return false
	}
	s.userState = outcome.State
	if outcome.IsStop() {
		s.terminate(ctx, outcome.Reason)
		return false
	}

	m.handle.requestNext()
	return true
}

// handleTransportError processes a mid-stream transport failure (spec
// §4.4.C).
func (s *Session) handleTransportError(ctx context.Context, m transportErrorEvent) bool {
	if m.handle != s.active {
		return true
	}

	if isRequestTimeout(m.reason) {
		s.terminate(ctx, "normal")
		return false
	}

	s.terminate(ctx, &streamerrors.TransportStreamError{Cause: m.reason})
	return false
}

func (s *Session) handleInfo(ctx context.Context, m infoMessage) bool {
	outcome, err := s.dispatcher.HandleInfo(ctx, m.message, s.userState)
	if err != nil {
		s.terminate(ctx, err)
		return false
	}
	s.userState = outcome.State
	if outcome.IsStop() {
		s.terminate(ctx, outcome.Reason)
		return false
	}
	return true
}

// dispatchEvent invokes handle_event and applies its outcome, reporting
// whether the loop should continue.
func (s *Session) dispatchEvent(ctx context.Context, name string, data interface{}) bool {
	outcome, err := s.dispatcher.HandleEvent(ctx, name, data, s.userState)
	if err != nil {
		s.terminate(ctx, err)
		return false
	}
	s.userState = outcome.State
	if outcome.IsStop() {
		s.terminate(ctx, outcome.Reason)
		return false
	}
	return true
}

// terminate closes the active request (if any) and invokes handler.
// Terminate exactly once (spec §3, §7).
func (s *Session) terminate(ctx context.Context, reason interface{}) {
	if s.active != nil {
		s.active.close()
		s.active = nil
	}
	s.stopReason = reason
	if panicValue := s.dispatcher.Terminate(ctx, reason, s.userState); panicValue != nil {
		s.log.Error("terminate callback failed", "error", panicValue)
	}
}

// asSingleKeyEvent reports whether record is a JSON object with exactly
// one key, returning that key and its value.
func asSingleKeyEvent(record json.RawMessage) (string, interface{}, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(record, &obj); err != nil || len(obj) != 1 {
		return "", nil, false
	}
	for k, v := range obj {
		var data interface{}
		_ = json.Unmarshal(v, &data)
		return k, data, true
	}
	return "", nil, false
}

// isRequestTimeout reports whether reason denotes the transport-level
// request_timed_out condition, mapped to a normal end (spec §4.4.C, §7).
func isRequestTimeout(reason error) bool {
	type timeouter interface{ Timeout() bool }
	t, ok := reason.(timeouter)
	return ok && t.Timeout()
}
