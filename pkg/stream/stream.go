// Package stream is the thin public facade (spec §4.5): per-method entry
// points and the lifecycle start/stop surface built on top of the
// streaming-session actor in internal/session.
package stream

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eternisai/socialstream/internal/dispatch"
	streamerrors "github.com/eternisai/socialstream/internal/errors"
	"github.com/eternisai/socialstream/internal/logger"
	"github.com/eternisai/socialstream/internal/session"
	"github.com/eternisai/socialstream/internal/transport"
	"github.com/eternisai/socialstream/internal/urlbuilder"
)

// Handler is re-exported so callers of this package never need to import
// internal/dispatch directly.
type Handler = dispatch.Handler

// Init, Outcome, and CallOutcome mirror the handler-contract constructors
// so a Handler implementation's only import is this package.
type (
	Init        = dispatch.Init
	Outcome     = dispatch.Outcome
	CallOutcome = dispatch.CallOutcome
)

var (
	InitContinue = dispatch.InitContinue
	InitStop     = dispatch.InitStop
	InitIgnore   = dispatch.InitIgnore
	Continue     = dispatch.Continue
	Stop         = dispatch.Stop
	CallOK       = dispatch.CallOK
	CallStop     = dispatch.CallStop
)

// Option is a method option, re-exported from internal/urlbuilder.
type Option = urlbuilder.Option

var (
	Count     = urlbuilder.Count
	Delimited = urlbuilder.Delimited
	Follow    = urlbuilder.Follow
	Track     = urlbuilder.Track
	Locations = urlbuilder.Locations
)

// Location is re-exported from internal/urlbuilder.
type Location = urlbuilder.Location

// StartOptions configures a new session (spec §4.5: "require user and
// password in options"). Timeout and Debug are forwarded unchanged to the
// session actor: Timeout bounds how long Start waits on handler.Init,
// Debug enables per-message mailbox tracing.
type StartOptions struct {
	User     string
	Password string
	Timeout  time.Duration
	Debug    bool
	Logger   *slog.Logger
}

// Server is a started streaming session, returned by Start.
type Server struct {
	sess *session.Session
	id   string
}

// ID returns the session's generated identifier, used to correlate its log
// lines across an instance running several streams at once.
func (s *Server) ID() string { return s.id }

// Start invokes handler.Init with initArgs and, unless it returns stop or
// ignore, begins the session. Missing user or password fails synchronously
// with *errors.MissingOptionError (spec §4.5).
func Start(ctx context.Context, handler Handler, initArgs interface{}, opts StartOptions) (*Server, error) {
	if opts.User == "" {
		return nil, streamerrors.NewMissingOption("user")
	}
	if opts.Password == "" {
		return nil, streamerrors.NewMissingOption("password")
	}

	id := uuid.New().String()
	ctx = logger.WithRequestID(ctx, id)

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("request_id", id))

	sess := session.New(handler, transport.Credentials{User: opts.User, Password: opts.Password}, log)
	sess.SetOptions(session.Options{Timeout: opts.Timeout, Debug: opts.Debug})
	if err := sess.Start(ctx, initArgs); err != nil {
		return nil, err
	}
	return &Server{sess: sess, id: id}, nil
}

// Filter opens a filter stream with options (spec §4.5).
func (s *Server) Filter(options ...Option) { s.sess.SwitchMethod(session.MethodFilter, options) }

// Firehose opens a firehose stream with options.
func (s *Server) Firehose(options ...Option) { s.sess.SwitchMethod(session.MethodFirehose, options) }

// Links opens a links stream with options.
func (s *Server) Links(options ...Option) { s.sess.SwitchMethod(session.MethodLinks, options) }

// Retweet opens a retweet stream with options.
func (s *Server) Retweet(options ...Option) { s.sess.SwitchMethod(session.MethodRetweet, options) }

// Sample opens a sample stream with options.
func (s *Server) Sample(options ...Option) { s.sess.SwitchMethod(session.MethodSample, options) }

// Call issues a synchronous user_call(payload) (spec §4.4.B).
func (s *Server) Call(payload interface{}) (interface{}, error) {
	return s.sess.Call(payload)
}

// CurrentMethod returns the recorded (name, options) of the active
// request, or nil if none (spec §4.4.B).
func (s *Server) CurrentMethod() *session.Method {
	return s.sess.CurrentMethod()
}

// Stop requests the session to terminate with reason (spec §3).
func (s *Server) Stop(reason interface{}) {
	s.sess.Stop(reason)
}

// Done is closed once the session has terminated.
func (s *Server) Done() <-chan struct{} {
	return s.sess.Done()
}
