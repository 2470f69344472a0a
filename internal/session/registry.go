package session

import (
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// MetricsSink is the subset of internal/metrics.Registry the registry
// reports to, narrowed so this package doesn't import Prometheus types
// directly.
type MetricsSink interface {
	SetActiveSessions(n float64)
}

// Registry tracks every named Session a process has started, generalizing
// the teacher's StreamManager from a single-broadcast-group keyed store
// into a keyed store of independent streaming-session actors. It exists
// for callers running more than one named stream (e.g. several filter
// subscriptions) from one process and wanting a single place to list,
// look up, and sweep them.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metrics  MetricsSink
	log      *slog.Logger

	cron *cron.Cron
}

// NewRegistry constructs an empty Registry and starts its housekeeping
// cron schedule (spec's domain stack addition: periodic sweep of
// terminated sessions and metrics reporting, in the teacher's
// robfig/cron idiom).
func NewRegistry(metricsSink MetricsSink, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		metrics:  metricsSink,
		log:      log,
		cron:     cron.New(),
	}

	// Sweep every minute: prune terminated sessions and republish the
	// active-session gauge.
	_, _ = r.cron.AddFunc("@every 1m", r.sweep)
	r.cron.Start()

	return r
}

// Put registers sess under name, replacing and not stopping any previous
// occupant (callers that want the old one stopped should Stop it first).
func (r *Registry) Put(name string, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[name] = sess
	r.publishActiveLocked()
}

// Get returns the session registered under name, if any.
func (r *Registry) Get(name string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[name]
	return s, ok
}

// Remove unregisters name without stopping its session.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, name)
	r.publishActiveLocked()
}

// Names lists every currently registered session name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	return names
}

// sweep removes sessions whose actor has already terminated and
// republishes the active-session gauge.
func (r *Registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, sess := range r.sessions {
		select {
		case <-sess.Done():
			delete(r.sessions, name)
			r.log.Debug("pruned terminated session", "name", name)
		default:
		}
	}
	r.publishActiveLocked()
}

// publishActiveLocked reports the current session count to the metrics
// sink. Callers must hold r.mu.
func (r *Registry) publishActiveLocked() {
	if r.metrics != nil {
		r.metrics.SetActiveSessions(float64(len(r.sessions)))
	}
}

// Shutdown stops the housekeeping cron schedule. It does not stop any
// registered session.
func (r *Registry) Shutdown() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
