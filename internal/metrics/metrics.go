// Package metrics instruments the streaming session registry with
// Prometheus counters and gauges, the way the teacher repo exposes its own
// operational metrics via github.com/prometheus/client_golang.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles every metric this module exports, so cmd/streammetrics
// can mount them behind one promhttp.Handler without reaching into global
// state.
type Registry struct {
	ActiveSessions   prometheus.Gauge
	RecordsDispatched *prometheus.CounterVec
	RecordsDropped    prometheus.Counter
	Reconnects        prometheus.Counter
	SessionsTerminated *prometheus.CounterVec
}

// SetActiveSessions implements internal/session.MetricsSink.
func (r *Registry) SetActiveSessions(n float64) {
	r.ActiveSessions.Set(n)
}

// New registers every metric against reg and returns the bundle.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "socialstream",
			Name:      "active_sessions",
			Help:      "Number of currently active streaming sessions.",
		}),
		RecordsDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "socialstream",
			Name:      "records_dispatched_total",
			Help:      "Number of wire records dispatched to a handler, by kind.",
		}, []string{"kind"}),
		RecordsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "socialstream",
			Name:      "records_dropped_total",
			Help:      "Number of record segments dropped due to a JSON decode error.",
		}),
		Reconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "socialstream",
			Name:      "request_switches_total",
			Help:      "Number of successful switch_method requests opened.",
		}),
		SessionsTerminated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "socialstream",
			Name:      "sessions_terminated_total",
			Help:      "Number of sessions terminated, by reason kind.",
		}, []string{"reason"}),
	}
}
