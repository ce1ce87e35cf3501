// Package telemetry exposes Prometheus metrics for monitoring runs.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters updated by a monitoring run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs          *prometheus.CounterVec
	events        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// NewMetrics registers the counters on reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "callback_notifier_runs_total",
			Help: "Monitoring runs by final status.",
		}, []string{"status"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "callback_notifier_events_total",
			Help: "Classified callback events by bucket and source.",
		}, []string{"bucket", "source"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "callback_notifier_notifications_total",
			Help: "Alert deliveries by result.",
		}, []string{"result"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "callback_notifier_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run.",
		}),
	}
}

// ObserveRun counts a finished run and stamps its completion time.
func (m *Metrics) ObserveRun(status string, finishedUnix float64) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.lastRun.Set(finishedUnix)
}

// ObserveEvent counts one classified event.
func (m *Metrics) ObserveEvent(bucket, source string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(bucket, source).Inc()
}

// ObserveNotification counts a delivery attempt outcome.
func (m *Metrics) ObserveNotification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}
