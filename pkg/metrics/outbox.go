package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics records metadata for mailer worker runs.
type OutboxMetrics struct {
	duration *prometheus.HistogramVec
	sent     *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewOutboxMetrics registers the outbox worker metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_batch_duration_seconds",
		Help:    "Duration of outbox dispatch batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"worker"})
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_emails_sent",
		Help: "Emails successfully dispatched from the outbox.",
	}, []string{"worker"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_emails_failed",
		Help: "Outbox dispatch attempts that failed.",
	}, []string{"worker"})
	reg.MustRegister(duration, sent, failed)
	return &OutboxMetrics{
		duration: duration,
		sent:     sent,
		failed:   failed,
	}
}

// ObserveBatch records the duration of a dispatch batch.
func (m *OutboxMetrics) ObserveBatch(worker string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(worker)).Observe(elapsed.Seconds())
}

// IncSent increments the sent counter.
func (m *OutboxMetrics) IncSent(worker string) {
	if m == nil || m.sent == nil {
		return
	}
	m.sent.WithLabelValues(normalizeLabel(worker)).Inc()
}

// IncFailed increments the failure counter.
func (m *OutboxMetrics) IncFailed(worker string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(worker)).Inc()
}
