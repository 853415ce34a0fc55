package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the HTTP layer and the moderation core.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec

	DecisionsTotal *prometheus.CounterVec
	QueueSize      *prometheus.GaugeVec
	BulkBatchSize  prometheus.Histogram
	AuditDowngrade prometheus.Counter
}

// NewMetrics registers all service metrics with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_http_requests_total",
			Help: "HTTP requests by path, method and status",
		}, []string{"path", "method", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moderation_http_request_duration_seconds",
			Help:    "HTTP request latency by path and method",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"path", "method"}),

		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_http_errors_total",
			Help: "Handled request errors by path, method and error code",
		}, []string{"path", "method", "code"}),

		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "Moderation decisions by entity kind, action and outcome",
		}, []string{"kind", "action", "outcome"}),

		QueueSize: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "moderation_queue_size",
			Help: "Current queue size by entity kind",
		}, []string{"kind"}),

		BulkBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moderation_bulk_batch_size",
			Help:    "Number of selected items per bulk run",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),

		AuditDowngrade: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moderation_audit_downgrades_total",
			Help: "Sessions downgraded from durable to degraded audit persistence",
		}),
	}
}

// RecordRequest increments request counters.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(path, method, code).Inc()
}

// RecordDecision counts the outcome of a dispatched action.
func (m *Metrics) RecordDecision(kind, action string, ok bool) {
	if m == nil {
		return
	}
	outcome := "applied"
	if !ok {
		outcome = "rejected"
	}
	m.DecisionsTotal.WithLabelValues(kind, action, outcome).Inc()
}

// SetQueueSize records the per-kind size of the normalized queue.
func (m *Metrics) SetQueueSize(kind string, n int) {
	if m == nil {
		return
	}
	m.QueueSize.WithLabelValues(kind).Set(float64(n))
}

// ObserveBulk records the size of a bulk selection.
func (m *Metrics) ObserveBulk(n int) {
	if m == nil {
		return
	}
	m.BulkBatchSize.Observe(float64(n))
}

// RecordAuditDowngrade counts a durable-to-degraded persistence transition.
func (m *Metrics) RecordAuditDowngrade() {
	if m == nil {
		return
	}
	m.AuditDowngrade.Inc()
}
