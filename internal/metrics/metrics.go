package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wave_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wave_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wave_sessions_created_total",
			Help: "Total number of training sessions created",
		},
	)

	SessionsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wave_sessions_deleted_total",
			Help: "Total number of training sessions deleted",
		},
	)

	SessionRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wave_session_rejections_total",
			Help: "Session creations rejected, by error code",
		},
		[]string{"code"},
	)

	TrainerIncomeTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wave_trainer_income_total",
			Help: "Sum of trainer income recorded for created sessions",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wave_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"type"},
	)

	AuditEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wave_audit_events_total",
			Help: "Audit events by delivery status",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordSessionCreated(income float64) {
	SessionsCreatedTotal.Inc()
	if income > 0 {
		TrainerIncomeTotal.Add(income)
	}
}

func RecordSessionDeleted() {
	SessionsDeletedTotal.Inc()
}

func RecordSessionRejection(code string) {
	SessionRejectionsTotal.WithLabelValues(code).Inc()
}

func RecordSubscription(subType string) {
	SubscriptionsCreatedTotal.WithLabelValues(subType).Inc()
}

func RecordAuditEvent(status string) {
	AuditEventsTotal.WithLabelValues(status).Inc()
}

// RegisterAuditQueueDepth exposes the pending audit queue length, read on
// every scrape.
func RegisterAuditQueueDepth(depth func() float64) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "wave_audit_queue_depth",
			Help: "Audit events waiting in the redis queue",
		},
		depth,
	)
}
