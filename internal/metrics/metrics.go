package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tipsplit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tipsplit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RPCTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tipsplit_rpc_total",
			Help: "Total number of Connect RPCs by procedure and code",
		},
		[]string{"procedure", "code"},
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tipsplit_events_total",
			Help: "Calculator input events by kind (bill, tip, people, reset)",
		},
		[]string{"kind"},
	)

	ValidationErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tipsplit_validation_errors_total",
			Help: "Events that left a calculator showing a validation error",
		},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tipsplit_sessions_active",
			Help: "Current number of mounted calculator sessions",
		},
	)

	SessionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tipsplit_sessions_expired_total",
			Help: "Sessions removed by the idle sweeper",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tipsplit_ws_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSDroppedFramesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tipsplit_ws_dropped_frames_total",
			Help: "Snapshots dropped because a subscriber fell behind",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		RPCTotal,
		EventsTotal,
		ValidationErrorsTotal,
		SessionsActive,
		SessionsExpiredTotal,
		WSConnections,
		WSDroppedFramesTotal,
	)
}

// ObserveHTTPRequest records metrics for an HTTP request
func ObserveHTTPRequest(method, route, status string, startedAt time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route, status).Observe(time.Since(startedAt).Seconds())
}

// ObserveEvent counts one calculator event and whether it ended in a validation error.
func ObserveEvent(kind string, validationError bool) {
	EventsTotal.WithLabelValues(kind).Inc()
	if validationError {
		ValidationErrorsTotal.Inc()
	}
}
