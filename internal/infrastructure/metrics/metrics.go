package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "speech_app"

// HTTP metrics (incremented by middleware)
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"method", "path_pattern", "status_code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path_pattern"})
)

// Persistence metrics
var (
	StoreAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_attempts_total",
		Help:      "Transcript store calls by store, operation and outcome.",
	}, []string{"store", "operation", "outcome"})

	PersistOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persist_outcomes_total",
		Help:      "Final persistence outcome per transcript.",
	}, []string{"store", "degraded"})

	UserIDDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_id_dropped_total",
		Help:      "Transcripts stored without their user_id after a schema type mismatch.",
	})

	StoreCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_call_duration_seconds",
		Help:      "Transcript store call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"store", "operation"})
)

// Identity and session metrics
var (
	IdentityResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_resolutions_total",
		Help:      "Identity resolutions by kind (verified, claimed, anonymous).",
	}, []string{"kind"})

	LiveSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_sessions_active",
		Help:      "Live recording sessions that have not been stopped.",
	})

	SSEEventsPublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sse_events_published_total",
		Help:      "Total live-stream SSE events published.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		StoreAttemptsTotal,
		PersistOutcomesTotal,
		UserIDDroppedTotal,
		StoreCallDuration,
		IdentityResolutionsTotal,
		LiveSessionsActive,
		SSEEventsPublishedTotal,
	)
}

// Middleware records HTTP request metrics. The route pattern is the path label to bound cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			pattern := c.Path()
			if pattern == "" {
				pattern = "unknown"
			}
			method := c.Request().Method

			HTTPRequestsTotal.WithLabelValues(method, pattern, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(method, pattern).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Outcome renders a store call result as a label value
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
