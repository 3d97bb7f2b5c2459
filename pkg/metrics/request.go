package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c9s/connectors/pkg/exerrors"
)

var (
	RequestDurationMetrics = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectors_request_duration_milliseconds",
			Help:    "exchange REST request duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~5s
		}, []string{"exchange", "endpoint"},
	)

	RequestTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectors_request_total",
			Help: "exchange REST requests by response status",
		}, []string{"exchange", "endpoint", "status_code"},
	)

	ErrorTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectors_error_total",
			Help: "classified exchange errors by kind",
		}, []string{"exchange", "kind"},
	)

	ThrottleWaitMetrics = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectors_throttle_wait_milliseconds",
			Help:    "time spent waiting for the request throttle",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"exchange"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDurationMetrics,
		RequestTotalMetrics,
		ErrorTotalMetrics,
		ThrottleWaitMetrics,
	)
}

// ObserveRequest records one round trip. statusCode 0 means no response was received.
func ObserveRequest(exchange, endpoint string, statusCode int, duration time.Duration) {
	RequestDurationMetrics.WithLabelValues(exchange, endpoint).Observe(float64(duration.Milliseconds()))
	RequestTotalMetrics.WithLabelValues(exchange, endpoint, strconv.Itoa(statusCode)).Inc()
}

func ObserveError(exchange string, err error) {
	if err == nil {
		return
	}

	kind := "transport"
	if k := exerrors.KindOf(err); k != nil {
		kind = k.Name()
	}
	ErrorTotalMetrics.WithLabelValues(exchange, kind).Inc()
}

func ObserveThrottle(exchange string, wait time.Duration) {
	ThrottleWaitMetrics.WithLabelValues(exchange).Observe(float64(wait.Milliseconds()))
}
