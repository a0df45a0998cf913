package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mzapi_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mzapi_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mzapi_upstream_errors_total",
			Help: "Total number of failed upstream vendor calls",
		},
		[]string{"upstream"},
	)

	ActiveStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mzapi_active_streams",
			Help: "Number of SSE streams currently being relayed",
		},
	)

	StreamChunks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mzapi_stream_chunks_total",
			Help: "Total number of SSE content frames relayed",
		},
	)
)

// RecordRequest 记录一次 HTTP 请求
func RecordRequest(method, route string, status int, durationSeconds float64) {
	if route == "" {
		route = "unmatched"
	}
	RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordUpstreamError 记录一次上游调用失败
func RecordUpstreamError(upstream string) {
	UpstreamErrors.WithLabelValues(upstream).Inc()
}

func StreamStarted() {
	ActiveStreams.Inc()
}

func StreamEnded() {
	ActiveStreams.Dec()
}

func RecordStreamChunk() {
	StreamChunks.Inc()
}
