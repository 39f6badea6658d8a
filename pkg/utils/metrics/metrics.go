package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	suggestionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "themis",
			Name:      "suggestion_requests_total",
			Help:      "Number of suggestion flow calls by flow and result.",
		},
		[]string{"flow", "result"},
	)

	suggestionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "themis",
			Name:      "suggestion_duration_seconds",
			Help:      "Latency of suggestion flow calls including the model round trip.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"flow"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "themis",
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method and status code.",
		},
		[]string{"method", "status"},
	)
)

// Result labels for suggestion flows
const (
	ResultOK            = "ok"
	ResultRequestFailed = "request_failed"
	ResultInvalidOutput = "invalid_output"
)

// Registry holds every collector the service exports
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		suggestionRequests,
		suggestionDuration,
		httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveSuggestion records one suggestion flow call
func ObserveSuggestion(flow, result string, elapsed time.Duration) {
	suggestionRequests.WithLabelValues(flow, result).Inc()
	suggestionDuration.WithLabelValues(flow).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served HTTP request
func ObserveHTTP(method, status string) {
	httpRequests.WithLabelValues(method, status).Inc()
}
