package http

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-call counters and latencies. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiclient",
			Name:      "requests_total",
			Help:      "API calls by operation, method and status code. code is \"error\" when no response was received.",
		}, []string{"operation", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "apiclient",
			Name:      "request_duration_seconds",
			Help:      "Time from sending the request to receiving response headers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(operation, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(operation, method, code).Inc()
	m.duration.WithLabelValues(operation, method).Observe(d.Seconds())
}
