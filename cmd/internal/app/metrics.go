package app

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the process registry and the HTTP request collectors.
// Requests are labeled by route pattern, not raw path, to keep cardinality
// bounded.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mindremember",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests processed, by method, route pattern, and status class.",
	}, []string{"method", "pattern", "class"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mindremember",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "pattern"})

	requestsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mindremember",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	reg.MustRegister(requestsTotal, requestDuration, requestsInFlight)

	return &Metrics{
		registry:         reg,
		requestsTotal:    requestsTotal,
		requestDuration:  requestDuration,
		requestsInFlight: requestsInFlight,
	}
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WithHTTPMetrics records request counts and latencies. It must sit outside
// the ServeMux so that r.Pattern is populated by the time the labels are read.
func WithHTTPMetrics(next http.Handler, m *Metrics) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		next.ServeHTTP(lrw, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}

		m.requestsTotal.WithLabelValues(r.Method, pattern, statusClass(lrw.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
