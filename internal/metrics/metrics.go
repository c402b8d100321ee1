// Package metrics holds the Prometheus collectors. A Metrics value
// carries its own registry so tests can build isolated instances
// without tripping duplicate-registration panics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the application collectors and their registry.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	usersTotal   prometheus.Gauge
	storesTotal  prometheus.Gauge
	ratingsTotal prometheus.Gauge
}

// New creates a Metrics instance with process and Go runtime collectors
// registered alongside the application ones.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ratewise",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratewise",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"service", "method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ratewise",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"service", "method", "path"}),
		usersTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ratewise",
			Subsystem: "platform",
			Name:      "users_total",
			Help:      "Registered accounts.",
		}),
		storesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ratewise",
			Subsystem: "platform",
			Name:      "stores_total",
			Help:      "Registered stores.",
		}),
		ratingsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ratewise",
			Subsystem: "platform",
			Name:      "ratings_total",
			Help:      "Submitted ratings.",
		}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.usersTotal,
		m.storesTotal,
		m.ratingsTotal,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncrementInFlight marks a request as started.
func (m *Metrics) IncrementInFlight() { m.httpInFlight.Inc() }

// DecrementInFlight marks a request as finished.
func (m *Metrics) DecrementInFlight() { m.httpInFlight.Dec() }

// RecordHTTPRequest records one handled request.
func (m *Metrics) RecordHTTPRequest(service, method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(service, method, path, status).Inc()
	m.httpDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// SetPlatformTotals refreshes the domain gauges.
func (m *Metrics) SetPlatformTotals(users, stores, ratings int) {
	m.usersTotal.Set(float64(users))
	m.storesTotal.Set(float64(stores))
	m.ratingsTotal.Set(float64(ratings))
}
