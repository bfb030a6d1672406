package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus instruments exposed on /metrics. A dedicated
// registry keeps the instruments isolated from the global default registry so
// multiple servers can coexist in tests.
type Metrics struct {
	registry        *prometheus.Registry
	activeRequests  prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	stagesTotal     *prometheus.CounterVec
	handler         http.Handler
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sacfit_active_requests",
			Help: "Number of HTTP requests currently being served",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sacfit_requests_total",
			Help: "Total number of HTTP requests served",
		}, []string{"path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sacfit_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"path"}),
		stagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sacfit_pipeline_stages_total",
			Help: "Pipeline stages completed while serving curve requests",
		}, []string{"stage"}),
	}
	registry.MustRegister(
		m.activeRequests,
		m.requestsTotal,
		m.requestDuration,
		m.stagesTotal,
		collectors.NewGoCollector(),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// IncrementActiveRequests increments the in-flight request gauge.
func (m *Metrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
}

// DecrementActiveRequests decrements the in-flight request gauge.
func (m *Metrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

// ObserveStage counts one completed pipeline stage.
func (m *Metrics) ObserveStage(stage string) {
	m.stagesTotal.WithLabelValues(stage).Inc()
}

// ObserveRequest records a completed request.
func (m *Metrics) ObserveRequest(path, status string, seconds float64) {
	m.requestsTotal.WithLabelValues(path, status).Inc()
	m.requestDuration.WithLabelValues(path).Observe(seconds)
}

// WritePrometheus serves the metrics in Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
