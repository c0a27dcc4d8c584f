package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Render metrics
	RendersTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram

	// Mediation metrics
	ReferencesMediated  *prometheus.CounterVec
	FingerprintFailures prometheus.Counter

	// Facade metrics
	ServeTotal *prometheus.CounterVec
}

// NewMetrics creates a new metrics collector backed by its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "preview_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		RendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_renders_total",
				Help: "Total number of document renders",
			},
			[]string{"status"},
		),
		RenderDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "preview_render_duration_seconds",
				Help:    "Document render and mediation duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),

		ReferencesMediated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_references_mediated_total",
				Help: "Total number of local references rewritten to capability URLs",
			},
			[]string{"element", "kind"},
		),
		FingerprintFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "preview_fingerprint_failures_total",
				Help: "Total number of content fingerprints that fell back to the sentinel",
			},
		),

		ServeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_serve_total",
				Help: "Total number of capability requests by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRender records a document render
func (m *Metrics) RecordRender(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RendersTotal.WithLabelValues(status).Inc()
	m.RenderDuration.Observe(duration.Seconds())
}

// RecordMediated records one reference rewritten to a capability URL
func (m *Metrics) RecordMediated(element, kind string) {
	if m == nil {
		return
	}
	m.ReferencesMediated.WithLabelValues(element, kind).Inc()
}

// IncFingerprintFailures counts a fingerprint that degraded to the sentinel
func (m *Metrics) IncFingerprintFailures() {
	if m == nil {
		return
	}
	m.FingerprintFailures.Inc()
}

// RecordServe records the outcome of a capability request
func (m *Metrics) RecordServe(endpoint, result string) {
	if m == nil {
		return
	}
	m.ServeTotal.WithLabelValues(endpoint, result).Inc()
}
