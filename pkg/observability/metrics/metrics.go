// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/observability"
)

// Metrics holds every collector. It implements all three hook interfaces.
type Metrics struct {
	DocumentsTotal   *prometheus.CounterVec
	DocumentDuration prometheus.Histogram
	ReportLines      prometheus.Histogram
	GraphsTotal      *prometheus.CounterVec
	CacheTotal       *prometheus.CounterVec
	CacheBytes       *prometheus.CounterVec
	HTTPInFlight     prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// It panics if any collector is already registered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shaderdoc_documents_total",
				Help: "Reports generated, by outcome error code",
			},
			[]string{"code"},
		),
		DocumentDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shaderdoc_document_duration_seconds",
				Help:    "Time spent rendering a report",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		ReportLines: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shaderdoc_report_lines",
				Help:    "Lines per generated report",
				Buckets: prometheus.ExponentialBuckets(8, 4, 7),
			},
		),
		GraphsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shaderdoc_graphs_total",
				Help: "Node-link diagrams rendered, by format and outcome error code",
			},
			[]string{"format", "code"},
		),
		CacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shaderdoc_cache_operations_total",
				Help: "Cache lookups and writes, by key type and result",
			},
			[]string{"key_type", "result"},
		),
		CacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shaderdoc_cache_written_bytes_total",
				Help: "Bytes written to the cache, by key type",
			},
			[]string{"key_type"},
		),
		HTTPInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "shaderdoc_http_in_flight_requests",
				Help: "Requests currently being served",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shaderdoc_http_requests_total",
				Help: "Served HTTP requests, by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shaderdoc_http_request_duration_seconds",
				Help:    "HTTP request latency, by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		m.DocumentsTotal,
		m.DocumentDuration,
		m.ReportLines,
		m.GraphsTotal,
		m.CacheTotal,
		m.CacheBytes,
		m.HTTPInFlight,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Install registers m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// outcome labels a result by error code; "ok" for success.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "unknown"
}

func (m *Metrics) OnDocumentStart(context.Context, string) {}

func (m *Metrics) OnDocumentComplete(_ context.Context, _ string, lines int, d time.Duration, err error) {
	m.DocumentsTotal.WithLabelValues(outcome(err)).Inc()
	m.DocumentDuration.Observe(d.Seconds())
	if err == nil {
		m.ReportLines.Observe(float64(lines))
	}
}

func (m *Metrics) OnGraphStart(context.Context, string, string) {}

func (m *Metrics) OnGraphComplete(_ context.Context, _, format string, _ time.Duration, err error) {
	m.GraphsTotal.WithLabelValues(format, outcome(err)).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheTotal.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
