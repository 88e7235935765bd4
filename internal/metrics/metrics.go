// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry and the application collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	classifications     *prometheus.CounterVec
	historyAppends      *prometheus.CounterVec
	storeErrors         *prometheus.CounterVec
}

// New creates a Metrics with its own registry, including the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bmitrack_http_requests_total",
				Help: "Total number of HTTP requests labeled by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bmitrack_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		classifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bmitrack_classifications_total",
				Help: "Number of BMI values classified, by category",
			},
			[]string{"category"},
		),
		historyAppends: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bmitrack_history_appends_total",
				Help: "Weight log appends split by result",
			},
			[]string{"result"},
		),
		storeErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bmitrack_store_errors_total",
				Help: "Storage failures by operation",
			},
			[]string{"op"},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest counts one finished HTTP request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordClassification counts a BMI classified into category.
func (m *Metrics) RecordClassification(category string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(category).Inc()
}

// RecordHistoryAppend counts a weight log append.
func (m *Metrics) RecordHistoryAppend(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.historyAppends.WithLabelValues(result).Inc()
}

// RecordStoreError counts a failed storage operation.
func (m *Metrics) RecordStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}
