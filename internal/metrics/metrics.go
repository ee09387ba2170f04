// Package metrics exposes Prometheus metrics for comparisons and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the service.
type Registry struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Comparisons
	ComparesTotal   *prometheus.CounterVec
	CompareDuration prometheus.Histogram
	DiffRowsTotal   *prometheus.CounterVec
	BOMLines        prometheus.Histogram

	// Jobs
	QueueDepth        prometheus.Gauge
	ArchiveRetries    prometheus.Counter
	ArchiveReuseTotal prometheus.Counter
}

func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initHTTPMetrics()
	r.initCompareMetrics()
	r.initJobMetrics()
	return r
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bomdiff_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bomdiff_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
}

func (r *Registry) initCompareMetrics() {
	r.ComparesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bomdiff_compares_total",
			Help: "Total number of BOM comparisons by outcome",
		},
		[]string{"status"},
	)
	r.CompareDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bomdiff_compare_duration_seconds",
			Help:    "Time spent parsing and comparing two BOMs",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.DiffRowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bomdiff_diff_rows_total",
			Help: "Report rows emitted by change kind",
		},
		[]string{"kind"},
	)
	r.BOMLines = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bomdiff_bom_lines",
			Help:    "Number of lines per parsed BOM",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)
}

func (r *Registry) initJobMetrics() {
	r.QueueDepth = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bomdiff_job_queue_depth",
			Help: "Jobs waiting for a worker",
		},
	)
	r.ArchiveRetries = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bomdiff_archive_retries_total",
			Help: "Archive calls retried after a retryable failure",
		},
	)
	r.ArchiveReuseTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bomdiff_archive_reuse_total",
			Help: "Jobs answered from an archived report with the same inputs",
		},
	)
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCompare records one comparison. Row counts are only recorded for
// successful comparisons. A nil registry records nothing.
func (r *Registry) RecordCompare(status string, duration time.Duration, added, removed, changed int) {
	if r == nil {
		return
	}
	r.ComparesTotal.WithLabelValues(status).Inc()
	r.CompareDuration.Observe(duration.Seconds())
	if status != "success" {
		return
	}
	r.DiffRowsTotal.WithLabelValues("added").Add(float64(added))
	r.DiffRowsTotal.WithLabelValues("removed").Add(float64(removed))
	r.DiffRowsTotal.WithLabelValues("changed").Add(float64(changed))
}

// RecordBOM records the size of one parsed BOM.
func (r *Registry) RecordBOM(lines int) {
	if r == nil {
		return
	}
	r.BOMLines.Observe(float64(lines))
}

// SetQueueDepth records the number of queued jobs.
func (r *Registry) SetQueueDepth(n int) {
	if r == nil {
		return
	}
	r.QueueDepth.Set(float64(n))
}

// IncArchiveRetry counts one retried archive call.
func (r *Registry) IncArchiveRetry() {
	if r == nil {
		return
	}
	r.ArchiveRetries.Inc()
}

// IncArchiveReuse counts one job answered from the archive.
func (r *Registry) IncArchiveReuse() {
	if r == nil {
		return
	}
	r.ArchiveReuseTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
