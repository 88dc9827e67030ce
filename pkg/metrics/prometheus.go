// Package metrics provides Prometheus metrics for the pokelookup service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels shared by counters that split success from failure.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Lookup metrics
	lookups        *prometheus.CounterVec
	lookupLatency  prometheus.Histogram
	rosterSize     prometheus.Gauge
	rosterDropped  prometheus.Gauge
	rosterReloads  *prometheus.CounterVec
	cacheDocuments prometheus.Gauge

	// Upstream fetch metrics
	fetchRequests *prometheus.CounterVec
	fetchLatency  prometheus.Histogram

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Worker metrics
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            *prometheus.CounterVec
	workerRetries           prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served by /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pokelookup",
		subsystem:        "",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.lookups = auto.NewCounterVec(m.counterOpts("lookups_total",
		"Lookups by match kind (exact_name, exact_id, fuzzy, miss)"), []string{"kind"})
	m.lookupLatency = auto.NewHistogram(m.histogramOpts("lookup_latency_milliseconds",
		"Name/id resolution latency in milliseconds", m.histogramBuckets))
	m.rosterSize = auto.NewGauge(m.gaugeOpts("roster_size",
		"Resolved Pokemon in the active roster"))
	m.rosterDropped = auto.NewGauge(m.gaugeOpts("roster_dropped_records",
		"Records dropped from the active roster because a type could not be resolved"))
	m.rosterReloads = auto.NewCounterVec(m.counterOpts("roster_reloads_total",
		"Roster reloads by result"), []string{"result"})
	m.cacheDocuments = auto.NewGauge(m.gaugeOpts("cache_documents",
		"Raw documents held in the local cache"))

	m.fetchRequests = auto.NewCounterVec(m.counterOpts("fetch_requests_total",
		"Upstream document requests by result"), []string{"result"})
	m.fetchLatency = auto.NewHistogram(m.histogramOpts("fetch_latency_milliseconds",
		"Upstream document request latency in milliseconds", m.histogramBuckets))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Fetch jobs waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum fetch jobs the queue can hold"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Fetch jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Fetch jobs handed to workers"))
	m.queueEnqueueErrors = auto.NewCounterVec(m.counterOpts("queue_enqueue_errors_total",
		"Rejected enqueues by reason"), []string{"reason"})

	m.workerActive = auto.NewGauge(m.gaugeOpts("worker_active_count", "Running fetch workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Time to fetch and store one job, including retries", m.histogramBuckets))
	m.workerErrors = auto.NewCounterVec(m.counterOpts("worker_errors_total",
		"Failed jobs by stage (fetch, store)"), []string{"stage"})
	m.workerRetries = auto.NewCounter(m.counterOpts("worker_retries_total", "Fetch retries"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts("http_errors_total",
		"HTTP error responses by endpoint, method and class"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// Lookup metrics.

// RecordLookup counts one resolution by match kind and observes its latency.
func RecordLookup(kind string, d time.Duration) {
	globalManager.lookups.WithLabelValues(kind).Inc()
	globalManager.lookupLatency.Observe(ms(d))
}

// UpdateRosterSize sets the number of resolved Pokemon.
func UpdateRosterSize(n int) {
	globalManager.rosterSize.Set(float64(n))
}

// UpdateDroppedRecords sets the number of records dropped at load.
func UpdateDroppedRecords(n int) {
	globalManager.rosterDropped.Set(float64(n))
}

// RecordReload counts a roster reload attempt.
func RecordReload(err error) {
	globalManager.rosterReloads.WithLabelValues(result(err)).Inc()
}

// UpdateCacheSize sets the number of cached documents.
func UpdateCacheSize(n int) {
	globalManager.cacheDocuments.Set(float64(n))
}

// Fetch metrics.

// RecordFetch counts an upstream request and observes its latency.
func RecordFetch(d time.Duration, err error) {
	globalManager.fetchRequests.WithLabelValues(result(err)).Inc()
	globalManager.fetchLatency.Observe(ms(d))
}

// Queue metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// Worker metrics.

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerProcessingLatency observes the time spent on one job.
func RecordWorkerProcessingLatency(d time.Duration) {
	globalManager.workerProcessingLatency.Observe(ms(d))
}

// RecordWorkerError counts a failed job at the given stage.
func RecordWorkerError(stage string) {
	globalManager.workerErrors.WithLabelValues(stage).Inc()
}

// RecordWorkerRetry counts a fetch retry.
func RecordWorkerRetry() {
	globalManager.workerRetries.Inc()
}

// HTTP metrics.

// RecordHTTPRequest counts a request and observes its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, d time.Duration) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms(d))
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the package-level helpers record into.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
