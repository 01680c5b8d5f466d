// Package metrics provides Prometheus metrics for the cvmatch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Matching pipeline
	documentsExtracted *prometheus.CounterVec
	extractionErrors   *prometheus.CounterVec
	skillsExtracted    prometheus.Histogram
	matchLatency       *prometheus.HistogramVec
	matchRequests      *prometheus.CounterVec
	noSkillsFound      prometheus.Counter
	postingNotFound    prometheus.Counter
	fallbackLookups    prometheus.Counter

	// Catalog
	catalogPostings   prometheus.Gauge
	catalogVocabulary prometheus.Gauge

	// Report cache
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge

	// Analysis queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Analysis workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter
	analysesCompleted       prometheus.Counter
	analysesFailed          prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// customRegistry keeps the default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cvmatch",
		subsystem:        "matcher",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.documentsExtracted = m.counterVec("documents_extracted_total", "Résumés converted to text, by format", "format")
	m.extractionErrors = m.counterVec("extraction_errors_total", "Résumés that could not be converted to text, by format and reason", "format", "reason")
	m.skillsExtracted = m.histogram("skills_extracted", "Number of catalog skills found per résumé",
		[]float64{0, 1, 2, 5, 10, 20, 50, 100})
	m.matchLatency = m.histogramVec("match_latency_milliseconds", "Time spent scoring a résumé against the catalog", m.histogramBuckets, "policy")
	m.matchRequests = m.counterVec("match_requests_total", "Match operations by policy", "policy")
	m.noSkillsFound = m.counter("no_skills_found_total", "Résumés that yielded no catalog skills")
	m.postingNotFound = m.counter("posting_not_found_total", "Single-target lookups that found no posting")
	m.fallbackLookups = m.counter("fallback_lookups_total", "Single-target lookups resolved by title only")

	m.catalogPostings = m.gauge("catalog_postings", "Job postings loaded in the catalog")
	m.catalogVocabulary = m.gauge("catalog_vocabulary", "Distinct skills in the catalog vocabulary")

	m.cacheHits = m.counter("report_cache_hits_total", "Report cache hits")
	m.cacheMisses = m.counter("report_cache_misses_total", "Report cache misses")
	m.cacheSize = m.gauge("report_cache_size", "Entries held by the report cache")

	m.queueSize = m.gauge("analysis_queue_size", "Analysis jobs waiting in the queue")
	m.queueCapacity = m.gauge("analysis_queue_capacity", "Maximum analysis queue capacity")
	m.queueUtilization = m.gauge("analysis_queue_utilization", "Analysis queue utilization ratio (0-1)")
	m.queueEnqueue = m.counter("analysis_queue_enqueue_total", "Analysis jobs enqueued")
	m.queueDequeue = m.counter("analysis_queue_dequeue_total", "Analysis jobs dequeued")
	m.queueEnqueueErrors = m.counter("analysis_queue_enqueue_errors_total", "Analysis jobs rejected by the queue")

	m.workerCount = m.gauge("analysis_worker_count", "Analysis workers running")
	m.workerProcessingLatency = m.histogram("analysis_worker_latency_milliseconds", "Time a worker spends on one analysis job", m.histogramBuckets)
	m.workerErrors = m.counter("analysis_worker_errors_total", "Analysis jobs that failed in a worker")
	m.analysesCompleted = m.counter("analyses_completed_total", "Analysis jobs completed")
	m.analysesFailed = m.counter("analyses_failed_total", "Analysis jobs that ended in failure")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets, "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that resulted in errors",
		m.histogramBuckets, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordDocumentExtracted counts a successful résumé conversion.
func RecordDocumentExtracted(format string) {
	globalManager.documentsExtracted.WithLabelValues(format).Inc()
}

// RecordExtractionError counts a failed résumé conversion.
func RecordExtractionError(format, reason string) {
	globalManager.extractionErrors.WithLabelValues(format, reason).Inc()
}

// RecordSkillsExtracted observes how many skills one résumé produced.
func RecordSkillsExtracted(count int) {
	globalManager.skillsExtracted.Observe(float64(count))
}

// RecordMatchLatency observes scoring time for a policy.
func RecordMatchLatency(policy string, latencyMs float64) {
	globalManager.matchRequests.WithLabelValues(policy).Inc()
	globalManager.matchLatency.WithLabelValues(policy).Observe(latencyMs)
}

// RecordNoSkillsFound counts résumés without usable skills.
func RecordNoSkillsFound() {
	globalManager.noSkillsFound.Inc()
}

// RecordPostingNotFound counts failed single-target lookups.
func RecordPostingNotFound() {
	globalManager.postingNotFound.Inc()
}

// RecordFallbackLookup counts title-only single-target lookups.
func RecordFallbackLookup() {
	globalManager.fallbackLookups.Inc()
}

// UpdateCatalogSize publishes the loaded catalog dimensions.
func UpdateCatalogSize(postings, vocabulary int) {
	globalManager.catalogPostings.Set(float64(postings))
	globalManager.catalogVocabulary.Set(float64(vocabulary))
}

// RecordCacheHit counts a report cache hit.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss counts a report cache miss.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateCacheSize sets the number of cached reports.
func UpdateCacheSize(size int64) {
	globalManager.cacheSize.Set(float64(size))
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of analysis workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records the time spent on one job.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordAnalysisCompleted counts a finished analysis.
func RecordAnalysisCompleted() {
	globalManager.analysesCompleted.Inc()
}

// RecordAnalysisFailed counts a failed analysis.
func RecordAnalysisFailed() {
	globalManager.analysesFailed.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets heap memory in use.
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

// GetRegistry returns the registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
