// Package metrics provides Prometheus metrics for the cockpit telemetry service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the cockpit service.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Telemetry decoding
	polls             prometheus.Counter
	pollLatency       prometheus.Histogram
	regionDecodes     *prometheus.CounterVec
	regionUnavailable *prometheus.CounterVec
	decodeMismatches  *prometheus.CounterVec
	transportFailures *prometheus.CounterVec
	valuesPublished   prometheus.Counter
	blinkToggles      *prometheus.CounterVec

	// Binding graph
	triggerFirings    prometheus.Counter
	bindingDispatches prometheus.Counter
	bindingFiltered   prometheus.Counter
	actionErrors      prometheus.Counter
	bindingsRejected  *prometheus.CounterVec
	bindingsActive    prometheus.Gauge
	defaultBindings   *prometheus.CounterVec

	// Value store
	storeValues prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Recording queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Recording worker
	recorderFramesWritten prometheus.Counter
	recorderErrors        prometheus.Counter
	workerLatency         prometheus.Histogram

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cockpit",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	pollBuckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 25, 50}

	// Telemetry decoding
	m.polls = m.counter("telemetry_polls_total", "Total number of decoder polls")
	m.pollLatency = m.histogram("telemetry_poll_latency_milliseconds", "Duration of one decoder poll including propagation", pollBuckets)
	m.regionDecodes = m.counterVec("telemetry_region_decodes_total", "Snapshot regions decoded successfully", "region")
	m.regionUnavailable = m.counterVec("telemetry_region_unavailable_total", "Polls where a region had no data", "region")
	m.decodeMismatches = m.counterVec("telemetry_decode_mismatch_total", "Snapshots whose layout did not match the expected record", "region")
	m.transportFailures = m.counterVec("telemetry_transport_failures_total", "Snapshot source open/close failures", "region", "op")
	m.valuesPublished = m.counter("telemetry_values_published_total", "Named values published by the decoder")
	m.blinkToggles = m.counterVec("telemetry_blink_toggles_total", "Blink state toggles per indicator", "indicator")

	// Binding graph
	m.triggerFirings = m.counter("binding_trigger_firings_total", "Trigger firings entering the binding graph")
	m.bindingDispatches = m.counter("binding_dispatches_total", "Actions executed through bindings")
	m.bindingFiltered = m.counter("binding_filtered_total", "Dispatches skipped by a value filter")
	m.actionErrors = m.counter("binding_action_errors_total", "Actions that returned an error or were missing at dispatch")
	m.bindingsRejected = m.counterVec("binding_rejected_total", "Bindings rejected at wiring time", "reason")
	m.bindingsActive = m.gauge("binding_active", "Bindings currently held by the graph")
	m.defaultBindings = m.counterVec("binding_default_total", "Default binding resolution outcomes", "result")

	// Value store
	m.storeValues = m.gauge("store_values", "Distinct named values held by the value store")

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")

	// Recording queue
	m.queueSize = m.gauge("recorder_queue_size", "Frames waiting in the recording queue")
	m.queueCapacity = m.gauge("recorder_queue_capacity", "Maximum capacity of the recording queue")
	m.queueUtilization = m.gauge("recorder_queue_utilization_ratio", "Recording queue utilization (0-1)")
	m.queueEnqueueRate = m.counter("recorder_queue_enqueue_total", "Frames enqueued for recording")
	m.queueDequeueRate = m.counter("recorder_queue_dequeue_total", "Frames dequeued for recording")
	m.queueEnqueueErrors = m.counter("recorder_queue_enqueue_errors_total", "Frames dropped at enqueue")
	m.queueProcessingLatency = m.histogram("recorder_queue_latency_milliseconds", "Enqueue latency in milliseconds", m.histogramBuckets)

	// Recording worker
	m.recorderFramesWritten = m.counter("recorder_frames_written_total", "Frames written to the recording")
	m.recorderErrors = m.counter("recorder_errors_total", "Frames that failed to be written")
	m.workerLatency = m.histogram("recorder_write_latency_milliseconds", "Time to write one frame in milliseconds", m.histogramBuckets)

	// Enhanced Error Metrics
	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in error", m.histogramBuckets, "component", "error_type")

	// System Performance Metrics
	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Telemetry Metrics Functions.

// RecordPoll increments the poll counter and observes its latency.
func RecordPoll(latencyMs float64) {
	globalManager.polls.Inc()
	globalManager.pollLatency.Observe(latencyMs)
}

// RecordRegionDecode counts a successful decode of region.
func RecordRegionDecode(region string) {
	globalManager.regionDecodes.WithLabelValues(region).Inc()
}

// RecordRegionUnavailable counts a poll where region had no data.
func RecordRegionUnavailable(region string) {
	globalManager.regionUnavailable.WithLabelValues(region).Inc()
}

// RecordDecodeMismatch counts a snapshot that did not fit the region layout.
func RecordDecodeMismatch(region string) {
	globalManager.decodeMismatches.WithLabelValues(region).Inc()
}

// RecordTransportFailure counts an open or close failure on a region source.
func RecordTransportFailure(region, op string) {
	globalManager.transportFailures.WithLabelValues(region, op).Inc()
}

// RecordValuesPublished adds n published values.
func RecordValuesPublished(n int) {
	globalManager.valuesPublished.Add(float64(n))
}

// RecordBlinkToggle counts a blink toggle of indicator.
func RecordBlinkToggle(indicator string) {
	globalManager.blinkToggles.WithLabelValues(indicator).Inc()
}

// Binding Metrics Functions.

// RecordTriggerFiring counts one trigger firing.
func RecordTriggerFiring() {
	globalManager.triggerFirings.Inc()
}

// RecordBindingDispatch counts one executed action.
func RecordBindingDispatch() {
	globalManager.bindingDispatches.Inc()
}

// RecordBindingFiltered counts one dispatch skipped by a filter.
func RecordBindingFiltered() {
	globalManager.bindingFiltered.Inc()
}

// RecordActionError counts an action failure during dispatch.
func RecordActionError() {
	globalManager.actionErrors.Inc()
}

// RecordBindingRejected counts a binding refused at wiring time.
func RecordBindingRejected(reason string) {
	globalManager.bindingsRejected.WithLabelValues(reason).Inc()
}

// UpdateBindingsActive sets the number of bindings held by the graph.
func UpdateBindingsActive(count int) {
	globalManager.bindingsActive.Set(float64(count))
}

// RecordDefaultBinding counts a default binding outcome ("materialized", "failed", "duplicate").
func RecordDefaultBinding(result string) {
	globalManager.defaultBindings.WithLabelValues(result).Inc()
}

// UpdateStoreValues sets the number of values held by the value store.
func UpdateStoreValues(count int) {
	globalManager.storeValues.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
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
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Recorder Metrics Functions.

// RecordFrameWritten counts a frame persisted by the recorder.
func RecordFrameWritten() {
	globalManager.recorderFramesWritten.Inc()
}

// RecordRecorderError counts a frame the recorder failed to write.
func RecordRecorderError() {
	globalManager.recorderErrors.Inc()
}

// RecordWorkerProcessingLatency records the time spent writing one frame.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// Enhanced Error Metrics Functions.

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

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
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

// Init rebuilds the global metrics on a fresh registry with opts applied.
// Call it before anything records metrics.
func Init(opts ...Option) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	opts = append(append([]Option(nil), opts...), WithPrometheusRegistry(registry))
	globalManager = NewManager(opts...)
	customRegistry = registry
	return registry
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
