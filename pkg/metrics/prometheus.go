// Package metrics provides Prometheus metrics for the IncluScore scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scoring service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring pipeline
	scoresComputed     prometheus.Counter
	scoringLatency     prometheus.Histogram
	scoringErrors      prometheus.Counter
	validationFailures prometheus.Counter

	// Incremental simulation
	simulationsTotal     prometheus.Counter
	simulationDeltaScore prometheus.Histogram

	// Collaborator health
	modelReady       prometheus.Gauge
	storageConnected prometheus.Gauge
	storageErrors    prometheus.Counter
	trackedUsers     prometheus.Gauge

	// Live score stream
	streamConnections prometheus.Gauge
	streamMessages    prometheus.Counter
	streamDropped     prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "incluscore",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoresComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_computed_total",
		Help:      "Total number of credit scores computed",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "latency_milliseconds",
		Help:      "Latency of one full scoring pass in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Total number of failed scoring attempts",
	})

	m.validationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Total number of feature vectors rejected by validation",
	})

	m.simulationsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "simulations_total",
		Help:      "Total number of incremental score simulations",
	})

	m.simulationDeltaScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "simulation_delta_points",
		Help:      "Score delta produced by incremental simulations",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	})

	m.modelReady = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_ready",
		Help:      "Whether the pretrained model is loaded (1) or not (0)",
	})

	m.storageConnected = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storage_connected",
		Help:      "Whether the state store is reachable (1) or not (0)",
	})

	m.storageErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storage_errors_total",
		Help:      "Total number of state store failures",
	})

	m.trackedUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_users",
		Help:      "Number of users with stored financial state",
	})

	m.streamConnections = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_connections",
		Help:      "Number of open live score stream connections",
	})

	m.streamMessages = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_messages_total",
		Help:      "Total number of feature updates scored over the stream",
	})

	m.streamDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_dropped_results_total",
		Help:      "Total number of stale stream results replaced before send",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordScoreComputed increments the computed scores counter.
func RecordScoreComputed() {
	globalManager.scoresComputed.Inc()
}

// RecordScoringLatency records one scoring pass latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordValidationFailure increments the rejected vector counter.
func RecordValidationFailure() {
	globalManager.validationFailures.Inc()
}

// RecordSimulation records one incremental simulation and its score delta.
func RecordSimulation(deltaPoints int) {
	globalManager.simulationsTotal.Inc()
	globalManager.simulationDeltaScore.Observe(float64(deltaPoints))
}

// UpdateModelReady sets the model readiness gauge.
func UpdateModelReady(ready bool) {
	globalManager.modelReady.Set(boolGauge(ready))
}

// UpdateStorageConnected sets the storage health gauge.
func UpdateStorageConnected(connected bool) {
	globalManager.storageConnected.Set(boolGauge(connected))
}

// RecordStorageError increments the state store failure counter.
func RecordStorageError() {
	globalManager.storageErrors.Inc()
}

// UpdateTrackedUsers sets the tracked user count.
func UpdateTrackedUsers(count int) {
	globalManager.trackedUsers.Set(float64(count))
}

// StreamConnectionOpened increments the open stream gauge.
func StreamConnectionOpened() {
	globalManager.streamConnections.Inc()
}

// StreamConnectionClosed decrements the open stream gauge.
func StreamConnectionClosed() {
	globalManager.streamConnections.Dec()
}

// RecordStreamMessage increments the scored stream update counter.
func RecordStreamMessage() {
	globalManager.streamMessages.Inc()
}

// RecordStreamDroppedResult counts a stale result replaced before sending.
func RecordStreamDroppedResult() {
	globalManager.streamDropped.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
