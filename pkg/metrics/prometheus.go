// Package metrics provides Prometheus metrics for the tasting service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// scoreBuckets covers the 0-20 tasting scale in two-point steps.
var scoreBuckets = []float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the tasting service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Tasting metrics
	tastingsRecorded  prometheus.Counter
	tastingScore      prometheus.Histogram
	answeredQuestions prometheus.Histogram
	skippedQuestions  prometheus.Counter
	historySize       prometheus.Gauge
	resets            *prometheus.CounterVec

	// Persistence metrics
	persistenceErrors  *prometheus.CounterVec
	persistenceLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Remote API client metrics
	remoteRequests *prometheus.CounterVec
	remoteLatency  *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tasting",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.tastingsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tastings_recorded_total",
		Help:        "Total number of completed tastings appended to history",
		ConstLabels: labels,
	})

	m.tastingScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tasting_score",
		Help:        "Distribution of final tasting scores on the 0-20 scale",
		Buckets:     scoreBuckets,
		ConstLabels: labels,
	})

	m.answeredQuestions = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "answered_questions",
		Help:        "Number of answered questions per completed tasting",
		Buckets:     prometheus.LinearBuckets(0, 1, 11),
		ConstLabels: labels,
	})

	m.skippedQuestions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "questions_skipped_total",
		Help:        "Total number of questions skipped during tastings",
		ConstLabels: labels,
	})

	m.historySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_size",
		Help:        "Number of tasting records currently held in history",
		ConstLabels: labels,
	})

	m.resets = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "data_resets_total",
		Help:        "Data reset attempts by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.persistenceErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "storage",
		Name:        "errors_total",
		Help:        "Key/value store failures by store and operation",
		ConstLabels: labels,
	}, []string{"store", "op"})

	m.persistenceLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "storage",
		Name:        "operation_duration_ms",
		Help:        "Key/value store operation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"store", "op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "Total number of HTTP requests",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_ms",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "errors_total",
		Help:        "HTTP error responses by endpoint and error type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.remoteRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "remote",
		Name:        "requests_total",
		Help:        "Requests sent to the remote tasting backend",
		ConstLabels: labels,
	}, []string{"endpoint", "outcome"})

	m.remoteLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "remote",
		Name:        "request_duration_ms",
		Help:        "Remote backend request latency in milliseconds",
		Buckets:     []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		ConstLabels: labels,
	}, []string{"endpoint"})
}

// Enabled reports whether observations are recorded.
func (m *Manager) Enabled() bool { return m.enabled }

// SetEnabled turns observations on or off.
func (m *Manager) SetEnabled(enabled bool) { m.enabled = enabled }

// RecordTasting observes one completed tasting.
func (m *Manager) RecordTasting(score float64, answered, skipped int) {
	if !m.enabled {
		return
	}
	m.tastingsRecorded.Inc()
	m.tastingScore.Observe(score)
	m.answeredQuestions.Observe(float64(answered))
	if skipped > 0 {
		m.skippedQuestions.Add(float64(skipped))
	}
}

// UpdateHistorySize sets the history gauge.
func (m *Manager) UpdateHistorySize(n int) {
	if m.enabled {
		m.historySize.Set(float64(n))
	}
}

// RecordReset counts a reset attempt ("cleared" or "declined").
func (m *Manager) RecordReset(outcome string) {
	if m.enabled {
		m.resets.WithLabelValues(outcome).Inc()
	}
}

// RecordPersistenceError counts a failed store operation.
func (m *Manager) RecordPersistenceError(store, op string) {
	if m.enabled {
		m.persistenceErrors.WithLabelValues(store, op).Inc()
	}
}

// RecordPersistenceLatency observes a store operation duration.
func (m *Manager) RecordPersistenceLatency(store, op string, latencyMs float64) {
	if m.enabled {
		m.persistenceLatency.WithLabelValues(store, op).Observe(latencyMs)
	}
}

// RecordHTTPRequest counts a served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	if m.enabled {
		m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordRemoteRequest counts a remote call and observes its latency.
func (m *Manager) RecordRemoteRequest(endpoint, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.remoteRequests.WithLabelValues(endpoint, outcome).Inc()
	m.remoteLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// Package-level helpers operate on the global manager.

// SetEnabled turns the global manager on or off. Call it before serving.
func SetEnabled(enabled bool) { globalManager.SetEnabled(enabled) }

// RecordTasting observes one completed tasting.
func RecordTasting(score float64, answered, skipped int) {
	globalManager.RecordTasting(score, answered, skipped)
}

// UpdateHistorySize sets the history gauge.
func UpdateHistorySize(n int) { globalManager.UpdateHistorySize(n) }

// RecordReset counts a reset attempt.
func RecordReset(outcome string) { globalManager.RecordReset(outcome) }

// RecordPersistenceError counts a failed store operation.
func RecordPersistenceError(store, op string) { globalManager.RecordPersistenceError(store, op) }

// RecordPersistenceLatency observes a store operation duration.
func RecordPersistenceLatency(store, op string, latencyMs float64) {
	globalManager.RecordPersistenceLatency(store, op, latencyMs)
}

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

// RecordRemoteRequest counts a remote call.
func RecordRemoteRequest(endpoint, outcome string, latencyMs float64) {
	globalManager.RecordRemoteRequest(endpoint, outcome, latencyMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
