package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Degraded kinds.
const (
	KindDiagnosis = "diagnosis"
	KindSummary   = "summary"
)

// Metrics holds all Prometheus metrics for the drill backend. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Session metrics
	SessionsCreated   *prometheus.CounterVec
	SessionsStored    prometheus.Gauge
	SourcingFailures  *prometheus.CounterVec
	AnalyzeRequests   *prometheus.CounterVec
	MistakesPerSubmit prometheus.Histogram

	// Diagnosis and summary metrics
	Diagnoses         *prometheus.CounterVec
	DiagnosisDuration prometheus.Histogram
	Degraded          *prometheus.CounterVec

	// Provider metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	ProviderTokens   *prometheus.CounterVec
	ProviderErrors   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics creates and registers all Prometheus metrics on the default
// registry. Repeated calls return the same instance.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			SessionsCreated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_sessions_created_total",
					Help: "Sessions created, by content source",
				},
				[]string{"source"}, // corpus, generated
			),
			SessionsStored: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "drill_sessions_stored",
					Help: "Sessions currently held in memory",
				},
			),
			SourcingFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_content_sourcing_failures_total",
					Help: "Content sourcing path failures",
				},
				[]string{"path"}, // corpus, generation
			),
			AnalyzeRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_analyze_requests_total",
					Help: "Analyze-answers calls by outcome",
				},
				[]string{"result"}, // ok, not_found, no_mistakes
			),
			MistakesPerSubmit: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "drill_mistakes_per_submission",
					Help:    "Wrong answers per analyze-answers call",
					Buckets: prometheus.LinearBuckets(0, 1, 6),
				},
			),
			Diagnoses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_diagnoses_total",
					Help: "Mistake diagnoses produced",
				},
				[]string{"trap_type", "degraded"},
			),
			DiagnosisDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "drill_diagnosis_duration_seconds",
					Help:    "Time to diagnose one mistake",
					Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to 32s
				},
			),
			Degraded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_degraded_total",
					Help: "Provider results replaced by a fallback value",
				},
				[]string{"kind"},
			),
			ProviderRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_provider_requests_total",
					Help: "LLM provider requests",
				},
				[]string{"purpose", "model", "success"},
			),
			ProviderLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "drill_provider_request_duration_seconds",
					Help:    "LLM provider request duration in seconds",
					Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to 51s
				},
				[]string{"purpose"},
			),
			ProviderTokens: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_provider_tokens_total",
					Help: "Tokens consumed by LLM requests",
				},
				[]string{"purpose", "type"}, // type: input, output
			),
			ProviderErrors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_provider_errors_total",
					Help: "Failed LLM provider requests by error kind",
				},
				[]string{"purpose", "kind"},
			),
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "drill_http_requests_total",
					Help: "HTTP requests served",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "drill_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
		}
	})
	return sharedMetrics
}

// RecordSessionCreated counts a stored session.
func (m *Metrics) RecordSessionCreated(source string) {
	if m == nil {
		return
	}
	m.SessionsCreated.WithLabelValues(source).Inc()
	m.SessionsStored.Inc()
}

// RecordSourcingFailure counts a failed content path.
func (m *Metrics) RecordSourcingFailure(path string) {
	if m == nil {
		return
	}
	m.SourcingFailures.WithLabelValues(path).Inc()
}

// RecordAnalyze counts one analyze-answers call.
func (m *Metrics) RecordAnalyze(result string, mistakes int) {
	if m == nil {
		return
	}
	m.AnalyzeRequests.WithLabelValues(result).Inc()
	if result != "not_found" {
		m.MistakesPerSubmit.Observe(float64(mistakes))
	}
}

// RecordDiagnosis counts one diagnosis and its latency in seconds.
func (m *Metrics) RecordDiagnosis(trapType string, degraded bool, seconds float64) {
	if m == nil {
		return
	}
	d := "false"
	if degraded {
		d = "true"
	}
	m.Diagnoses.WithLabelValues(trapType, d).Inc()
	m.DiagnosisDuration.Observe(seconds)
}

// RecordDegraded counts a fallback substitution.
func (m *Metrics) RecordDegraded(kind string) {
	if m == nil {
		return
	}
	m.Degraded.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}
