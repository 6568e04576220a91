// Package metrics exposes Prometheus collectors for the verification service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "factcheck"

const (
	StageSearch     = "search"
	StageAssemble   = "assemble"
	StageSynthesize = "synthesize"
	StageLocalize   = "localize"
	StageMap        = "map"
)

type Metrics struct {
	requests             *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	stageDuration        *prometheus.HistogramVec
	evidenceItems        prometheus.Histogram
	verdicts             *prometheus.CounterVec
	translationFallbacks *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"route"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Latency of each verification stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		evidenceItems: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evidence_items",
			Help:      "Evidence items assembled per verification.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}),
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Verdicts returned by language.",
		}, []string{"verdict", "language"}),
		translationFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_fallbacks_total",
			Help:      "Explanations returned untranslated after a failed translation.",
		}, []string{"language"}),
	}
}

func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveStage(stage string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveEvidence(n int) {
	if m == nil {
		return
	}
	m.evidenceItems.Observe(float64(n))
}

func (m *Metrics) CountVerdict(verdict, language string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(verdict, language).Inc()
}

func (m *Metrics) CountTranslationFallback(language string) {
	if m == nil {
		return
	}
	m.translationFallbacks.WithLabelValues(language).Inc()
}
