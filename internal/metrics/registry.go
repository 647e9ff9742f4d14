package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for completed analyses
const (
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
	OutcomeNoData    = "no_data"
	OutcomeCached    = "cached"
	OutcomeInvalid   = "invalid"
)

// Registry holds all Prometheus metrics for contentrun
type Registry struct {
	registry *prometheus.Registry

	Analyses         *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	GeneratorCalls   *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	BreakerState     *prometheus.GaugeVec
}

// NewRegistry creates a registry with all contentrun metrics registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contentrun_analyses_total",
				Help: "Completed analyses by outcome",
			},
			[]string{"outcome"},
		),

		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contentrun_analysis_duration_seconds",
				Help:    "End to end analysis duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"outcome"},
		),

		GeneratorCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contentrun_generator_calls_total",
				Help: "Text generator calls by operation and result",
			},
			[]string{"op", "result"},
		),

		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contentrun_fallbacks_total",
				Help: "Fixed fallback substitutions by operation",
			},
			[]string{"op"},
		),

		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contentrun_narrative_cache_hits_total",
				Help: "Narrative cache hits",
			},
		),

		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contentrun_narrative_cache_misses_total",
				Help: "Narrative cache misses",
			},
		),

		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "contentrun_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"breaker"},
		),
	}

	r.registry.MustRegister(
		r.Analyses,
		r.AnalysisDuration,
		r.GeneratorCalls,
		r.Fallbacks,
		r.CacheHits,
		r.CacheMisses,
		r.BreakerState,
	)
	return r
}

// Gatherer exposes the underlying registry for scraping and tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one finished analysis
func (r *Registry) ObserveAnalysis(outcome string, elapsed time.Duration) {
	r.Analyses.WithLabelValues(outcome).Inc()
	r.AnalysisDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// RecordGeneratorCall records a collaborator call result ("ok" or "error")
func (r *Registry) RecordGeneratorCall(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.GeneratorCalls.WithLabelValues(op, result).Inc()
}

// RecordFallback records that a fixed payload replaced a generated one
func (r *Registry) RecordFallback(op string) {
	r.Fallbacks.WithLabelValues(op).Inc()
}

// RecordCache records a narrative cache lookup
func (r *Registry) RecordCache(hit bool) {
	if hit {
		r.CacheHits.Inc()
		return
	}
	r.CacheMisses.Inc()
}

// SetBreakerState publishes a breaker state as a gauge value
func (r *Registry) SetBreakerState(name string, state float64) {
	r.BreakerState.WithLabelValues(name).Set(state)
}
