// Package metrics exposes Prometheus instrumentation for the prediction
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the system
type Metrics struct {
	PredictionsTotal   prometheus.Counter
	ExplanationsTotal  prometheus.Counter
	ClassifierQueries  prometheus.Counter
	ClassifierFailures prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter

	ExplainDuration prometheus.Histogram
	PredictedRisk   prometheus.Histogram
	OutcomesByTier  *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		PredictionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "plaquerisk_predictions_total",
			Help: "Total number of risk predictions served",
		}),
		ExplanationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "plaquerisk_explanations_total",
			Help: "Total number of counterfactual explanations computed",
		}),
		ClassifierQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "plaquerisk_classifier_queries_total",
			Help: "Total number of probability queries sent to the classifier",
		}),
		ClassifierFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "plaquerisk_classifier_failures_total",
			Help: "Number of classifier queries that returned an error",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "plaquerisk_cache_hits_total",
			Help: "Number of single-profile queries served from the LRU cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "plaquerisk_cache_misses_total",
			Help: "Number of single-profile queries delegated to the classifier",
		}),
		ExplainDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "plaquerisk_explain_duration_seconds",
			Help:    "Wall time of one full counterfactual explanation",
			Buckets: prometheus.DefBuckets,
		}),
		PredictedRisk: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "plaquerisk_predicted_risk",
			Help:    "Distribution of predicted adverse-outcome probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		OutcomesByTier: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plaquerisk_predictions_by_tier_total",
				Help: "Risk predictions partitioned by assigned tier",
			},
			[]string{"tier"},
		),
	}
}
