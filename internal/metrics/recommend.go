package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation engine metrics.
var (
	RecommendationResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "assessrec",
			Name:      "recommendation_result_size",
			Help:      "Number of assessments returned per recommendation",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)

	RecommendationDurationRelaxedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "assessrec",
			Name:      "recommendation_duration_relaxed_total",
			Help:      "Recommendations that needed the duration constraint relaxed",
		},
	)
)

var recMetricsRegistered bool

// RegisterRecommendationMetrics registers engine metrics. Must be called once from main.
func RegisterRecommendationMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendationResultSize)
	prometheus.MustRegister(RecommendationDurationRelaxedTotal)
	recMetricsRegistered = true
}
