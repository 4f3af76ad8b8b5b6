package suggestions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_generations_total",
			Help: "Total number of weekly suggestion generations",
		},
		[]string{"category"},
	)

	candidateScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suggestions_candidate_scores",
			Help:    "Distribution of template relevance scores at generation time",
			Buckets: prometheus.LinearBuckets(0, 20, 10),
		},
		[]string{"category"},
	)
)

func RecordGeneration(category string) {
	generationsTotal.WithLabelValues(category).Inc()
}

func RecordCandidateScore(category string, score int) {
	candidateScores.WithLabelValues(category).Observe(float64(score))
}
