package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ObservationsClustered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visionscribe_observations_clustered_total",
			Help: "Total number of text observations passed through the clusterer",
		},
	)

	ClustersFormed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visionscribe_clusters_formed_total",
			Help: "Total number of clusters produced",
		},
	)

	ClassifierAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionscribe_classifier_attempts_total",
			Help: "Classifier calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ClassifierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "visionscribe_classifier_duration_seconds",
			Help:    "Latency of a single classifier attempt",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)

	ClassifierCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visionscribe_classifier_cache_hits_total",
			Help: "Classifier batches served from the response cache",
		},
	)

	ConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionscribe_conflicts_total",
			Help: "Conflicts recorded while assembling project trees",
		},
		[]string{"kind", "resolution"},
	)

	ReconstructionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionscribe_reconstructions_total",
			Help: "Reconstruction runs by status",
		},
		[]string{"status"},
	)

	ReconstructionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "visionscribe_reconstruction_duration_seconds",
			Help:    "End-to-end reconstruction time",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)
)

func RecordClassifierAttempt(provider, outcome string, elapsed time.Duration) {
	ClassifierAttempts.WithLabelValues(provider, outcome).Inc()
	ClassifierDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func RecordConflict(kind, resolution string) {
	ConflictsTotal.WithLabelValues(kind, resolution).Inc()
}

func RecordReconstruction(status string, elapsed time.Duration) {
	ReconstructionsTotal.WithLabelValues(status).Inc()
	ReconstructionDuration.Observe(elapsed.Seconds())
}
