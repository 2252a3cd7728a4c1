// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "outcome"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

var (
	AssessmentScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assessment_scores",
			Help:    "Distribution of total assessment scores",
			Buckets: []float64{20, 30, 40, 45, 50, 60, 70, 81, 90, 100},
		},
		[]string{"variant"},
	)

	AssessmentStatusBands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_status_band_total",
			Help: "Total number of scored assessments per status band",
		},
		[]string{"variant", "band"},
	)

	AssessmentValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_validation_failures_total",
			Help: "Total number of rejected answer sets",
		},
		[]string{"variant"},
	)

	ProductRecommendations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "product_recommendations",
			Help:    "Number of products recommended per assessment",
			Buckets: []float64{0, 1, 2, 3},
		},
	)

	ProductCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_cache_requests_total",
			Help: "Product cache lookups by result",
		},
		[]string{"result"},
	)
)

// InitStatusBands creates a zero series for every band of a variant so
// dashboards see rare bands before the first assessment lands in them.
func InitStatusBands(variant string, bands []string) {
	for _, band := range bands {
		AssessmentStatusBands.WithLabelValues(variant, band).Add(0)
	}
}
