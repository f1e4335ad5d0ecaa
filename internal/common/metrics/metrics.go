// internal/common/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
		[]string{"task_type", "error_code"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Character generations by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "End-to-end generation latency including extraction and inference",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 60, 90, 120, 180},
		},
		[]string{"mode"},
	)

	GenerationStoreWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_store_writes_total",
			Help: "Generation results written to the result store",
		},
	)
)

// ObserveGeneration records one generate call.
func ObserveGeneration(mode, status string, elapsed time.Duration) {
	GenerationRequests.WithLabelValues(mode, status).Inc()
	GenerationDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if status == "success" {
		GenerationStoreWrites.Inc()
	}
}

// JobStarted marks a job active and returns the func that settles it.
func JobStarted(taskType string) func(errorCode string) {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func(errorCode string) {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
