// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	apperrors "character-workers/internal/common/errors"
	"character-workers/internal/common/logger"
	"character-workers/internal/common/metrics"
	"character-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler settles the job itself (complete, fail or throw) and returns
// the error it reported, if any, so the worker can record it.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// WorkerOptions are the per-task-type polling settings.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. Polling starts immediately.
func NewWorker(
	client zbc.Client,
	taskType string,
	opts WorkerOptions,
	handler JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *CamundaWorker {
	log = log.With(map[string]interface{}{"taskType": taskType})

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs, log)).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Open()

	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": opts.MaxJobsActive,
		"timeout_ms":    opts.Timeout.Milliseconds(),
	})

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
	}
}

// Instrument adapts a JobHandler to the Zeebe handler signature and records
// job metrics around it.
func Instrument(taskType string, handler JobHandler, obs *observability.Observability, log logger.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		done := metrics.JobStarted(taskType)
		start := time.Now()

		err := handler.Handle(client, job)

		status, code := "completed", ""
		if err != nil {
			status = "failed"
			code = string(apperrors.Normalize(err).Code)
			log.Debug("handler returned error", map[string]interface{}{
				"jobKey":    job.Key,
				"errorCode": code,
			})
		}
		done(code)
		if obs != nil {
			obs.RecordJob(context.Background(), taskType, status, time.Since(start))
		}
	}
}

// Stop closes the job worker and waits for in-flight jobs. The shared
// client is closed by its owner.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
