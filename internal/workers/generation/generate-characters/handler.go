package generatecharacters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "character-workers/internal/common/errors"
	"character-workers/internal/common/logger"
	"character-workers/internal/common/metrics"
	"character-workers/internal/generator"
	"character-workers/internal/models"
	"character-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "generate-characters"

// Generator is the slice of generator.Generator this worker drives.
type Generator interface {
	Generate(ctx context.Context, url string, mode models.Mode) (*models.GenerationResult, error)
}

type Handler struct {
	config       *Config
	generator    Generator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, gen Generator, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.DefaultMode == "" {
		config.DefaultMode = models.ModeYCCompany
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		generator:    gen,
		errorHandler: apperrors.NewErrorHandler(log).WithMaxRetries(config.MaxRetries),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err))
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return stdErr
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return err
	}

	return h.completeJob(client, job, output)
}

// Execute runs one generation. Errors are always *errors.StandardError.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	modeStr := strings.TrimSpace(input.Mode)
	if modeStr == "" {
		modeStr = string(h.config.DefaultMode)
	}
	mode, err := models.ParseMode(modeStr)
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error())
	}

	start := time.Now()
	result, err := h.generator.Generate(ctx, input.CompanyURL, mode)
	if err != nil {
		stdErr := mapError(ctx, input.CompanyURL, err)
		metrics.ObserveGeneration(string(mode), string(stdErr.Code), time.Since(start))
		return nil, stdErr
	}
	metrics.ObserveGeneration(string(mode), "success", time.Since(start))

	h.logger.Info("generation completed", map[string]interface{}{
		"generationId": result.ID(),
		"kind":         string(result.Kind()),
		"durationMs":   time.Since(start).Milliseconds(),
	})

	return &Output{GenerationID: result.ID(), Generation: result}, nil
}

// mapError converts generator and store sentinels to worker error codes. A
// job deadline wins over whatever the interrupted step reported.
func mapError(ctx context.Context, url string, err error) *apperrors.StandardError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewGenerationTimeoutError(err)
	}

	switch {
	case errors.Is(err, generator.ErrInvalidRequest):
		return apperrors.NewInvalidRequestError(err.Error())
	case errors.Is(err, generator.ErrExtractionFailed):
		return apperrors.NewExtractionFailedError(url, err)
	case errors.Is(err, generator.ErrModelOutputInvalid):
		return apperrors.NewModelOutputInvalidError(err)
	case errors.Is(err, store.ErrStoreFailure):
		return apperrors.NewStoreWriteFailedError(err)
	default:
		return apperrors.NewInternalError(err)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return err
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return err
	}
	return nil
}
