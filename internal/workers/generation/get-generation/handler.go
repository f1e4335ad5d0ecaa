package getgeneration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "character-workers/internal/common/errors"
	"character-workers/internal/common/logger"
	"character-workers/internal/models"
	"character-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "get-generation"

// Reader looks a generation up by id.
type Reader interface {
	Get(ctx context.Context, id string) (*models.GenerationResult, error)
}

type Handler struct {
	config       *Config
	reader       Reader
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, reader Reader, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		reader:       reader,
		errorHandler: apperrors.NewErrorHandler(log).WithMaxRetries(config.MaxRetries),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Debug("processing job", map[string]interface{}{
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	id := strings.TrimSpace(input.GenerationID)
	if id == "" {
		return nil, apperrors.NewInvalidRequestError("generationId is required")
	}

	result, err := h.reader.Get(ctx, id)
	switch {
	case err == nil:
		return &Output{Generation: result}, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NewGenerationNotFoundError(id)
	default:
		// Read failures are the only retried errors.
		return nil, apperrors.NewStoreReadFailedError(id, err)
	}
}
