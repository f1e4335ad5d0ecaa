package getgeneration

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "character-workers/internal/common/errors"
	"character-workers/internal/common/logger"
	"character-workers/internal/models"
	"character-workers/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *store.RedisStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return store.NewRedisStore(client, store.DefaultKeyPrefix, 0)
}

func codeOf(t *testing.T, err error) *apperrors.StandardError {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %T", err)
	return stdErr
}

func TestHandler_Execute_Success(t *testing.T) {
	st := newRedisStore(t)
	saved := models.NewVibesResult(models.VibesResult{
		ID:                "gen-7",
		CompanyName:       "Example",
		CharacterName:     "Genie",
		CharacterImageRef: "/characters/genie.png",
		Commentary:        "Wishes granted at scale.",
	}, models.ModeAnyURL, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, st.Put(context.Background(), "gen-7", saved))

	h := NewHandler(nil, st, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{GenerationID: " gen-7 "})
	require.NoError(t, err)

	assert.Equal(t, models.KindVibes, output.Generation.Kind())
	assert.Equal(t, "Genie", output.Generation.Vibes.CharacterName)
	assert.True(t, saved.CreatedAt.Equal(output.Generation.CreatedAt))
}

func TestHandler_Execute_NotFound(t *testing.T) {
	h := NewHandler(nil, newRedisStore(t), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{GenerationID: "unknown-id"})

	stdErr := codeOf(t, err)
	assert.Equal(t, apperrors.ErrCodeGenerationNotFound, stdErr.Code)
	assert.Equal(t, 0, apperrors.ConvertToBPMNError(stdErr).Retries)
}

func TestHandler_Execute_MissingID(t *testing.T) {
	h := NewHandler(nil, newRedisStore(t), logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{})
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, codeOf(t, err).Code)
}

func TestHandler_Execute_ReadFailureIsRetryable(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet(store.DefaultKeyPrefix + "gen-9").SetErr(errors.New("i/o timeout"))

	h := NewHandler(nil, store.NewRedisStore(client, store.DefaultKeyPrefix, 0), logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{GenerationID: "gen-9"})

	stdErr := codeOf(t, err)
	assert.Equal(t, apperrors.ErrCodeStoreReadFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, 2, apperrors.ConvertToBPMNError(stdErr).Retries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_MaxRetriesCapsReadRetries(t *testing.T) {
	readErr := apperrors.NewStoreReadFailedError("gen-9", errors.New("i/o timeout"))

	tests := []struct {
		name        string
		config      *Config
		wantRetries int
	}{
		{"default config", nil, 2},
		{"configured one", &Config{Timeout: time.Second, MaxRetries: 1}, 1},
		{"configured zero", &Config{Timeout: time.Second, MaxRetries: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.config, newRedisStore(t), logger.NewNoOpLogger())
			_, bpmnErr := h.errorHandler.Resolve(readErr)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
		})
	}
}
