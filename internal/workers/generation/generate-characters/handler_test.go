package generatecharacters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "character-workers/internal/common/errors"
	"character-workers/internal/common/logger"
	"character-workers/internal/generator"
	"character-workers/internal/models"
	"character-workers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeGenerator struct {
	result  *models.GenerationResult
	err     error
	block   bool
	gotURL  string
	gotMode models.Mode
	calls   int
}

func (f *fakeGenerator) Generate(ctx context.Context, url string, mode models.Mode) (*models.GenerationResult, error) {
	f.calls++
	f.gotURL, f.gotMode = url, mode
	if f.block {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", generator.ErrExtractionFailed, ctx.Err())
	}
	return f.result, f.err
}

func companyResult() *models.GenerationResult {
	return models.NewCompanyResult(models.CompanyResult{
		ID:          "gen-1",
		CompanyName: "ShoeCo",
		CompanyURL:  "https://www.ycombinator.com/companies/shoeco",
		Characters: []models.CharacterAssignment{{
			FounderName:       "Ann Lee",
			CharacterName:     "Genie",
			CharacterImageRef: "/characters/genie.png",
			Commentary:        "Grants every sneaker wish.",
		}},
	}, models.ModeYCCompany, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
}

func createTestHandler(t *testing.T, gen Generator) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, gen, logger.NewTestLogger(t))
}

func codeOf(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %T", err)
	return stdErr.Code
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	gen := &fakeGenerator{result: companyResult()}
	h := createTestHandler(t, gen)

	output, err := h.Execute(context.Background(), &Input{CompanyURL: "https://www.ycombinator.com/companies/shoeco"})
	require.NoError(t, err)

	assert.Equal(t, models.ModeYCCompany, gen.gotMode)
	assert.Equal(t, "gen-1", output.GenerationID)
	assert.Equal(t, "ShoeCo", output.Generation.CompanyName())

	raw, err := json.Marshal(output)
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))
	assert.Equal(t, "gen-1", vars["generationId"])
	generation := vars["generation"].(map[string]interface{})
	assert.Equal(t, "company", generation["kind"])
	assert.Equal(t, "yc_company", generation["mode"])
}

func TestHandler_Execute_AnyURLMode(t *testing.T) {
	gen := &fakeGenerator{result: models.NewVibesResult(models.VibesResult{
		ID:            "gen-2",
		CompanyName:   "Example",
		CharacterName: "Ursula",
	}, models.ModeAnyURL, time.Now())}
	h := createTestHandler(t, gen)

	output, err := h.Execute(context.Background(), &Input{CompanyURL: "https://example.com", Mode: "any_url"})
	require.NoError(t, err)

	assert.Equal(t, models.ModeAnyURL, gen.gotMode)
	assert.Equal(t, models.KindVibes, output.Generation.Kind())
}

func TestHandler_Execute_UnknownMode(t *testing.T) {
	gen := &fakeGenerator{}
	h := createTestHandler(t, gen)

	_, err := h.Execute(context.Background(), &Input{CompanyURL: "https://example.com", Mode: "linkedin"})

	assert.Equal(t, apperrors.ErrCodeInvalidRequest, codeOf(t, err))
	assert.Zero(t, gen.calls)
}

func TestHandler_Execute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.ErrorCode
	}{
		{"empty url", fmt.Errorf("%w: url is required", generator.ErrInvalidRequest), apperrors.ErrCodeInvalidRequest},
		{"extraction", fmt.Errorf("%w: no record", generator.ErrExtractionFailed), apperrors.ErrCodeExtractionFailed},
		{"model", fmt.Errorf("%w: unknown character", generator.ErrModelOutputInvalid), apperrors.ErrCodeModelOutputInvalid},
		{"store", fmt.Errorf("%w: redis set", store.ErrStoreFailure), apperrors.ErrCodeStoreWriteFailed},
		{"other", errors.New("surprise"), apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, &fakeGenerator{err: tt.err})

			output, err := h.Execute(context.Background(), &Input{CompanyURL: "https://example.com"})

			assert.Nil(t, output)
			assert.Equal(t, tt.want, codeOf(t, err))
			assert.Equal(t, 0, apperrors.ConvertToBPMNError(apperrors.Normalize(err)).Retries)
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	h := createTestHandler(t, &fakeGenerator{block: true})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{CompanyURL: "https://example.com"})
	assert.Equal(t, apperrors.ErrCodeGenerationTimeout, codeOf(t, err))
}

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler(nil, &fakeGenerator{}, logger.NewNoOpLogger())

	assert.Equal(t, models.ModeYCCompany, h.config.DefaultMode)
	assert.Equal(t, 180*time.Second, h.config.Timeout)
}
