package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"extraction", NewExtractionFailedError("https://x.test", stderrors.New("timeout")), "EXTRACTION_FAILED", 0},
		{"model", NewModelOutputInvalidError(stderrors.New("bad enum")), "MODEL_OUTPUT_INVALID", 0},
		{"not found", NewGenerationNotFoundError("abc"), "GENERATION_NOT_FOUND", 0},
		{"invalid", NewInvalidRequestError("mode"), "INVALID_REQUEST", 0},
		{"store write", NewStoreWriteFailedError(stderrors.New("conn refused")), "STORE_WRITE_FAILED", 0},
		{"store read", NewStoreReadFailedError("abc", stderrors.New("conn refused")), "STORE_READ_FAILED", 2},
		{"internal", NewInternalError(stderrors.New("nil map")), "INTERNAL_ERROR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, tt.err.Details, vars["errorDetails"])
		})
	}
}

func TestConvertToBPMNError_MetadataBecomesVariables(t *testing.T) {
	stdErr := NewGenerationNotFoundError("abc")
	stdErr.Metadata = map[string]interface{}{"generationId": "abc"}

	vars := ConvertToBPMNError(stdErr).ToErrorVariables()
	assert.Equal(t, "abc", vars["generationId"])
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("execute: %w", NewModelOutputInvalidError(stderrors.New("x")))
	assert.Equal(t, ErrCodeModelOutputInvalid, Normalize(wrapped).Code)

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	require.False(t, plain.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "EXTRACTION", GetErrorCategory(ErrCodeExtractionFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeModelOutputInvalid))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeGenerationNotFound))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeStoreWriteFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidRequest))
	assert.Equal(t, "TIMEOUT", GetErrorCategory(ErrCodeGenerationTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsRetryableErrorCode(ErrCodeStoreReadFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeModelOutputInvalid))
}

func TestErrorHandler_Resolve(t *testing.T) {
	readErr := NewStoreReadFailedError("gen-1", stderrors.New("i/o timeout"))

	tests := []struct {
		name        string
		handler     *ErrorHandler
		err         error
		wantCode    string
		wantRetries int
	}{
		{"uncapped read failure", NewErrorHandler(nil), readErr, "STORE_READ_FAILED", 2},
		{"cap below code count", NewErrorHandler(nil).WithMaxRetries(1), readErr, "STORE_READ_FAILED", 1},
		{"cap above code count", NewErrorHandler(nil).WithMaxRetries(5), readErr, "STORE_READ_FAILED", 2},
		{"zero disables retries", NewErrorHandler(nil).WithMaxRetries(0), readErr, "STORE_READ_FAILED", 0},
		{"cap never adds retries", NewErrorHandler(nil).WithMaxRetries(3), NewGenerationNotFoundError("gen-1"), "GENERATION_NOT_FOUND", 0},
		{"plain error", NewErrorHandler(nil).WithMaxRetries(3), stderrors.New("boom"), "INTERNAL_ERROR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bpmnErr := tt.handler.Resolve(tt.err)
			assert.Equal(t, tt.wantCode, bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
		})
	}
}
