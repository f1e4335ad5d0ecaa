// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	ErrCodeExtractionFailed   ErrorCode = "EXTRACTION_FAILED"
	ErrCodeModelOutputInvalid ErrorCode = "MODEL_OUTPUT_INVALID"

	ErrCodeGenerationNotFound ErrorCode = "GENERATION_NOT_FOUND"
	ErrCodeStoreWriteFailed   ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeStoreReadFailed    ErrorCode = "STORE_READ_FAILED"

	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError is raised for an empty URL, unknown mode or missing id.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid generation request", details)
}

// NewExtractionFailedError wraps a site extractor failure or absent record.
func NewExtractionFailedError(url string, err error) *StandardError {
	return newError(ErrCodeExtractionFailed, "Site data extraction failed",
		fmt.Sprintf("url: %s, error: %s", url, err.Error()))
}

// NewModelOutputInvalidError covers provider failures, schema violations and
// unmappable character names.
func NewModelOutputInvalidError(err error) *StandardError {
	return newError(ErrCodeModelOutputInvalid, "Model output rejected", err.Error())
}

func NewGenerationNotFoundError(generationID string) *StandardError {
	return newError(ErrCodeGenerationNotFound, "Generation not found",
		fmt.Sprintf("generationId: %s", generationID))
}

func NewStoreWriteFailedError(err error) *StandardError {
	return newError(ErrCodeStoreWriteFailed, "Failed to persist generation", err.Error())
}

func NewStoreReadFailedError(generationID string, err error) *StandardError {
	e := newError(ErrCodeStoreReadFailed, "Failed to read generation",
		fmt.Sprintf("generationId: %s, error: %s", generationID, err.Error()))
	e.Retryable = true
	return e
}

func NewGenerationTimeoutError(err error) *StandardError {
	return newError(ErrCodeGenerationTimeout, "Generation exceeded job timeout", err.Error())
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error())
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes modelled as
// boundary events in the generation process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidRequest:     "INVALID_REQUEST",
	ErrCodeExtractionFailed:   "EXTRACTION_FAILED",
	ErrCodeModelOutputInvalid: "MODEL_OUTPUT_INVALID",
	ErrCodeGenerationNotFound: "GENERATION_NOT_FOUND",
	ErrCodeStoreWriteFailed:   "STORE_WRITE_FAILED",
	ErrCodeStoreReadFailed:    "STORE_READ_FAILED",
	ErrCodeGenerationTimeout:  "GENERATION_TIMEOUT",
}

// GetRetryCount returns the engine-side retry count for a code. Only reads
// are retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStoreReadFailed:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "EXTRACTION"):
		return "EXTRACTION"
	case strings.Contains(codeStr, "MODEL"):
		return "AI"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "NOT_FOUND"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	default:
		return "OTHER"
	}
}
