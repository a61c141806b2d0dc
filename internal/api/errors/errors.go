// Package errors provides error handling and HTTP status code mapping.
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/remiblancher/qsign/internal/api/dto"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// Error codes for API responses.
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeValidation           = "VALIDATION_ERROR"
	CodeMalformedEncoding    = "MALFORMED_ENCODING"
	CodeUnsupportedEncoding  = "UNSUPPORTED_ENCODING"
	CodeUnsupportedAlgorithm = "UNSUPPORTED_ALGORITHM"
	CodeKeyImportFailed      = "KEY_IMPORT_FAILED"
	CodeKeyGenerationFailed  = "KEY_GENERATION_FAILED"
	CodeTimeout              = "TIMEOUT"
	CodeInternal             = "INTERNAL_ERROR"
)

// MapError maps an internal error to an HTTP status code and APIError.
func MapError(err error) (int, *dto.APIError) {
	if err == nil {
		return http.StatusOK, nil
	}

	var details map[string]string
	var opErr *crypto.Error
	if errors.As(err, &opErr) {
		details = map[string]string{"operation": opErr.Op}
	}

	switch {
	case errors.Is(err, crypto.ErrMalformedEncoding):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeMalformedEncoding,
			Message: err.Error(),
			Details: details,
		}
	case errors.Is(err, crypto.ErrUnsupportedEncoding):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeUnsupportedEncoding,
			Message: err.Error(),
			Details: details,
		}
	case errors.Is(err, crypto.ErrKeyImportFailed):
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeKeyImportFailed,
			Message: err.Error(),
			Details: details,
		}
	case errors.Is(err, crypto.ErrUnsupportedAlgorithm):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeUnsupportedAlgorithm,
			Message: err.Error(),
			Details: details,
		}
	case errors.Is(err, crypto.ErrKeyGenerationFailed):
		return http.StatusInternalServerError, &dto.APIError{
			Code:    CodeKeyGenerationFailed,
			Message: err.Error(),
			Details: details,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, &dto.APIError{
			Code:    CodeTimeout,
			Message: "operation timed out",
		}
	}

	// Default internal error
	return http.StatusInternalServerError, &dto.APIError{
		Code:    CodeInternal,
		Message: "An internal error occurred",
	}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeInvalidRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, details map[string]string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}
