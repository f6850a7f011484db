package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/studygraph/internal/api/shared"
	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/session"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	// Note text that does not compile
	case errors.Is(err, domain.ErrEmptyGraph),
		errors.Is(err, domain.ErrNoFlashcards):
		return http.StatusUnprocessableEntity

	// Operation not valid in the current phase
	case errors.Is(err, session.ErrNotGenerated):
		return http.StatusConflict

	case errors.Is(err, session.ErrUnknownNode):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, shared.ErrInvalidBody),
		errors.Is(err, domain.ErrValidation),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Compilation errors carry messages written for
// the user and are returned as-is.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrEmptyGraph):
		return domain.ErrEmptyGraph.Error()

	case errors.Is(err, domain.ErrNoFlashcards):
		return domain.ErrNoFlashcards.Error()

	case errors.Is(err, session.ErrNotGenerated):
		return "Generate a deck first"

	case errors.Is(err, session.ErrUnknownNode):
		return "Node not found in current deck"

	case errors.Is(err, shared.ErrInvalidBody):
		return "Invalid request format"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err, logging the
// redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
