package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/service"
	"github.com/phrazzld/taskman-api/internal/service/auth"
)

// Client-facing messages.
const (
	MsgValidationFailed   = "Validation failed"
	MsgInvalidRequest     = "Invalid request format"
	MsgInvalidCredentials = "Invalid email or password"
	MsgTaskNotFound       = "Task not found or unauthorized access"
	MsgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	case errors.Is(err, shared.ErrInvalidJSON):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrUserNotFound):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return MsgUnexpected
	case errors.Is(err, domain.ErrValidation):
		return MsgValidationFailed
	case errors.Is(err, shared.ErrInvalidJSON):
		return MsgInvalidRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrUserNotFound):
		return shared.MsgUnauthenticated
	case errors.Is(err, service.ErrTaskNotFound):
		return MsgTaskNotFound
	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the response for err. Validation errors list their
// failing fields; everything else gets its safe message, and unexpected
// errors are logged in redacted form.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		shared.RespondValidationError(w, r, http.StatusUnprocessableEntity, MsgValidationFailed, verr.Fields)
		return
	}

	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
