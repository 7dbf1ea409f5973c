package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/redact"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MsgUnauthenticated is the message of every 401 for a missing, invalid or
// stale token, whether issued by the auth middleware or a handler.
const MsgUnauthenticated = "Invalid or missing authentication token"

// Envelope is the body of every API response.
type Envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Meta    interface{}         `json:"meta,omitempty"`
	TraceID string              `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and body.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

// RespondSuccess writes a success envelope.
func RespondSuccess(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	RespondWithJSON(w, r, status, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// RespondSuccessWithMeta writes a success envelope carrying metadata such
// as pagination.
func RespondSuccessWithMeta(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	data interface{},
	meta interface{},
) {
	RespondWithJSON(w, r, status, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// RespondWithError writes an error envelope with the given status code and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("sending error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, Envelope{
		Status:  StatusError,
		Message: message,
		TraceID: traceID,
	})
}

// RespondValidationError writes an error envelope listing every failing field.
func RespondValidationError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	fields map[string]string,
) {
	errs := make(map[string][]string, len(fields))
	names := make([]string, 0, len(fields))
	for field, msg := range fields {
		errs[field] = []string{msg}
		names = append(names, field)
	}
	sort.Strings(names)

	logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("request failed validation",
		slog.Any("fields", names),
		slog.String("path", r.URL.Path))

	RespondWithJSON(w, r, status, Envelope{
		Status:  StatusError,
		Message: message,
		Errors:  errs,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes an error envelope carrying only userMessage
// and logs the redacted err. 5xx responses log at ERROR, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	attrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.FromContextOrDefault(r.Context(), slog.Default()).
		LogAttrs(r.Context(), level, "API error response", attrs...)

	RespondWithJSON(w, r, status, Envelope{
		Status:  StatusError,
		Message: userMessage,
		TraceID: traceID,
	})
}
