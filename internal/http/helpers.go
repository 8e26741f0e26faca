package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

// internalErrorMessage is shown for failures whose detail stays in the logs.
const internalErrorMessage = "Something went wrong. Please try again."

type loggerKey struct{}

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err to a response. Server-side failures are logged with
// their full detail; the body only carries the public message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError && r != nil {
		requestLogger(r).Error("http.request.failed",
			"error", err,
			"code", payload.Error,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}
	writeJSON(w, status, payload)
}

func requestLogger(r *http.Request) interfaces.Logger {
	logger, _ := r.Context().Value(loggerKey{}).(interfaces.Logger)
	return logging.Or(logger)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func unavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, errorResponse{
			Error:   "validation_failed",
			Message: validationErr.Error(),
			Fields:  validationErr.FieldMessages(),
		}
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: notFound.Error()}
	}

	if errors.Is(err, permissions.ErrPermissionDenied) {
		return http.StatusForbidden, errorResponse{Error: "forbidden", Message: err.Error()}
	}

	var cascade *domain.CascadeFailure
	if errors.As(err, &cascade) {
		return http.StatusInternalServerError, errorResponse{Error: "cascade_failed", Message: cascade.UserMessage()}
	}

	var transport *domain.TransportFailure
	if errors.As(err, &transport) {
		return http.StatusServiceUnavailable, errorResponse{Error: "storage_unavailable", Message: transport.UserMessage()}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: internalErrorMessage}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}

// pathID parses the {name} path value, writing a 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := parseUUID(r.PathValue(name))
	if err != nil {
		badRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func requirePermission(w http.ResponseWriter, r *http.Request, resource string, action permissions.Action) bool {
	if err := permissions.Require(r.Context(), permissions.Join(resource, action)); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}
