package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

// HeaderPersistenceWarning is set when the operation succeeded but its
// result could not be saved.
const HeaderPersistenceWarning = "X-Persistence-Warning"

type ErrorResponse struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	var description string

	if originErr != nil {
		description = originErr.Error()
	}

	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "api error", "error", description, "http_code", code)
	} else {
		slog.WarnContext(ctx, "api error", "error", description, "http_code", code)
	}

	SendJSON(ctx, w, code, ErrorResponse{Message: msgToSend, Description: description})
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}

// sendServiceErr maps domain errors to a status code. fallback is sent with
// a 500 for anything unexpected.
func sendServiceErr(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		SendJSONErr(ctx, w, http.StatusNotFound, err, "Not found")
	case errors.Is(err, entity.ErrUnauthorized),
		errors.Is(err, entity.ErrNoActiveSession),
		errors.Is(err, entity.ErrInvalidToken),
		errors.Is(err, entity.ErrTokenExpired):
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Sign in required")
	case errors.Is(err, entity.ErrForbidden):
		SendJSONErr(ctx, w, http.StatusForbidden, err, "Not allowed for your role")
	case errors.Is(err, entity.ErrAlreadyExists):
		SendJSONErr(ctx, w, http.StatusConflict, err, "Already exists")
	case errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidPriority),
		errors.Is(err, entity.ErrInvalidRole),
		errors.Is(err, entity.ErrInvalidAssignee),
		errors.Is(err, entity.ErrEmptyField),
		errors.Is(err, entity.ErrInvalidField),
		errors.Is(err, entity.ErrInvalidWorkspace):
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid request")
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, fallback)
	}
}

// failed reports whether err should abort the request. A dropped write is
// not a failure; it is surfaced as a response header instead.
func failed(ctx context.Context, w http.ResponseWriter, err error, fallback string) bool {
	if err == nil {
		return false
	}

	if entity.IsPersistence(err) {
		slog.WarnContext(ctx, "change not persisted", "error", err)
		w.Header().Set(HeaderPersistenceWarning, err.Error())

		return false
	}

	sendServiceErr(ctx, w, err, fallback)

	return true
}

func decodeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return false
	}

	return true
}
