package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
	"github.com/SoulMinT05/threadsnet/internal/core/users"
)

// Error kinds carried in the envelope's error.kind field
const (
	KindValidation   = "ValidationError"
	KindAuthRequired = "AuthRequired"
	KindUnauthorized = "Unauthorized"
	KindNotFound     = "NotFound"
	KindInternal     = "InternalError"
)

// Envelope is the body of every JSON response
type Envelope struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Success bool        `json:"success"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// WriteSuccess writes a success envelope
func WriteSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError writes a failure envelope
func WriteError(w http.ResponseWriter, statusCode int, kind, message string) {
	writeJSON(w, statusCode, Envelope{
		Success: false,
		Error:   &ErrorBody{Kind: kind, Message: message},
	})
}

// WriteServiceError maps a service error to its status and kind. The status
// for a kind is the same on every route. Internal errors are logged and
// reported without detail.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *posts.ValidationError
	switch {
	case errors.As(err, &valErr):
		WriteError(w, http.StatusBadRequest, KindValidation, valErr.Field+" "+valErr.Message)
	case errors.Is(err, posts.ErrNotAuthorized):
		WriteError(w, http.StatusForbidden, KindUnauthorized, "You are not allowed to perform this action")
	case errors.Is(err, posts.ErrNotFound):
		WriteError(w, http.StatusNotFound, KindNotFound, "Post not found")
	case errors.Is(err, users.ErrUserNotFound):
		WriteError(w, http.StatusNotFound, KindNotFound, "User not found")
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		WriteError(w, http.StatusInternalServerError, KindInternal, "An internal error occurred")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
