package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/parkside-eng/ledgerd/internal/common"
	"github.com/parkside-eng/ledgerd/internal/models"
)

// ErrorsResponse is the standard failure format: a list of human-readable
// messages, matching what validations produce.
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteErrors writes a JSON error response with the message list.
func WriteErrors(w http.ResponseWriter, statusCode int, messages ...string) {
	WriteJSON(w, statusCode, ErrorsResponse{Errors: messages})
}

// writeServiceError maps core failures onto HTTP responses. Validation,
// lock-timeout, and not-found failures are client errors carrying the
// message list; anything else is a 500.
func writeServiceError(w http.ResponseWriter, logger *common.Logger, err error) {
	if verr, ok := models.AsValidation(err); ok {
		WriteErrors(w, http.StatusUnprocessableEntity, verr.Messages...)
		return
	}
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrLockTimeout) {
		WriteErrors(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	logger.Error().Err(err).Msg("Unhandled service error")
	WriteErrors(w, http.StatusInternalServerError, "internal server error")
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteErrors(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteErrors(w, http.StatusBadRequest, "request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteErrors(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path. For a pattern
// like /api/v1/transactions/{id}/mark_duplicate, calling
// PathParam(r, "/api/v1/transactions/", "/mark_duplicate") extracts {id}.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
