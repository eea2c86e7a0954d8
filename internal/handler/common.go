package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dangerclosesec/liaison/internal/domain"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Sets content type header
	w.Header().Set("Content-Type", "application/json")

	// Sets the HTTP status code
	w.WriteHeader(code)

	// Encodes the response
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// If encoding fails, logs the error and sends a plain text response
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// apiError is the transport view of a service error.
type apiError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string][]string
}

// classify maps the domain error taxonomy onto HTTP.
func classify(err error) apiError {
	var verr *domain.ValidationError
	var denied *domain.AccessDeniedError
	var storeErr *domain.StoreError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return apiError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "unauthorized"}
	case errors.As(err, &verr):
		return apiError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: "validation failed", Fields: verr.Fields}
	case errors.As(err, &denied):
		return apiError{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: denied.Message}
	case errors.Is(err, domain.ErrNotFound):
		return apiError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "not found"}
	case errors.Is(err, domain.ErrConflict):
		return apiError{Status: http.StatusConflict, Code: "CONFLICT", Message: "already exists"}
	case errors.As(err, &storeErr):
		return apiError{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: storeErr.Op + " failed"}
	default:
		return apiError{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "internal server error"}
	}
}

// handleError writes err in the REST error shape.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	e := classify(err)
	if e.Status == http.StatusInternalServerError {
		logFailure(r, err)
	}
	respondWithJSON(w, e.Status, ErrorResponse{Error: e.Message, Fields: e.Fields})
}

func logFailure(r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path,
		"requestID", chimw.GetReqID(r.Context()),
		"error", err,
	)
}

// decodeJSON reads the request body into dst. Malformed bodies are reported
// as a validation error on "body".
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}
