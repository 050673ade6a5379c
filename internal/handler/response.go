package handler

// RESPONSE HELPERS:
// The JSON API speaks one consistent dialect:
//
//	success  → {"success":true, ...}
//	validation failure → {"success":false,"field_errors":{"proteins":"..."}}   (400)
//	not found          → {"success":false,"error":"meal not found with id 7"}  (404)
//	storage failure    → {"success":false,"error":"unable to save meal"}       (500)
//
// writeError is the single place where domain errors become HTTP statuses.
// The service layer returns apperror sentinels and has no idea HTTP exists;
// this keeps the mapping in one spot and out of every handler.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frediet/frediet/internal/apperror"
)

// errorResponse is the standard failure shape for all API endpoints.
type errorResponse struct {
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body — once Encode writes,
// the headers have already gone out.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and standard JSON body.
//
// Validation errors carry their field map through; everything else gets a
// single message. Unknown errors become an opaque 500 — raw error text can
// contain SQL or file paths and must never reach a client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				FieldErrors: appErr.Fields,
			})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrConflict):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrStorage):
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: appErr.Message})
			return
		}
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "an internal error occurred",
	})
}
