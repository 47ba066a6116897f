package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/command"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/service"
)

// Error codes written by the handlers.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidID        = "INVALID_ID"
	CodeSetNotFound      = "SET_NOT_FOUND"
	CodeWordNotFound     = "WORD_NOT_FOUND"
	CodeSetNameExists    = "SET_NAME_EXISTS"
	CodeInvalidCursor    = "INVALID_CURSOR"
	CodeMissingUser      = "MISSING_USER"
	CodeRequestCancelled = "REQUEST_CANCELLED"
	CodeInternal         = "INTERNAL_ERROR"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var ve *command.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ve.Fields)
	case errors.Is(err, service.ErrSetNotFound):
		writeError(w, http.StatusNotFound, CodeSetNotFound, "Set not found", nil)
	case errors.Is(err, service.ErrWordNotFound):
		writeError(w, http.StatusNotFound, CodeWordNotFound, "Word not found", nil)
	case errors.Is(err, service.ErrSetNameExists):
		writeError(w, http.StatusConflict, CodeSetNameExists, "A set with this name already exists", nil)
	case errors.Is(err, service.ErrInvalidCursor):
		writeError(w, http.StatusBadRequest, CodeInvalidCursor, "Invalid pagination cursor", nil)
	case errors.Is(err, service.ErrMissingUser):
		writeError(w, http.StatusBadRequest, CodeMissingUser, "User id is required", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request_cancelled", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, CodeRequestCancelled, "Request was cancelled", nil)
	default:
		logger.Error("internal_error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, "An internal error occurred", nil)
	}
}

// parseID reads a UUID route parameter, writing INVALID_ID on failure.
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidID, "Invalid "+param, nil)
		return uuid.Nil, false
	}
	return id, true
}
