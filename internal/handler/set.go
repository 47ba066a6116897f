package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/command"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/handler/dto"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/service"
)

// SetHandler handles HTTP requests for set operations.
type SetHandler struct {
	svc    *service.SetService
	logger *slog.Logger
}

// NewSetHandler creates a new SetHandler.
func NewSetHandler(svc *service.SetService, logger *slog.Logger) *SetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/sets.
func (h *SetHandler) Create(w http.ResponseWriter, r *http.Request) {
	cmd := command.NewCreateSetCommand()
	if !decodeJSON(w, r, &cmd) {
		return
	}

	set, err := h.svc.CreateSet(r.Context(), auth.UserIDFromContext(r.Context()), cmd)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("set_created",
		"set_id", set.ID,
		"word_count", len(set.Words),
	)

	writeJSON(w, http.StatusCreated, dto.ToSetResponse(set))
}

// Get handles GET /api/v1/sets/{setId}.
func (h *SetHandler) Get(w http.ResponseWriter, r *http.Request) {
	setID, ok := parseID(w, r, "setId")
	if !ok {
		return
	}

	set, err := h.svc.GetSet(r.Context(), auth.UserIDFromContext(r.Context()), setID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSetResponse(set))
}

// List handles GET /api/v1/sets.
func (h *SetHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "Request validation failed",
				map[string]string{"limit": "must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	result, err := h.svc.ListSets(r.Context(), auth.UserIDFromContext(r.Context()), query.Get("cursor"), limit)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSetListResponse(result.Sets, result.NextCursor, result.HasMore))
}

// Update handles PUT /api/v1/sets/{setId}.
func (h *SetHandler) Update(w http.ResponseWriter, r *http.Request) {
	setID, ok := parseID(w, r, "setId")
	if !ok {
		return
	}

	cmd := command.NewUpdateSetCommand(setID)
	if !decodeJSON(w, r, &cmd) {
		return
	}

	set, err := h.svc.UpdateSet(r.Context(), auth.UserIDFromContext(r.Context()), cmd)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("set_updated",
		"set_id", set.ID,
		"word_count", len(set.Words),
	)

	writeJSON(w, http.StatusOK, dto.ToSetResponse(set))
}

// Delete handles DELETE /api/v1/sets/{setId}.
func (h *SetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	setID, ok := parseID(w, r, "setId")
	if !ok {
		return
	}

	if err := h.svc.DeleteSet(r.Context(), auth.UserIDFromContext(r.Context()), setID); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("set_deleted", "set_id", setID)

	w.WriteHeader(http.StatusNoContent)
}

// DeleteMany handles POST /api/v1/sets/delete.
func (h *SetHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteSetsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cmd := command.DeleteSetsCommand{IDs: make([]uuid.UUID, 0, len(req.IDs))}
	invalid := map[string]string{}
	for i, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			invalid[fmt.Sprintf("ids[%d]", i)] = "must be a valid UUID"
			continue
		}
		cmd.IDs = append(cmd.IDs, id)
	}
	if len(invalid) > 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Request validation failed", invalid)
		return
	}

	if err := h.svc.DeleteSets(r.Context(), auth.UserIDFromContext(r.Context()), cmd); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("sets_deleted", "requested", len(cmd.IDs))

	w.WriteHeader(http.StatusNoContent)
}
