package handler

import (
	"log/slog"
	"net/http"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/service"
)

// WordHandler handles HTTP requests for word operations.
type WordHandler struct {
	svc    *service.SetService
	logger *slog.Logger
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(svc *service.SetService, logger *slog.Logger) *WordHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordHandler{svc: svc, logger: logger}
}

// Delete handles DELETE /api/v1/words/{wordId}.
func (h *WordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	wordID, ok := parseID(w, r, "wordId")
	if !ok {
		return
	}

	if err := h.svc.DeleteWord(r.Context(), auth.UserIDFromContext(r.Context()), wordID); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("word_deleted", "word_id", wordID)

	w.WriteHeader(http.StatusNoContent)
}
