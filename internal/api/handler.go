package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexilearn/backend/internal/content"
	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
	"github.com/lexilearn/backend/internal/domain/progress"
	"github.com/lexilearn/backend/internal/service"
	"github.com/lexilearn/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	catalog  *content.Catalog
	practice *service.PracticeService
	progress *service.ProgressService
	decks    *service.DeckService
	logger   *slog.Logger
}

func NewHandler(catalog *content.Catalog, practice *service.PracticeService, progress *service.ProgressService, decks *service.DeckService, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		practice: practice,
		progress: progress,
		decks:    decks,
		logger:   logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v. It writes a 400 response and
// returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleError maps service and store errors to HTTP responses. Returns
// true if an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, content.ErrDeckNotFound),
		errors.Is(err, content.ErrFlashcardNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, practicesession.ErrEmptySelection):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, practicesession.ErrNoQuestions),
		errors.Is(err, content.ErrInvalidDeck),
		errors.Is(err, progress.ErrInvalidGoal),
		errors.Is(err, progress.ErrUnknownKey),
		errors.Is(err, progress.ErrInvalidValue),
		errors.Is(err, progress.ErrUnknownScore),
		errors.Is(err, progress.ErrInvalidScore):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, practicesession.ErrCorruptSnapshot):
		h.logger.Error("corrupt session", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "session cannot be restored")
	default:
		h.logger.Error("request failed", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
