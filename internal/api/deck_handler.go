package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexilearn/backend/internal/domain/flashcard"
	"github.com/lexilearn/backend/internal/domain/questionbank"
)

// maxDeckSize caps the body of an imported deck.
const maxDeckSize = 1 << 20

// ── Request / Response types ────────────────────────────────────────────────

type DeckSummary struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Kind      string `json:"kind"`
	Questions int    `json:"questions"`
}

type CategoryResponse struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Decks []DeckSummary `json:"decks"`
}

type DeckResponse struct {
	DeckSummary
	CategoryID *string        `json:"category_id,omitempty"`
	Items      []QuestionView `json:"items"`
}

type FlashcardDeckResponse struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Cards []flashcard.Card `json:"cards"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /categories
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.catalog.Categories()

	resp := make([]CategoryResponse, 0, len(categories)+1)
	for _, cat := range categories {
		resp = append(resp, CategoryResponse{
			ID:    cat.ID,
			Name:  cat.Name,
			Decks: toDeckSummaries(h.catalog.Decks(cat.ID)),
		})
	}
	if uncategorized := h.catalog.Decks(""); len(uncategorized) > 0 {
		resp = append(resp, CategoryResponse{
			Name:  "Other",
			Decks: toDeckSummaries(uncategorized),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /decks/{deckID}
func (h *Handler) getDeck(w http.ResponseWriter, r *http.Request) {
	bank, err := h.catalog.Deck(chi.URLParam(r, "deckID"))
	if h.handleError(w, err, "deck") {
		return
	}

	items := make([]QuestionView, len(bank.Questions))
	for i, q := range bank.Questions {
		items[i] = *toQuestionView(q)
	}
	respondJSON(w, http.StatusOK, DeckResponse{
		DeckSummary: toDeckSummary(bank),
		CategoryID:  bank.CategoryID,
		Items:       items,
	})
}

// GET /decks/{deckID}/export
func (h *Handler) exportDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	data, err := h.decks.Export(deckID)
	if h.handleError(w, err, "deck") {
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", "attachment; filename="+deckID+".yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// POST /decks/import
func (h *Handler) importDeck(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDeckSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	bank, err := h.decks.Import(r.Context(), data)
	if h.handleError(w, err, "deck") {
		return
	}
	respondJSON(w, http.StatusCreated, toDeckSummary(bank))
}

// GET /flashcards
func (h *Handler) listFlashcards(w http.ResponseWriter, r *http.Request) {
	decks := h.catalog.FlashcardDecks()

	resp := make([]FlashcardDeckResponse, len(decks))
	for i, d := range decks {
		resp[i] = FlashcardDeckResponse{ID: d.ID, Name: d.Name, Cards: d.Cards}
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /flashcards/{deckID}
func (h *Handler) getFlashcards(w http.ResponseWriter, r *http.Request) {
	deck, err := h.catalog.Flashcards(chi.URLParam(r, "deckID"))
	if h.handleError(w, err, "flashcard deck") {
		return
	}
	respondJSON(w, http.StatusOK, FlashcardDeckResponse{
		ID:    deck.ID,
		Name:  deck.Name,
		Cards: deck.Cards(),
	})
}

// ── Mapping ─────────────────────────────────────────────────────────────────

func toDeckSummary(bank *questionbank.QuestionBank) DeckSummary {
	return DeckSummary{
		ID:        bank.ID,
		Subject:   bank.Subject,
		Kind:      string(bank.Kind),
		Questions: len(bank.Questions),
	}
}

func toDeckSummaries(banks []*questionbank.QuestionBank) []DeckSummary {
	out := make([]DeckSummary, len(banks))
	for i, b := range banks {
		out[i] = toDeckSummary(b)
	}
	return out
}
