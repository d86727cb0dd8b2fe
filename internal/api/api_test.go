package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lexilearn/backend/internal/api"
	"github.com/lexilearn/backend/internal/content"
	"github.com/lexilearn/backend/internal/service"
	"github.com/lexilearn/backend/internal/store"
)

func setupRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	catalog, err := content.Default()
	if err != nil {
		t.Fatalf("failed to load content: %v", err)
	}

	recorder := service.NewRecorder(db, 1, logger)
	t.Cleanup(func() {
		recorder.Close()
		db.Close()
	})

	progress := service.NewProgressService(db, logger)
	practice := service.NewPracticeService(catalog, db, recorder, progress, logger)
	decks := service.NewDeckService(catalog, db, logger)

	h := api.NewHandler(catalog, practice, progress, decks, logger)
	return api.NewRouter(h, []string{"*"})
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func startSession(t *testing.T, r http.Handler, deckID string) api.SessionResponse {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/sessions", `{"deck_id":"`+deckID+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decode[api.SessionResponse](t, rec)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)

	rec := do(t, r, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCategories(t *testing.T) {
	r := setupRouter(t)

	rec := do(t, r, http.MethodGet, "/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cats := decode[[]api.CategoryResponse](t, rec)
	if len(cats) != 2 || cats[0].ID != "english" || len(cats[0].Decks) != 3 {
		t.Errorf("unexpected categories %+v", cats)
	}
}

func TestSession_AnswerScenario(t *testing.T) {
	r := setupRouter(t)

	session := startSession(t, r, "vocabulary")
	if session.Question == nil || session.Question.Prompt != "Aberration" {
		t.Fatalf("expected Aberration first, got %+v", session.Question)
	}
	if session.State != "unanswered" || session.Total != 5 {
		t.Errorf("unexpected session %+v", session)
	}

	base := "/sessions/" + session.ID
	rec := do(t, r, http.MethodPost, base+"/select", `{"candidate":"A type of fruit"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodPost, base+"/submit", "")
	answered := decode[api.SessionResponse](t, rec)
	if answered.Feedback == nil || answered.Feedback.IsCorrect {
		t.Fatalf("expected incorrect feedback, got %+v", answered.Feedback)
	}
	if answered.Feedback.CorrectAnswer != "A departure from what is normal" {
		t.Errorf("unexpected correct answer %q", answered.Feedback.CorrectAnswer)
	}

	rec = do(t, r, http.MethodPost, base+"/advance", "")
	next := decode[api.SessionResponse](t, rec)
	if next.Position != 1 || next.Question.Prompt != "Capricious" || next.Feedback != nil {
		t.Errorf("unexpected session after advance %+v", next)
	}

	rec = do(t, r, http.MethodGet, base+"/summary", "")
	summary := decode[api.SummaryResponse](t, rec)
	if summary.Answered != 1 || summary.Correct != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestSession_InvalidTransitionReturnsUnchangedSession(t *testing.T) {
	r := setupRouter(t)
	session := startSession(t, r, "vocabulary")

	rec := do(t, r, http.MethodPost, "/sessions/"+session.ID+"/advance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	same := decode[api.SessionResponse](t, rec)
	if same.Position != 0 || same.State != "unanswered" {
		t.Errorf("expected unchanged session, got %+v", same)
	}
}

func TestSession_EmptySubmit(t *testing.T) {
	r := setupRouter(t)
	session := startSession(t, r, "vocabulary")

	rec := do(t, r, http.MethodPost, "/sessions/"+session.ID+"/submit", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestSession_Errors(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown deck", http.MethodPost, "/sessions", `{"deck_id":"missing"}`, http.StatusNotFound},
		{"missing deck id", http.MethodPost, "/sessions", `{}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/sessions", `{`, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/sessions/missing", "", http.StatusNotFound},
		{"bad side", http.MethodPost, "/sessions/missing/pairs", `{"side":"up","item":"A"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSession_Pairs(t *testing.T) {
	r := setupRouter(t)
	session := startSession(t, r, "match-words")

	if session.Question.Kind != "pairs" || len(session.Question.Right) != 4 {
		t.Fatalf("expected pairs question, got %+v", session.Question)
	}

	base := "/sessions/" + session.ID + "/pairs"
	do(t, r, http.MethodPost, base, `{"side":"left","item":"Apple"}`)
	rec := do(t, r, http.MethodPost, base, `{"side":"right","item":"Книга"}`)
	resp := decode[api.SelectPairResponse](t, rec)
	if resp.Outcome != "mismatch" || resp.Pairs.Mistakes != 1 || resp.Pairs.PendingLeft != "" {
		t.Errorf("expected mismatch clearing selections, got %+v", resp)
	}
}

func TestDeck_ExportImport(t *testing.T) {
	r := setupRouter(t)

	rec := do(t, r, http.MethodGet, "/decks/vocabulary/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("expected yaml content type, got %q", ct)
	}
	exported := rec.Body.String()

	renamed := strings.Replace(exported, "id: vocabulary\n", "id: vocabulary-copy\n", 1)
	req := httptest.NewRequest(http.MethodPost, "/decks/import", bytes.NewBufferString(renamed))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	summary := decode[api.DeckSummary](t, rec)
	if summary.ID != "vocabulary-copy" || summary.Questions != 5 {
		t.Errorf("unexpected import summary %+v", summary)
	}

	rec = do(t, r, http.MethodPost, "/decks/import", "subject: [")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for broken yaml, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/decks/vocabulary-copy", "")
	deck := decode[api.DeckResponse](t, rec)
	if len(deck.Items) != 5 || deck.Items[0].Prompt != "Aberration" {
		t.Errorf("unexpected deck %+v", deck)
	}
}

func TestFlashcards(t *testing.T) {
	r := setupRouter(t)

	rec := do(t, r, http.MethodGet, "/flashcards/basics", "")
	deck := decode[api.FlashcardDeckResponse](t, rec)
	if len(deck.Cards) != 4 || deck.Cards[0].Translation != "Яблоко" {
		t.Errorf("unexpected flashcards %+v", deck)
	}

	rec = do(t, r, http.MethodGet, "/flashcards/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestProgressEndpoints(t *testing.T) {
	r := setupRouter(t)

	rec := do(t, r, http.MethodPost, "/streak/check-in", "")
	streak := decode[api.StreakResponse](t, rec)
	if streak.Count != 1 || streak.Goal != 7 || streak.Message != "Keep it up!" || len(streak.Days) != 7 {
		t.Errorf("unexpected streak %+v", streak)
	}

	rec = do(t, r, http.MethodPut, "/streak/goal", `{"goal":10}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid goal, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodPatch, "/preferences", `{"theme":"dark"}`)
	prefs := decode[api.PreferencesResponse](t, rec)
	if prefs.Values["theme"] != "dark" || prefs.ResolvedTheme != "dark" {
		t.Errorf("unexpected preferences %+v", prefs)
	}

	rec = do(t, r, http.MethodPatch, "/preferences", `{"volume":"11"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown key, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/quests", "")
	quests := decode[[]api.QuestResponse](t, rec)
	if len(quests) != 3 || quests[0].Target != 3 {
		t.Errorf("unexpected quests %+v", quests)
	}

	rec = do(t, r, http.MethodGet, "/results?limit=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for limit 0, got %d", rec.Code)
	}
}

func TestScoreEndpoints(t *testing.T) {
	r := setupRouter(t)

	rec := do(t, r, http.MethodGet, "/scores", "")
	scores := decode[api.ScoresResponse](t, rec)
	if scores != (api.ScoresResponse{TotalScore: 1600, EBRWScore: 800, MathScore: 800}) {
		t.Errorf("expected default scores, got %+v", scores)
	}

	rec = do(t, r, http.MethodPut, "/scores", `{"type":"math","score":650}`)
	scores = decode[api.ScoresResponse](t, rec)
	if scores.MathScore != 650 || scores.TotalScore != 1600 {
		t.Errorf("expected only the math score to change, got %+v", scores)
	}

	for _, body := range []string{`{"type":"math","score":900}`, `{"type":"science","score":500}`} {
		if rec = do(t, r, http.MethodPut, "/scores", body); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %s, got %d", body, rec.Code)
		}
	}

	rec = do(t, r, http.MethodPost, "/scores/official", `{"date":"2025-03-08","total_score":1380,"ebrw_score":690,"math_score":690}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	do(t, r, http.MethodPost, "/scores/official", `{"date":"2025-05-03","total_score":1450,"ebrw_score":720,"math_score":730}`)

	rec = do(t, r, http.MethodPost, "/scores/official", `{"date":"May 3","total_score":1450,"ebrw_score":720,"math_score":730}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad date, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/scores/official", "")
	history := decode[[]api.OfficialScoreResponse](t, rec)
	if len(history) != 2 || history[0].Date != "2025-05-03" || history[1].TotalScore != 1380 {
		t.Errorf("unexpected history %+v", history)
	}
}
