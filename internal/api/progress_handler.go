package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lexilearn/backend/internal/domain/progress"
	"github.com/lexilearn/backend/internal/domain/questionbank"
)

// ── Request / Response types ────────────────────────────────────────────────

type StreakResponse struct {
	Count       int    `json:"count"`
	Goal        int    `json:"goal"`
	GoalOptions []int  `json:"goal_options"`
	LastActive  string `json:"last_active,omitempty"`
	Message     string `json:"message"`
	Days        []bool `json:"days"`
}

type SetGoalRequest struct {
	Goal int `json:"goal"`
}

type PreferencesResponse struct {
	Values        map[string]string `json:"values"`
	ResolvedTheme string            `json:"resolved_theme"`
}

type QuestResponse struct {
	Name      string `json:"name"`
	Target    int    `json:"target"`
	Current   int    `json:"current"`
	Percent   int    `json:"percent"`
	Completed bool   `json:"completed"`
}

type WordStatsResponse struct {
	Word           string `json:"word"`
	TimesCorrect   int    `json:"times_correct"`
	TimesIncorrect int    `json:"times_incorrect"`
	MasteryLevel   int    `json:"mastery_level"`
	LastPracticed  string `json:"last_practiced"`
}

type VocabularyStatsResponse struct {
	TotalWords     int                 `json:"total_words"`
	AvgMastery     float64             `json:"avg_mastery"`
	TotalCorrect   int                 `json:"total_correct"`
	TotalIncorrect int                 `json:"total_incorrect"`
	Words          []WordStatsResponse `json:"words"`
}

type ResultResponse struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	DeckID      string `json:"deck_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Score       int    `json:"score"`
	MaxScore    int    `json:"max_score"`
	CompletedAt string `json:"completed_at"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /streak
func (h *Handler) getStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.progress.Streak(r.Context())
	if h.handleError(w, err, "streak") {
		return
	}
	respondJSON(w, http.StatusOK, toStreakResponse(streak))
}

// POST /streak/check-in
func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	streak, err := h.progress.CheckIn(r.Context())
	if h.handleError(w, err, "streak") {
		return
	}
	respondJSON(w, http.StatusOK, toStreakResponse(streak))
}

// PUT /streak/goal
func (h *Handler) setGoal(w http.ResponseWriter, r *http.Request) {
	var req SetGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	streak, err := h.progress.SetGoal(r.Context(), req.Goal)
	if h.handleError(w, err, "streak") {
		return
	}
	respondJSON(w, http.StatusOK, toStreakResponse(streak))
}

// GET /preferences?system_dark=true
func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.progress.Preferences(r.Context())
	if h.handleError(w, err, "preferences") {
		return
	}
	respondJSON(w, http.StatusOK, toPreferencesResponse(prefs, r))
}

// PATCH /preferences
func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if !decodeJSON(w, r, &values) {
		return
	}
	prefs, err := h.progress.UpdatePreferences(r.Context(), values)
	if h.handleError(w, err, "preferences") {
		return
	}
	respondJSON(w, http.StatusOK, toPreferencesResponse(prefs, r))
}

// GET /quests
func (h *Handler) getQuests(w http.ResponseWriter, r *http.Request) {
	quests, err := h.progress.Quests(r.Context())
	if h.handleError(w, err, "quests") {
		return
	}

	resp := make([]QuestResponse, len(quests))
	for i, q := range quests {
		resp[i] = QuestResponse{
			Name:      q.Name,
			Target:    q.Target,
			Current:   q.Current,
			Percent:   q.Percent(),
			Completed: q.Completed(),
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /vocabulary/stats
func (h *Handler) getVocabularyStats(w http.ResponseWriter, r *http.Request) {
	stats, words, err := h.progress.Vocabulary(r.Context())
	if h.handleError(w, err, "vocabulary") {
		return
	}
	respondJSON(w, http.StatusOK, toVocabularyResponse(stats, words))
}

// GET /results?limit=20
func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	results, err := h.progress.Results(r.Context(), limit)
	if h.handleError(w, err, "results") {
		return
	}

	resp := make([]ResultResponse, len(results))
	for i, res := range results {
		resp[i] = ResultResponse{
			ID:          res.ID,
			SessionID:   res.SessionID,
			DeckID:      res.DeckID,
			Name:        res.Name,
			Type:        string(res.Kind),
			Score:       res.Score,
			MaxScore:    res.MaxScore,
			CompletedAt: res.CompletedAt.Format(time.RFC3339),
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// ── Mapping ─────────────────────────────────────────────────────────────────

func toStreakResponse(s progress.Streak) StreakResponse {
	resp := StreakResponse{
		Count:       s.Count,
		Goal:        s.Goal,
		GoalOptions: progress.GoalOptions,
		Message:     s.Message(),
		Days:        s.Days(),
	}
	if !s.LastActive.IsZero() {
		resp.LastActive = s.LastActive.Format(dateLayout)
	}
	return resp
}

func toPreferencesResponse(p progress.Preferences, r *http.Request) PreferencesResponse {
	systemDark, _ := strconv.ParseBool(r.URL.Query().Get("system_dark"))
	return PreferencesResponse{
		Values:        p.Encode(),
		ResolvedTheme: string(p.ResolveTheme(systemDark)),
	}
}

func toVocabularyResponse(stats questionbank.VocabularyStats, words []questionbank.WordStats) VocabularyStatsResponse {
	resp := VocabularyStatsResponse{
		TotalWords:     stats.TotalWords,
		AvgMastery:     stats.AvgMastery,
		TotalCorrect:   stats.TotalCorrect,
		TotalIncorrect: stats.TotalIncorrect,
		Words:          make([]WordStatsResponse, len(words)),
	}
	for i, w := range words {
		resp.Words[i] = WordStatsResponse{
			Word:           w.Word,
			TimesCorrect:   w.TimesCorrect,
			TimesIncorrect: w.TimesIncorrect,
			MasteryLevel:   w.MasteryLevel,
			LastPracticed:  w.LastPracticed.Format(time.RFC3339),
		}
	}
	return resp
}
