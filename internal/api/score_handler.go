package api

import (
	"net/http"
	"time"

	"github.com/lexilearn/backend/internal/domain/progress"
)

const dateLayout = "2006-01-02"

type ScoresResponse struct {
	TotalScore int `json:"total_score"`
	EBRWScore  int `json:"ebrw_score"`
	MathScore  int `json:"math_score"`
}

type SetScoreRequest struct {
	Type  string `json:"type"`
	Score int    `json:"score"`
}

type OfficialScoreRequest struct {
	Date       string `json:"date"`
	TotalScore int    `json:"total_score"`
	EBRWScore  int    `json:"ebrw_score"`
	MathScore  int    `json:"math_score"`
}

type OfficialScoreResponse struct {
	Date string `json:"date"`
	ScoresResponse
}

// GET /scores
func (h *Handler) getScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.progress.Scores(r.Context())
	if h.handleError(w, err, "scores") {
		return
	}
	respondJSON(w, http.StatusOK, toScoresResponse(scores))
}

// PUT /scores
func (h *Handler) setScore(w http.ResponseWriter, r *http.Request) {
	var req SetScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	scores, err := h.progress.SetScore(r.Context(), progress.ScoreKind(req.Type), req.Score)
	if h.handleError(w, err, "scores") {
		return
	}
	respondJSON(w, http.StatusOK, toScoresResponse(scores))
}

// GET /scores/official
func (h *Handler) listOfficialScores(w http.ResponseWriter, r *http.Request) {
	history, err := h.progress.OfficialScores(r.Context())
	if h.handleError(w, err, "official scores") {
		return
	}
	resp := make([]OfficialScoreResponse, len(history))
	for i, o := range history {
		resp[i] = OfficialScoreResponse{
			Date:           o.Date.Format(dateLayout),
			ScoresResponse: toScoresResponse(o.Scores),
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// POST /scores/official
func (h *Handler) addOfficialScore(w http.ResponseWriter, r *http.Request) {
	var req OfficialScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must look like 2006-01-02")
		return
	}
	score := progress.OfficialScore{
		Date:   date,
		Scores: progress.Scores{Total: req.TotalScore, EBRW: req.EBRWScore, Math: req.MathScore},
	}
	if h.handleError(w, h.progress.AddOfficialScore(r.Context(), score), "official score") {
		return
	}
	respondJSON(w, http.StatusCreated, OfficialScoreResponse{
		Date:           req.Date,
		ScoresResponse: toScoresResponse(score.Scores),
	})
}

func toScoresResponse(s progress.Scores) ScoresResponse {
	return ScoresResponse{TotalScore: s.Total, EBRWScore: s.EBRW, MathScore: s.Math}
}
