package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
	"github.com/lexilearn/backend/internal/domain/questionbank"
	"github.com/lexilearn/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	DeckID         string `json:"deck_id"`
	MaxQuestions   *int   `json:"max_questions,omitempty"`
	MaxDurationMin *int   `json:"max_duration_min,omitempty"`
	Shuffle        bool   `json:"shuffle"`
	FocusOnWeak    bool   `json:"focus_on_weak"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.DeckID == "" {
		return errors.New("deck_id is required")
	}
	return nil
}

type SelectRequest struct {
	Candidate string `json:"candidate"`
}

type SelectPairRequest struct {
	Side string `json:"side"`
	Item string `json:"item"`
}

func (r *SelectPairRequest) Validate() error {
	if r.Side != string(practicesession.SideLeft) && r.Side != string(practicesession.SideRight) {
		return errors.New("side must be left or right")
	}
	if r.Item == "" {
		return errors.New("item is required")
	}
	return nil
}

// QuestionView is a question as shown to the learner, without its answer.
type QuestionView struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
	Left    []string `json:"left,omitempty"`
	Right   []string `json:"right,omitempty"`
}

type PairsResponse struct {
	PendingLeft  string              `json:"pending_left,omitempty"`
	PendingRight string              `json:"pending_right,omitempty"`
	Resolved     []questionbank.Pair `json:"resolved"`
	Remaining    int                 `json:"remaining"`
	Mistakes     int                 `json:"mistakes"`
}

type SessionResponse struct {
	ID               string                    `json:"id"`
	DeckID           string                    `json:"deck_id"`
	State            string                    `json:"state"`
	Position         int                       `json:"position"`
	Total            int                       `json:"total"`
	Complete         bool                      `json:"complete"`
	Question         *QuestionView             `json:"question,omitempty"`
	Selection        string                    `json:"selection,omitempty"`
	Feedback         *practicesession.Feedback `json:"feedback,omitempty"`
	Pairs            *PairsResponse            `json:"pairs,omitempty"`
	RemainingSeconds *int                      `json:"remaining_seconds,omitempty"`
	Expired          bool                      `json:"expired,omitempty"`
}

type SelectPairResponse struct {
	SessionResponse
	Outcome string `json:"outcome"`
}

type SummaryResponse struct {
	SessionID string                   `json:"session_id"`
	DeckID    string                   `json:"deck_id"`
	Correct   int                      `json:"correct"`
	Answered  int                      `json:"answered"`
	Total     int                      `json:"total"`
	Complete  bool                     `json:"complete"`
	Results   []practicesession.Result `json:"results"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := service.StartOptions{
		DeckID:      req.DeckID,
		Shuffle:     req.Shuffle,
		FocusOnWeak: req.FocusOnWeak,
	}
	if req.MaxQuestions != nil && *req.MaxQuestions > 0 {
		opts.MaxQuestions = req.MaxQuestions
	}
	if req.MaxDurationMin != nil && *req.MaxDurationMin > 0 {
		duration := time.Duration(*req.MaxDurationMin) * time.Minute
		opts.MaxDuration = &duration
	}

	session, err := h.practice.Start(r.Context(), opts)
	if h.handleError(w, err, "deck") {
		return
	}
	respondJSON(w, http.StatusCreated, toSessionResponse(session))
}

// GET /sessions/{sessionID}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.practice.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(session))
}

// POST /sessions/{sessionID}/select
func (h *Handler) selectCandidate(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.practice.Select(r.Context(), chi.URLParam(r, "sessionID"), req.Candidate)
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(session))
}

// POST /sessions/{sessionID}/pairs
func (h *Handler) selectPair(w http.ResponseWriter, r *http.Request) {
	var req SelectPairRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, outcome, err := h.practice.SelectPair(r.Context(), chi.URLParam(r, "sessionID"),
		practicesession.Side(req.Side), req.Item)
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, SelectPairResponse{
		SessionResponse: toSessionResponse(session),
		Outcome:         string(outcome),
	})
}

// POST /sessions/{sessionID}/submit
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	session, _, err := h.practice.Submit(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(session))
}

// POST /sessions/{sessionID}/advance
func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	session, err := h.practice.Advance(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(session))
}

// GET /sessions/{sessionID}/summary
func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.practice.Summary(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err, "session") {
		return
	}
	results := summary.Results
	if results == nil {
		results = []practicesession.Result{}
	}
	respondJSON(w, http.StatusOK, SummaryResponse{
		SessionID: summary.SessionID,
		DeckID:    summary.DeckID,
		Correct:   summary.Correct,
		Answered:  summary.Answered,
		Total:     summary.Total,
		Complete:  summary.Complete,
		Results:   results,
	})
}

// ── Mapping ─────────────────────────────────────────────────────────────────

func toSessionResponse(s *practicesession.PracticeSession) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID,
		DeckID:    s.DeckID,
		State:     s.State().String(),
		Position:  s.Position(),
		Total:     s.Len(),
		Complete:  s.IsComplete(),
		Selection: s.Selection(),
	}

	if q, ok := s.Current(); ok {
		resp.Question = toQuestionView(q)
	}
	if fb, ok := s.Feedback(); ok {
		resp.Feedback = &fb
	}
	if p, ok := s.Pairs(); ok {
		resolved := p.Resolved
		if resolved == nil {
			resolved = []questionbank.Pair{}
		}
		resp.Pairs = &PairsResponse{
			PendingLeft:  p.PendingLeft,
			PendingRight: p.PendingRight,
			Resolved:     resolved,
			Remaining:    p.Remaining,
			Mistakes:     p.Mistakes,
		}
	}

	now := time.Now()
	if left, limited := s.Remaining(now); limited {
		seconds := int(left.Seconds())
		resp.RemainingSeconds = &seconds
		resp.Expired = s.Expired(now)
	}
	return resp
}

// toQuestionView hides the answer. Right-hand pair items are sorted so
// their order does not give the matches away.
func toQuestionView(q questionbank.Question) *QuestionView {
	view := &QuestionView{
		ID:      q.ID,
		Kind:    string(q.Kind),
		Prompt:  q.Prompt,
		Options: q.Options,
	}
	if q.Kind == questionbank.KindPairs {
		for _, p := range q.Pairs {
			view.Left = append(view.Left, p.Left)
			view.Right = append(view.Right, p.Right)
		}
		sort.Strings(view.Right)
	}
	return view
}
