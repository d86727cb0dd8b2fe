package practicesession

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/lexilearn/backend/internal/domain/questionbank"
	"github.com/lexilearn/backend/internal/id"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the session's current state. The session is left untouched.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrEmptySelection is returned by Submit when nothing has been selected
	// yet, or when a pairs question still has unmatched items.
	ErrEmptySelection = errors.New("empty selection")
	ErrNoQuestions    = errors.New("session has no questions")
)

// State is the position of the session in its question flow.
type State int

const (
	StateUnanswered State = iota
	StateAnswered
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateUnanswered:
		return "unanswered"
	case StateAnswered:
		return "answered"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Feedback is the immutable outcome of a Submit.
type Feedback struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Selection     string `json:"selection,omitempty"`
	Mistakes      int    `json:"mistakes,omitempty"` // pairs only
}

// Result is the recorded outcome of one question.
type Result struct {
	QuestionID string `json:"question_id"`
	Selection  string `json:"selection,omitempty"`
	IsCorrect  bool   `json:"is_correct"`
}

// PracticeSession is one run through a fixed, ordered question list.
// It is not safe for concurrent use; callers serialize transitions.
type PracticeSession struct {
	ID          string
	DeckID      string
	StartedAt   time.Time
	MaxDuration *time.Duration // Optional time limit for the session
	FocusOnWeak bool

	questions []questionbank.Question
	position  int
	selection string
	answered  bool
	feedback  *Feedback
	matching  *Matching
	results   []Result
}

// New creates a practice session with all questions from the bank, in
// deck order.
func New(bank *questionbank.QuestionBank) (*PracticeSession, error) {
	return NewWithConfig(bank, DefaultConfig(), nil)
}

// NewWithConfig creates a practice session with the given configuration.
// When FocusOnWeak is set and ordered is non-empty, ordered replaces the
// bank order; otherwise Shuffle decides whether questions are randomized.
// If MaxQuestions is set and less than the total available, only that many
// questions are included.
func NewWithConfig(bank *questionbank.QuestionBank, config SessionConfig, ordered []questionbank.Question) (*PracticeSession, error) {
	var questions []questionbank.Question

	switch {
	case config.FocusOnWeak && len(ordered) > 0:
		questions = cloneQuestions(ordered)
	case config.Shuffle:
		questions = shuffleQuestions(bank.Questions)
	default:
		questions = cloneQuestions(bank.Questions)
	}

	// Apply question limit if set
	if config.MaxQuestions != nil && *config.MaxQuestions > 0 && *config.MaxQuestions < len(questions) {
		questions = questions[:*config.MaxQuestions]
	}

	s, err := newSession(bank.ID, questions)
	if err != nil {
		return nil, err
	}
	s.MaxDuration = config.MaxDuration
	s.FocusOnWeak = config.FocusOnWeak
	return s, nil
}

// NewFromQuestions creates a session directly from a question list.
func NewFromQuestions(deckID string, questions []questionbank.Question) (*PracticeSession, error) {
	return newSession(deckID, cloneQuestions(questions))
}

func newSession(deckID string, questions []questionbank.Question) (*PracticeSession, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	s := &PracticeSession{
		ID:        id.GenerateID(),
		DeckID:    deckID,
		StartedAt: time.Now(),
		questions: questions,
	}
	s.prepareCurrent()
	return s, nil
}

// ============================================================================
// Transitions
// ============================================================================

// Select sets the candidate answer for the current question, replacing any
// earlier selection. It only applies while the question is unanswered and
// is not a pairs question.
func (s *PracticeSession) Select(candidate string) error {
	if s.State() != StateUnanswered || s.questions[s.position].Kind == questionbank.KindPairs {
		return ErrInvalidTransition
	}
	if candidate == "" {
		return ErrEmptySelection
	}
	s.selection = candidate
	return nil
}

// SelectPair picks an item on one side of the current pairs question.
func (s *PracticeSession) SelectPair(side Side, item string) (MatchOutcome, error) {
	if s.State() != StateUnanswered || s.matching == nil {
		return MatchIgnored, ErrInvalidTransition
	}
	return s.matching.Select(side, item), nil
}

// Submit locks in the answer for the current question and returns the
// feedback. Answers are compared by exact equality.
func (s *PracticeSession) Submit() (Feedback, error) {
	if s.State() != StateUnanswered {
		return Feedback{}, ErrInvalidTransition
	}

	q := s.questions[s.position]
	var fb Feedback

	if q.Kind == questionbank.KindPairs {
		if !s.matching.Complete() {
			return Feedback{}, fmt.Errorf("%w: %d pairs unmatched", ErrEmptySelection, s.matching.Remaining())
		}
		fb = Feedback{
			IsCorrect:     s.matching.Mistakes() == 0,
			CorrectAnswer: formatPairs(q.Pairs),
			Mistakes:      s.matching.Mistakes(),
		}
	} else {
		if s.selection == "" {
			return Feedback{}, ErrEmptySelection
		}
		fb = Feedback{
			IsCorrect:     s.selection == q.CorrectAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Selection:     s.selection,
		}
	}

	s.answered = true
	s.feedback = &fb
	s.results = append(s.results, Result{
		QuestionID: q.ID,
		Selection:  fb.Selection,
		IsCorrect:  fb.IsCorrect,
	})
	return fb, nil
}

// Advance moves past an answered question. After the last question the
// session is complete.
func (s *PracticeSession) Advance() error {
	if s.State() != StateAnswered {
		return ErrInvalidTransition
	}
	s.position++
	s.selection = ""
	s.answered = false
	s.feedback = nil
	s.prepareCurrent()
	return nil
}

func (s *PracticeSession) prepareCurrent() {
	s.matching = nil
	if s.position < len(s.questions) && s.questions[s.position].Kind == questionbank.KindPairs {
		s.matching = NewMatching(s.questions[s.position].Pairs)
	}
}

// ============================================================================
// Read access
// ============================================================================

func (s *PracticeSession) State() State {
	switch {
	case s.position >= len(s.questions):
		return StateComplete
	case s.answered:
		return StateAnswered
	default:
		return StateUnanswered
	}
}

func (s *PracticeSession) IsComplete() bool {
	return s.position == len(s.questions)
}

func (s *PracticeSession) Position() int { return s.position }

func (s *PracticeSession) Len() int { return len(s.questions) }

// Current returns the question at the current position; false once complete.
func (s *PracticeSession) Current() (questionbank.Question, bool) {
	if s.IsComplete() {
		return questionbank.Question{}, false
	}
	return s.questions[s.position].Clone(), true
}

func (s *PracticeSession) Selection() string { return s.selection }

// Feedback returns the feedback of the current answered question.
func (s *PracticeSession) Feedback() (Feedback, bool) {
	if s.feedback == nil {
		return Feedback{}, false
	}
	return *s.feedback, true
}

// Questions returns a copy of the session's question list.
func (s *PracticeSession) Questions() []questionbank.Question {
	return cloneQuestions(s.questions)
}

func (s *PracticeSession) Results() []Result {
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// Score returns the number of correct answers and answered questions.
func (s *PracticeSession) Score() (correct, answered int) {
	for _, r := range s.results {
		if r.IsCorrect {
			correct++
		}
	}
	return correct, len(s.results)
}

// PairsView is a read-only picture of the current pairs question.
type PairsView struct {
	PendingLeft  string
	PendingRight string
	Resolved     []questionbank.Pair
	Remaining    int
	Mistakes     int
}

// Pairs returns the matching progress; false when the current question is
// not a pairs question.
func (s *PracticeSession) Pairs() (PairsView, bool) {
	if s.matching == nil {
		return PairsView{}, false
	}
	left, right := s.matching.Pending()
	return PairsView{
		PendingLeft:  left,
		PendingRight: right,
		Resolved:     s.matching.Resolved(),
		Remaining:    s.matching.Remaining(),
		Mistakes:     s.matching.Mistakes(),
	}, true
}

// Remaining reports the time left before MaxDuration runs out.
func (s *PracticeSession) Remaining(now time.Time) (time.Duration, bool) {
	if s.MaxDuration == nil {
		return 0, false
	}
	left := s.StartedAt.Add(*s.MaxDuration).Sub(now)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Expired reports whether the time limit has passed. It does not change
// the session's state.
func (s *PracticeSession) Expired(now time.Time) bool {
	left, limited := s.Remaining(now)
	return limited && left == 0
}

// ============================================================================
// Helpers
// ============================================================================

func cloneQuestions(questions []questionbank.Question) []questionbank.Question {
	out := make([]questionbank.Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	return out
}

// shuffleQuestions returns a new slice with questions in random order.
func shuffleQuestions(questions []questionbank.Question) []questionbank.Question {
	shuffled := cloneQuestions(questions)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}

func formatPairs(pairs []questionbank.Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Left + " → " + p.Right
	}
	return strings.Join(parts, ", ")
}
