package practicesession

import (
	"errors"
	"fmt"
	"time"

	"github.com/lexilearn/backend/internal/domain/questionbank"
)

var ErrCorruptSnapshot = errors.New("corrupt session snapshot")

// Snapshot is the serializable form of a session, used to resume a
// session after a reload.
type Snapshot struct {
	ID          string                  `json:"id"`
	DeckID      string                  `json:"deck_id"`
	StartedAt   time.Time               `json:"started_at"`
	MaxDuration *time.Duration          `json:"max_duration,omitempty"`
	FocusOnWeak bool                    `json:"focus_on_weak,omitempty"`
	Questions   []questionbank.Question `json:"questions"`
	Position    int                     `json:"position"`
	Selection   string                  `json:"selection,omitempty"`
	Answered    bool                    `json:"answered"`
	Feedback    *Feedback               `json:"feedback,omitempty"`
	Results     []Result                `json:"results,omitempty"`
	Matching    *MatchingSnapshot       `json:"matching,omitempty"`
}

type MatchingSnapshot struct {
	Resolved     []questionbank.Pair `json:"resolved,omitempty"`
	PendingLeft  string              `json:"pending_left,omitempty"`
	PendingRight string              `json:"pending_right,omitempty"`
	Mistakes     int                 `json:"mistakes,omitempty"`
}

// Snapshot captures the full session state.
func (s *PracticeSession) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		DeckID:      s.DeckID,
		StartedAt:   s.StartedAt,
		MaxDuration: s.MaxDuration,
		FocusOnWeak: s.FocusOnWeak,
		Questions:   s.Questions(),
		Position:    s.position,
		Selection:   s.selection,
		Answered:    s.answered,
		Results:     s.Results(),
	}
	if s.feedback != nil {
		fb := *s.feedback
		snap.Feedback = &fb
	}
	if s.matching != nil {
		left, right := s.matching.Pending()
		snap.Matching = &MatchingSnapshot{
			Resolved:     s.matching.Resolved(),
			PendingLeft:  left,
			PendingRight: right,
			Mistakes:     s.matching.Mistakes(),
		}
	}
	return snap
}

// Restore rebuilds a session from a snapshot, rejecting snapshots that
// break the session invariants.
func Restore(snap Snapshot) (*PracticeSession, error) {
	n := len(snap.Questions)
	switch {
	case n == 0:
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, ErrNoQuestions)
	case snap.Position < 0 || snap.Position > n:
		return nil, fmt.Errorf("%w: position %d out of range [0, %d]", ErrCorruptSnapshot, snap.Position, n)
	case snap.Answered && snap.Feedback == nil:
		return nil, fmt.Errorf("%w: answered without feedback", ErrCorruptSnapshot)
	case !snap.Answered && snap.Feedback != nil:
		return nil, fmt.Errorf("%w: feedback without answer", ErrCorruptSnapshot)
	}

	if snap.Position == n && (snap.Answered || snap.Selection != "" || snap.Matching != nil) {
		return nil, fmt.Errorf("%w: completed session carries question state", ErrCorruptSnapshot)
	}

	expectedResults := snap.Position
	if snap.Answered {
		expectedResults++
	}
	if len(snap.Results) != expectedResults {
		return nil, fmt.Errorf("%w: %d results for position %d", ErrCorruptSnapshot, len(snap.Results), snap.Position)
	}

	s := &PracticeSession{
		ID:          snap.ID,
		DeckID:      snap.DeckID,
		StartedAt:   snap.StartedAt,
		MaxDuration: snap.MaxDuration,
		FocusOnWeak: snap.FocusOnWeak,
		questions:   cloneQuestions(snap.Questions),
		position:    snap.Position,
		selection:   snap.Selection,
		answered:    snap.Answered,
		results:     append([]Result(nil), snap.Results...),
	}
	if snap.Feedback != nil {
		fb := *snap.Feedback
		s.feedback = &fb
	}
	s.prepareCurrent()

	if s.matching == nil {
		if snap.Matching != nil {
			return nil, fmt.Errorf("%w: matching state on a non-pairs question", ErrCorruptSnapshot)
		}
		return s, nil
	}

	if snap.Selection != "" {
		return nil, fmt.Errorf("%w: selection on a pairs question", ErrCorruptSnapshot)
	}
	if snap.Matching != nil {
		if err := s.matching.restore(*snap.Matching); err != nil {
			return nil, err
		}
	}
	if snap.Answered && !s.matching.Complete() {
		return nil, fmt.Errorf("%w: answered pairs question with unmatched items", ErrCorruptSnapshot)
	}
	return s, nil
}

func (m *Matching) restore(snap MatchingSnapshot) error {
	for _, p := range snap.Resolved {
		if want, ok := m.expected[p.Left]; !ok || want != p.Right {
			return fmt.Errorf("%w: unknown resolved pair %q", ErrCorruptSnapshot, p.Left)
		}
		m.resolved[p.Left] = p.Right
		m.resolvedRHS[p.Right] = true
	}
	if snap.PendingLeft != "" {
		if _, ok := m.expected[snap.PendingLeft]; !ok || m.IsResolved(SideLeft, snap.PendingLeft) {
			return fmt.Errorf("%w: invalid pending left item", ErrCorruptSnapshot)
		}
	}
	if snap.PendingRight != "" {
		if !m.rights[snap.PendingRight] || m.IsResolved(SideRight, snap.PendingRight) {
			return fmt.Errorf("%w: invalid pending right item", ErrCorruptSnapshot)
		}
	}
	if snap.PendingLeft != "" && snap.PendingRight != "" {
		return fmt.Errorf("%w: both sides pending", ErrCorruptSnapshot)
	}
	if snap.Mistakes < 0 {
		return fmt.Errorf("%w: negative mistakes", ErrCorruptSnapshot)
	}
	m.pendingLeft = snap.PendingLeft
	m.pendingRight = snap.PendingRight
	m.mistakes = snap.Mistakes
	return nil
}
