package practicesession_test

import (
	"errors"
	"testing"

	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
	"github.com/lexilearn/backend/internal/domain/questionbank"
)

func pairsBank() *questionbank.QuestionBank {
	bank := questionbank.New("pairs", "Pairs")
	bank.AddQuestion(questionbank.Question{
		Kind:   questionbank.KindPairs,
		Prompt: "Match the words",
		Pairs: []questionbank.Pair{
			{Left: "A", Right: "1"},
			{Left: "B", Right: "2"},
		},
	})
	return bank
}

func TestMatching_WrongSidePairingIsMismatch(t *testing.T) {
	session := mustNew(t, pairsBank())

	if out, err := session.SelectPair(practicesession.SideLeft, "A"); err != nil || out != practicesession.MatchPending {
		t.Fatalf("expected pending, got %s (%v)", out, err)
	}
	out, err := session.SelectPair(practicesession.SideRight, "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != practicesession.MatchMismatch {
		t.Fatalf("expected mismatch, got %s", out)
	}

	view, ok := session.Pairs()
	if !ok {
		t.Fatal("expected pairs view")
	}
	if len(view.Resolved) != 0 {
		t.Errorf("expected nothing resolved, got %v", view.Resolved)
	}
	if view.PendingLeft != "" || view.PendingRight != "" {
		t.Errorf("expected pending selections cleared, got %q/%q", view.PendingLeft, view.PendingRight)
	}
	if view.Mistakes != 1 {
		t.Errorf("expected 1 mistake, got %d", view.Mistakes)
	}
}

func TestMatching_ResolveInEitherOrder(t *testing.T) {
	session := mustNew(t, pairsBank())

	session.SelectPair(practicesession.SideRight, "1")
	if out, _ := session.SelectPair(practicesession.SideLeft, "A"); out != practicesession.MatchResolved {
		t.Fatalf("expected resolved, got %s", out)
	}

	if _, err := session.Submit(); !errors.Is(err, practicesession.ErrEmptySelection) {
		t.Fatalf("expected submit to wait for all pairs, got %v", err)
	}

	session.SelectPair(practicesession.SideLeft, "B")
	session.SelectPair(practicesession.SideRight, "2")

	fb, err := session.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !fb.IsCorrect {
		t.Error("expected correct feedback without mistakes")
	}
	if fb.CorrectAnswer != "A → 1, B → 2" {
		t.Errorf("unexpected correct answer %q", fb.CorrectAnswer)
	}
}

func TestMatching_MistakesMakeFeedbackIncorrect(t *testing.T) {
	session := mustNew(t, pairsBank())

	session.SelectPair(practicesession.SideLeft, "A")
	session.SelectPair(practicesession.SideRight, "2")
	session.SelectPair(practicesession.SideLeft, "A")
	session.SelectPair(practicesession.SideRight, "1")
	session.SelectPair(practicesession.SideLeft, "B")
	session.SelectPair(practicesession.SideRight, "2")

	fb, err := session.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if fb.IsCorrect || fb.Mistakes != 1 {
		t.Errorf("expected incorrect with 1 mistake, got %+v", fb)
	}
}

func TestMatching_IgnoresUnknownAndResolvedItems(t *testing.T) {
	m := practicesession.NewMatching([]questionbank.Pair{{Left: "A", Right: "1"}, {Left: "B", Right: "2"}})

	if out := m.Select(practicesession.SideLeft, "Z"); out != practicesession.MatchIgnored {
		t.Errorf("expected unknown item ignored, got %s", out)
	}
	if out := m.Select(practicesession.SideLeft, "1"); out != practicesession.MatchIgnored {
		t.Errorf("expected right item on left side ignored, got %s", out)
	}

	m.Select(practicesession.SideLeft, "A")
	m.Select(practicesession.SideRight, "1")

	if out := m.Select(practicesession.SideLeft, "A"); out != practicesession.MatchIgnored {
		t.Errorf("expected resolved left item ignored, got %s", out)
	}
	if out := m.Select(practicesession.SideRight, "1"); out != practicesession.MatchIgnored {
		t.Errorf("expected resolved right item ignored, got %s", out)
	}
	if m.Remaining() != 1 || m.Complete() {
		t.Errorf("expected 1 remaining, got %d", m.Remaining())
	}
}

func TestMatching_ReselectSameSideReplacesPending(t *testing.T) {
	m := practicesession.NewMatching([]questionbank.Pair{{Left: "A", Right: "1"}, {Left: "B", Right: "2"}})

	m.Select(practicesession.SideLeft, "A")
	m.Select(practicesession.SideLeft, "B")
	if left, _ := m.Pending(); left != "B" {
		t.Errorf("expected pending left %q, got %q", "B", left)
	}
	if out := m.Select(practicesession.SideRight, "2"); out != practicesession.MatchResolved {
		t.Errorf("expected resolved, got %s", out)
	}
}

func TestSelect_OnPairsQuestionIsInvalid(t *testing.T) {
	session := mustNew(t, pairsBank())

	if err := session.Select("A"); !errors.Is(err, practicesession.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSelectPair_OnChoiceQuestionIsInvalid(t *testing.T) {
	session := mustNew(t, vocabularyBank())

	out, err := session.SelectPair(practicesession.SideLeft, "Aberration")
	if !errors.Is(err, practicesession.ErrInvalidTransition) || out != practicesession.MatchIgnored {
		t.Errorf("expected ignored invalid transition, got %s (%v)", out, err)
	}
}

func TestSelectPair_AfterSubmitIsInvalid(t *testing.T) {
	session := mustNew(t, pairsBank())
	session.SelectPair(practicesession.SideLeft, "A")
	session.SelectPair(practicesession.SideRight, "1")
	session.SelectPair(practicesession.SideLeft, "B")
	session.SelectPair(practicesession.SideRight, "2")
	session.Submit()

	if _, err := session.SelectPair(practicesession.SideLeft, "A"); !errors.Is(err, practicesession.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}
