package questionbank

import (
	"errors"
	"fmt"
)

// QuestionBank is a deck of practice questions shown on one practice page.
type QuestionBank struct {
	ID         string
	Subject    string
	CategoryID *string // Optional - decks without a category are listed separately
	Kind       Kind    // dominant kind, used for listing only
	Questions  []Question
}

func New(id, subject string) *QuestionBank {
	return &QuestionBank{
		ID:         id,
		Subject:    subject,
		CategoryID: nil,
		Kind:       KindMultipleChoice,
		Questions:  []Question{},
	}
}

func NewWithCategory(id, subject, categoryID string) *QuestionBank {
	bank := New(id, subject)
	bank.CategoryID = &categoryID
	return bank
}

func (qb *QuestionBank) SetCategory(categoryID *string) {
	qb.CategoryID = categoryID
}

// AddQuestion validates q and appends it. A missing ID is derived from the
// bank ID and the question's position.
func (qb *QuestionBank) AddQuestion(q Question) error {
	if q.Kind == "" {
		q.Kind = KindMultipleChoice
	}
	if q.ID == "" {
		q.ID = fmt.Sprintf("%s-%d", qb.ID, len(qb.Questions)+1)
	}
	if err := q.Validate(); err != nil {
		return err
	}
	for _, existing := range qb.Questions {
		if existing.ID == q.ID {
			return fmt.Errorf("%w %q: duplicate id in bank %q", ErrInvalidQuestion, q.ID, qb.ID)
		}
	}

	if len(qb.Questions) == 0 {
		qb.Kind = q.Kind
	}
	qb.Questions = append(qb.Questions, q)
	return nil
}

// AddChoice is a shorthand for a multiple-choice question.
func (qb *QuestionBank) AddChoice(prompt, answer string, options ...string) error {
	return qb.AddQuestion(Question{
		Kind:          KindMultipleChoice,
		Prompt:        prompt,
		Options:       options,
		CorrectAnswer: answer,
	})
}

// Validate re-checks every question, e.g. after decoding an imported deck.
func (qb *QuestionBank) Validate() error {
	if qb.ID == "" {
		return errors.New("bank id cannot be empty")
	}
	if qb.Subject == "" {
		return fmt.Errorf("bank %q: subject cannot be empty", qb.ID)
	}
	seen := make(map[string]bool, len(qb.Questions))
	for _, q := range qb.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("bank %q: %w", qb.ID, err)
		}
		if seen[q.ID] {
			return fmt.Errorf("bank %q: %w %q: duplicate id", qb.ID, ErrInvalidQuestion, q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}
