package questionbank

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindFillBlank      Kind = "fill_blank"
	KindPairs          Kind = "pairs"
)

// Blank marks where the chosen word goes in a fill-in-the-blank prompt.
const Blank = "___"

// Pair is one required match in a pairs question.
type Pair struct {
	Left  string `json:"left" yaml:"left"`
	Right string `json:"right" yaml:"right"`
}

// Question is a single practice item. CorrectAnswer is compared against
// the user's selection by exact equality.
type Question struct {
	ID            string   `json:"id" yaml:"id"`
	Kind          Kind     `json:"kind" yaml:"kind"`
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Options       []string `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty" yaml:"correct_answer,omitempty"`
	Pairs         []Pair   `json:"pairs,omitempty" yaml:"pairs,omitempty"`
}

var ErrInvalidQuestion = errors.New("invalid question")

// Validate checks the content invariants the session controller relies on.
func (q Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("%w %q: prompt cannot be empty", ErrInvalidQuestion, q.ID)
	}

	switch q.Kind {
	case KindMultipleChoice, KindFillBlank:
		if q.CorrectAnswer == "" {
			return fmt.Errorf("%w %q: correct answer cannot be empty", ErrInvalidQuestion, q.ID)
		}
		if len(q.Options) == 0 {
			return nil
		}
		matches := 0
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Errorf("%w %q: correct answer must match exactly one option, matched %d",
				ErrInvalidQuestion, q.ID, matches)
		}
		if q.Kind == KindFillBlank && !strings.Contains(q.Prompt, Blank) {
			return fmt.Errorf("%w %q: fill-in-the-blank prompt needs a %s marker", ErrInvalidQuestion, q.ID, Blank)
		}
	case KindPairs:
		if len(q.Pairs) == 0 {
			return fmt.Errorf("%w %q: pairs question needs at least one pair", ErrInvalidQuestion, q.ID)
		}
		lefts := make(map[string]bool, len(q.Pairs))
		rights := make(map[string]bool, len(q.Pairs))
		for _, p := range q.Pairs {
			if p.Left == "" || p.Right == "" {
				return fmt.Errorf("%w %q: pair items cannot be empty", ErrInvalidQuestion, q.ID)
			}
			if lefts[p.Left] || rights[p.Right] {
				return fmt.Errorf("%w %q: duplicate pair item", ErrInvalidQuestion, q.ID)
			}
			lefts[p.Left] = true
			rights[p.Right] = true
		}
	default:
		return fmt.Errorf("%w %q: unknown kind %q", ErrInvalidQuestion, q.ID, q.Kind)
	}
	return nil
}

// Term is the vocabulary word a question practices. Pairs questions
// practice several words, see Terms.
func (q Question) Term() string {
	switch q.Kind {
	case KindFillBlank:
		return q.CorrectAnswer
	case KindPairs:
		if len(q.Pairs) > 0 {
			return q.Pairs[0].Left
		}
		return ""
	default:
		return q.Prompt
	}
}

// Terms returns every vocabulary word the question practices.
func (q Question) Terms() []string {
	if q.Kind != KindPairs {
		return []string{q.Term()}
	}
	terms := make([]string, len(q.Pairs))
	for i, p := range q.Pairs {
		terms[i] = p.Left
	}
	return terms
}

// Clone returns a deep copy so sessions never share slices with a bank.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = append([]string(nil), q.Options...)
	}
	if q.Pairs != nil {
		c.Pairs = append([]Pair(nil), q.Pairs...)
	}
	return c
}
