package content

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lexilearn/backend/internal/domain/category"
	"github.com/lexilearn/backend/internal/domain/questionbank"
)

var ErrInvalidDeck = errors.New("invalid deck")

// Bank builds and validates a question bank from the document.
func (d DeckDoc) Bank() (*questionbank.QuestionBank, error) {
	if d.ID == "" {
		d.ID = category.Slug(d.Subject)
	}
	if d.ID == "" {
		return nil, errors.New("deck needs an id or a subject")
	}

	bank := questionbank.New(d.ID, d.Subject)
	if d.Category != "" {
		bank.SetCategory(&d.Category)
	}
	for _, q := range d.Questions {
		if err := bank.AddQuestion(q); err != nil {
			return nil, fmt.Errorf("deck %q: %w", d.ID, err)
		}
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	if len(bank.Questions) == 0 {
		return nil, fmt.Errorf("deck %q: no questions", d.ID)
	}
	return bank, nil
}

// ParseDeck decodes a single YAML deck, as produced by ExportDeck.
func ParseDeck(data []byte) (*questionbank.QuestionBank, error) {
	var doc DeckDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	bank, err := doc.Bank()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	return bank, nil
}

// ExportDeck encodes bank as a standalone YAML deck.
func ExportDeck(bank *questionbank.QuestionBank) ([]byte, error) {
	doc := DeckDoc{
		ID:        bank.ID,
		Subject:   bank.Subject,
		Questions: bank.Questions,
	}
	if bank.CategoryID != nil {
		doc.Category = *bank.CategoryID
	}
	return yaml.Marshal(doc)
}
