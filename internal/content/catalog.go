// Package content loads practice decks and flashcards from YAML documents
// and keeps them in an in-memory catalog.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lexilearn/backend/internal/domain/category"
	"github.com/lexilearn/backend/internal/domain/flashcard"
	"github.com/lexilearn/backend/internal/domain/questionbank"
)

//go:embed default.yaml
var defaultContent []byte

var (
	ErrDeckNotFound      = errors.New("deck not found")
	ErrFlashcardNotFound = errors.New("flashcard deck not found")
)

// ── Document types ──────────────────────────────────────────────────────────

type Document struct {
	Categories []CategoryDoc  `yaml:"categories"`
	Flashcards []FlashcardDoc `yaml:"flashcards,omitempty"`
}

type CategoryDoc struct {
	ID    string    `yaml:"id"`
	Name  string    `yaml:"name"`
	Decks []DeckDoc `yaml:"decks"`
}

// DeckDoc is a single deck. On its own (import/export) it names its
// category; inside a CategoryDoc the category is implied.
type DeckDoc struct {
	ID        string                  `yaml:"id"`
	Subject   string                  `yaml:"subject"`
	Category  string                  `yaml:"category,omitempty"`
	Questions []questionbank.Question `yaml:"questions"`
}

type FlashcardDoc struct {
	ID    string           `yaml:"id"`
	Name  string           `yaml:"name"`
	Cards []flashcard.Card `yaml:"cards"`
}

// ── Catalog ─────────────────────────────────────────────────────────────────

// Catalog holds every deck available for practice. It is safe for
// concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	categories []*category.Category
	decks      map[string]*questionbank.QuestionBank
	deckOrder  []string
	flashcards map[string]FlashcardDoc
}

func NewCatalog() *Catalog {
	return &Catalog{
		decks:      make(map[string]*questionbank.QuestionBank),
		flashcards: make(map[string]FlashcardDoc),
	}
}

// Default returns a catalog with the built-in lessons.
func Default() (*Catalog, error) {
	c := NewCatalog()
	if err := c.LoadBytes(defaultContent); err != nil {
		return nil, fmt.Errorf("default content: %w", err)
	}
	return c, nil
}

func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := c.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c *Catalog) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return c.LoadBytes(data)
}

// LoadBytes merges a YAML document into the catalog. Decks with an ID
// already in the catalog replace the earlier deck. Nothing is merged when
// any deck in the document is invalid.
func (c *Catalog) LoadBytes(data []byte) error {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	var banks []*questionbank.QuestionBank
	var cats []*category.Category
	for _, cd := range doc.Categories {
		cat := &category.Category{ID: cd.ID, Name: cd.Name}
		if cat.ID == "" {
			cat.ID = category.Slug(cd.Name)
		}
		if err := cat.Validate(); err != nil {
			return fmt.Errorf("category %q: %w", cd.Name, err)
		}
		cats = append(cats, cat)

		for _, dd := range cd.Decks {
			dd.Category = cat.ID
			bank, err := dd.Bank()
			if err != nil {
				return err
			}
			banks = append(banks, bank)
		}
	}

	for _, fd := range doc.Flashcards {
		if fd.ID == "" {
			return errors.New("flashcard deck id cannot be empty")
		}
		if len(fd.Cards) == 0 {
			return fmt.Errorf("flashcard deck %q: %w", fd.ID, flashcard.ErrEmptyDeck)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cat := range cats {
		c.addCategory(cat)
	}
	for _, bank := range banks {
		c.addDeck(bank)
	}
	for _, fd := range doc.Flashcards {
		c.flashcards[fd.ID] = fd
	}
	return nil
}

// Add validates bank and adds it to the catalog. An unknown category is
// created from the category ID.
func (c *Catalog) Add(bank *questionbank.QuestionBank) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	if len(bank.Questions) == 0 {
		return fmt.Errorf("bank %q: no questions", bank.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if bank.CategoryID != nil && c.category(*bank.CategoryID) == nil {
		c.addCategory(&category.Category{ID: *bank.CategoryID, Name: *bank.CategoryID})
	}
	c.addDeck(bank)
	return nil
}

func (c *Catalog) addCategory(cat *category.Category) {
	if existing := c.category(cat.ID); existing != nil {
		existing.Name = cat.Name
		return
	}
	c.categories = append(c.categories, cat)
}

func (c *Catalog) addDeck(bank *questionbank.QuestionBank) {
	if _, ok := c.decks[bank.ID]; !ok {
		c.deckOrder = append(c.deckOrder, bank.ID)
	}
	c.decks[bank.ID] = bank
}

func (c *Catalog) category(id string) *category.Category {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat
		}
	}
	return nil
}

// ── Queries ─────────────────────────────────────────────────────────────────

func (c *Catalog) Categories() []category.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]category.Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = *cat
	}
	return out
}

// Decks lists the decks of a category in load order. An empty categoryID
// lists decks without a category.
func (c *Catalog) Decks(categoryID string) []*questionbank.QuestionBank {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*questionbank.QuestionBank
	for _, id := range c.deckOrder {
		bank := c.decks[id]
		switch {
		case categoryID == "" && bank.CategoryID == nil:
			out = append(out, bank)
		case bank.CategoryID != nil && *bank.CategoryID == categoryID:
			out = append(out, bank)
		}
	}
	return out
}

func (c *Catalog) Deck(id string) (*questionbank.QuestionBank, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bank, ok := c.decks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeckNotFound, id)
	}
	return bank, nil
}

// Flashcards returns a fresh flashcard deck positioned on its first card.
func (c *Catalog) Flashcards(id string) (*flashcard.Deck, error) {
	c.mu.RLock()
	fd, ok := c.flashcards[id]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFlashcardNotFound, id)
	}
	return flashcard.New(fd.ID, fd.Name, fd.Cards)
}

// FlashcardDecks lists flashcard decks sorted by ID.
func (c *Catalog) FlashcardDecks() []FlashcardDoc {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]FlashcardDoc, 0, len(c.flashcards))
	for _, fd := range c.flashcards {
		out = append(out, fd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
