package category

import (
	"errors"
	"strings"
	"unicode"
)

var ErrInvalidCategory = errors.New("invalid category")

// Category is a lesson tab grouping decks, such as "english" or "math".
type Category struct {
	ID   string
	Name string
}

// New creates a category whose ID is derived from its name.
func New(name string) *Category {
	return &Category{
		ID:   Slug(name),
		Name: name,
	}
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.Join(ErrInvalidCategory, errors.New("name is required"))
	}
	if c.ID == "" || c.ID != Slug(c.ID) {
		return errors.Join(ErrInvalidCategory, errors.New("id must be lowercase letters, digits and dashes"))
	}
	return nil
}

// Slug lowercases name and joins its words with dashes.
func Slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}
