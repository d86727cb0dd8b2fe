package flashcard

import "errors"

var ErrEmptyDeck = errors.New("flashcard deck has no cards")

type Card struct {
	Word        string `json:"word" yaml:"word"`
	Translation string `json:"translation" yaml:"translation"`
}

// Deck walks through cards one at a time. After the last card it starts
// over from the first.
type Deck struct {
	ID      string
	Name    string
	cards   []Card
	index   int
	flipped bool
	learned map[string]bool
	laps    int
}

func New(id, name string, cards []Card) (*Deck, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return &Deck{
		ID:      id,
		Name:    name,
		cards:   append([]Card(nil), cards...),
		learned: make(map[string]bool),
	}, nil
}

// Current returns the card on display and whether it shows its translation.
func (d *Deck) Current() (Card, bool) {
	return d.cards[d.index], d.flipped
}

func (d *Deck) Flip() {
	d.flipped = !d.flipped
}

// Next records the current card as learned or to repeat and shows the
// next card face down. It reports true when the deck wrapped around.
func (d *Deck) Next(learned bool) bool {
	word := d.cards[d.index].Word
	if learned {
		d.learned[word] = true
	} else {
		delete(d.learned, word)
	}

	d.flipped = false
	d.index++
	if d.index >= len(d.cards) {
		d.index = 0
		d.laps++
		return true
	}
	return false
}

func (d *Deck) Position() int { return d.index }

func (d *Deck) Len() int { return len(d.cards) }

func (d *Deck) Learned() int { return len(d.learned) }

// Laps counts how many times the deck has been completed.
func (d *Deck) Laps() int { return d.laps }

func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}
