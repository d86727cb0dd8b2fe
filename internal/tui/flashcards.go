package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexilearn/backend/internal/domain/flashcard"
)

// FlashcardModel is the Bubble Tea model for flipping through a deck.
type FlashcardModel struct {
	deck     *flashcard.Deck
	opts     Options
	keys     cardKeys
	help     help.Model
	finished bool
}

func NewFlashcards(deck *flashcard.Deck, opts Options) FlashcardModel {
	return FlashcardModel{
		deck: deck,
		opts: opts,
		keys: newCardKeys(),
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m FlashcardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m FlashcardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Flip):
			m.deck.Flip()
			m.finished = false
		case key.Matches(msg, m.keys.Know):
			m.finished = m.deck.Next(true)
		case key.Matches(msg, m.keys.Repeat):
			m.finished = m.deck.Next(false)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m FlashcardModel) View() string {
	noColor := m.opts.NoColor
	card, flipped := m.deck.Current()

	header := fmt.Sprintf("Card %d of %d | Learned: %d", m.deck.Position()+1, m.deck.Len(), m.deck.Learned())
	if m.opts.Title != "" {
		header = m.opts.Title + " | " + header
	}

	face := card.Word
	if flipped {
		face = card.Translation
	}
	if !noColor {
		face = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorButton).
			Padding(1, 4).
			Render(face)
	}

	lines := []string{stylize(header, noColor, colorTitle), "", face, ""}
	if m.finished {
		lines = append(lines, stylize("Lesson complete!", noColor, colorCorrect), "")
	}
	lines = append(lines, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
