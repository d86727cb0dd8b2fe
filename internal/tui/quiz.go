package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
	"github.com/lexilearn/backend/internal/domain/questionbank"
)

// Driver performs session transitions for the quiz. Every call returns the
// session as it is after the transition.
type Driver interface {
	Select(candidate string) (*practicesession.PracticeSession, error)
	SelectPair(side practicesession.Side, item string) (*practicesession.PracticeSession, practicesession.MatchOutcome, error)
	Submit() (*practicesession.PracticeSession, practicesession.Feedback, error)
	Advance() (*practicesession.PracticeSession, error)
}

// QuizModel is the Bubble Tea model for a practice session.
type QuizModel struct {
	driver  Driver
	session *practicesession.PracticeSession
	opts    Options
	keys    quizKeys
	help    help.Model

	cursor int
	column practicesession.Side
	status string
	now    func() time.Time
}

// NewQuiz builds a quiz model over an already started session.
func NewQuiz(driver Driver, session *practicesession.PracticeSession, opts Options) QuizModel {
	return QuizModel{
		driver:  driver,
		session: session,
		opts:    opts,
		keys:    newQuizKeys(),
		help:    help.New(),
		column:  practicesession.SideLeft,
		now:     time.Now,
	}
}

// Session returns the latest session state.
func (m QuizModel) Session() *practicesession.PracticeSession {
	return m.session
}

// Init implements tea.Model.
func (m QuizModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m QuizModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.session.IsComplete() {
		if key.Matches(msg, m.keys.Enter) {
			return m, tea.Quit
		}
		return m, nil
	}

	items := m.items()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Left):
		m.switchColumn(practicesession.SideLeft)
	case key.Matches(msg, m.keys.Right):
		m.switchColumn(practicesession.SideRight)
	case key.Matches(msg, m.keys.Select):
		m.selectCursor(items)
	case key.Matches(msg, m.keys.Enter):
		m.enter(items)
	}
	return m, nil
}

func (m *QuizModel) switchColumn(side practicesession.Side) {
	if _, ok := m.session.Pairs(); !ok || m.column == side {
		return
	}
	m.column = side
	if n := len(m.items()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *QuizModel) selectCursor(items []string) {
	if m.session.State() != practicesession.StateUnanswered || len(items) == 0 {
		return
	}
	item := items[m.cursor]

	if _, ok := m.session.Pairs(); ok {
		session, outcome, err := m.driver.SelectPair(m.column, item)
		if m.fail(err) {
			return
		}
		m.session = session
		switch outcome {
		case practicesession.MatchResolved:
			m.status = "Matched!"
		case practicesession.MatchMismatch:
			m.status = "Not a pair, try again"
		default:
			m.status = ""
		}
		return
	}

	session, err := m.driver.Select(item)
	if m.fail(err) {
		return
	}
	m.session = session
	m.status = ""
}

func (m *QuizModel) enter(items []string) {
	switch m.session.State() {
	case practicesession.StateUnanswered:
		_, pairs := m.session.Pairs()
		if !pairs && m.session.Selection() == "" {
			m.selectCursor(items)
		}
		session, _, err := m.driver.Submit()
		if errors.Is(err, practicesession.ErrEmptySelection) {
			if pairs {
				m.status = "Match every pair first"
			} else {
				m.status = "Choose an answer first"
			}
			return
		}
		if m.fail(err) {
			return
		}
		m.session = session
		m.status = ""
	case practicesession.StateAnswered:
		session, err := m.driver.Advance()
		if m.fail(err) {
			return
		}
		m.session = session
		m.cursor = 0
		m.column = practicesession.SideLeft
		m.status = ""
	}
}

func (m *QuizModel) fail(err error) bool {
	if err == nil {
		return false
	}
	if !errors.Is(err, practicesession.ErrInvalidTransition) {
		m.status = "Error: " + err.Error()
	}
	return true
}

// items lists what the cursor moves over: options, blanks or one column of
// a pairs question.
func (m QuizModel) items() []string {
	q, ok := m.session.Current()
	if !ok {
		return nil
	}
	if q.Kind != questionbank.KindPairs {
		return q.Options
	}
	out := make([]string, 0, len(q.Pairs))
	for _, p := range q.Pairs {
		if m.column == practicesession.SideLeft {
			out = append(out, p.Left)
		} else {
			out = append(out, p.Right)
		}
	}
	if m.column == practicesession.SideRight {
		sort.Strings(out)
	}
	return out
}

// View implements tea.Model.
func (m QuizModel) View() string {
	noColor := m.opts.NoColor
	if m.session.IsComplete() {
		return m.completeView()
	}

	q, _ := m.session.Current()
	lines := []string{
		m.header(),
		"",
		bold(q.Prompt, noColor),
		"",
	}
	if _, ok := m.session.Pairs(); ok {
		lines = append(lines, m.pairsView(q))
	} else {
		lines = append(lines, m.optionsView(q)...)
	}
	lines = append(lines, "")

	if fb, ok := m.session.Feedback(); ok {
		lines = append(lines, feedbackLine(fb, noColor), "", button("Continue", noColor))
	} else {
		lines = append(lines, button("Answer", noColor))
	}
	if m.status != "" {
		lines = append(lines, "", stylize(m.status, noColor, colorMuted))
	}
	lines = append(lines, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m QuizModel) header() string {
	line := fmt.Sprintf("Question %d of %d", m.session.Position()+1, m.session.Len())
	if m.opts.Title != "" {
		line = m.opts.Title + " | " + line
	}
	if left, limited := m.session.Remaining(m.now()); limited {
		line += " | Time left: " + left.Round(time.Second).String()
	}
	return stylize(line, m.opts.NoColor, colorTitle)
}

func (m QuizModel) optionsView(q questionbank.Question) []string {
	noColor := m.opts.NoColor
	lines := make([]string, len(q.Options))
	for i, opt := range q.Options {
		mark := "○"
		if opt == m.session.Selection() {
			mark = "●"
		}
		line := "  " + mark + " " + opt
		if i == m.cursor {
			line = stylize("> "+mark+" "+opt, noColor, colorCursor)
		}
		lines[i] = line
	}
	return lines
}

func (m QuizModel) pairsView(q questionbank.Question) string {
	noColor := m.opts.NoColor
	view, _ := m.session.Pairs()
	resolvedLeft := make(map[string]bool, len(view.Resolved))
	resolvedRight := make(map[string]bool, len(view.Resolved))
	for _, p := range view.Resolved {
		resolvedLeft[p.Left] = true
		resolvedRight[p.Right] = true
	}

	column := func(side practicesession.Side, items []string, resolved map[string]bool, pending string) string {
		lines := make([]string, len(items))
		for i, item := range items {
			prefix := "  "
			if side == m.column && i == m.cursor {
				prefix = "> "
			}
			text := prefix + item
			switch {
			case resolved[item]:
				text = stylize(prefix+"✓ "+item, noColor, colorCorrect)
			case item == pending:
				text = stylize(prefix+"● "+item, noColor, colorCursor)
			case prefix == "> ":
				text = stylize(text, noColor, colorCursor)
			}
			lines[i] = text
		}
		return lipgloss.NewStyle().Width(24).Render(strings.Join(lines, "\n"))
	}

	lefts := make([]string, len(q.Pairs))
	rights := make([]string, len(q.Pairs))
	for i, p := range q.Pairs {
		lefts[i] = p.Left
		rights[i] = p.Right
	}
	sort.Strings(rights)

	board := lipgloss.JoinHorizontal(lipgloss.Top,
		column(practicesession.SideLeft, lefts, resolvedLeft, view.PendingLeft),
		column(practicesession.SideRight, rights, resolvedRight, view.PendingRight),
	)
	counts := fmt.Sprintf("Remaining: %d  Mistakes: %d", view.Remaining, view.Mistakes)
	return lipgloss.JoinVertical(lipgloss.Left, board, "", stylize(counts, noColor, colorMuted))
}

func (m QuizModel) completeView() string {
	noColor := m.opts.NoColor
	correct, answered := m.session.Score()
	lines := []string{
		stylize("Lesson Complete!", noColor, colorCorrect),
		"",
		fmt.Sprintf("Score: %d/%d", correct, answered),
		"",
		stylize("Press enter to exit", noColor, colorMuted),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func feedbackLine(fb practicesession.Feedback, noColor bool) string {
	if fb.IsCorrect {
		return stylize("Correct!", noColor, colorCorrect)
	}
	return stylize("Wrong! Correct: "+fb.CorrectAnswer, noColor, colorWrong)
}
