package tui

import "github.com/charmbracelet/bubbles/key"

type quizKeys struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Enter  key.Binding
	Quit   key.Binding
}

func newQuizKeys() quizKeys {
	return quizKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left column")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right column")),
		Select: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer/continue")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k quizKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.Enter, k.Quit}
}

func (k quizKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type cardKeys struct {
	Flip   key.Binding
	Know   key.Binding
	Repeat key.Binding
	Quit   key.Binding
}

func newCardKeys() cardKeys {
	return cardKeys{
		Flip:   key.NewBinding(key.WithKeys(" ", "f"), key.WithHelp("space", "flip")),
		Know:   key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "know it")),
		Repeat: key.NewBinding(key.WithKeys("r", "left", "h"), key.WithHelp("r", "repeat")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k cardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Know, k.Repeat, k.Quit}
}

func (k cardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
