package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lexilearn/backend/internal/tui"
)

var cardsCmd = &cobra.Command{
	Use:   "cards <deck>",
	Short: "Flip through a flashcard deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runCards,
}

func init() {
	rootCmd.AddCommand(cardsCmd)
}

func runCards(cmd *cobra.Command, args []string) error {
	deck, err := application.Catalog.Flashcards(args[0])
	if err != nil {
		return err
	}

	model := tui.NewFlashcards(deck, tui.Options{Title: deck.Name, NoColor: !isTerminal(os.Stdout)})
	opts := []tea.ProgramOption{tea.WithOutput(cmd.OutOrStdout())}
	if isTerminal(os.Stdout) {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("running flashcards: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Learned %d of %d cards\n", deck.Learned(), deck.Len())
	return nil
}
