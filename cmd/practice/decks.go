package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List categories, question decks and flashcard decks",
	Args:  cobra.NoArgs,
	RunE:  runDecks,
}

func init() {
	rootCmd.AddCommand(decksCmd)
}

func runDecks(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	catalog := application.Catalog

	list := func(name, categoryID string) {
		decks := catalog.Decks(categoryID)
		if len(decks) == 0 {
			return
		}
		fmt.Fprintf(out, "%s\n", name)
		for _, d := range decks {
			fmt.Fprintf(out, "  %-20s %-28s %2d questions\n", d.ID, d.Subject, len(d.Questions))
		}
	}
	for _, cat := range catalog.Categories() {
		list(cat.Name, cat.ID)
	}
	list("Other", "")

	if cards := catalog.FlashcardDecks(); len(cards) > 0 {
		fmt.Fprintln(out, "Flashcards")
		for _, d := range cards {
			fmt.Fprintf(out, "  %-20s %-28s %2d cards\n", d.ID, d.Name, len(d.Cards))
		}
	}
	return nil
}
