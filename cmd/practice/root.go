package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lexilearn/backend/internal/app"
	"github.com/lexilearn/backend/internal/infrastructure/config"
)

var (
	cfgFile string
	dbPath  string
	verbose bool

	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice vocabulary and math decks in the terminal",
	Long: `practice runs quizzes, flashcards and progress tracking against the
same database as the HTTP server. Sessions left unfinished can be resumed
later with play --resume.`,
	SilenceUsage:       true,
	PersistentPreRunE:  openApp,
	PersistentPostRunE: closeApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

func openApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	application, err = app.New(context.Background(), cfg, newLogger(cfg))
	return err
}

func closeApp(cmd *cobra.Command, args []string) error {
	if application == nil {
		return nil
	}
	err := application.Close()
	application = nil
	return err
}

// newLogger discards logs unless --verbose; the quiz owns the terminal.
func newLogger(cfg *config.Config) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level, _ := cfg.Level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
