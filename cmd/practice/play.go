package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
	"github.com/lexilearn/backend/internal/service"
	"github.com/lexilearn/backend/internal/tui"
)

var (
	resumeID    string
	maxCount    int
	maxMinutes  int
	shuffle     bool
	focusOnWeak bool
)

var playCmd = &cobra.Command{
	Use:   "play [deck]",
	Short: "Run a practice quiz",
	Long:  `Starts a quiz on the given deck, or resumes an unfinished session with --resume.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&resumeID, "resume", "", "session ID to resume")
	playCmd.Flags().IntVar(&maxCount, "max", 0, "maximum number of questions")
	playCmd.Flags().IntVar(&maxMinutes, "minutes", 0, "time limit in minutes")
	playCmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle questions")
	playCmd.Flags().BoolVar(&focusOnWeak, "weak", false, "ask the least practiced words first")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	practice := application.Practice

	session, err := startOrResume(ctx, practice, args)
	if err != nil {
		return err
	}

	title := session.DeckID
	if bank, err := application.Catalog.Deck(session.DeckID); err == nil {
		title = bank.Subject
	}

	driver := &sessionDriver{ctx: ctx, practice: practice, id: session.ID}
	model := tui.NewQuiz(driver, session, tui.Options{Title: title, NoColor: !isTerminal(os.Stdout)})

	opts := []tea.ProgramOption{tea.WithOutput(cmd.OutOrStdout())}
	if isTerminal(os.Stdout) {
		opts = append(opts, tea.WithAltScreen())
	}
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return fmt.Errorf("running quiz: %w", err)
	}

	out := cmd.OutOrStdout()
	last := final.(tui.QuizModel).Session()
	if !last.IsComplete() {
		fmt.Fprintf(out, "Session saved. Resume with: practice play --resume %s\n", last.ID)
		return nil
	}
	summary, err := practice.Summary(ctx, last.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Lesson Complete! Score: %d/%d\n", summary.Correct, summary.Answered)
	return nil
}

func startOrResume(ctx context.Context, practice *service.PracticeService, args []string) (*practicesession.PracticeSession, error) {
	if resumeID != "" {
		return practice.Get(ctx, resumeID)
	}
	if len(args) == 0 {
		return nil, errors.New("a deck ID or --resume is required")
	}

	opts := service.StartOptions{
		DeckID:      args[0],
		Shuffle:     shuffle,
		FocusOnWeak: focusOnWeak,
	}
	if maxCount > 0 {
		opts.MaxQuestions = &maxCount
	}
	if maxMinutes > 0 {
		d := time.Duration(maxMinutes) * time.Minute
		opts.MaxDuration = &d
	}
	return practice.Start(ctx, opts)
}

// sessionDriver forwards quiz transitions to the practice service so each
// one is persisted.
type sessionDriver struct {
	ctx      context.Context
	practice *service.PracticeService
	id       string
}

func (d *sessionDriver) Select(candidate string) (*practicesession.PracticeSession, error) {
	return d.practice.Select(d.ctx, d.id, candidate)
}

func (d *sessionDriver) SelectPair(side practicesession.Side, item string) (*practicesession.PracticeSession, practicesession.MatchOutcome, error) {
	return d.practice.SelectPair(d.ctx, d.id, side, item)
}

func (d *sessionDriver) Submit() (*practicesession.PracticeSession, practicesession.Feedback, error) {
	return d.practice.Submit(d.ctx, d.id)
}

func (d *sessionDriver) Advance() (*practicesession.PracticeSession, error) {
	return d.practice.Advance(d.ctx, d.id)
}
