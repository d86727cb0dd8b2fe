package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexilearn/backend/internal/domain/progress"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show current and official test scores",
	Args:  cobra.NoArgs,
	RunE:  runScores,
}

var scoresSetCmd = &cobra.Command{
	Use:   "set <total|ebrw|math> <score>",
	Short: "Change one of the current scores",
	Args:  cobra.ExactArgs(2),
	RunE:  runScoresSet,
}

var scoresAddCmd = &cobra.Command{
	Use:   "add <date> <total> <ebrw> <math>",
	Short: "Record an official test result",
	Args:  cobra.ExactArgs(4),
	RunE:  runScoresAdd,
}

func init() {
	scoresCmd.AddCommand(scoresSetCmd, scoresAddCmd)
	rootCmd.AddCommand(scoresCmd)
}

func runScores(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	scores, err := application.Progress.Scores(ctx)
	if err != nil {
		return err
	}
	history, err := application.Progress.OfficialScores(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total %d  EBRW %d  Math %d\n", scores.Total, scores.EBRW, scores.Math)
	if len(history) == 0 {
		fmt.Fprintln(out, "No official scores yet")
		return nil
	}
	fmt.Fprintln(out, "Official scores:")
	for _, o := range history {
		fmt.Fprintf(out, "  %s  Total %d  EBRW %d  Math %d\n", o.Date.Format("2006-01-02"), o.Total, o.EBRW, o.Math)
	}
	return nil
}

func runScoresSet(cmd *cobra.Command, args []string) error {
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", progress.ErrInvalidScore, args[1])
	}
	scores, err := application.Progress.SetScore(cmd.Context(), progress.ScoreKind(args[0]), value)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Total %d  EBRW %d  Math %d\n", scores.Total, scores.EBRW, scores.Math)
	return nil
}

func runScoresAdd(cmd *cobra.Command, args []string) error {
	date, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("%w: date must look like 2006-01-02", progress.ErrInvalidScore)
	}
	var values [3]int
	for i, arg := range args[1:] {
		if values[i], err = strconv.Atoi(arg); err != nil {
			return fmt.Errorf("%w: %q is not a number", progress.ErrInvalidScore, arg)
		}
	}
	score := progress.OfficialScore{
		Date:   date,
		Scores: progress.Scores{Total: values[0], EBRW: values[1], Math: values[2]},
	}
	if err := application.Progress.AddOfficialScore(cmd.Context(), score); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s\n", args[0])
	return nil
}
