package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexilearn/backend/internal/domain/progress"
)

var goal int

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Check in for today and show the streak",
	Args:  cobra.NoArgs,
	RunE:  runStreak,
}

var questsCmd = &cobra.Command{
	Use:   "quests",
	Short: "Show today's quests",
	Args:  cobra.NoArgs,
	RunE:  runQuests,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vocabulary mastery",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read and change preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one or all preferences",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrefsSet,
}

func init() {
	streakCmd.Flags().IntVar(&goal, "goal", 0, "set the streak goal (7, 14 or 28)")
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	rootCmd.AddCommand(streakCmd, questsCmd, statsCmd, prefsCmd)
}

func runStreak(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := application.Progress

	if goal != 0 {
		if _, err := svc.SetGoal(ctx, goal); err != nil {
			return err
		}
	}
	streak, err := svc.CheckIn(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d day streak (goal %d)\n", streak.Count, streak.Goal)
	fmt.Fprintln(out, renderDays(streak))
	fmt.Fprintln(out, streak.Message())
	return nil
}

func renderDays(s progress.Streak) string {
	var b strings.Builder
	for _, done := range s.Days() {
		if done {
			b.WriteString("■")
		} else {
			b.WriteString("□")
		}
	}
	return b.String()
}

func runQuests(cmd *cobra.Command, args []string) error {
	quests, err := application.Progress.Quests(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, q := range quests {
		mark := " "
		if q.Completed() {
			mark = "✓"
		}
		fmt.Fprintf(out, "[%s] %-24s %d/%d (%d%%)\n", mark, q.Name, q.Current, q.Target, q.Percent())
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, words, err := application.Progress.Vocabulary(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d words, average mastery %.1f, %d correct, %d incorrect\n",
		stats.TotalWords, stats.AvgMastery, stats.TotalCorrect, stats.TotalIncorrect)
	for _, w := range words {
		fmt.Fprintf(out, "  %-28s mastery %d  (+%d/-%d)\n", w.Word, w.MasteryLevel, w.TimesCorrect, w.TimesIncorrect)
	}
	return nil
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	prefs, err := application.Progress.Preferences(cmd.Context())
	if err != nil {
		return err
	}
	values := prefs.Encode()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		v, ok := values[args[0]]
		if !ok {
			return fmt.Errorf("%w: %s", progress.ErrUnknownKey, args[0])
		}
		fmt.Fprintln(out, v)
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s=%s\n", k, values[k])
	}
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	_, err := application.Progress.UpdatePreferences(cmd.Context(), map[string]string{args[0]: args[1]})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", args[0], args[1])
	return nil
}
