package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexilearn/backend/internal/domain/progress"
	"github.com/lexilearn/backend/internal/domain/questionbank"
	"github.com/lexilearn/backend/internal/store"
)

// ProgressService manages the learner's streak, preferences, daily
// quests and practice history.
type ProgressService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewProgressService(s store.Store, logger *slog.Logger) *ProgressService {
	return &ProgressService{
		store:  s,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for streak days and quests.
func (ps *ProgressService) WithClock(now func() time.Time) *ProgressService {
	ps.now = now
	return ps
}

// ── Streak ──────────────────────────────────────────────────────────────────

func (ps *ProgressService) Streak(ctx context.Context) (progress.Streak, error) {
	values, err := ps.store.GetValues(ctx)
	if err != nil {
		return progress.Streak{}, err
	}
	return progress.DecodeStreak(values, ps.now().Location()), nil
}

// CheckIn records practice activity for today.
func (ps *ProgressService) CheckIn(ctx context.Context) (progress.Streak, error) {
	streak, err := ps.Streak(ctx)
	if err != nil {
		return streak, err
	}
	before := streak.Count
	streak = streak.CheckIn(ps.now())
	if err := ps.store.SetValues(ctx, progress.EncodeStreak(streak)); err != nil {
		return streak, err
	}
	if streak.Count != before {
		ps.logger.Info("streak updated", "streak", streak.Count, "goal", streak.Goal)
	}
	return streak, nil
}

func (ps *ProgressService) SetGoal(ctx context.Context, goal int) (progress.Streak, error) {
	streak, err := ps.Streak(ctx)
	if err != nil {
		return streak, err
	}
	streak, err = streak.SetGoal(goal)
	if err != nil {
		return streak, err
	}
	return streak, ps.store.SetValues(ctx, map[string]string{
		progress.KeyStreakGoal: fmt.Sprint(streak.Goal),
	})
}

// ── Preferences ─────────────────────────────────────────────────────────────

func (ps *ProgressService) Preferences(ctx context.Context) (progress.Preferences, error) {
	values, err := ps.store.GetValues(ctx)
	if err != nil {
		return progress.Preferences{}, err
	}
	return progress.DecodePreferences(values), nil
}

// UpdatePreferences applies named values. Nothing is stored when any
// value is rejected.
func (ps *ProgressService) UpdatePreferences(ctx context.Context, values map[string]string) (progress.Preferences, error) {
	prefs, err := ps.Preferences(ctx)
	if err != nil {
		return prefs, err
	}
	for k, v := range values {
		if err := prefs.Set(k, v); err != nil {
			return prefs, err
		}
	}
	if err := ps.store.SetValues(ctx, prefs.Encode()); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// ── Test scores ─────────────────────────────────────────────────────────────

func (ps *ProgressService) Scores(ctx context.Context) (progress.Scores, error) {
	values, err := ps.store.GetValues(ctx)
	if err != nil {
		return progress.Scores{}, err
	}
	return progress.DecodeScores(values), nil
}

// SetScore replaces one of the current scores.
func (ps *ProgressService) SetScore(ctx context.Context, kind progress.ScoreKind, value int) (progress.Scores, error) {
	scores, err := ps.Scores(ctx)
	if err != nil {
		return scores, err
	}
	scores, err = scores.Set(kind, value)
	if err != nil {
		return scores, err
	}
	if err := ps.store.SetValues(ctx, progress.EncodeScores(scores)); err != nil {
		return scores, err
	}
	ps.logger.Info("score updated", "type", kind, "score", value)
	return scores, nil
}

func (ps *ProgressService) OfficialScores(ctx context.Context) ([]progress.OfficialScore, error) {
	return ps.store.ListOfficialScores(ctx)
}

func (ps *ProgressService) AddOfficialScore(ctx context.Context, score progress.OfficialScore) error {
	if err := score.Validate(); err != nil {
		return err
	}
	return ps.store.AddOfficialScore(ctx, score)
}

// ── Quests, vocabulary, history ─────────────────────────────────────────────

func (ps *ProgressService) Quests(ctx context.Context) ([]progress.Quest, error) {
	return ps.store.GetQuests(ctx, ps.now())
}

// AdvanceQuest adds n to a named quest for today. Non-positive n is a no-op.
func (ps *ProgressService) AdvanceQuest(ctx context.Context, name string, n int) error {
	if n <= 0 {
		return nil
	}
	return ps.store.AddQuestProgress(ctx, ps.now(), name, n)
}

func (ps *ProgressService) Vocabulary(ctx context.Context) (questionbank.VocabularyStats, []questionbank.WordStats, error) {
	words, err := ps.store.ListWordStats(ctx)
	if err != nil {
		return questionbank.VocabularyStats{}, nil, err
	}
	return questionbank.Summarize(words), words, nil
}

func (ps *ProgressService) Results(ctx context.Context, limit int) ([]store.PracticeResult, error) {
	return ps.store.ListResults(ctx, limit)
}
