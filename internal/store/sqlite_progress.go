package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lexilearn/backend/internal/domain/progress"
	"github.com/lexilearn/backend/internal/domain/questionbank"
)

const dayLayout = "2006-01-02"

// ============================================================================
// Practice results
// ============================================================================

func (s *SQLiteStore) SaveResult(ctx context.Context, r PracticeResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO practice_results (id, session_id, deck_id, name, type, score, max_score, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.SessionID, r.DeckID, r.Name, string(r.Kind), r.Score, r.MaxScore,
		r.CompletedAt.UTC().Format(timeLayout))
	return err
}

// ListResults returns the most recent results first. A limit of zero or
// less returns all of them.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]PracticeResult, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, deck_id, name, type, score, max_score, completed_at
		FROM practice_results
		ORDER BY completed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []PracticeResult
	for rows.Next() {
		var r PracticeResult
		var kind, completedAt string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.DeckID, &r.Name, &kind, &r.Score, &r.MaxScore, &completedAt); err != nil {
			return nil, err
		}
		r.Kind = questionbank.Kind(kind)
		if r.CompletedAt, err = parseTime("completed_at", completedAt); err != nil {
			return nil, fmt.Errorf("result %s: %w", r.ID, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ============================================================================
// Preferences and streak values
// ============================================================================

func (s *SQLiteStore) GetValues(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM preferences")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, rows.Err()
}

func (s *SQLiteStore) SetValues(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for k, v := range values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO preferences (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ============================================================================
// Vocabulary progress
// ============================================================================

// RecordWord applies one answer to a word's stats and returns the stats
// before and after.
func (s *SQLiteStore) RecordWord(ctx context.Context, word string, correct bool, at time.Time) (prev, next questionbank.WordStats, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return prev, next, err
	}
	defer tx.Rollback()

	prev, err = scanWord(tx.QueryRowContext(ctx, selectWord+" WHERE word = ?", word))
	if errors.Is(err, ErrNotFound) {
		prev = questionbank.WordStats{Word: word}
	} else if err != nil {
		return prev, next, err
	}

	next = prev
	next.Record(correct, at)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vocabulary_progress (word, times_correct, times_incorrect, mastery_level, last_practiced)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(word) DO UPDATE SET
			times_correct = excluded.times_correct,
			times_incorrect = excluded.times_incorrect,
			mastery_level = excluded.mastery_level,
			last_practiced = excluded.last_practiced
	`, next.Word, next.TimesCorrect, next.TimesIncorrect, next.MasteryLevel, next.LastPracticed.UTC().Format(timeLayout))
	if err != nil {
		return prev, next, err
	}
	return prev, next, tx.Commit()
}

func (s *SQLiteStore) GetWordStats(ctx context.Context, word string) (questionbank.WordStats, error) {
	return scanWord(s.db.QueryRowContext(ctx, selectWord+" WHERE word = ?", word))
}

// ListWordStats returns all practiced words, weakest first.
func (s *SQLiteStore) ListWordStats(ctx context.Context) ([]questionbank.WordStats, error) {
	rows, err := s.db.QueryContext(ctx, selectWord+" ORDER BY mastery_level ASC, times_incorrect DESC, word")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []questionbank.WordStats
	for rows.Next() {
		ws, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, ws)
	}
	return words, rows.Err()
}

const selectWord = `SELECT word, times_correct, times_incorrect, mastery_level, last_practiced FROM vocabulary_progress`

type scanner interface {
	Scan(dest ...any) error
}

func scanWord(row scanner) (questionbank.WordStats, error) {
	var ws questionbank.WordStats
	var lastPracticed string
	err := row.Scan(&ws.Word, &ws.TimesCorrect, &ws.TimesIncorrect, &ws.MasteryLevel, &lastPracticed)
	if errors.Is(err, sql.ErrNoRows) {
		return ws, ErrNotFound
	}
	if err != nil {
		return ws, err
	}
	if ws.LastPracticed, err = parseTime("last_practiced", lastPracticed); err != nil {
		return ws, fmt.Errorf("word %q: %w", ws.Word, err)
	}
	return ws, nil
}

// ============================================================================
// Daily quests
// ============================================================================

// GetQuests returns the quests of the day containing now, creating the
// default set on the first call of the day.
func (s *SQLiteStore) GetQuests(ctx context.Context, now time.Time) ([]progress.Quest, error) {
	if err := s.ensureQuests(ctx, now); err != nil {
		return nil, err
	}

	day := now.Format(dayLayout)
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, target, current FROM daily_quests WHERE day = ? ORDER BY position", day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var quests []progress.Quest
	for rows.Next() {
		q := progress.Quest{Day: start}
		if err := rows.Scan(&q.Name, &q.Target, &q.Current); err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}
	return quests, rows.Err()
}

func (s *SQLiteStore) AddQuestProgress(ctx context.Context, now time.Time, name string, n int) error {
	if err := s.ensureQuests(ctx, now); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE daily_quests SET current = current + ? WHERE day = ? AND name = ?",
		n, now.Format(dayLayout), name)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ensureQuests(ctx context.Context, now time.Time) error {
	day := now.Format(dayLayout)
	for i, q := range progress.DefaultQuests(now) {
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO daily_quests (day, name, position, target) VALUES (?, ?, ?, ?)",
			day, q.Name, i, q.Target,
		); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// Official test scores
// ============================================================================

func (s *SQLiteStore) AddOfficialScore(ctx context.Context, score progress.OfficialScore) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO official_test_scores (test_date, total_score, ebrw_score, math_score)
		VALUES (?, ?, ?, ?)
	`, score.Date.Format(dayLayout), score.Total, score.EBRW, score.Math)
	return err
}

// ListOfficialScores returns the official results, most recent test first.
func (s *SQLiteStore) ListOfficialScores(ctx context.Context) ([]progress.OfficialScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT test_date, total_score, ebrw_score, math_score
		FROM official_test_scores
		ORDER BY test_date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []progress.OfficialScore
	for rows.Next() {
		var o progress.OfficialScore
		var date string
		if err := rows.Scan(&date, &o.Total, &o.EBRW, &o.Math); err != nil {
			return nil, err
		}
		if o.Date, err = time.Parse(dayLayout, date); err != nil {
			return nil, fmt.Errorf("malformed test_date %q: %w", date, err)
		}
		scores = append(scores, o)
	}
	return scores, rows.Err()
}
