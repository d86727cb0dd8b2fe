package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
	"github.com/lexilearn/backend/internal/domain/progress"
	"github.com/lexilearn/backend/internal/domain/questionbank"
	"github.com/lexilearn/backend/internal/store"
)

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func vocabularySession(t *testing.T) *practicesession.PracticeSession {
	t.Helper()
	bank := questionbank.New("vocabulary", "Vocabulary")
	if err := bank.AddChoice("Aberration", "A departure from what is normal",
		"A departure from what is normal", "A type of fruit"); err != nil {
		t.Fatal(err)
	}
	if err := bank.AddChoice("Ephemeral", "Lasting a very short time",
		"Lasting a very short time", "Extremely heavy"); err != nil {
		t.Fatal(err)
	}
	session, err := practicesession.New(bank)
	if err != nil {
		t.Fatal(err)
	}
	return session
}

func TestSession_SaveAndResume(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	session := vocabularySession(t)
	if err := s.SaveSession(ctx, session.Snapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := session.Select("A type of fruit"); err != nil {
		t.Fatal(err)
	}
	if _, err := session.Submit(); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSession(ctx, session.Snapshot()); err != nil {
		t.Fatalf("unexpected error on update: %v", err)
	}

	snap, err := s.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored, err := practicesession.Restore(snap)
	if err != nil {
		t.Fatalf("unexpected restore error: %v", err)
	}
	if restored.State() != practicesession.StateAnswered {
		t.Errorf("expected answered state, got %s", restored.State())
	}
	fb, _ := restored.Feedback()
	if fb.IsCorrect || fb.CorrectAnswer != "A departure from what is normal" {
		t.Errorf("unexpected feedback %+v", fb)
	}
}

func TestSession_NotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.GetSession(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResults_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, name := range []string{"first", "second", "third"} {
		err := s.SaveResult(ctx, store.PracticeResult{
			ID:          name,
			SessionID:   "session-" + name,
			DeckID:      "vocabulary",
			Name:        "Vocabulary",
			Kind:        questionbank.KindMultipleChoice,
			Score:       i,
			MaxScore:    5,
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	results, err := s.ListResults(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].ID != "third" || results[1].ID != "second" {
		t.Errorf("expected third and second, got %+v", results)
	}

	all, _ := s.ListResults(ctx, 0)
	if len(all) != 3 {
		t.Errorf("expected 3 results, got %d", len(all))
	}
}

func TestValues_Upsert(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.SetValues(ctx, map[string]string{"theme": "dark", "streak": "2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetValues(ctx, map[string]string{"theme": "light"}); err != nil {
		t.Fatal(err)
	}

	values, err := s.GetValues(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if values["theme"] != "light" || values["streak"] != "2" {
		t.Errorf("unexpected values %v", values)
	}
}

func TestRecordWord(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	prev, next, err := s.RecordWord(ctx, "Ephemeral", true, at)
	if err != nil {
		t.Fatal(err)
	}
	if prev.MasteryLevel != 0 || next.MasteryLevel != 1 {
		t.Errorf("expected mastery 0 -> 1, got %d -> %d", prev.MasteryLevel, next.MasteryLevel)
	}

	for range 3 {
		if _, _, err := s.RecordWord(ctx, "Ephemeral", true, at); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := s.RecordWord(ctx, "Aberration", false, at); err != nil {
		t.Fatal(err)
	}

	ws, err := s.GetWordStats(ctx, "Ephemeral")
	if err != nil {
		t.Fatal(err)
	}
	if ws.TimesCorrect != 4 || ws.MasteryLevel != 2 {
		t.Errorf("expected 4 correct at mastery 2, got %+v", ws)
	}
	if !ws.LastPracticed.Equal(at) {
		t.Errorf("expected last practiced %v, got %v", at, ws.LastPracticed)
	}

	words, err := s.ListWordStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 || words[0].Word != "Aberration" {
		t.Errorf("expected weakest word first, got %+v", words)
	}

	if _, err := s.GetWordStats(ctx, "Loquacious"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQuests_PerDay(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	today := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	if err := s.AddQuestProgress(ctx, today, progress.QuestCompleteLessons, 2); err != nil {
		t.Fatal(err)
	}

	quests, err := s.GetQuests(ctx, today)
	if err != nil {
		t.Fatal(err)
	}
	if len(quests) != 3 || quests[0].Name != progress.QuestCompleteLessons {
		t.Fatalf("unexpected quests %+v", quests)
	}
	if quests[0].Current != 2 || quests[0].Target != 3 {
		t.Errorf("expected 2/3, got %d/%d", quests[0].Current, quests[0].Target)
	}

	tomorrow, err := s.GetQuests(ctx, today.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if tomorrow[0].Current != 0 {
		t.Errorf("expected a fresh quest tomorrow, got %d", tomorrow[0].Current)
	}

	if err := s.AddQuestProgress(ctx, today, "Unknown quest", 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDecks_Upsert(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := s.SaveDeck(ctx, store.ImportedDeck{ID: "colors", Data: []byte("v1"), ImportedAt: at}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveDeck(ctx, store.ImportedDeck{ID: "colors", Data: []byte("v2"), ImportedAt: at}); err != nil {
		t.Fatal(err)
	}

	decks, err := s.ListDecks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(decks) != 1 || string(decks[0].Data) != "v2" {
		t.Errorf("expected one replaced deck, got %+v", decks)
	}
}

func TestMalformedTimestampsAreErrors(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewSQLite(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()
	for _, stmt := range []string{
		`INSERT INTO vocabulary_progress (word, times_correct, times_incorrect, mastery_level, last_practiced)
		 VALUES ('Aberration', 1, 0, 1, 'yesterday')`,
		`INSERT INTO practice_results (id, session_id, deck_id, name, type, score, max_score, completed_at)
		 VALUES ('r1', 's1', 'vocabulary', 'Vocabulary', 'multiple_choice', 1, 5, 'not a time')`,
	} {
		if _, err := raw.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}

	if _, err := s.GetWordStats(ctx, "Aberration"); err == nil {
		t.Error("expected error for malformed last_practiced")
	}
	if _, err := s.ListWordStats(ctx); err == nil {
		t.Error("expected error listing a word with malformed last_practiced")
	}
	if _, err := s.ListResults(ctx, 10); err == nil {
		t.Error("expected error for malformed completed_at")
	}
}

func TestOfficialScores_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	scores, err := s.ListOfficialScores(ctx)
	if err != nil || len(scores) != 0 {
		t.Fatalf("expected no scores, got %v, %v", scores, err)
	}

	for _, o := range []progress.OfficialScore{
		{Date: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), Scores: progress.Scores{Total: 1210, EBRW: 600, Math: 610}},
		{Date: time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC), Scores: progress.Scores{Total: 1340, EBRW: 650, Math: 690}},
	} {
		if err := s.AddOfficialScore(ctx, o); err != nil {
			t.Fatal(err)
		}
	}

	scores, err = s.ListOfficialScores(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 || scores[0].Total != 1340 || scores[1].Math != 610 {
		t.Errorf("expected newest test first, got %+v", scores)
	}
	if want := time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC); !scores[0].Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, scores[0].Date)
	}
}
