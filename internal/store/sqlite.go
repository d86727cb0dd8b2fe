package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    deck_id TEXT NOT NULL,
    snapshot TEXT NOT NULL,
    complete BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS practice_results (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL UNIQUE,
    deck_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    score INTEGER NOT NULL,
    max_score INTEGER NOT NULL,
    completed_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vocabulary_progress (
    word TEXT PRIMARY KEY,
    times_correct INTEGER NOT NULL DEFAULT 0,
    times_incorrect INTEGER NOT NULL DEFAULT 0,
    mastery_level INTEGER NOT NULL DEFAULT 0,
    last_practiced TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_quests (
    day TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    target INTEGER NOT NULL,
    current INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (day, name)
);

CREATE TABLE IF NOT EXISTS official_test_scores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    test_date TEXT NOT NULL,
    total_score INTEGER NOT NULL,
    ebrw_score INTEGER NOT NULL,
    math_score INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS decks (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    imported_at TEXT NOT NULL
);
`

const timeLayout = time.RFC3339Nano

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One connection keeps writes from the recorder workers serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// parseTime reads a timestamp column written with timeLayout.
func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed %s %q: %w", column, value, err)
	}
	return t, nil
}

// ============================================================================
// Sessions
// ============================================================================

// SaveSession inserts or replaces the stored snapshot of a session.
func (s *SQLiteStore) SaveSession(ctx context.Context, snap practicesession.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	complete := snap.Position >= len(snap.Questions)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, deck_id, snapshot, complete, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			snapshot = excluded.snapshot,
			complete = excluded.complete,
			updated_at = excluded.updated_at
	`, snap.ID, snap.DeckID, string(data), complete, time.Now().UTC().Format(timeLayout))
	return err
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (practicesession.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT snapshot FROM sessions WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return practicesession.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return practicesession.Snapshot{}, err
	}

	var snap practicesession.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return practicesession.Snapshot{}, fmt.Errorf("%w: %v", practicesession.ErrCorruptSnapshot, err)
	}
	return snap, nil
}

// ============================================================================
// Decks
// ============================================================================

func (s *SQLiteStore) SaveDeck(ctx context.Context, deck ImportedDeck) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (id, data, imported_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, imported_at = excluded.imported_at
	`, deck.ID, string(deck.Data), deck.ImportedAt.UTC().Format(timeLayout))
	return err
}

// ListDecks returns imported decks, oldest first.
func (s *SQLiteStore) ListDecks(ctx context.Context) ([]ImportedDeck, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, data, imported_at FROM decks ORDER BY imported_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []ImportedDeck
	for rows.Next() {
		var d ImportedDeck
		var data, importedAt string
		if err := rows.Scan(&d.ID, &data, &importedAt); err != nil {
			return nil, err
		}
		d.Data = []byte(data)
		if d.ImportedAt, err = parseTime("imported_at", importedAt); err != nil {
			return nil, fmt.Errorf("deck %s: %w", d.ID, err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}
