package store

import (
	"context"
	"errors"
	"time"

	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
	"github.com/lexilearn/backend/internal/domain/progress"
	"github.com/lexilearn/backend/internal/domain/questionbank"
)

var (
	ErrNotFound = errors.New("not found")
)

// PracticeResult is the record of one completed session.
type PracticeResult struct {
	ID          string
	SessionID   string
	DeckID      string
	Name        string
	Kind        questionbank.Kind
	Score       int
	MaxScore    int
	CompletedAt time.Time
}

// ImportedDeck is a deck added at runtime, kept in its YAML form.
type ImportedDeck struct {
	ID         string
	Data       []byte
	ImportedAt time.Time
}

// Store is the persistence layer used by the services.
type Store interface {
	SaveSession(ctx context.Context, snap practicesession.Snapshot) error
	GetSession(ctx context.Context, id string) (practicesession.Snapshot, error)

	SaveResult(ctx context.Context, r PracticeResult) error
	ListResults(ctx context.Context, limit int) ([]PracticeResult, error)

	GetValues(ctx context.Context) (map[string]string, error)
	SetValues(ctx context.Context, values map[string]string) error

	RecordWord(ctx context.Context, word string, correct bool, at time.Time) (prev, next questionbank.WordStats, err error)
	GetWordStats(ctx context.Context, word string) (questionbank.WordStats, error)
	ListWordStats(ctx context.Context) ([]questionbank.WordStats, error)

	GetQuests(ctx context.Context, now time.Time) ([]progress.Quest, error)
	AddQuestProgress(ctx context.Context, now time.Time, name string, n int) error

	AddOfficialScore(ctx context.Context, score progress.OfficialScore) error
	ListOfficialScores(ctx context.Context) ([]progress.OfficialScore, error)

	SaveDeck(ctx context.Context, deck ImportedDeck) error
	ListDecks(ctx context.Context) ([]ImportedDeck, error)
}
