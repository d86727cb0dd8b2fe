package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/lexilearn/backend/internal/content"
	practicesession "github.com/lexilearn/backend/internal/domain/practice_session"
	"github.com/lexilearn/backend/internal/domain/progress"
	"github.com/lexilearn/backend/internal/domain/questionbank"
	"github.com/lexilearn/backend/internal/id"
	"github.com/lexilearn/backend/internal/store"
)

// StartOptions configures a new practice session.
type StartOptions struct {
	DeckID       string
	MaxQuestions *int
	MaxDuration  *time.Duration
	Shuffle      bool
	FocusOnWeak  bool
}

// Summary is the score of a session so far.
type Summary struct {
	SessionID string
	DeckID    string
	Correct   int
	Answered  int
	Total     int
	Complete  bool
	Results   []practicesession.Result
}

// PracticeService runs practice sessions on behalf of the HTTP and CLI
// front ends. Every transition loads the stored snapshot, applies the
// transition and stores the new snapshot, so sessions survive restarts.
type PracticeService struct {
	catalog  *content.Catalog
	store    store.Store
	recorder *Recorder
	progress *ProgressService
	logger   *slog.Logger
	now      func() time.Time

	locks keyedMutex
}

func NewPracticeService(catalog *content.Catalog, s store.Store, recorder *Recorder, progress *ProgressService, logger *slog.Logger) *PracticeService {
	return &PracticeService{
		catalog:  catalog,
		store:    s,
		recorder: recorder,
		progress: progress,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for recorded outcomes and results.
func (ps *PracticeService) WithClock(now func() time.Time) *PracticeService {
	ps.now = now
	return ps
}

// Start creates and stores a session over a deck from the catalog.
func (ps *PracticeService) Start(ctx context.Context, opts StartOptions) (*practicesession.PracticeSession, error) {
	bank, err := ps.catalog.Deck(opts.DeckID)
	if err != nil {
		return nil, err
	}

	config := practicesession.DefaultConfig()
	config.MaxQuestions = opts.MaxQuestions
	config.MaxDuration = opts.MaxDuration
	config.Shuffle = opts.Shuffle
	config.FocusOnWeak = opts.FocusOnWeak

	var ordered []questionbank.Question
	if opts.FocusOnWeak {
		words, err := ps.store.ListWordStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("load word stats: %w", err)
		}
		ordered = orderByMastery(bank.Questions, words)
	}

	session, err := practicesession.NewWithConfig(bank, config, ordered)
	if err != nil {
		return nil, err
	}
	if err := ps.store.SaveSession(ctx, session.Snapshot()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ps.logger.Info("session started",
		"session_id", session.ID,
		"deck_id", session.DeckID,
		"questions", session.Len(),
	)
	return session, nil
}

// Get loads a stored session.
func (ps *PracticeService) Get(ctx context.Context, sessionID string) (*practicesession.PracticeSession, error) {
	snap, err := ps.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session, err := practicesession.Restore(snap)
	if err != nil {
		ps.logger.Error("stored session is corrupt", "session_id", sessionID, "error", err)
		return nil, err
	}
	return session, nil
}

func (ps *PracticeService) Select(ctx context.Context, sessionID, candidate string) (*practicesession.PracticeSession, error) {
	return ps.apply(ctx, sessionID, "select", func(s *practicesession.PracticeSession) error {
		return s.Select(candidate)
	})
}

func (ps *PracticeService) SelectPair(ctx context.Context, sessionID string, side practicesession.Side, item string) (*practicesession.PracticeSession, practicesession.MatchOutcome, error) {
	outcome := practicesession.MatchIgnored
	session, err := ps.apply(ctx, sessionID, "select_pair", func(s *practicesession.PracticeSession) error {
		var err error
		outcome, err = s.SelectPair(side, item)
		return err
	})
	return session, outcome, err
}

// Submit locks in the current answer. The returned feedback belongs to the
// current question; after an ignored submit it is the earlier feedback, if
// any. Word outcomes go to the recorder only once the answered session is
// stored, so a failed save never counts an answer.
func (ps *PracticeService) Submit(ctx context.Context, sessionID string) (*practicesession.PracticeSession, practicesession.Feedback, error) {
	var outcomes []WordOutcome
	session, err := ps.apply(ctx, sessionID, "submit", func(s *practicesession.PracticeSession) error {
		q, _ := s.Current()
		fb, err := s.Submit()
		if err != nil {
			return err
		}
		at := ps.now()
		for _, word := range q.Terms() {
			outcomes = append(outcomes, WordOutcome{
				SessionID: s.ID,
				Word:      word,
				Correct:   fb.IsCorrect,
				At:        at,
			})
		}
		return nil
	})
	if err != nil {
		return session, practicesession.Feedback{}, err
	}
	for _, o := range outcomes {
		ps.recorder.Record(o)
	}
	fb, _ := session.Feedback()
	return session, fb, nil
}

func (ps *PracticeService) Advance(ctx context.Context, sessionID string) (*practicesession.PracticeSession, error) {
	var finished bool
	session, err := ps.apply(ctx, sessionID, "advance", func(s *practicesession.PracticeSession) error {
		if err := s.Advance(); err != nil {
			return err
		}
		finished = s.IsComplete()
		return nil
	})
	if err != nil {
		return session, err
	}
	if finished {
		ps.complete(ctx, session)
	}
	return session, nil
}

func (ps *PracticeService) Summary(ctx context.Context, sessionID string) (Summary, error) {
	session, err := ps.Get(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(session), nil
}

// apply runs one transition under the session's lock. An invalid
// transition is not an error for the caller: it is logged and the
// unchanged session is returned.
func (ps *PracticeService) apply(ctx context.Context, sessionID, op string, fn func(*practicesession.PracticeSession) error) (*practicesession.PracticeSession, error) {
	unlock := ps.locks.Lock(sessionID)
	defer unlock()

	session, err := ps.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		if errors.Is(err, practicesession.ErrInvalidTransition) {
			ps.logger.Debug("transition ignored",
				"session_id", sessionID,
				"op", op,
				"state", session.State().String(),
			)
			return session, nil
		}
		return session, err
	}

	if err := ps.store.SaveSession(ctx, session.Snapshot()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// complete runs once, right after the transition that finished the
// session. Failures are logged; the session itself is already stored.
func (ps *PracticeService) complete(ctx context.Context, session *practicesession.PracticeSession) {
	ps.recorder.WaitForSession(session.ID)
	ps.recorder.Forget(session.ID)

	now := ps.now()
	correct, _ := session.Score()
	result := store.PracticeResult{
		ID:          id.GenerateID(),
		SessionID:   session.ID,
		DeckID:      session.DeckID,
		Name:        session.DeckID,
		Kind:        questionbank.KindMultipleChoice,
		Score:       correct,
		MaxScore:    session.Len(),
		CompletedAt: now,
	}
	if bank, err := ps.catalog.Deck(session.DeckID); err == nil {
		result.Name = bank.Subject
		result.Kind = bank.Kind
	}
	if err := ps.store.SaveResult(ctx, result); err != nil {
		ps.logger.Error("failed to save practice result", "session_id", session.ID, "error", err)
	}

	if _, err := ps.progress.CheckIn(ctx); err != nil {
		ps.logger.Error("failed to check in streak", "session_id", session.ID, "error", err)
	}
	if err := ps.progress.AdvanceQuest(ctx, progress.QuestCompleteLessons, 1); err != nil {
		ps.logger.Error("failed to advance quest", "quest", progress.QuestCompleteLessons, "error", err)
	}
	minutes := int(math.Round(now.Sub(session.StartedAt).Minutes()))
	if err := ps.progress.AdvanceQuest(ctx, progress.QuestPracticeMinutes, minutes); err != nil {
		ps.logger.Error("failed to advance quest", "quest", progress.QuestPracticeMinutes, "error", err)
	}

	ps.logger.Info("session complete",
		"session_id", session.ID,
		"deck_id", session.DeckID,
		"score", correct,
		"max_score", session.Len(),
	)
}

func summarize(session *practicesession.PracticeSession) Summary {
	correct, answered := session.Score()
	return Summary{
		SessionID: session.ID,
		DeckID:    session.DeckID,
		Correct:   correct,
		Answered:  answered,
		Total:     session.Len(),
		Complete:  session.IsComplete(),
		Results:   session.Results(),
	}
}

// orderByMastery sorts questions weakest first. Words never practiced
// come before every practiced word; ties keep deck order.
func orderByMastery(questions []questionbank.Question, words []questionbank.WordStats) []questionbank.Question {
	mastery := make(map[string]int, len(words))
	for _, w := range words {
		mastery[w.Word] = w.MasteryLevel
	}
	level := func(q questionbank.Question) int {
		lowest := questionbank.MaxMastery + 1
		for _, term := range q.Terms() {
			m, ok := mastery[term]
			if !ok {
				return -1
			}
			lowest = min(lowest, m)
		}
		return lowest
	}

	ordered := make([]questionbank.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return level(ordered[i]) < level(ordered[j])
	})
	return ordered
}

// keyedMutex hands out one mutex per key and frees it when unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
