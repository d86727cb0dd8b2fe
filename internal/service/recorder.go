package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lexilearn/backend/internal/domain/progress"
	"github.com/lexilearn/backend/internal/store"
	"github.com/lexilearn/backend/internal/worker"
)

// WordOutcome is one answered vocabulary word.
type WordOutcome struct {
	SessionID string
	Word      string
	Correct   bool
	At        time.Time
}

// Recorder writes vocabulary progress in the background so answering a
// question never waits on the database. It owns the per-session
// WaitGroups so the store stays a pure persistence layer.
type Recorder struct {
	store  store.Store
	pool   *worker.Pool[error]
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*sync.WaitGroup // sessionID → WaitGroup
	drained chan struct{}
}

// NewRecorder starts a recorder with the given number of workers.
func NewRecorder(s store.Store, workers int, logger *slog.Logger) *Recorder {
	r := &Recorder{
		store:   s,
		pool:    worker.NewPool[error](workers, 64),
		logger:  logger,
		pending: make(map[string]*sync.WaitGroup),
		drained: make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record queues an outcome for writing.
func (r *Recorder) Record(o WordOutcome) {
	r.waitGroup(o.SessionID).Add(1)
	r.pool.Submit(o.SessionID, func() error {
		return r.record(o)
	})
}

// WaitForSession blocks until all outcomes queued for a session are written.
func (r *Recorder) WaitForSession(sessionID string) {
	r.mu.Lock()
	wg, ok := r.pending[sessionID]
	r.mu.Unlock()

	if ok {
		wg.Wait()
	}
}

// Forget drops the WaitGroup of a finished session.
func (r *Recorder) Forget(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, sessionID)
}

// Close waits for queued outcomes and stops the workers.
func (r *Recorder) Close() {
	r.pool.Close()
	<-r.drained
}

func (r *Recorder) waitGroup(sessionID string) *sync.WaitGroup {
	r.mu.Lock()
	defer r.mu.Unlock()
	wg, ok := r.pending[sessionID]
	if !ok {
		wg = &sync.WaitGroup{}
		r.pending[sessionID] = wg
	}
	return wg
}

func (r *Recorder) drain() {
	defer close(r.drained)
	for res := range r.pool.Results() {
		if res.Output != nil {
			r.logger.Error("failed to record word",
				"session_id", res.JobID,
				"error", res.Output,
			)
		}
		r.mu.Lock()
		wg := r.pending[res.JobID]
		r.mu.Unlock()
		if wg != nil {
			wg.Done()
		}
	}
}

// record persists the outcome. It uses context.Background because writes
// run asynchronously and must not be cancelled when the originating
// request ends.
func (r *Recorder) record(o WordOutcome) error {
	ctx := context.Background()

	prev, next, err := r.store.RecordWord(ctx, o.Word, o.Correct, o.At)
	if err != nil {
		return fmt.Errorf("record %q: %w", o.Word, err)
	}

	// A word counts as learned the first time it reaches mastery 1.
	if prev.MasteryLevel == 0 && next.MasteryLevel > 0 {
		if err := r.store.AddQuestProgress(ctx, o.At, progress.QuestLearnWords, 1); err != nil {
			return fmt.Errorf("advance quest: %w", err)
		}
	}
	return nil
}
