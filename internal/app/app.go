// Package app wires the store, content catalog and services from a Config.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexilearn/backend/internal/content"
	"github.com/lexilearn/backend/internal/infrastructure/config"
	"github.com/lexilearn/backend/internal/service"
	"github.com/lexilearn/backend/internal/store"
)

type App struct {
	Store    *store.SQLiteStore
	Catalog  *content.Catalog
	Recorder *service.Recorder
	Practice *service.PracticeService
	Progress *service.ProgressService
	Decks    *service.DeckService
}

// New opens the database, loads built-in and configured content, restores
// imported decks and starts the recorder workers.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	catalog, err := content.Default()
	if err != nil {
		return nil, fmt.Errorf("loading built-in content: %w", err)
	}
	if cfg.ContentPath != "" {
		if err := catalog.LoadFile(cfg.ContentPath); err != nil {
			return nil, fmt.Errorf("loading content: %w", err)
		}
	}

	db, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	decks := service.NewDeckService(catalog, db, logger)
	if n, err := decks.Restore(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("restoring imported decks: %w", err)
	} else if n > 0 {
		logger.Info("restored imported decks", "count", n)
	}

	recorder := service.NewRecorder(db, cfg.RecorderWorkers, logger)
	progress := service.NewProgressService(db, logger)

	return &App{
		Store:    db,
		Catalog:  catalog,
		Recorder: recorder,
		Practice: service.NewPracticeService(catalog, db, recorder, progress, logger),
		Progress: progress,
		Decks:    decks,
	}, nil
}

// Close drains pending vocabulary updates, then closes the database.
func (a *App) Close() error {
	a.Recorder.Close()
	return a.Store.Close()
}
