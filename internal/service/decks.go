package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexilearn/backend/internal/content"
	"github.com/lexilearn/backend/internal/domain/questionbank"
	"github.com/lexilearn/backend/internal/store"
)

// DeckService imports and exports decks. Imported decks are stored so
// they are back in the catalog after a restart.
type DeckService struct {
	catalog *content.Catalog
	store   store.Store
	logger  *slog.Logger
}

func NewDeckService(catalog *content.Catalog, s store.Store, logger *slog.Logger) *DeckService {
	return &DeckService{
		catalog: catalog,
		store:   s,
		logger:  logger,
	}
}

// Import validates a YAML deck, stores it and adds it to the catalog.
func (ds *DeckService) Import(ctx context.Context, data []byte) (*questionbank.QuestionBank, error) {
	bank, err := content.ParseDeck(data)
	if err != nil {
		return nil, err
	}
	normalized, err := content.ExportDeck(bank)
	if err != nil {
		return nil, err
	}
	if err := ds.store.SaveDeck(ctx, store.ImportedDeck{
		ID:         bank.ID,
		Data:       normalized,
		ImportedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("save deck: %w", err)
	}
	if err := ds.catalog.Add(bank); err != nil {
		return nil, err
	}

	ds.logger.Info("deck imported", "deck_id", bank.ID, "questions", len(bank.Questions))
	return bank, nil
}

// Export encodes a catalog deck as YAML.
func (ds *DeckService) Export(deckID string) ([]byte, error) {
	bank, err := ds.catalog.Deck(deckID)
	if err != nil {
		return nil, err
	}
	return content.ExportDeck(bank)
}

// Restore adds every stored deck to the catalog. A deck that no longer
// parses is logged and skipped.
func (ds *DeckService) Restore(ctx context.Context) (int, error) {
	decks, err := ds.store.ListDecks(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, d := range decks {
		bank, err := content.ParseDeck(d.Data)
		if err == nil {
			err = ds.catalog.Add(bank)
		}
		if err != nil {
			ds.logger.Error("skipping stored deck", "deck_id", d.ID, "error", err)
			continue
		}
		restored++
	}
	return restored, nil
}
