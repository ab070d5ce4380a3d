// Package feed serves category feeds, lazily seeding empty categories with
// generated sample content.
package feed

import (
	"context"
	"fmt"

	"github.com/sinfiltro/feedserver/internal/logging"
	"github.com/sinfiltro/feedserver/internal/models"
)

// ContentStore is the persistence surface the feed needs.
type ContentStore interface {
	ListByCategory(ctx context.Context, category string, limit int) ([]models.ContentItem, error)
	InsertBatch(ctx context.Context, category string, items []models.ContentItem) error
	SetLike(ctx context.Context, category, itemID string, liked bool) (bool, error)
}

// Generator produces placeholder batches for empty categories.
type Generator interface {
	Batch(count int) []models.ContentItem
}

// Config holds feed behavior knobs.
type Config struct {
	// Categories is the canonical bucket set scanned by like updates.
	Categories []string
	// SeedCount is the batch size generated for an empty category.
	SeedCount int
	// PageLimit caps how many items a single feed read returns.
	PageLimit int
}

// Service retrieves category feeds and applies like toggles.
type Service struct {
	store     ContentStore
	generator Generator
	cfg       Config
	logger    *logging.Logger
}

// NewService creates a feed service. A nil store is allowed: the service
// then serves freshly generated batches without persisting them, so the
// feed stays usable when the database is unreachable at startup.
func NewService(store ContentStore, generator Generator, cfg Config, logger *logging.Logger) *Service {
	if cfg.SeedCount <= 0 {
		cfg.SeedCount = 12
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 100
	}
	return &Service{
		store:     store,
		generator: generator,
		cfg:       cfg,
		logger:    logger,
	}
}

// GetFeed returns the items stored under a category, newest first. An empty
// category is seeded once: a generated batch is persisted and returned
// directly, so the next read finds it in the store.
//
// Two concurrent first reads of the same category can both observe it empty
// and both seed it. The duplicate sample data is cosmetic only, so the race
// is tolerated rather than guarded.
func (s *Service) GetFeed(ctx context.Context, category string) ([]models.ContentItem, error) {
	if s.store == nil {
		return s.generator.Batch(s.cfg.SeedCount), nil
	}

	items, err := s.store.ListByCategory(ctx, category, s.cfg.PageLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", category, err)
	}

	if len(items) > 0 {
		return items, nil
	}

	batch := s.generator.Batch(s.cfg.SeedCount)
	if err := s.store.InsertBatch(ctx, category, batch); err != nil {
		return nil, fmt.Errorf("seed feed %s: %w", category, err)
	}

	s.logger.Info("Seeded empty feed category", logging.WithFields(map[string]interface{}{
		"category": category,
		"count":    len(batch),
	}))

	return batch, nil
}
