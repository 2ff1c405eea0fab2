package service

import (
	"context"
	"encoding/json"
	"sync"

	"product_dashboard/internal/cache"
	"product_dashboard/internal/domain"
	"product_dashboard/internal/logger"
	"product_dashboard/internal/seed"
)

// Fetcher downloads the raw seed dataset
type Fetcher interface {
	Fetch(ctx context.Context) ([]json.RawMessage, error)
}

// Replacer is the part of the store the seeder writes to
type Replacer interface {
	ReplaceAll(ctx context.Context, txs []domain.Transaction) (int, error)
}

// Seeder replaces the store contents with the latest dataset
type Seeder struct {
	fetcher Fetcher
	store   Replacer
	cache   cache.Cache

	// serializes initialize runs within the process
	mu sync.Mutex
}

func NewSeeder(fetcher Fetcher, store Replacer, c cache.Cache) *Seeder {
	if c == nil {
		c = cache.Nop{}
	}
	return &Seeder{fetcher: fetcher, store: store, cache: c}
}

// Initialize fetches the dataset, drops rows that fail normalization and
// replaces the store with the rest. Dropped rows are logged, not returned as
// errors; fetch/shape failures are IngestionError, write failures StoreError.
func (s *Seeder) Initialize(ctx context.Context) (domain.SeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx)

	items, err := s.fetcher.Fetch(ctx)
	if err != nil {
		SeedRuns.WithLabelValues("fetch_error").Inc()
		log.Error("initialization failed", "error", err)
		return domain.SeedResult{}, err
	}

	txs, rejected := seed.Normalize(items)
	for _, r := range rejected {
		log.Warn("dropping dataset row", "index", r.Index, "error", r.Err)
	}

	inserted, err := s.store.ReplaceAll(ctx, txs)
	if err != nil {
		SeedRuns.WithLabelValues("store_error").Inc()
		log.Error("initialization failed", "error", err)
		return domain.SeedResult{}, domain.WrapStore("replace", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn("failed to invalidate dashboard cache", "error", err)
	}

	result := domain.SeedResult{
		Fetched:  len(items),
		Inserted: inserted,
		Dropped:  len(rejected),
	}
	SeedRuns.WithLabelValues("ok").Inc()
	SeedInserted.Set(float64(inserted))
	SeedDropped.Add(float64(len(rejected)))
	log.Info("database initialized", "fetched", result.Fetched, "inserted", result.Inserted, "dropped", result.Dropped)
	return result, nil
}
