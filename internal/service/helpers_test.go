package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"product_dashboard/internal/domain"
	"product_dashboard/internal/repository"
)

var errBoom = errors.New("boom")

type fetcherFunc func(ctx context.Context) ([]json.RawMessage, error)

func (f fetcherFunc) Fetch(ctx context.Context) ([]json.RawMessage, error) { return f(ctx) }

func staticFetcher(t *testing.T, doc string) Fetcher {
	t.Helper()
	return fetcherFunc(func(context.Context) ([]json.RawMessage, error) {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(doc), &items); err != nil {
			t.Fatalf("bad fixture: %v", err)
		}
		return items, nil
	})
}

const marchDataset = `[
	{"id":1,"title":"Blue shirt","price":100,"description":"cotton","category":"men's clothing","sold":true,"dateOfSale":"2022-03-02T10:00:00Z"},
	{"id":2,"title":"Ring","price":50,"description":"blue stone","category":"jewelery","sold":false,"dateOfSale":"2021-03-05T10:00:00Z"},
	{"id":3,"title":"Laptop","price":42,"description":"refurbished","category":"electronics","sold":true,"dateOfSale":"2022-03-20T10:00:00Z"},
	{"id":4,"title":"Watch","price":42,"description":"steel","category":"electronics","sold":false,"dateOfSale":"2022-04-01T10:00:00Z"},
	{"id":5,"title":"Mug","price":"abc","sold":true,"dateOfSale":"2022-03-01"}
]`

// seededStore returns a memory store initialized with marchDataset
func seededStore(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	store := repository.NewMemoryRepository()
	if _, err := NewSeeder(staticFetcher(t, marchDataset), store, nil).Initialize(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

// countingStore counts aggregation calls reaching the store
type countingStore struct {
	*repository.MemoryRepository
	calls atomic.Int32
}

func (s *countingStore) Statistics(ctx context.Context, month time.Month) (domain.Statistics, error) {
	s.calls.Add(1)
	return s.MemoryRepository.Statistics(ctx, month)
}

func (s *countingStore) PriceHistogram(ctx context.Context, month time.Month) (domain.BarChart, error) {
	s.calls.Add(1)
	return s.MemoryRepository.PriceHistogram(ctx, month)
}

func (s *countingStore) CategoryBreakdown(ctx context.Context, month time.Month) ([]domain.CategoryCount, error) {
	s.calls.Add(1)
	return s.MemoryRepository.CategoryBreakdown(ctx, month)
}

// failingStore fails the histogram and blocks statistics until cancelled
type failingStore struct {
	*repository.MemoryRepository
	statsCancelled atomic.Bool
}

func (s *failingStore) Statistics(ctx context.Context, _ time.Month) (domain.Statistics, error) {
	select {
	case <-ctx.Done():
		s.statsCancelled.Store(true)
		return domain.Statistics{}, ctx.Err()
	case <-time.After(5 * time.Second):
		return domain.Statistics{}, nil
	}
}

func (s *failingStore) PriceHistogram(context.Context, time.Month) (domain.BarChart, error) {
	return nil, domain.WrapStore("bar chart", errBoom)
}

// failingReplacer rejects every write
type failingReplacer struct{}

func (failingReplacer) ReplaceAll(context.Context, []domain.Transaction) (int, error) {
	return 0, errBoom
}
