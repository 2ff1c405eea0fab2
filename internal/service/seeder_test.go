package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"product_dashboard/internal/cache"
	"product_dashboard/internal/domain"
	"product_dashboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Initialize(t *testing.T) {
	store := repository.NewMemoryRepository()
	seeder := NewSeeder(staticFetcher(t, marchDataset), store, nil)

	result, err := seeder.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SeedResult{Fetched: 5, Inserted: 4, Dropped: 1}, result)

	n, err := store.Count(context.Background(), domain.TransactionFilter{Month: time.March})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSeeder_ReseedReplacesDataset(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	next := `[{"id":10,"title":"Lamp","price":20,"sold":true,"dateOfSale":"2022-03-03"}]`
	result, err := NewSeeder(staticFetcher(t, next), store, nil).Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)

	txs, err := store.List(ctx, domain.TransactionFilter{Month: time.March, Limit: 10})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(10), txs[0].ExternalID)

	n, err := store.Count(ctx, domain.TransactionFilter{Month: time.April})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeeder_FetchFailureKeepsDataset(t *testing.T) {
	store := seededStore(t)
	failing := fetcherFunc(func(context.Context) ([]json.RawMessage, error) {
		return nil, &domain.IngestionError{Reason: "fetch dataset", Err: errBoom}
	})

	_, err := NewSeeder(failing, store, nil).Initialize(context.Background())
	var ie *domain.IngestionError
	require.True(t, errors.As(err, &ie))

	n, err := store.Count(context.Background(), domain.TransactionFilter{Month: time.March})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSeeder_StoreFailure(t *testing.T) {
	_, err := NewSeeder(staticFetcher(t, marchDataset), failingReplacer{}, nil).Initialize(context.Background())

	var se *domain.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "replace", se.Op)
	assert.ErrorIs(t, err, errBoom)
}

func TestSeeder_InvalidatesCache(t *testing.T) {
	c := cache.NewMemory()
	require.NoError(t, c.Set(context.Background(), "statistics:3", domain.Statistics{SoldItems: 99}))

	_, err := NewSeeder(staticFetcher(t, marchDataset), repository.NewMemoryRepository(), c).Initialize(context.Background())
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestSeeder_ConcurrentRunsAreSerialized(t *testing.T) {
	store := repository.NewMemoryRepository()
	var (
		mu      sync.Mutex
		active  int
		overlap bool
	)
	fetcher := fetcherFunc(func(context.Context) ([]json.RawMessage, error) {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return []json.RawMessage{json.RawMessage(`{"id":1,"title":"a","price":1,"sold":true,"dateOfSale":"2022-03-01"}`)}, nil
	})
	seeder := NewSeeder(fetcher, store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := seeder.Initialize(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, overlap)
	n, err := store.Count(context.Background(), domain.TransactionFilter{Month: time.March})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
