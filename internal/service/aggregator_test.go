package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"product_dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_Combined(t *testing.T) {
	q := NewQueryService(seededStore(t), nil)
	ctx := context.Background()

	combined, err := NewAggregator(q).Combined(ctx, "March")
	require.NoError(t, err)

	stats, err := q.Statistics(ctx, "March")
	require.NoError(t, err)
	chart, err := q.PriceHistogram(ctx, "March")
	require.NoError(t, err)
	pie, err := q.CategoryBreakdown(ctx, "March")
	require.NoError(t, err)

	assert.True(t, stats.TotalSale.Equal(combined.Statistics.TotalSale))
	assert.Equal(t, stats.SoldItems, combined.Statistics.SoldItems)
	assert.Equal(t, stats.NotSoldItems, combined.Statistics.NotSoldItems)
	assert.Equal(t, chart, combined.BarChart)
	assert.Equal(t, pie, combined.PieChart)
}

func TestAggregator_InvalidMonthDispatchesNothing(t *testing.T) {
	store := &countingStore{MemoryRepository: seededStore(t)}

	_, err := NewAggregator(NewQueryService(store, nil)).Combined(context.Background(), "march")
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
	assert.Zero(t, store.calls.Load())
}

func TestAggregator_FailsFast(t *testing.T) {
	store := &failingStore{MemoryRepository: seededStore(t)}
	agg := NewAggregator(NewQueryService(store, nil))

	start := time.Now()
	combined, err := agg.Combined(context.Background(), "March")
	elapsed := time.Since(start)

	assert.Nil(t, combined)
	require.Error(t, err)
	var se *domain.StoreError
	assert.True(t, errors.As(err, &se), "got %v", err)
	assert.Less(t, elapsed, 2*time.Second)
	assert.True(t, store.statsCancelled.Load())
}
