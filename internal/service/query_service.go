package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"product_dashboard/internal/cache"
	"product_dashboard/internal/domain"
	"product_dashboard/internal/logger"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 1000
)

// QueryService answers the month-scoped dashboard queries
type QueryService struct {
	store TransactionStore
	cache cache.Cache
}

// NewQueryService creates a query service; a nil cache disables caching
func NewQueryService(store TransactionStore, c cache.Cache) *QueryService {
	if c == nil {
		c = cache.Nop{}
	}
	return &QueryService{store: store, cache: c}
}

// List returns one page of month records matching search. Page.Total is the
// number of records on the page; Page.TotalCount counts the whole filtered set.
func (s *QueryService) List(ctx context.Context, monthName, search string, page, perPage int) (*domain.TransactionPage, error) {
	month, err := domain.MonthNameToNumber(monthName)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be a positive integer", domain.ErrInvalidPagination)
	}
	if perPage < 1 {
		return nil, fmt.Errorf("%w: perPage must be a positive integer", domain.ErrInvalidPagination)
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	filter := domain.TransactionFilter{
		Month:  month,
		Search: search,
		Limit:  perPage,
	}

	count, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	// pages past the end of the set are empty, including ones whose offset
	// does not fit in an int
	txs := []domain.Transaction{}
	if page-1 <= (math.MaxInt-perPage)/perPage {
		filter.Offset = (page - 1) * perPage
		if filter.Offset < count {
			txs, err = s.store.List(ctx, filter)
			if err != nil {
				return nil, err
			}
		}
	}

	return &domain.TransactionPage{
		Total:        len(txs),
		Transactions: txs,
		TotalCount:   count,
		Page:         page,
		PerPage:      perPage,
	}, nil
}

// Statistics returns the sold total and sold/unsold counts for a month
func (s *QueryService) Statistics(ctx context.Context, monthName string) (domain.Statistics, error) {
	month, err := domain.MonthNameToNumber(monthName)
	if err != nil {
		return domain.Statistics{}, err
	}
	return s.statistics(ctx, month)
}

// PriceHistogram returns the month's record count per price range
func (s *QueryService) PriceHistogram(ctx context.Context, monthName string) (domain.BarChart, error) {
	month, err := domain.MonthNameToNumber(monthName)
	if err != nil {
		return nil, err
	}
	return s.priceHistogram(ctx, month)
}

// CategoryBreakdown returns the month's record count per category
func (s *QueryService) CategoryBreakdown(ctx context.Context, monthName string) ([]domain.CategoryCount, error) {
	month, err := domain.MonthNameToNumber(monthName)
	if err != nil {
		return nil, err
	}
	return s.categoryBreakdown(ctx, month)
}

func (s *QueryService) statistics(ctx context.Context, month time.Month) (domain.Statistics, error) {
	return cached(ctx, s.cache, cacheKey("statistics", month), func() (domain.Statistics, error) {
		return s.store.Statistics(ctx, month)
	})
}

func (s *QueryService) priceHistogram(ctx context.Context, month time.Month) (domain.BarChart, error) {
	return cached(ctx, s.cache, cacheKey("bar-chart", month), func() (domain.BarChart, error) {
		return s.store.PriceHistogram(ctx, month)
	})
}

func (s *QueryService) categoryBreakdown(ctx context.Context, month time.Month) ([]domain.CategoryCount, error) {
	return cached(ctx, s.cache, cacheKey("pie-chart", month), func() ([]domain.CategoryCount, error) {
		return s.store.CategoryBreakdown(ctx, month)
	})
}

func cacheKey(op string, month time.Month) string {
	return op + ":" + strconv.Itoa(int(month))
}

// cached serves key from c when present, otherwise loads and stores it.
// The key is scoped to the cache generation read before loading, so a load
// that overlaps a re-seed is stored under a generation nobody reads again.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, c cache.Cache, key string, load func() (T, error)) (T, error) {
	var value T
	gen, err := c.Generation(ctx)
	if err != nil {
		CacheLookups.WithLabelValues("error").Inc()
		logger.FromContext(ctx).Warn("cache generation failed", "key", key, "error", err)
		return load()
	}
	key = "g" + strconv.FormatInt(gen, 10) + ":" + key

	found, err := c.Get(ctx, key, &value)
	if err != nil {
		CacheLookups.WithLabelValues("error").Inc()
		logger.FromContext(ctx).Warn("cache get failed", "key", key, "error", err)
	} else if found {
		CacheLookups.WithLabelValues("hit").Inc()
		return value, nil
	} else {
		CacheLookups.WithLabelValues("miss").Inc()
	}

	value, err = load()
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		logger.FromContext(ctx).Warn("cache set failed", "key", key, "error", err)
	}
	return value, nil
}
