package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"product_dashboard/internal/domain"

	"github.com/shopspring/decimal"
)

// MemoryRepository keeps the dataset in process. Used by the "memory" store
// backend and by tests; semantics match TransactionRepository.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []domain.Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// ReplaceAll swaps the whole dataset under the write lock
func (r *MemoryRepository) ReplaceAll(_ context.Context, txs []domain.Transaction) (int, error) {
	items := make([]domain.Transaction, len(txs))
	copy(items, txs)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ExternalID < items[j].ExternalID })

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return len(items), nil
}

func (r *MemoryRepository) List(_ context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	matched := r.filter(f)
	if f.Offset < 0 || f.Offset >= len(matched) {
		return []domain.Transaction{}, nil
	}
	matched = matched[f.Offset:]
	if f.Limit >= 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (r *MemoryRepository) Count(_ context.Context, f domain.TransactionFilter) (int, error) {
	return len(r.filter(f)), nil
}

func (r *MemoryRepository) Statistics(_ context.Context, month time.Month) (domain.Statistics, error) {
	stats := domain.Statistics{TotalSale: decimal.Zero}
	for _, t := range r.inMonth(month) {
		if t.Sold {
			stats.TotalSale = stats.TotalSale.Add(t.Price)
			stats.SoldItems++
		} else {
			stats.NotSoldItems++
		}
	}
	return stats, nil
}

func (r *MemoryRepository) PriceHistogram(_ context.Context, month time.Month) (domain.BarChart, error) {
	counts := make([]int, len(domain.PriceRanges))
	for _, t := range r.inMonth(month) {
		counts[domain.PriceBucket(t.Price)]++
	}
	return domain.NewBarChart(counts), nil
}

func (r *MemoryRepository) CategoryBreakdown(_ context.Context, month time.Month) ([]domain.CategoryCount, error) {
	byCategory := make(map[string]int)
	uncategorized := 0
	for _, t := range r.inMonth(month) {
		if t.Category == nil {
			uncategorized++
			continue
		}
		byCategory[*t.Category]++
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]domain.CategoryCount, 0, len(names)+1)
	for _, name := range names {
		result = append(result, domain.CategoryCount{Category: &name, Count: byCategory[name]})
	}
	if uncategorized > 0 {
		result = append(result, domain.CategoryCount{Count: uncategorized})
	}
	return result, nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }

func (r *MemoryRepository) inMonth(month time.Month) []domain.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Transaction
	for _, t := range r.items {
		if t.InMonth(month) {
			out = append(out, t)
		}
	}
	return out
}

func (r *MemoryRepository) filter(f domain.TransactionFilter) []domain.Transaction {
	search := strings.ToLower(f.Search)
	price, hasPrice := f.SearchPrice()

	out := make([]domain.Transaction, 0)
	for _, t := range r.inMonth(f.Month) {
		if search != "" && !matchesSearch(t, search, price, hasPrice) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(t domain.Transaction, search string, price decimal.Decimal, hasPrice bool) bool {
	if strings.Contains(strings.ToLower(t.Title), search) {
		return true
	}
	if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), search) {
		return true
	}
	return hasPrice && t.Price.Equal(price)
}
