package service

import (
	"context"
	"time"

	"product_dashboard/internal/domain"
)

// TransactionStore is the record store the services read from and the seeder replaces
type TransactionStore interface {
	ReplaceAll(ctx context.Context, txs []domain.Transaction) (int, error)
	List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error)
	Count(ctx context.Context, f domain.TransactionFilter) (int, error)
	Statistics(ctx context.Context, month time.Month) (domain.Statistics, error)
	PriceHistogram(ctx context.Context, month time.Month) (domain.BarChart, error)
	CategoryBreakdown(ctx context.Context, month time.Month) ([]domain.CategoryCount, error)
	Ping(ctx context.Context) error
}
