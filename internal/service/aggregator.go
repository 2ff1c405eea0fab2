package service

import (
	"context"

	"product_dashboard/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Aggregator combines the dashboard aggregations for one month
type Aggregator struct {
	queries *QueryService
}

func NewAggregator(queries *QueryService) *Aggregator {
	return &Aggregator{queries: queries}
}

// Combined runs statistics, price histogram and category breakdown
// concurrently. The month is checked before anything is dispatched; the first
// failing query cancels the others and fails the whole call.
func (a *Aggregator) Combined(ctx context.Context, monthName string) (*domain.Combined, error) {
	month, err := domain.MonthNameToNumber(monthName)
	if err != nil {
		return nil, err
	}

	var out domain.Combined
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := a.queries.statistics(gctx, month)
		out.Statistics = stats
		return err
	})
	g.Go(func() error {
		chart, err := a.queries.priceHistogram(gctx, month)
		out.BarChart = chart
		return err
	})
	g.Go(func() error {
		pie, err := a.queries.categoryBreakdown(gctx, month)
		out.PieChart = pie
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
