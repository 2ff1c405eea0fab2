package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"product_dashboard/internal/db"
	"product_dashboard/internal/domain"
	"product_dashboard/internal/repository"
	"product_dashboard/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func setupRepo(t *testing.T) *repository.TransactionRepository {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := db.MigrateUp(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	return repository.NewTransactionRepository(pool)
}

func fixtures() []domain.Transaction {
	date := func(s string) time.Time {
		d, _ := time.Parse(time.RFC3339, s)
		return d
	}
	return []domain.Transaction{
		{ExternalID: 1, Title: "Blue shirt", Price: decimal.RequireFromString("100"), Description: strPtr("cotton"), Category: strPtr("men's clothing"), Sold: true, DateOfSale: date("2022-03-02T10:00:00Z")},
		{ExternalID: 2, Title: "Ring", Price: decimal.RequireFromString("100.5"), Description: strPtr("blue stone"), Category: strPtr("jewelery"), Sold: false, DateOfSale: date("2021-03-05T10:00:00Z")},
		{ExternalID: 3, Title: "Laptop", Price: decimal.RequireFromString("329.85"), Category: nil, Sold: true, DateOfSale: date("2022-03-31T23:30:00Z")},
		{ExternalID: 4, Title: "Watch", Price: decimal.RequireFromString("42"), Category: strPtr("electronics"), Sold: false, DateOfSale: date("2022-04-01T00:30:00+02:00")},
		{ExternalID: 5, Title: "TV", Price: decimal.RequireFromString("901"), Category: strPtr("electronics"), Sold: true, DateOfSale: date("2022-03-10T10:00:00Z")},
	}
}

func TestTransactionRepository_MatchesMemory(t *testing.T) {
	repo := setupRepo(t)
	mem := repository.NewMemoryRepository()
	ctx := context.Background()

	for _, store := range []service.TransactionStore{repo, mem} {
		n, err := store.ReplaceAll(ctx, fixtures())
		if err != nil {
			t.Fatalf("replace: %v", err)
		}
		if n != 5 {
			t.Fatalf("expected 5 inserted got %d", n)
		}
	}

	for _, month := range []time.Month{time.March, time.April, time.July} {
		want, _ := mem.Statistics(ctx, month)
		got, err := repo.Statistics(ctx, month)
		if err != nil {
			t.Fatalf("statistics: %v", err)
		}
		if !want.TotalSale.Equal(got.TotalSale) || want.SoldItems != got.SoldItems || want.NotSoldItems != got.NotSoldItems {
			t.Fatalf("%s statistics: want %+v got %+v", month, want, got)
		}

		wantChart, _ := mem.PriceHistogram(ctx, month)
		gotChart, err := repo.PriceHistogram(ctx, month)
		if err != nil {
			t.Fatalf("bar chart: %v", err)
		}
		for _, label := range domain.PriceRanges {
			if wantChart.Get(label) != gotChart.Get(label) {
				t.Fatalf("%s bucket %s: want %d got %d", month, label, wantChart.Get(label), gotChart.Get(label))
			}
		}

		wantPie, _ := mem.CategoryBreakdown(ctx, month)
		gotPie, err := repo.CategoryBreakdown(ctx, month)
		if err != nil {
			t.Fatalf("pie chart: %v", err)
		}
		if len(wantPie) != len(gotPie) {
			t.Fatalf("%s pie: want %d groups got %d", month, len(wantPie), len(gotPie))
		}
		for i := range wantPie {
			if (wantPie[i].Category == nil) != (gotPie[i].Category == nil) || wantPie[i].Count != gotPie[i].Count {
				t.Fatalf("%s pie[%d] mismatch", month, i)
			}
			if wantPie[i].Category != nil && *wantPie[i].Category != *gotPie[i].Category {
				t.Fatalf("%s pie[%d]: want %s got %s", month, i, *wantPie[i].Category, *gotPie[i].Category)
			}
		}
	}
}

func TestTransactionRepository_ListAndSearch(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.ReplaceAll(ctx, fixtures()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	txs, err := repo.List(ctx, domain.TransactionFilter{Month: time.March, Search: "BLUE", Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 || txs[0].ExternalID != 1 || txs[1].ExternalID != 2 {
		t.Fatalf("unexpected search result: %+v", txs)
	}

	txs, err = repo.List(ctx, domain.TransactionFilter{Month: time.March, Search: "329.85", Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].Title != "Laptop" || txs[0].Category != nil {
		t.Fatalf("unexpected price search result: %+v", txs)
	}
	if !txs[0].Price.Equal(decimal.RequireFromString("329.85")) {
		t.Fatalf("price round trip: got %s", txs[0].Price)
	}

	// wildcard characters are matched literally
	n, err := repo.Count(ctx, domain.TransactionFilter{Month: time.March, Search: "%"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no match for %%, got %d", n)
	}

	page, err := repo.List(ctx, domain.TransactionFilter{Month: time.March, Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].ExternalID != 2 || page[1].ExternalID != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestTransactionRepository_ReplaceAllIsDestructive(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.ReplaceAll(ctx, fixtures()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if _, err := repo.ReplaceAll(ctx, fixtures()[:1]); err != nil {
		t.Fatalf("replace: %v", err)
	}

	n, err := repo.Count(ctx, domain.TransactionFilter{Month: time.March})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 record after re-seed, got %d", n)
	}
}
