package repository

import (
	"context"
	"time"

	"product_dashboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const monthPredicate = `EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC')::int = $1`

var transactionColumns = []string{
	"external_id", "title", "price", "description", "category", "image", "sold", "date_of_sale",
}

// TransactionRepository is the PostgreSQL record store
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ReplaceAll deletes every record and bulk-inserts txs in one database
// transaction, so readers see either the old or the new dataset.
func (r *TransactionRepository) ReplaceAll(ctx context.Context, txs []domain.Transaction) (int, error) {
	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, domain.WrapStore("begin", err)
	}
	defer dbTx.Rollback(ctx)

	if _, err := dbTx.Exec(ctx, `DELETE FROM product_transactions`); err != nil {
		return 0, domain.WrapStore("clear", err)
	}

	n, err := dbTx.CopyFrom(ctx,
		pgx.Identifier{"product_transactions"},
		transactionColumns,
		pgx.CopyFromSlice(len(txs), func(i int) ([]any, error) {
			t := txs[i]
			return []any{
				t.ExternalID,
				t.Title,
				numericFromDecimal(t.Price),
				t.Description,
				t.Category,
				t.Image,
				t.Sold,
				t.DateOfSale.UTC(),
			}, nil
		}),
	)
	if err != nil {
		return 0, domain.WrapStore("insert", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, domain.WrapStore("commit", err)
	}
	return int(n), nil
}

// List returns one page of month records matching the filter, ordered by external id
func (r *TransactionRepository) List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	if f.Offset < 0 {
		return []domain.Transaction{}, nil
	}
	args := filterArgs(f)
	args = append(args, f.Offset, f.Limit)

	rows, err := r.db.Query(ctx,
		`SELECT external_id, title, price, description, category, image, sold, date_of_sale
		 FROM product_transactions
		 WHERE `+monthPredicate+` AND `+searchPredicate+`
		 ORDER BY external_id ASC
		 OFFSET $4 LIMIT $5`,
		args...,
	)
	if err != nil {
		return nil, domain.WrapStore("list", err)
	}
	defer rows.Close()

	txs, err := r.scanRows(rows)
	return txs, domain.WrapStore("list", err)
}

// Count returns the size of the whole filtered set, ignoring offset/limit
func (r *TransactionRepository) Count(ctx context.Context, f domain.TransactionFilter) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM product_transactions
		 WHERE `+monthPredicate+` AND `+searchPredicate,
		filterArgs(f)...,
	).Scan(&n)
	return n, domain.WrapStore("count", err)
}

// Statistics sums sold prices and counts sold / unsold records for a month
func (r *TransactionRepository) Statistics(ctx context.Context, month time.Month) (domain.Statistics, error) {
	var (
		stats domain.Statistics
		total pgtype.Numeric
		all   int
	)
	err := r.db.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(price) FILTER (WHERE sold), 0),
			COUNT(*) FILTER (WHERE sold),
			COUNT(*)
		 FROM product_transactions
		 WHERE `+monthPredicate,
		int(month),
	).Scan(&total, &stats.SoldItems, &all)
	if err != nil {
		return stats, domain.WrapStore("statistics", err)
	}

	stats.TotalSale = decimalFromNumeric(total)
	stats.NotSoldItems = all - stats.SoldItems
	return stats, nil
}

// PriceHistogram counts month records per price bucket. The CASE mirrors
// domain.PriceBucket.
func (r *TransactionRepository) PriceHistogram(ctx context.Context, month time.Month) (domain.BarChart, error) {
	rows, err := r.db.Query(ctx,
		`SELECT bucket, COUNT(*) FROM (
			SELECT CASE
				WHEN price <= 100 THEN 0
				WHEN price > 900 THEN 9
				ELSE CEIL(price / 100)::int - 1
			END AS bucket
			FROM product_transactions
			WHERE `+monthPredicate+`
		 ) b
		 GROUP BY bucket`,
		int(month),
	)
	if err != nil {
		return nil, domain.WrapStore("bar chart", err)
	}
	defer rows.Close()

	counts := make([]int, len(domain.PriceRanges))
	for rows.Next() {
		var bucket, n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, domain.WrapStore("bar chart", err)
		}
		if bucket >= 0 && bucket < len(counts) {
			counts[bucket] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStore("bar chart", err)
	}
	return domain.NewBarChart(counts), nil
}

// CategoryBreakdown groups month records by category, missing category last
func (r *TransactionRepository) CategoryBreakdown(ctx context.Context, month time.Month) ([]domain.CategoryCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category, COUNT(*)
		 FROM product_transactions
		 WHERE `+monthPredicate+`
		 GROUP BY category
		 ORDER BY category ASC NULLS LAST`,
		int(month),
	)
	if err != nil {
		return nil, domain.WrapStore("pie chart", err)
	}
	defer rows.Close()

	result := make([]domain.CategoryCount, 0)
	for rows.Next() {
		var cc domain.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, domain.WrapStore("pie chart", err)
		}
		result = append(result, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStore("pie chart", err)
	}
	return result, nil
}

func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// $2 is the raw search text, $3 its numeric form or NULL.
const searchPredicate = `($2::text = ''
	OR strpos(lower(title), lower($2::text)) > 0
	OR strpos(lower(COALESCE(description, '')), lower($2::text)) > 0
	OR ($3::numeric IS NOT NULL AND price = $3::numeric))`

func filterArgs(f domain.TransactionFilter) []any {
	var price any
	if p, ok := f.SearchPrice(); ok {
		price = p.String()
	}
	return []any{int(f.Month), f.Search, price}
}

// Helper to scan rows into Transaction slice
func (r *TransactionRepository) scanRows(rows pgx.Rows) ([]domain.Transaction, error) {
	result := make([]domain.Transaction, 0)

	for rows.Next() {
		var (
			t     domain.Transaction
			price pgtype.Numeric
		)
		if err := rows.Scan(&t.ExternalID, &t.Title, &price, &t.Description, &t.Category, &t.Image, &t.Sold, &t.DateOfSale); err != nil {
			return nil, err
		}
		t.Price = decimalFromNumeric(price)
		t.DateOfSale = t.DateOfSale.UTC()
		result = append(result, t)
	}

	return result, rows.Err()
}

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func decimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
