package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices and sale totals go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction is one sold (or unsold) product record from the seed dataset.
// ExternalID is the dataset's own id, not a storage key.
type Transaction struct {
	ExternalID  int64           `db:"external_id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description *string         `db:"description" json:"description"`
	Category    *string         `db:"category" json:"category"`
	Image       *string         `db:"image" json:"image"`
	Sold        bool            `db:"sold" json:"sold"`
	DateOfSale  time.Time       `db:"date_of_sale" json:"dateOfSale"`
}

// InMonth reports whether the sale happened in the given calendar month (UTC), any year.
func (t *Transaction) InMonth(month time.Month) bool {
	return t.DateOfSale.UTC().Month() == month
}

// TransactionFilter selects records for the paginated listing.
// Search is matched against title/description (substring, case-insensitive)
// and against price (exact numeric equality) when it parses as a number.
type TransactionFilter struct {
	Month  time.Month
	Search string
	Offset int
	Limit  int
}

// SearchPrice returns the numeric form of Search, if it has one.
func (f TransactionFilter) SearchPrice() (decimal.Decimal, bool) {
	if f.Search == "" {
		return decimal.Decimal{}, false
	}
	p, err := decimal.NewFromString(f.Search)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return p, true
}

// TransactionPage is the listing response.
// Total is the size of this page; TotalCount is the size of the whole filtered set.
type TransactionPage struct {
	Total        int           `json:"total"`
	Transactions []Transaction `json:"transactions"`
	TotalCount   int           `json:"totalCount"`
	Page         int           `json:"page"`
	PerPage      int           `json:"perPage"`
}

// SeedResult summarizes one initialize run
type SeedResult struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Dropped  int `json:"dropped"`
}
