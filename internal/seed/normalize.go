package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"product_dashboard/internal/domain"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order; layouts without an offset are read as UTC
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type rawTransaction struct {
	ID          *int64           `json:"id"`
	Title       string           `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Image       *string          `json:"image"`
	Sold        *bool            `json:"sold"`
	DateOfSale  string           `json:"dateOfSale"`
}

// Rejected - a dataset element that was dropped, with the reason
type Rejected struct {
	Index int
	Err   error
}

// ParseDate parses a dateOfSale value and normalizes it to UTC
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// Normalize converts raw dataset elements into transactions. Elements that do
// not decode, carry a bad date, miss a required field or repeat an id
// already seen are rejected; the first occurrence of an id wins.
func Normalize(items []json.RawMessage) ([]domain.Transaction, []Rejected) {
	txs := make([]domain.Transaction, 0, len(items))
	var rejected []Rejected
	seen := make(map[int64]struct{}, len(items))

	for i, item := range items {
		t, err := normalizeOne(item)
		if err == nil {
			if _, dup := seen[t.ExternalID]; dup {
				err = fmt.Errorf("duplicate id %d", t.ExternalID)
			}
		}
		if err != nil {
			rejected = append(rejected, Rejected{Index: i, Err: err})
			continue
		}
		seen[t.ExternalID] = struct{}{}
		txs = append(txs, t)
	}
	return txs, rejected
}

func normalizeOne(item json.RawMessage) (domain.Transaction, error) {
	var raw rawTransaction
	if err := json.Unmarshal(item, &raw); err != nil {
		return domain.Transaction{}, fmt.Errorf("decode: %w", err)
	}

	switch {
	case raw.ID == nil:
		return domain.Transaction{}, errors.New("missing id")
	case strings.TrimSpace(raw.Title) == "":
		return domain.Transaction{}, errors.New("missing title")
	case raw.Price == nil:
		return domain.Transaction{}, errors.New("missing price")
	case raw.Price.IsNegative():
		return domain.Transaction{}, fmt.Errorf("negative price %s", raw.Price)
	case raw.Sold == nil:
		return domain.Transaction{}, errors.New("missing sold flag")
	}

	date, err := ParseDate(raw.DateOfSale)
	if err != nil {
		return domain.Transaction{}, err
	}

	return domain.Transaction{
		ExternalID:  *raw.ID,
		Title:       raw.Title,
		Price:       *raw.Price,
		Description: raw.Description,
		Category:    raw.Category,
		Image:       raw.Image,
		Sold:        *raw.Sold,
		DateOfSale:  date,
	}, nil
}
