package domain

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Statistics - monthly sale totals
type Statistics struct {
	TotalSale    decimal.Decimal `json:"totalSale"`
	SoldItems    int             `json:"soldItems"`
	NotSoldItems int             `json:"notSoldItems"`
}

// PriceRanges lists the histogram bucket labels in display order.
// The first bucket is 0..100 inclusive; every other bucket holds prices above
// the previous bucket's upper bound, so the labels 101-200 etc. cover
// fractional prices such as 100.5 too.
var PriceRanges = []string{
	"0-100",
	"101-200",
	"201-300",
	"301-400",
	"401-500",
	"501-600",
	"601-700",
	"701-800",
	"801-900",
	"901-above",
}

var hundred = decimal.NewFromInt(100)

// PriceBucket returns the index into PriceRanges for a price.
func PriceBucket(price decimal.Decimal) int {
	if price.LessThanOrEqual(hundred) {
		return 0
	}
	if price.GreaterThan(decimal.NewFromInt(900)) {
		return len(PriceRanges) - 1
	}
	return int(price.Div(hundred).Ceil().IntPart()) - 1
}

// BucketCount - one bar of the price histogram
type BucketCount struct {
	Range string
	Count int
}

// BarChart is the price histogram. It always holds every bucket of
// PriceRanges in order and is encoded as a JSON object keeping that order.
type BarChart []BucketCount

// NewBarChart builds a chart from per-bucket counts indexed like PriceRanges.
func NewBarChart(counts []int) BarChart {
	chart := make(BarChart, len(PriceRanges))
	for i, label := range PriceRanges {
		chart[i] = BucketCount{Range: label}
		if i < len(counts) {
			chart[i].Count = counts[i]
		}
	}
	return chart
}

// Get returns the count for a label, 0 if unknown.
func (b BarChart) Get(label string) int {
	for _, bc := range b {
		if bc.Range == label {
			return bc.Count
		}
	}
	return 0
}

func (b BarChart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, bc := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(bc.Range)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(bc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *BarChart) UnmarshalJSON(data []byte) error {
	var counts map[string]int
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	ordered := make([]int, len(PriceRanges))
	for i, label := range PriceRanges {
		ordered[i] = counts[label]
	}
	*b = NewBarChart(ordered)
	return nil
}

// CategoryCount - one slice of the category pie chart. A nil Category is the
// group of records without a category.
type CategoryCount struct {
	Category *string `json:"_id"`
	Count    int     `json:"count"`
}

// Combined - the three dashboard aggregations for one month
type Combined struct {
	Statistics Statistics      `json:"statistics"`
	BarChart   BarChart        `json:"barChart"`
	PieChart   []CategoryCount `json:"pieChart"`
}
