package domain

import (
	"fmt"
	"time"
)

var monthsByName = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// MonthNameToNumber maps a full English month name ("February") to its number.
// Matching is case-sensitive; abbreviations and numerals are rejected.
func MonthNameToNumber(name string) (time.Month, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: month is required (e.g., 'February')", ErrInvalidMonth)
	}
	m, ok := monthsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q, use the full name (e.g., 'February')", ErrInvalidMonth, name)
	}
	return m, nil
}
