package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_InMonth(t *testing.T) {
	// 23:30 on Feb 28 at -05:00 is already March in UTC
	loc := time.FixedZone("EST", -5*3600)
	tx := Transaction{DateOfSale: time.Date(2021, time.February, 28, 23, 30, 0, 0, loc)}

	assert.True(t, tx.InMonth(time.March))
	assert.False(t, tx.InMonth(time.February))
}

func TestTransactionFilter_SearchPrice(t *testing.T) {
	p, ok := TransactionFilter{Search: "42"}.SearchPrice()
	assert.True(t, ok)
	assert.Equal(t, "42", p.String())

	p, ok = TransactionFilter{Search: "329.85"}.SearchPrice()
	assert.True(t, ok)
	assert.Equal(t, "329.85", p.String())

	_, ok = TransactionFilter{Search: "blue"}.SearchPrice()
	assert.False(t, ok)

	_, ok = TransactionFilter{}.SearchPrice()
	assert.False(t, ok)
}
