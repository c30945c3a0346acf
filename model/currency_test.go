package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		code   string
		want   string
	}{
		{1250, "USD", "$12.50"},
		{5, "eur", "€0.05"},
		{-1999, "GBP", "-£19.99"},
		{1500, "JPY", "¥1500"},
		{100, "XXX", "$1.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.code))
	}
}

func TestLookupCurrency(t *testing.T) {
	c, ok := LookupCurrency("krw")
	assert.True(t, ok)
	assert.Equal(t, int32(0), c.Exponent)

	c, ok = LookupCurrency("nope")
	assert.False(t, ok)
	assert.Equal(t, "USD", c.Code)

	c, ok = CurrencyForCountry("in")
	assert.True(t, ok)
	assert.Equal(t, "INR", c.Code)

}
