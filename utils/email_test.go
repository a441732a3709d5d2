package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatTRY(t *testing.T) {
	tests := map[string]string{
		"0":         "0,00 TL",
		"9.5":       "9,50 TL",
		"999":       "999,00 TL",
		"1000":      "1.000,00 TL",
		"12345.6":   "12.345,60 TL",
		"1234567.8": "1.234.567,80 TL",
		"-1500":     "-1.500,00 TL",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatTRY(decimal.RequireFromString(in)), in)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Hazırlanıyor", StatusLabel("preparing"))
	assert.Equal(t, "unknown", StatusLabel("unknown"))
	assert.Equal(t, "Kredi Kartı", PaymentMethodLabel("credit-card"))
	assert.Equal(t, "", WarrantyLabel("none"))
}
