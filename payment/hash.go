package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"appliance_store/config"

	"github.com/shopspring/decimal"
)

const (
	txnTypeSales = "sales"
	// ISO 4217 numeric code for TRY
	currencyCodeTRY = "949"
	timestampLayout = "20060102150405"
)

// HashInput is the set of request fields covered by the bank hash.
type HashInput struct {
	TerminalId      string
	ReferenceNumber string
	Amount          decimal.Decimal
	Installments    int
	SuccessUrl      string
	FailUrl         string
	Timestamp       string
	ApiPassword     string
}

// FormatAmount renders an amount the way the bank expects it: two decimals,
// dot separator.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Timestamp formats t in bank time (Europe/Istanbul).
func Timestamp(t time.Time) string {
	return t.In(config.Istanbul()).Format(timestampLayout)
}

// ComputeHash returns the uppercase hex SHA-256 of the concatenated request
// fields. The field order and the plain (unkeyed) digest are fixed by the
// bank.
func ComputeHash(in HashInput) string {
	var b strings.Builder
	b.WriteString(in.TerminalId)
	b.WriteString(in.ReferenceNumber)
	b.WriteString(txnTypeSales)
	b.WriteString(FormatAmount(in.Amount))
	b.WriteString(strconv.Itoa(in.Installments))
	b.WriteString(in.SuccessUrl)
	b.WriteString(in.FailUrl)
	b.WriteString(in.Timestamp)
	b.WriteString(currencyCodeTRY)
	b.WriteString(in.ApiPassword)

	sum := sha256.Sum256([]byte(b.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
