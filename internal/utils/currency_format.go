package utils

import (
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount at the minor-unit precision used for persisted amounts.
// Example: 76950 returns "76950.00", 12.345 returns "12.35"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(domain.MinorUnitPlaces)
}

// FormatPercentage formats a percentage without trailing zeros followed by a percent sign.
func FormatPercentage(p decimal.Decimal) string {
	return p.String() + "%"
}
