package domain

import "github.com/shopspring/decimal"

// MinorUnitPlaces is the number of decimal places persisted for currency amounts.
const MinorUnitPlaces int32 = 2

// RoundMoney rounds an amount to the minor currency unit (half away from zero).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// Hundred is the percentage base.
var Hundred = decimal.NewFromInt(100)
