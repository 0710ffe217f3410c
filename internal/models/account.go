package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	Code           string          `db:"code"`
	Name           string          `db:"name"`
	AccountType    string          `db:"account_type"`
	ParentCode     *string         `db:"parent_code"` // NULL for roots
	IsActive       bool            `db:"is_active"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	AuditFields
}

// TrialBalanceRow is one aggregated row of posted journal lines.
type TrialBalanceRow struct {
	AccountID   string          `db:"account_id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	AccountType string          `db:"account_type"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
}
