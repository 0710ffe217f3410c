package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is a single account row in a trial balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Net returns the balance in the account's normal direction.
func (r TrialBalanceRow) Net() decimal.Decimal {
	if r.AccountType.IsDebitNormal() {
		return r.Debit.Sub(r.Credit)
	}
	return r.Credit.Sub(r.Debit)
}

// TrialBalance aggregates posted lines for one fiscal year.
type TrialBalance struct {
	FiscalYearID string            `json:"fiscalYearID"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	ByAccount    []TrialBalanceRow `json:"byAccount"`
}

// IsBalanced reports whether total debits equal total credits.
func (tb TrialBalance) IsBalanced() bool {
	return tb.TotalDebits.Equal(tb.TotalCredits)
}
