package dto

import (
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one account line of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
	Net         decimal.Decimal    `json:"net"`
}

// TrialBalanceResponse is the trial balance of a fiscal year.
type TrialBalanceResponse struct {
	FiscalYearID string                    `json:"fiscalYearID"`
	TotalDebits  decimal.Decimal           `json:"totalDebits"`
	TotalCredits decimal.Decimal           `json:"totalCredits"`
	IsBalanced   bool                      `json:"isBalanced"`
	ByAccount    []TrialBalanceRowResponse `json:"byAccount"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.ByAccount))
	for i, r := range tb.ByAccount {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       r.Debit,
			Credit:      r.Credit,
			Net:         r.Net(),
		}
	}
	return TrialBalanceResponse{
		FiscalYearID: tb.FiscalYearID,
		TotalDebits:  tb.TotalDebits,
		TotalCredits: tb.TotalCredits,
		IsBalanced:   tb.IsBalanced(),
		ByAccount:    rows,
	}
}
