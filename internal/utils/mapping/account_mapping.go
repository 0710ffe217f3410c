package mapping

import (
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Code:           d.Code,
		Name:           d.Name,
		AccountType:    string(d.AccountType),
		ParentCode:     nullable(d.ParentCode),
		IsActive:       d.IsActive,
		CurrentBalance: d.CurrentBalance,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Code:           m.Code,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		ParentCode:     deref(m.ParentCode),
		IsActive:       m.IsActive,
		CurrentBalance: m.CurrentBalance,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToDomainTrialBalanceRows converts aggregated rows.
func ToDomainTrialBalanceRows(ms []models.TrialBalanceRow) []domain.TrialBalanceRow {
	ds := make([]domain.TrialBalanceRow, len(ms))
	for i, m := range ms {
		ds[i] = domain.TrialBalanceRow{
			AccountID:   m.AccountID,
			AccountCode: m.Code,
			AccountName: m.Name,
			AccountType: domain.AccountType(m.AccountType),
			Debit:       m.Debit,
			Credit:      m.Credit,
		}
	}
	return ds
}
