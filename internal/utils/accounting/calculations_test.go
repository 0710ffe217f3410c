package accounting

import (
	"testing"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	tests := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		want        string
	}{
		{"debit asset", domain.Debit("a", hundred, ""), domain.Asset, "100"},
		{"credit asset", domain.Credit("a", hundred, ""), domain.Asset, "-100"},
		{"debit expense", domain.Debit("a", hundred, ""), domain.Expense, "100"},
		{"debit liability", domain.Debit("a", hundred, ""), domain.Liability, "-100"},
		{"credit revenue", domain.Credit("a", hundred, ""), domain.Revenue, "100"},
		{"credit equity", domain.Credit("a", hundred, ""), domain.Equity, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), got.String())
		})
	}

	_, err := CalculateSignedAmount(domain.Debit("a", hundred, ""), "INCOME")
	assert.Error(t, err)
}

func TestBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":    {AccountID: "cash", AccountType: domain.Asset},
		"revenue": {AccountID: "revenue", AccountType: domain.Revenue},
	}
	lines := []domain.JournalLine{
		domain.Debit("cash", decimal.NewFromInt(70), ""),
		domain.Debit("cash", decimal.NewFromInt(30), ""),
		domain.Credit("revenue", decimal.NewFromInt(100), ""),
	}
	changes, err := BalanceChanges(lines, accounts)
	require.NoError(t, err)
	assert.True(t, changes["cash"].Equal(decimal.NewFromInt(100)))
	assert.True(t, changes["revenue"].Equal(decimal.NewFromInt(100)))

	_, err = BalanceChanges([]domain.JournalLine{domain.Debit("missing", decimal.NewFromInt(1), "")}, accounts)
	assert.Error(t, err)
}

func TestValidateLines(t *testing.T) {
	ten := decimal.NewFromInt(10)
	debits, credits, err := ValidateLines([]domain.JournalLine{domain.Debit("a", ten, ""), domain.Credit("b", ten, "")})
	require.NoError(t, err)
	assert.True(t, debits.Equal(credits))

	_, _, err = ValidateLines([]domain.JournalLine{domain.Debit("a", ten, "")})
	assert.Error(t, err)

	both := domain.JournalLine{AccountID: "a", DebitAmount: ten, CreditAmount: ten}
	_, _, err = ValidateLines([]domain.JournalLine{both, domain.Credit("b", ten, "")})
	assert.Error(t, err)

	neither := domain.JournalLine{AccountID: "a"}
	_, _, err = ValidateLines([]domain.JournalLine{neither, domain.Credit("b", ten, "")})
	assert.Error(t, err)
}
