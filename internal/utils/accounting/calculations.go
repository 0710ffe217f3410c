package accounting

import (
	"fmt"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a line amount based on account type and line side.
// This is used in both services and repositories to ensure consistent accounting logic.
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := line.Amount()
	isDebit := line.IsDebit()

	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	return signedAmount, nil
}

// BalanceChanges sums the signed amount of every line per account.
func BalanceChanges(lines []domain.JournalLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account %s not loaded", line.AccountID)
		}
		signed, err := CalculateSignedAmount(line, acc.AccountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(signed)
	}
	return changes, nil
}

// ValidateLines checks that every line has exactly one positive side and that debits equal
// credits exactly. It returns the totals.
func ValidateLines(lines []domain.JournalLine) (decimal.Decimal, decimal.Decimal, error) {
	if len(lines) < 2 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("journal entry must have at least two lines")
	}
	debits, credits := decimal.Zero, decimal.Zero
	for i, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return debits, credits, fmt.Errorf("line %d has a negative amount", i+1)
		}
		if line.DebitAmount.IsPositive() == line.CreditAmount.IsPositive() {
			return debits, credits, fmt.Errorf("line %d must have exactly one of debit or credit", i+1)
		}
		debits = debits.Add(line.DebitAmount)
		credits = credits.Add(line.CreditAmount)
	}
	return debits, credits, nil
}
