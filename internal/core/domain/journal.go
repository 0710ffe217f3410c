package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "DRAFT"
	EntryPosted EntryStatus = "POSTED"
)

// Reference types pointing a journal entry back at the business event that produced it.
const (
	RefManual            = "manual"
	RefDistribution      = "distribution"
	RefPaymentVoucher    = "payment_voucher"
	RefReversal          = "reversal"
	RefFiscalYearClosing = "fiscal_year_closing"
)

// JournalEntry is one atomic financial event. Posted entries are immutable.
type JournalEntry struct {
	EntryID         string        `json:"entryID"`
	EntryNumber     string        `json:"entryNumber"`
	EntryDate       time.Time     `json:"entryDate"`
	Description     string        `json:"description"`
	Status          EntryStatus   `json:"status"`
	FiscalYearID    string        `json:"fiscalYearID"`
	ReferenceType   string        `json:"referenceType"`
	ReferenceID     string        `json:"referenceID"`
	ReversesEntryID *string       `json:"reversesEntryID,omitempty"`
	ReversedByID    *string       `json:"reversedByID,omitempty"`
	PostedAt        *time.Time    `json:"postedAt,omitempty"`
	Lines           []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is one side of a journal entry. Exactly one of DebitAmount/CreditAmount is non-zero.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
}

// IsDebit reports whether the line is a debit line.
func (l JournalLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// Totals returns the debit and credit sums of the entry's lines.
func (e JournalEntry) Totals() (decimal.Decimal, decimal.Decimal) {
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debits = debits.Add(l.DebitAmount)
		credits = credits.Add(l.CreditAmount)
	}
	return debits, credits
}

// Debit builds a debit line.
func Debit(accountID string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{AccountID: accountID, DebitAmount: amount, CreditAmount: decimal.Zero, Description: description}
}

// Credit builds a credit line.
func Credit(accountID string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{AccountID: accountID, DebitAmount: decimal.Zero, CreditAmount: amount, Description: description}
}
