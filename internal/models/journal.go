package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID         string     `db:"entry_id"`
	EntryNumber     string     `db:"entry_number"`
	EntryDate       time.Time  `db:"entry_date"`
	Description     string     `db:"description"`
	Status          string     `db:"status"`
	FiscalYearID    *string    `db:"fiscal_year_id"` // NULL while a draft has not been validated
	ReferenceType   string     `db:"reference_type"`
	ReferenceID     string     `db:"reference_id"`
	ReversesEntryID *string    `db:"reverses_entry_id"`
	ReversedByID    *string    `db:"reversed_by_id"`
	PostedAt        *time.Time `db:"posted_at"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	LineNumber   int             `db:"line_number"`
	AccountID    string          `db:"account_id"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	Description  string          `db:"description"`
}
