package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry together with its ordered lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIDForUpdate is FindEntryByID with a row lock held until the transaction ends.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByFiscalYear returns a page of entries (without lines) using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesByFiscalYear(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveEntry persists a new entry and its lines in whatever status the entry carries.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// MarkEntryPosted flips a draft entry to posted. It returns a StaleStateError when the entry is no longer a draft.
	MarkEntryPosted(ctx context.Context, entryID string, fiscalYearID string, postedAt time.Time, userID string) error

	// MarkEntryReversed links an original entry to the entry that reversed it.
	MarkEntryReversed(ctx context.Context, entryID string, reversingEntryID string, userID string, now time.Time) error
}

// LedgerAggregator computes aggregates over posted lines.
type LedgerAggregator interface {
	// SumPostedLinesByAccount totals posted debits and credits per account for a fiscal year, ordered by account code.
	SumPostedLinesByAccount(ctx context.Context, fiscalYearID string) ([]domain.TrialBalanceRow, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerAggregator
}
