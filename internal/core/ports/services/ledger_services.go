package services

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
)

// LedgerReaderSvc defines read operations on the journal
type LedgerReaderSvc interface {
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// GetTrialBalance aggregates posted lines of a fiscal year. It never writes.
	GetTrialBalance(ctx context.Context, fiscalYearID string) (*domain.TrialBalance, error)
}

// LedgerWriterSvc defines caller-facing write operations on the journal
type LedgerWriterSvc interface {
	// PostEntry validates and posts a manual entry in one step.
	PostEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)

	// CreateDraftEntry stores an unvalidated draft.
	CreateDraftEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)

	// PostDraftEntry validates a stored draft and posts it.
	PostDraftEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error)

	// ReverseEntry posts a new entry with every line's sides swapped. The original is not modified
	// apart from its reversed-by link.
	ReverseEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) (*domain.JournalEntry, error)
}

// LedgerPoster posts entries built by other engine components. It performs no role check;
// callers are expected to have authorized the business operation that produced the entry.
type LedgerPoster interface {
	// Post validates entry and posts it, joining the caller's transaction when one is open.
	Post(ctx context.Context, entry domain.JournalEntry, userID string) (*domain.JournalEntry, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerPoster
}
