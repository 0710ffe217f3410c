package dto

import (
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a manual entry. Exactly one of the amounts must be positive.
type JournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// CreateJournalEntryRequest defines a manual journal entry.
type CreateJournalEntryRequest struct {
	EntryDate     time.Time            `json:"entryDate" binding:"required"`
	Description   string               `json:"description" binding:"required"`
	ReferenceType string               `json:"referenceType"`
	ReferenceID   string               `json:"referenceID"`
	Lines         []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseJournalEntryRequest carries the reason recorded on the reversing entry.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	EntryNumber     string                `json:"entryNumber"`
	EntryDate       time.Time             `json:"entryDate"`
	Description     string                `json:"description"`
	Status          domain.EntryStatus    `json:"status"`
	FiscalYearID    string                `json:"fiscalYearID"`
	ReferenceType   string                `json:"referenceType"`
	ReferenceID     string                `json:"referenceID"`
	ReversesEntryID *string               `json:"reversesEntryID,omitempty"`
	ReversedByID    *string               `json:"reversedByID,omitempty"`
	PostedAt        *time.Time            `json:"postedAt,omitempty"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:       l.LineID,
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		}
	}
	return JournalEntryResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		EntryDate:       e.EntryDate,
		Description:     e.Description,
		Status:          e.Status,
		FiscalYearID:    e.FiscalYearID,
		ReferenceType:   e.ReferenceType,
		ReferenceID:     e.ReferenceID,
		ReversesEntryID: e.ReversesEntryID,
		ReversedByID:    e.ReversedByID,
		PostedAt:        e.PostedAt,
		Lines:           lines,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	FiscalYearID string  `form:"fiscalYearID" binding:"required"`
	Limit        int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken    *string `form:"nextToken"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListJournalEntriesResponse converts a page of entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return ListJournalEntriesResponse{Entries: res, NextToken: nextToken}
}
