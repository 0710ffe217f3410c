package mapping

import (
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry (without lines) to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		EntryNumber:     d.EntryNumber,
		EntryDate:       d.EntryDate,
		Description:     d.Description,
		Status:          string(d.Status),
		FiscalYearID:    nullable(d.FiscalYearID),
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
		ReversesEntryID: d.ReversesEntryID,
		ReversedByID:    d.ReversedByID,
		PostedAt:        d.PostedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry; lines are attached separately.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		EntryNumber:     m.EntryNumber,
		EntryDate:       m.EntryDate.UTC(),
		Description:     m.Description,
		Status:          domain.EntryStatus(m.Status),
		FiscalYearID:    deref(m.FiscalYearID),
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		ReversesEntryID: m.ReversesEntryID,
		ReversedByID:    m.ReversedByID,
		PostedAt:        m.PostedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntrySlice converts a slice of model entries to domain entries without lines.
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		LineNumber:   d.LineNumber,
		AccountID:    d.AccountID,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		Description:  d.Description,
	}
}

// ToDomainJournalLineSlice converts model lines to domain lines, preserving order.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = domain.JournalLine{
			LineID:       m.LineID,
			EntryID:      m.EntryID,
			LineNumber:   m.LineNumber,
			AccountID:    m.AccountID,
			DebitAmount:  m.DebitAmount,
			CreditAmount: m.CreditAmount,
			Description:  m.Description,
		}
	}
	return ds
}
