package mapping

import (
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/models"
)

func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		FiscalYearID:   d.FiscalYearID,
		Name:           d.Name,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		IsClosed:       d.IsClosed,
		ClosedAt:       d.ClosedAt,
		ClosedBy:       d.ClosedBy,
		ClosingEntryID: d.ClosingEntryID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainFiscalYear(m models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		FiscalYearID:   m.FiscalYearID,
		Name:           m.Name,
		StartDate:      m.StartDate.UTC(),
		EndDate:        m.EndDate.UTC(),
		IsClosed:       m.IsClosed,
		ClosedAt:       m.ClosedAt,
		ClosedBy:       m.ClosedBy,
		ClosingEntryID: m.ClosingEntryID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainFiscalYearSlice(ms []models.FiscalYear) []domain.FiscalYear {
	ds := make([]domain.FiscalYear, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFiscalYear(m)
	}
	return ds
}
