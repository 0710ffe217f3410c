package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

// FiscalYearReader defines read operations for fiscal years
type FiscalYearReader interface {
	FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// FindFiscalYearCovering returns the fiscal year containing date, holding a shared lock
	// so the year cannot be closed while the caller's transaction is open.
	FindFiscalYearCovering(ctx context.Context, date time.Time) (*domain.FiscalYear, error)

	// ListFiscalYears returns every fiscal year ordered by start date.
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)
}

// FiscalYearWriter defines write operations for fiscal years
type FiscalYearWriter interface {
	SaveFiscalYear(ctx context.Context, fiscalYear domain.FiscalYear) error

	// FindFiscalYearByIDForUpdate locks the fiscal year row exclusively.
	FindFiscalYearByIDForUpdate(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// MarkFiscalYearClosed closes an open fiscal year. It returns a StaleStateError when it is already closed.
	MarkFiscalYearClosed(ctx context.Context, fiscalYearID string, closingEntryID string, userID string, now time.Time) error
}

// FiscalYearRepositoryFacade combines all fiscal year repository interfaces
type FiscalYearRepositoryFacade interface {
	FiscalYearReader
	FiscalYearWriter
}
