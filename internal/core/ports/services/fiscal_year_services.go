package services

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
)

// FiscalYearSvcFacade manages fiscal years and closing.
type FiscalYearSvcFacade interface {
	CreateFiscalYear(ctx context.Context, actor domain.Actor, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error)
	GetFiscalYear(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)

	// CloseFiscalYear reconciles the year. With previewOnly it only returns the summary;
	// otherwise it posts the closing entry and locks the year in one transaction.
	CloseFiscalYear(ctx context.Context, actor domain.Actor, fiscalYearID string, previewOnly bool) (*domain.ClosingSummary, error)
}
