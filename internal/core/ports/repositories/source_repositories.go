package repositories

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

// RevenueSource supplies aggregated revenue and expense totals for a period. It is read-only.
type RevenueSource interface {
	SumForPeriod(ctx context.Context, period domain.Period) (domain.RevenueSnapshot, error)
}

// BeneficiaryRegistry supplies active beneficiaries. It is read-only.
type BeneficiaryRegistry interface {
	ListActiveBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error)
}
