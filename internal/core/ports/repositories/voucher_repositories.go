package repositories

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

// VoucherRepositoryFacade stores payment vouchers.
type VoucherRepositoryFacade interface {
	SaveVouchers(ctx context.Context, vouchers []domain.PaymentVoucher) error
	ListVouchersByDistribution(ctx context.Context, distributionID string) ([]domain.PaymentVoucher, error)
}

// SequenceRepository hands out gap-free numbers per series.
type SequenceRepository interface {
	// NextNumber returns the next number of series, starting at 1. The number is consumed
	// only if the surrounding transaction commits.
	NextNumber(ctx context.Context, series string) (int64, error)
}
