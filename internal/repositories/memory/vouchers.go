package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

func (s *Store) SaveVouchers(ctx context.Context, vouchers []domain.PaymentVoucher) error {
	return s.view(ctx, func(st *state) error {
		for _, v := range vouchers {
			if _, ok := st.vouchers[v.VoucherID]; ok {
				return fmt.Errorf("%w: voucher %s already exists", apperrors.ErrDuplicate, v.VoucherID)
			}
		}
		for _, v := range vouchers {
			st.vouchers[v.VoucherID] = v
		}
		return nil
	})
}

func (s *Store) ListVouchersByDistribution(ctx context.Context, distributionID string) ([]domain.PaymentVoucher, error) {
	out := make([]domain.PaymentVoucher, 0)
	err := s.view(ctx, func(st *state) error {
		for _, v := range st.vouchers {
			if v.DistributionID == distributionID {
				out = append(out, v)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].VoucherNumber < out[j].VoucherNumber })
		return nil
	})
	return out, err
}

func (s *Store) NextNumber(ctx context.Context, series string) (int64, error) {
	var n int64
	err := s.view(ctx, func(st *state) error {
		st.sequences[series]++
		n = st.sequences[series]
		return nil
	})
	return n, err
}
