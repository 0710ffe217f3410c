package memory

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SumForPeriod(ctx context.Context, period domain.Period) (domain.RevenueSnapshot, error) {
	snapshot := domain.RevenueSnapshot{TotalRevenues: decimal.Zero, TotalExpenses: decimal.Zero}
	err := s.view(ctx, func(st *state) error {
		for _, r := range st.revenues {
			if domain.Overlaps(r.date, r.date, period.Start, period.End) {
				snapshot.TotalRevenues = snapshot.TotalRevenues.Add(r.amount)
			}
		}
		for _, e := range st.expenses {
			if domain.Overlaps(e.date, e.date, period.Start, period.End) {
				snapshot.TotalExpenses = snapshot.TotalExpenses.Add(e.amount)
			}
		}
		return nil
	})
	return snapshot, err
}

func (s *Store) ListActiveBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error) {
	var out []domain.Beneficiary
	err := s.view(ctx, func(st *state) error {
		out = append([]domain.Beneficiary(nil), st.beneficiaries...)
		return nil
	})
	return out, err
}
