package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/waqf_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (s *Store) FindDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	var out *domain.Distribution
	err := s.view(ctx, func(st *state) error {
		d, ok := st.distributions[distributionID]
		if !ok {
			return apperrors.ErrNotFound
		}
		d = copyDistribution(d)
		out = &d
		return nil
	})
	return out, err
}

func (s *Store) FindDistributionByIDForUpdate(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	return s.FindDistributionByID(ctx, distributionID)
}

func (s *Store) ListDistributions(ctx context.Context, status *domain.DistributionStatus, limit int, nextToken *string) ([]domain.Distribution, *string, error) {
	cur, hasCursor, err := pagination.Decode(nextToken)
	if err != nil {
		return nil, nil, err
	}

	var out []domain.Distribution
	err = s.view(ctx, func(st *state) error {
		matching := make([]domain.Distribution, 0)
		for _, d := range st.distributions {
			if status != nil && d.Status != *status {
				continue
			}
			if hasCursor && !cur.Precedes(d.Period.Start, d.CreatedAt) {
				continue
			}
			d.Details = nil
			matching = append(matching, d)
		}
		sort.Slice(matching, func(i, j int) bool {
			return olderThan(matching[j].Period.Start, matching[j].CreatedAt, matching[i].Period.Start, matching[i].CreatedAt)
		})
		out = page(matching, limit+1, 0)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		token = pagination.After(last.Period.Start, last.CreatedAt).Token()
	}
	return out, token, nil
}

func (s *Store) FindOverlappingDistributions(ctx context.Context, period domain.Period, statuses []domain.DistributionStatus) ([]domain.Distribution, error) {
	var out []domain.Distribution
	err := s.view(ctx, func(st *state) error {
		for _, d := range st.distributions {
			if !hasStatus(statuses, d.Status) || !d.Period.Overlaps(period) {
				continue
			}
			d.Details = nil
			out = append(out, d)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Period.Start.Before(out[j].Period.Start) })
		return nil
	})
	return out, err
}

func hasStatus(statuses []domain.DistributionStatus, s domain.DistributionStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func (s *Store) SumDisbursedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.view(ctx, func(st *state) error {
		for _, d := range st.distributions {
			if d.Status != domain.DistributionDisbursed || d.DisbursedAt == nil {
				continue
			}
			if domain.Overlaps(*d.DisbursedAt, *d.DisbursedAt, from, to) {
				total = total.Add(d.DistributableAmount)
			}
		}
		return nil
	})
	return total, err
}

func (s *Store) ListApprovals(ctx context.Context, distributionID string) ([]domain.DistributionApproval, error) {
	out := make([]domain.DistributionApproval, 0)
	err := s.view(ctx, func(st *state) error {
		for _, a := range st.approvals {
			if a.DistributionID == distributionID {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) SaveDistribution(ctx context.Context, distribution domain.Distribution) error {
	return s.view(ctx, func(st *state) error {
		if _, ok := st.distributions[distribution.DistributionID]; ok {
			return fmt.Errorf("%w: distribution %s already exists", apperrors.ErrDuplicate, distribution.DistributionID)
		}
		st.distributions[distribution.DistributionID] = copyDistribution(distribution)
		return nil
	})
}

func (s *Store) UpdateDistributionStatus(ctx context.Context, distributionID string, change portsrepo.StatusChange) error {
	return s.view(ctx, func(st *state) error {
		d, ok := st.distributions[distributionID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if d.Status != change.From {
			return &apperrors.StaleStateError{Resource: "distribution", ID: distributionID, Expected: string(change.From), Actual: string(d.Status)}
		}
		d.Status = change.To
		if change.RejectionReason != nil {
			d.RejectionReason = change.RejectionReason
		}
		if change.ApprovalNotes != nil {
			d.ApprovalNotes = change.ApprovalNotes
		}
		if change.JournalEntryID != nil {
			d.JournalEntryID = change.JournalEntryID
		}
		if change.DisbursedAt != nil {
			d.DisbursedAt = change.DisbursedAt
		}
		d.LastUpdatedAt = change.At
		d.LastUpdatedBy = change.UserID
		st.distributions[distributionID] = d
		return nil
	})
}

func (s *Store) MarkDetailsPaid(ctx context.Context, distributionID string, voucherByDetail map[string]string) error {
	return s.view(ctx, func(st *state) error {
		d, ok := st.distributions[distributionID]
		if !ok {
			return apperrors.ErrNotFound
		}
		d = copyDistribution(d)
		for i, detail := range d.Details {
			voucherID, ok := voucherByDetail[detail.DetailID]
			if !ok {
				continue
			}
			detail.PaymentStatus = domain.PaymentPaid
			detail.VoucherID = &voucherID
			d.Details[i] = detail
		}
		st.distributions[distributionID] = d
		return nil
	})
}

func (s *Store) SaveApproval(ctx context.Context, approval domain.DistributionApproval) error {
	return s.view(ctx, func(st *state) error {
		st.approvals = append(st.approvals, approval)
		return nil
	})
}
