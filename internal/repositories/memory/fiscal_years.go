package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

func (s *Store) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	var out *domain.FiscalYear
	err := s.view(ctx, func(st *state) error {
		fy, ok := st.fiscalYears[fiscalYearID]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &fy
		return nil
	})
	return out, err
}

func (s *Store) FindFiscalYearByIDForUpdate(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	return s.FindFiscalYearByID(ctx, fiscalYearID)
}

func (s *Store) FindFiscalYearCovering(ctx context.Context, date time.Time) (*domain.FiscalYear, error) {
	var out *domain.FiscalYear
	err := s.view(ctx, func(st *state) error {
		for _, fy := range st.fiscalYears {
			if fy.Contains(date) {
				fy := fy
				out = &fy
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return out, err
}

func (s *Store) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	var out []domain.FiscalYear
	err := s.view(ctx, func(st *state) error {
		out = make([]domain.FiscalYear, 0, len(st.fiscalYears))
		for _, fy := range st.fiscalYears {
			out = append(out, fy)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
		return nil
	})
	return out, err
}

func (s *Store) SaveFiscalYear(ctx context.Context, fiscalYear domain.FiscalYear) error {
	return s.view(ctx, func(st *state) error {
		for _, fy := range st.fiscalYears {
			if domain.Overlaps(fy.StartDate, fy.EndDate, fiscalYear.StartDate, fiscalYear.EndDate) {
				return fmt.Errorf("%w: fiscal year overlaps %s", apperrors.ErrDuplicate, fy.Name)
			}
		}
		st.fiscalYears[fiscalYear.FiscalYearID] = fiscalYear
		return nil
	})
}

func (s *Store) MarkFiscalYearClosed(ctx context.Context, fiscalYearID string, closingEntryID string, userID string, now time.Time) error {
	return s.view(ctx, func(st *state) error {
		fy, ok := st.fiscalYears[fiscalYearID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if fy.IsClosed {
			return &apperrors.StaleStateError{Resource: "fiscal year", ID: fiscalYearID, Expected: "open", Actual: "closed"}
		}
		fy.IsClosed = true
		fy.ClosedAt = &now
		fy.ClosedBy = &userID
		if closingEntryID != "" {
			fy.ClosingEntryID = &closingEntryID
		}
		fy.LastUpdatedAt = now
		fy.LastUpdatedBy = userID
		st.fiscalYears[fiscalYearID] = fy
		return nil
	})
}
