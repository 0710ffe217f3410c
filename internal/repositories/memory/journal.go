package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := s.view(ctx, func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.ErrNotFound
		}
		e = copyEntry(e)
		out = &e
		return nil
	})
	return out, err
}

func (s *Store) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.FindEntryByID(ctx, entryID)
}

func (s *Store) ListEntriesByFiscalYear(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	cur, hasCursor, err := pagination.Decode(nextToken)
	if err != nil {
		return nil, nil, err
	}

	var out []domain.JournalEntry
	err = s.view(ctx, func(st *state) error {
		matching := make([]domain.JournalEntry, 0)
		for _, e := range st.entries {
			if e.FiscalYearID != fiscalYearID {
				continue
			}
			if hasCursor && !cur.Precedes(e.EntryDate, e.CreatedAt) {
				continue
			}
			e.Lines = nil
			matching = append(matching, e)
		}
		sort.Slice(matching, func(i, j int) bool {
			return olderThan(matching[j].EntryDate, matching[j].CreatedAt, matching[i].EntryDate, matching[i].CreatedAt)
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
		token = pagination.After(last.EntryDate, last.CreatedAt).Token()
	}
	return out, token, nil
}

// olderThan reports whether (date, created) sorts strictly after the cursor in descending order.
func olderThan(date, created, cursorDate, cursorCreated time.Time) bool {
	if !date.Equal(cursorDate) {
		return date.Before(cursorDate)
	}
	return created.Before(cursorCreated)
}

func (s *Store) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return s.view(ctx, func(st *state) error {
		if _, ok := st.entries[entry.EntryID]; ok {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, entry.EntryID)
		}
		for _, e := range st.entries {
			if e.EntryNumber == entry.EntryNumber {
				return fmt.Errorf("%w: entry number %s already used", apperrors.ErrDuplicate, entry.EntryNumber)
			}
		}
		st.entries[entry.EntryID] = copyEntry(entry)
		return nil
	})
}

func (s *Store) MarkEntryPosted(ctx context.Context, entryID string, fiscalYearID string, postedAt time.Time, userID string) error {
	return s.view(ctx, func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if e.Status != domain.EntryDraft {
			return &apperrors.StaleStateError{Resource: "journal entry", ID: entryID, Expected: string(domain.EntryDraft), Actual: string(e.Status)}
		}
		e.Status = domain.EntryPosted
		e.FiscalYearID = fiscalYearID
		e.PostedAt = &postedAt
		e.LastUpdatedAt = postedAt
		e.LastUpdatedBy = userID
		st.entries[entryID] = e
		return nil
	})
}

func (s *Store) MarkEntryReversed(ctx context.Context, entryID string, reversingEntryID string, userID string, now time.Time) error {
	return s.view(ctx, func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if e.ReversedByID != nil {
			return &apperrors.StaleStateError{Resource: "journal entry", ID: entryID, Expected: "not reversed", Actual: "reversed"}
		}
		e.ReversedByID = &reversingEntryID
		e.LastUpdatedAt = now
		e.LastUpdatedBy = userID
		st.entries[entryID] = e
		return nil
	})
}

func (s *Store) SumPostedLinesByAccount(ctx context.Context, fiscalYearID string) ([]domain.TrialBalanceRow, error) {
	var out []domain.TrialBalanceRow
	err := s.view(ctx, func(st *state) error {
		rows := make(map[string]*domain.TrialBalanceRow)
		for _, e := range st.entries {
			if e.FiscalYearID != fiscalYearID || e.Status != domain.EntryPosted {
				continue
			}
			for _, l := range e.Lines {
				row, ok := rows[l.AccountID]
				if !ok {
					acc := st.accounts[l.AccountID]
					row = &domain.TrialBalanceRow{
						AccountID:   l.AccountID,
						AccountCode: acc.Code,
						AccountName: acc.Name,
						AccountType: acc.AccountType,
						Debit:       decimal.Zero,
						Credit:      decimal.Zero,
					}
					rows[l.AccountID] = row
				}
				row.Debit = row.Debit.Add(l.DebitAmount)
				row.Credit = row.Credit.Add(l.CreditAmount)
			}
		}
		out = make([]domain.TrialBalanceRow, 0, len(rows))
		for _, r := range rows {
			out = append(out, *r)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
		return nil
	})
	return out, err
}
