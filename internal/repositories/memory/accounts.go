package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := s.view(ctx, func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &acc
		return nil
	})
	return out, err
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	var out *domain.Account
	err := s.view(ctx, func(st *state) error {
		for _, acc := range st.accounts {
			if acc.Code == code {
				acc := acc
				out = &acc
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return out, err
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := s.view(ctx, func(st *state) error {
		for _, id := range accountIDs {
			if acc, ok := st.accounts[id]; ok {
				out[id] = acc
			}
		}
		return nil
	})
	return out, err
}

// FindAccountsByIDsForUpdate returns every requested account or ErrNotFound. The store lock
// already serializes writers, so no row lock is needed.
func (s *Store) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

func (s *Store) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	var out []domain.Account
	err := s.view(ctx, func(st *state) error {
		all := make([]domain.Account, 0, len(st.accounts))
		for _, acc := range st.accounts {
			all = append(all, acc)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.view(ctx, func(st *state) error {
		if _, ok := st.accounts[account.AccountID]; ok {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		for _, existing := range st.accounts {
			if existing.Code == account.Code {
				return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, account.Code)
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return s.view(ctx, func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		acc.IsActive = false
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
		st.accounts[accountID] = acc
		return nil
	})
}

func (s *Store) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	return s.view(ctx, func(st *state) error {
		for id := range balanceChanges {
			if _, ok := st.accounts[id]; !ok {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
		}
		for id, change := range balanceChanges {
			acc := st.accounts[id]
			acc.CurrentBalance = acc.CurrentBalance.Add(change)
			acc.LastUpdatedAt = now
			acc.LastUpdatedBy = userID
			st.accounts[id] = acc
		}
		return nil
	})
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]T(nil), all[offset:end]...)
}
