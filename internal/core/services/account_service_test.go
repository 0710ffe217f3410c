package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
)

func TestCreateAccount_DerivesTypeFromCode(t *testing.T) {
	e := newEngine(t)

	acc, err := e.accounts.CreateAccount(e.ctx, accountant, dto.CreateAccountRequest{Code: "4.2", Name: "Shop rent"})
	require.NoError(t, err)

	assert.Equal(t, domain.Revenue, acc.AccountType)
	assert.Equal(t, "4", acc.ParentCode)
	assert.True(t, acc.IsActive)
	assert.True(t, acc.CurrentBalance.IsZero())
	assert.Equal(t, accountant.UserID, acc.CreatedBy)
}

func TestCreateAccount_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		actor   domain.Actor
		req     dto.CreateAccountRequest
		wantErr error
	}{
		{"missing parent", accountant, dto.CreateAccountRequest{Code: "1.9.1", Name: "Orphan"}, apperrors.ErrValidation},
		{"unknown root", accountant, dto.CreateAccountRequest{Code: "7.1", Name: "Bad root"}, apperrors.ErrValidation},
		{"non numeric", accountant, dto.CreateAccountRequest{Code: "1.a", Name: "Letters"}, apperrors.ErrValidation},
		{"missing name", accountant, dto.CreateAccountRequest{Code: "1.2"}, apperrors.ErrValidation},
		{"duplicate code", accountant, dto.CreateAccountRequest{Code: codeCash, Name: "Again"}, apperrors.ErrDuplicate},
		{"cashier denied", cashier, dto.CreateAccountRequest{Code: "1.2", Name: "Petty"}, apperrors.ErrForbidden},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngine(t)
			_, err := e.accounts.CreateAccount(e.ctx, tc.actor, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDeactivateAccount_RefusesNonZeroBalance(t *testing.T) {
	e := newEngine(t)
	_, err := e.ledger.PostEntry(e.ctx, accountant, e.entry(day(2025, time.March, 1), codeCash, codeRent, "10"))
	require.NoError(t, err)

	err = e.accounts.DeactivateAccount(e.ctx, accountant, e.accountID(codeCash))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	acc, err := e.accounts.GetAccountByID(e.ctx, e.accountID(codeCash))
	require.NoError(t, err)
	assert.True(t, acc.IsActive)
}

func TestDeactivateAccount_NotFound(t *testing.T) {
	e := newEngine(t)
	err := e.accounts.DeactivateAccount(e.ctx, admin, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListAccounts_OrderedByCode(t *testing.T) {
	e := newEngine(t)

	page, err := e.accounts.ListAccounts(e.ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "1", page[0].Code)
	assert.Equal(t, "1.1", page[1].Code)
	assert.Equal(t, codeCash, page[2].Code)

	rest, err := e.accounts.ListAccounts(e.ctx, 50, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 9)
}
