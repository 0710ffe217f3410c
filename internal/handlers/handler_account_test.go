package handlers_test

import (
	"encoding/json"
	"net/http"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (s *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "4.2", Name: "Agricultural revenue"}
	s.accounts.On("CreateAccount", mock.Anything, accountant, req).Return(&domain.Account{
		AccountID:      "acc-4-2",
		Code:           "4.2",
		Name:           "Agricultural revenue",
		AccountType:    domain.Revenue,
		ParentCode:     "4",
		IsActive:       true,
		CurrentBalance: decimal.Zero,
	}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts", req, accountant)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("acc-4-2", resp.AccountID)
	s.Equal(domain.Revenue, resp.AccountType)
	s.Equal("4", resp.ParentCode)
}

func (s *HandlerTestSuite) TestCreateAccount_InvalidBody() {
	w := s.do(http.MethodPost, "/api/v1/accounts", `{"name": "no code"}`, accountant)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", s.decodeError(w)["code"])
	s.accounts.AssertNotCalled(s.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestCreateAccount_Forbidden() {
	req := dto.CreateAccountRequest{Code: "4.2", Name: "Agricultural revenue"}
	s.accounts.On("CreateAccount", mock.Anything, cashier, req).
		Return(nil, &apperrors.PermissionDeniedError{Role: string(cashier.Role), Action: string(domain.CapManageAccounts)}).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts", req, cashier)

	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("PERMISSION_DENIED", s.decodeError(w)["code"])
}

func (s *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "4.1", Name: "Rent"}
	s.accounts.On("CreateAccount", mock.Anything, accountant, req).Return(nil, apperrors.ErrDuplicate).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts", req, accountant)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestGetAccount_NotFound() {
	s.accounts.On("GetAccountByID", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("account missing not found")).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/missing", nil, accountant)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("NOT_FOUND", s.decodeError(w)["code"])
}

func (s *HandlerTestSuite) TestListAccounts_DefaultPaging() {
	s.accounts.On("ListAccounts", mock.Anything, 50, 0).Return([]domain.Account{
		{AccountID: "acc-1", Code: "1", AccountType: domain.Asset},
		{AccountID: "acc-1-1", Code: "1.1", AccountType: domain.Asset, ParentCode: "1"},
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts", nil, nazer)

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Accounts, 2)
}

func (s *HandlerTestSuite) TestListAccounts_RejectsOversizedLimit() {
	w := s.do(http.MethodGet, "/api/v1/accounts?limit=5000", nil, nazer)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestDeactivateAccount() {
	s.accounts.On("DeactivateAccount", mock.Anything, accountant, "acc-5-1").Return(nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/accounts/acc-5-1", nil, accountant)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlerTestSuite) TestDeactivateAccount_WithBalance() {
	s.accounts.On("DeactivateAccount", mock.Anything, accountant, "acc-1-1-1").
		Return(apperrors.NewAppError(http.StatusConflict, "account carries a balance", apperrors.ErrConflict)).Once()

	w := s.do(http.MethodDelete, "/api/v1/accounts/acc-1-1-1", nil, accountant)

	s.Equal(http.StatusConflict, w.Code)
}
