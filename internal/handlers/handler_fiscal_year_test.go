package handlers_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (s *HandlerTestSuite) TestCreateFiscalYear() {
	req := dto.CreateFiscalYearRequest{
		Name:      "FY2025",
		StartDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	s.fiscalYears.On("CreateFiscalYear", mock.Anything, accountant, req).
		Return(&domain.FiscalYear{FiscalYearID: "fy-2025", Name: "FY2025", StartDate: req.StartDate, EndDate: req.EndDate}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/fiscal-years", req, accountant)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var fy domain.FiscalYear
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fy))
	s.Equal("fy-2025", fy.FiscalYearID)
}

func (s *HandlerTestSuite) TestCreateFiscalYear_EndBeforeStart() {
	body := `{"name": "bad", "startDate": "2025-12-31T00:00:00Z", "endDate": "2025-01-01T00:00:00Z"}`
	w := s.do(http.MethodPost, "/api/v1/fiscal-years", body, accountant)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCreateFiscalYear_Overlap() {
	s.fiscalYears.On("CreateFiscalYear", mock.Anything, accountant, mock.Anything).Return(nil, apperrors.ErrDuplicate).Once()

	body := `{"name": "FY2025b", "startDate": "2025-06-01T00:00:00Z", "endDate": "2026-05-31T00:00:00Z"}`
	w := s.do(http.MethodPost, "/api/v1/fiscal-years", body, accountant)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestListAndGetFiscalYears() {
	s.fiscalYears.On("ListFiscalYears", mock.Anything).Return([]domain.FiscalYear{{FiscalYearID: "fy-2024"}, {FiscalYearID: "fy-2025"}}, nil).Once()
	s.fiscalYears.On("GetFiscalYear", mock.Anything, "fy-2025").Return(&domain.FiscalYear{FiscalYearID: "fy-2025"}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/fiscal-years", nil, nazer)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []domain.FiscalYear
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Len(list, 2)

	w = s.do(http.MethodGet, "/api/v1/fiscal-years/fy-2025", nil, nazer)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestCloseFiscalYear_Preview() {
	s.fiscalYears.On("CloseFiscalYear", mock.Anything, accountant, "fy-2025", true).Return(&domain.ClosingSummary{
		FiscalYearID:   "fy-2025",
		TotalRevenues:  decimal.NewFromInt(400000),
		TotalExpenses:  decimal.NewFromInt(100000),
		NetIncome:      decimal.NewFromInt(300000),
		NazerShare:     decimal.NewFromInt(30000),
		WaqifShare:     decimal.NewFromInt(13500),
		Distributed:    decimal.NewFromInt(200000),
		CorpusResidual: decimal.NewFromInt(56500),
		PreviewOnly:    true,
	}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/fiscal-years/fy-2025/close", dto.CloseFiscalYearRequest{PreviewOnly: true}, accountant)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var summary domain.ClosingSummary
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &summary))
	s.True(summary.PreviewOnly)
	s.True(summary.CorpusResidual.Equal(decimal.NewFromInt(56500)))
	s.Nil(summary.ClosingEntryID)
}

func (s *HandlerTestSuite) TestCloseFiscalYear_NoBodyClosesForReal() {
	entryID := "je-close"
	s.fiscalYears.On("CloseFiscalYear", mock.Anything, nazer, "fy-2025", false).
		Return(&domain.ClosingSummary{FiscalYearID: "fy-2025", ClosingEntryID: &entryID}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/fiscal-years/fy-2025/close", nil, nazer)

	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlerTestSuite) TestCloseFiscalYear_AlreadyClosed() {
	s.fiscalYears.On("CloseFiscalYear", mock.Anything, admin, "fy-2024", false).
		Return(nil, &apperrors.ClosedPeriodError{FiscalYearID: "fy-2024"}).Once()

	w := s.do(http.MethodPost, "/api/v1/fiscal-years/fy-2024/close", `{"previewOnly": false}`, admin)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestTrialBalance() {
	s.ledger.On("GetTrialBalance", mock.Anything, "fy-2025").Return(&domain.TrialBalance{
		FiscalYearID: "fy-2025",
		TotalDebits:  decimal.NewFromInt(1500),
		TotalCredits: decimal.NewFromInt(1500),
		ByAccount: []domain.TrialBalanceRow{
			{AccountID: "acc-1-1-1", AccountCode: "1.1.1", AccountType: domain.Asset, Debit: decimal.NewFromInt(1500)},
			{AccountID: "acc-4-1", AccountCode: "4.1", AccountType: domain.Revenue, Credit: decimal.NewFromInt(1500)},
		},
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/fiscal-years/fy-2025/trial-balance", nil, nazer)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.TrialBalanceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.IsBalanced)
	s.Require().Len(resp.ByAccount, 2)
	s.True(resp.ByAccount[1].Net.Equal(decimal.NewFromInt(1500)))
}
