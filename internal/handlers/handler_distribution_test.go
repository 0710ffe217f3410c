package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var q1 = domain.Period{
	Start: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
}

const q1JSON = `{"periodStart": "2025-01-01T00:00:00Z", "periodEnd": "2025-03-31T00:00:00Z"}`

func (s *HandlerTestSuite) TestPreview() {
	s.distributions.On("Preview", mock.Anything, q1).Return(&domain.DistributionPreview{
		Period: q1,
		Breakdown: domain.Breakdown{
			NetRevenues:         decimal.NewFromInt(100000),
			DistributableAmount: decimal.NewFromInt(76950),
		},
		Allocations: []domain.Allocation{{BeneficiaryID: "b1", Amount: decimal.NewFromInt(76950)}},
	}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/preview", q1JSON, cashier)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var p domain.DistributionPreview
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &p))
	s.True(p.DistributableAmount.Equal(decimal.NewFromInt(76950)))
}

func (s *HandlerTestSuite) TestPreview_InvertedPeriod() {
	body := `{"periodStart": "2025-03-31T00:00:00Z", "periodEnd": "2025-01-01T00:00:00Z"}`
	w := s.do(http.MethodPost, "/api/v1/distributions/preview", body, accountant)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCreateDistribution() {
	s.distributions.On("Create", mock.Anything, accountant, q1).
		Return(&domain.Distribution{DistributionID: "dist-1", Period: q1, Status: domain.DistributionDraft}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions", q1JSON, accountant)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var d domain.Distribution
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &d))
	s.Equal(domain.DistributionDraft, d.Status)
}

func (s *HandlerTestSuite) TestCreateDistribution_NoSurplus() {
	s.distributions.On("Create", mock.Anything, accountant, q1).
		Return(nil, &apperrors.CalculationError{Reason: apperrors.NoDistributableSurplus, Detail: "net revenues -10.00"}).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions", q1JSON, accountant)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("NO_DISTRIBUTABLE_SURPLUS", s.decodeError(w)["code"])
}

func (s *HandlerTestSuite) TestCreateDistribution_DuplicatePeriod() {
	s.distributions.On("Create", mock.Anything, accountant, q1).
		Return(nil, &apperrors.DuplicatePeriodError{ExistingID: "dist-0", PeriodStart: q1.Start, PeriodEnd: q1.End}).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions", q1JSON, accountant)

	s.Equal(http.StatusConflict, w.Code)
	body := s.decodeError(w)
	s.Equal("DUPLICATE_PERIOD", body["code"])
	s.Equal("dist-0", body["details"].(map[string]any)["existingID"])
}

func (s *HandlerTestSuite) TestListDistributions_StatusFilter() {
	s.distributions.On("ListDistributions", mock.Anything, mock.MatchedBy(func(st *domain.DistributionStatus) bool {
		return st != nil && *st == domain.DistributionApproved
	}), 20, (*string)(nil)).Return([]domain.Distribution{{DistributionID: "dist-1", Status: domain.DistributionApproved}}, nil, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/distributions?status=approved", nil, cashier)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListDistributionsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Distributions, 1)
	s.Nil(resp.NextToken)
}

func (s *HandlerTestSuite) TestListDistributions_UnknownStatus() {
	w := s.do(http.MethodGet, "/api/v1/distributions?status=paid", nil, cashier)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetDistribution_NotFound() {
	s.distributions.On("GetDistribution", mock.Anything, "dist-x").
		Return(nil, fmt.Errorf("distribution dist-x: %w", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodGet, "/api/v1/distributions/dist-x", nil, accountant)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestSubmit_Stale() {
	s.distributions.On("Submit", mock.Anything, accountant, "dist-1").Return(nil, &apperrors.StaleCalculationError{
		DistributionID: "dist-1", Field: "net_revenues", Stored: "100000.00", Fresh: "98000.00",
	}).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/submit", nil, accountant)

	s.Equal(http.StatusConflict, w.Code)
	body := s.decodeError(w)
	s.Equal("STALE_CALCULATION", body["code"])
	s.Equal("98000.00", body["details"].(map[string]any)["fresh"])
}

func (s *HandlerTestSuite) TestApprove_WithoutBody() {
	s.distributions.On("Approve", mock.Anything, nazer, "dist-1", "").
		Return(&domain.Distribution{DistributionID: "dist-1", Status: domain.DistributionApproved}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/approve", nil, nazer)

	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlerTestSuite) TestApprove_WithNotes() {
	s.distributions.On("Approve", mock.Anything, nazer, "dist-1", "checked against bank statement").
		Return(&domain.Distribution{DistributionID: "dist-1", Status: domain.DistributionApproved}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/approve",
		dto.ApproveDistributionRequest{Notes: "checked against bank statement"}, nazer)

	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlerTestSuite) TestApprove_ByAccountantForbidden() {
	s.distributions.On("Approve", mock.Anything, accountant, "dist-1", "").
		Return(nil, &apperrors.PermissionDeniedError{Role: "accountant", Action: string(domain.CapApproveDistribution)}).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/approve", nil, accountant)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerTestSuite) TestReject_RequiresReason() {
	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/reject", `{"reason": ""}`, nazer)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestReject() {
	reason := "expenses not reconciled"
	s.distributions.On("Reject", mock.Anything, nazer, "dist-1", reason).
		Return(&domain.Distribution{DistributionID: "dist-1", Status: domain.DistributionRejected, RejectionReason: &reason}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/reject", dto.RejectDistributionRequest{Reason: reason}, nazer)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var d domain.Distribution
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &d))
	s.Require().NotNil(d.RejectionReason)
	s.Equal(reason, *d.RejectionReason)
}

func (s *HandlerTestSuite) TestDisburse() {
	s.distributions.On("Disburse", mock.Anything, cashier, "dist-1").Return(&domain.DisbursementResult{
		DistributionID:  "dist-1",
		JournalEntryIDs: []string{"je-9"},
		VoucherIDs:      []string{"pv-1", "pv-2"},
	}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/disburse", nil, cashier)

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res domain.DisbursementResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Len(res.VoucherIDs, 2)
}

func (s *HandlerTestSuite) TestDisburse_ClosedPeriodKeepsConflictStatus() {
	s.distributions.On("Disburse", mock.Anything, cashier, "dist-1").Return(nil, &apperrors.DisbursementError{
		DistributionID: "dist-1",
		Err:            &apperrors.ClosedPeriodError{FiscalYearID: "fy-2025", Date: q1.End},
	}).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/disburse", nil, cashier)

	s.Equal(http.StatusConflict, w.Code)
	s.Equal("CLOSED_PERIOD", s.decodeError(w)["code"])
}

func (s *HandlerTestSuite) TestDisburse_UnexpectedFailure() {
	s.distributions.On("Disburse", mock.Anything, cashier, "dist-1").
		Return(nil, &apperrors.DisbursementError{DistributionID: "dist-1", Err: errUnexpected}).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/disburse", nil, cashier)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("disbursement failed; nothing was written", s.decodeError(w)["error"])
}

func (s *HandlerTestSuite) TestClone() {
	source := "dist-1"
	s.distributions.On("Clone", mock.Anything, accountant, "dist-1").
		Return(&domain.Distribution{DistributionID: "dist-2", Status: domain.DistributionDraft, ClonedFromID: &source}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/distributions/dist-1/clone", nil, accountant)

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *HandlerTestSuite) TestReadOnlySubresources() {
	s.distributions.On("Recompute", mock.Anything, "dist-1").Return(&domain.DistributionPreview{Period: q1}, nil).Once()
	s.distributions.On("ListApprovals", mock.Anything, "dist-1").Return([]domain.DistributionApproval{
		{Action: domain.ActionCreate, ToStatus: domain.DistributionDraft},
		{Action: domain.ActionSubmit, FromStatus: domain.DistributionDraft, ToStatus: domain.DistributionSubmitted},
	}, nil).Once()
	s.distributions.On("ListVouchers", mock.Anything, "dist-1").Return([]domain.PaymentVoucher{}, nil).Once()

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/distributions/dist-1/recompute", nil, nazer).Code)

	w := s.do(http.MethodGet, "/api/v1/distributions/dist-1/approvals", nil, nazer)
	s.Require().Equal(http.StatusOK, w.Code)
	var approvals []domain.DistributionApproval
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &approvals))
	s.Len(approvals, 2)

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/distributions/dist-1/vouchers", nil, cashier).Code)
}
