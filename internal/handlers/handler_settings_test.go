package handlers_test

import (
	"net/http"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (s *HandlerTestSuite) TestCreateSettings() {
	s.settings.On("CreateSettings", mock.Anything, admin, mock.MatchedBy(func(req dto.CreateSettingsRequest) bool {
		return req.DistributionRule == domain.RuleSharia &&
			req.NazerPercentage.Equal(decimal.NewFromInt(10)) &&
			req.ReservePercentage.IsZero()
	})).Return(&domain.DistributionSettings{SettingsID: "set-2", Version: 2, IsActive: true, DistributionRule: domain.RuleSharia}, nil).Once()

	body := `{"maintenancePercentage": "10", "nazerPercentage": "10", "waqifCharityPercentage": "5",
		"distributionRule": "sharia", "wivesShareRatio": "12.5"}`
	w := s.do(http.MethodPost, "/api/v1/settings", body, admin)

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *HandlerTestSuite) TestCreateSettings_UnknownRule() {
	w := s.do(http.MethodPost, "/api/v1/settings", `{"distributionRule": "lottery"}`, admin)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCreateSettings_CeilingExceeded() {
	s.settings.On("CreateSettings", mock.Anything, admin, mock.Anything).
		Return(nil, &apperrors.CalculationError{Reason: apperrors.DeductionCeilingExceeded}).Once()

	body := `{"maintenancePercentage": "30", "nazerPercentage": "30", "distributionRule": "equal"}`
	w := s.do(http.MethodPost, "/api/v1/settings", body, admin)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("DEDUCTION_CEILING_EXCEEDED", s.decodeError(w)["code"])
}

func (s *HandlerTestSuite) TestGetActiveSettings_NoneConfigured() {
	s.settings.On("GetActiveSettings", mock.Anything).
		Return(nil, apperrors.NewNotFoundError("no active distribution settings")).Once()

	w := s.do(http.MethodGet, "/api/v1/settings/active", nil, accountant)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestListAndGetSettings() {
	s.settings.On("ListSettings", mock.Anything).Return([]domain.DistributionSettings{{SettingsID: "set-1", Version: 1}}, nil).Once()
	s.settings.On("GetSettings", mock.Anything, "set-1").Return(&domain.DistributionSettings{SettingsID: "set-1", Version: 1}, nil).Once()

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/settings", nil, accountant).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/settings/set-1", nil, accountant).Code)
}
