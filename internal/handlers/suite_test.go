package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/handlers"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/SscSPs/waqf_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "waqf-test"
)

var (
	accountant = domain.Actor{UserID: "u-accountant", Role: domain.RoleAccountant}
	nazer      = domain.Actor{UserID: "u-nazer", Role: domain.RoleNazer}
	cashier    = domain.Actor{UserID: "u-cashier", Role: domain.RoleCashier}
	admin      = domain.Actor{UserID: "u-admin", Role: domain.RoleAdmin}

	errUnexpected = errors.New("read tcp 10.0.0.5:5432: connection reset by peer")
)

// HandlerTestSuite drives the full router with the real AuthMiddleware and mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	accounts      *MockAccountService
	ledger        *MockLedgerService
	fiscalYears   *MockFiscalYearService
	settings      *MockSettingsService
	distributions *MockDistributionService
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.accounts = new(MockAccountService)
	s.ledger = new(MockLedgerService)
	s.fiscalYears = new(MockFiscalYearService)
	s.settings = new(MockSettingsService)
	s.distributions = new(MockDistributionService)

	cfg := &config.Config{JWTSecret: testSecret, JWTIssuer: testIssuer, IsProduction: true}
	handlers.RegisterRoutes(s.router, cfg, &portssvc.ServiceContainer{
		Account:      s.accounts,
		Ledger:       s.ledger,
		FiscalYear:   s.fiscalYears,
		Settings:     s.settings,
		Distribution: s.distributions,
	})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.accounts.AssertExpectations(s.T())
	s.ledger.AssertExpectations(s.T())
	s.fiscalYears.AssertExpectations(s.T())
	s.settings.AssertExpectations(s.T())
	s.distributions.AssertExpectations(s.T())
}

// tokenFor signs a bearer token for actor.
func (s *HandlerTestSuite) tokenFor(actor domain.Actor) string {
	token, err := middleware.SignToken(testSecret, testIssuer, actor.UserID, actor.Role, time.Hour)
	s.Require().NoError(err)
	return token
}

// do serves a request as actor; a zero actor sends no Authorization header.
// body may be a string (sent verbatim) or any value to be JSON encoded.
func (s *HandlerTestSuite) do(method, path string, body any, actor domain.Actor) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor.UserID != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokenFor(actor))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// decodeError parses an error body.
func (s *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (s *HandlerTestSuite) TestHomeAndHealth() {
	w := s.do(http.MethodGet, "/health", nil, domain.Actor{})
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())

	w = s.do(http.MethodGet, "/", nil, domain.Actor{})
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Waqf ledger API v1")
}

func (s *HandlerTestSuite) TestRequiresBearerToken() {
	w := s.do(http.MethodGet, "/api/v1/accounts", nil, domain.Actor{})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestRejectsTokenFromOtherIssuer() {
	token, err := middleware.SignToken(testSecret, "someone-else", "u1", domain.RoleAdmin, time.Hour)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
}
