package handlers_test

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// result unpacks a (pointer, error) pair recorded on a mock.
func result[T any](args mock.Arguments) (T, error) {
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return result[*domain.Account](m.Called(ctx, accountID))
}
func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	return result[[]domain.Account](m.Called(ctx, limit, offset))
}
func (m *MockAccountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	return result[*domain.Account](m.Called(ctx, actor, req))
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	return m.Called(ctx, actor, accountID).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return result[*domain.JournalEntry](m.Called(ctx, entryID))
}
func (m *MockLedgerService) ListEntries(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, fiscalYearID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}
func (m *MockLedgerService) GetTrialBalance(ctx context.Context, fiscalYearID string) (*domain.TrialBalance, error) {
	return result[*domain.TrialBalance](m.Called(ctx, fiscalYearID))
}
func (m *MockLedgerService) PostEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	return result[*domain.JournalEntry](m.Called(ctx, actor, req))
}
func (m *MockLedgerService) CreateDraftEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	return result[*domain.JournalEntry](m.Called(ctx, actor, req))
}
func (m *MockLedgerService) PostDraftEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	return result[*domain.JournalEntry](m.Called(ctx, actor, entryID))
}
func (m *MockLedgerService) ReverseEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) (*domain.JournalEntry, error) {
	return result[*domain.JournalEntry](m.Called(ctx, actor, entryID, reason))
}
func (m *MockLedgerService) Post(ctx context.Context, entry domain.JournalEntry, userID string) (*domain.JournalEntry, error) {
	return result[*domain.JournalEntry](m.Called(ctx, entry, userID))
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock FiscalYearService ---
type MockFiscalYearService struct {
	mock.Mock
}

func (m *MockFiscalYearService) CreateFiscalYear(ctx context.Context, actor domain.Actor, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error) {
	return result[*domain.FiscalYear](m.Called(ctx, actor, req))
}
func (m *MockFiscalYearService) GetFiscalYear(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	return result[*domain.FiscalYear](m.Called(ctx, fiscalYearID))
}
func (m *MockFiscalYearService) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	return result[[]domain.FiscalYear](m.Called(ctx))
}
func (m *MockFiscalYearService) CloseFiscalYear(ctx context.Context, actor domain.Actor, fiscalYearID string, previewOnly bool) (*domain.ClosingSummary, error) {
	return result[*domain.ClosingSummary](m.Called(ctx, actor, fiscalYearID, previewOnly))
}

var _ portssvc.FiscalYearSvcFacade = (*MockFiscalYearService)(nil)

// --- Mock SettingsService ---
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) CreateSettings(ctx context.Context, actor domain.Actor, req dto.CreateSettingsRequest) (*domain.DistributionSettings, error) {
	return result[*domain.DistributionSettings](m.Called(ctx, actor, req))
}
func (m *MockSettingsService) GetActiveSettings(ctx context.Context) (*domain.DistributionSettings, error) {
	return result[*domain.DistributionSettings](m.Called(ctx))
}
func (m *MockSettingsService) GetSettings(ctx context.Context, settingsID string) (*domain.DistributionSettings, error) {
	return result[*domain.DistributionSettings](m.Called(ctx, settingsID))
}
func (m *MockSettingsService) ListSettings(ctx context.Context) ([]domain.DistributionSettings, error) {
	return result[[]domain.DistributionSettings](m.Called(ctx))
}

var _ portssvc.SettingsSvcFacade = (*MockSettingsService)(nil)

// --- Mock DistributionService ---
type MockDistributionService struct {
	mock.Mock
}

func (m *MockDistributionService) GetDistribution(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	return result[*domain.Distribution](m.Called(ctx, distributionID))
}
func (m *MockDistributionService) ListDistributions(ctx context.Context, status *domain.DistributionStatus, limit int, nextToken *string) ([]domain.Distribution, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Distribution), next, args.Error(2)
}
func (m *MockDistributionService) ListApprovals(ctx context.Context, distributionID string) ([]domain.DistributionApproval, error) {
	return result[[]domain.DistributionApproval](m.Called(ctx, distributionID))
}
func (m *MockDistributionService) ListVouchers(ctx context.Context, distributionID string) ([]domain.PaymentVoucher, error) {
	return result[[]domain.PaymentVoucher](m.Called(ctx, distributionID))
}
func (m *MockDistributionService) Preview(ctx context.Context, period domain.Period) (*domain.DistributionPreview, error) {
	return result[*domain.DistributionPreview](m.Called(ctx, period))
}
func (m *MockDistributionService) Recompute(ctx context.Context, distributionID string) (*domain.DistributionPreview, error) {
	return result[*domain.DistributionPreview](m.Called(ctx, distributionID))
}
func (m *MockDistributionService) Create(ctx context.Context, actor domain.Actor, period domain.Period) (*domain.Distribution, error) {
	return result[*domain.Distribution](m.Called(ctx, actor, period))
}
func (m *MockDistributionService) Submit(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	return result[*domain.Distribution](m.Called(ctx, actor, distributionID))
}
func (m *MockDistributionService) Approve(ctx context.Context, actor domain.Actor, distributionID string, notes string) (*domain.Distribution, error) {
	return result[*domain.Distribution](m.Called(ctx, actor, distributionID, notes))
}
func (m *MockDistributionService) Reject(ctx context.Context, actor domain.Actor, distributionID string, reason string) (*domain.Distribution, error) {
	return result[*domain.Distribution](m.Called(ctx, actor, distributionID, reason))
}
func (m *MockDistributionService) Disburse(ctx context.Context, actor domain.Actor, distributionID string) (*domain.DisbursementResult, error) {
	return result[*domain.DisbursementResult](m.Called(ctx, actor, distributionID))
}
func (m *MockDistributionService) Clone(ctx context.Context, actor domain.Actor, distributionID string) (*domain.Distribution, error) {
	return result[*domain.Distribution](m.Called(ctx, actor, distributionID))
}

var _ portssvc.DistributionSvcFacade = (*MockDistributionService)(nil)
