package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/waqf_ledger/internal/core/calculator"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/core/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/SscSPs/waqf_ledger/internal/platform/config"
	"github.com/SscSPs/waqf_ledger/internal/repositories/memory"
)

var (
	accountant = domain.Actor{UserID: "u-accountant", Role: domain.RoleAccountant}
	nazer      = domain.Actor{UserID: "u-nazer", Role: domain.RoleNazer}
	cashier    = domain.Actor{UserID: "u-cashier", Role: domain.RoleCashier}
	admin      = domain.Actor{UserID: "u-admin", Role: domain.RoleAdmin}
)

// Chart codes seeded by newEngine.
const (
	codeCash        = "1.1.1"
	codePayable     = "2.1.1"
	codeCorpus      = "3.1"
	codeRent        = "4.1"
	codeMaintenance = "5.1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func firstQuarter() domain.Period {
	return domain.Period{Start: day(2025, time.January, 1), End: day(2025, time.March, 31)}
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []domain.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.DomainEvent(nil), p.events...)
}

// MockEventPublisher is a testify mock of portssvc.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// engine wires every service onto one memory store with a controllable clock.
type engine struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	repos    portsrepo.RepositoryProvider
	clock    time.Time
	events   *recordingPublisher
	ledger   portssvc.LedgerSvcFacade
	accounts portssvc.AccountSvcFacade
	settings portssvc.SettingsSvcFacade
	fiscal   portssvc.FiscalYearSvcFacade
	dist     portssvc.DistributionSvcFacade
	byCode   map[string]domain.Account
	year     *domain.FiscalYear
}

type engineOption func(*engineConfig)

type engineConfig struct {
	postingMode string
	ledger      config.LedgerAccounts
	publisher   portssvc.EventPublisher
}

func withPostingMode(mode string) engineOption {
	return func(c *engineConfig) { c.postingMode = mode }
}

func withPayableCode(code string) engineOption {
	return func(c *engineConfig) { c.ledger.DistributionsPayableCode = code }
}

func withPublisher(p portssvc.EventPublisher) engineOption {
	return func(c *engineConfig) { c.publisher = p }
}

// newEngine seeds a chart of accounts, an open 2025 fiscal year and a 10/10/5/0 equal-split policy.
func newEngine(t *testing.T, opts ...engineOption) *engine {
	t.Helper()
	cfg := engineConfig{
		postingMode: config.PostingConsolidated,
		ledger: config.LedgerAccounts{
			CashCode:                 codeCash,
			DistributionsPayableCode: codePayable,
			CorpusCode:               codeCorpus,
		},
	}
	for _, o := range opts {
		o(&cfg)
	}

	e := &engine{
		t:      t,
		ctx:    context.Background(),
		store:  memory.NewStore(),
		clock:  time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC),
		events: &recordingPublisher{},
		byCode: make(map[string]domain.Account),
	}
	publisher := cfg.publisher
	if publisher == nil {
		publisher = e.events
	}
	now := func() time.Time { return e.clock }
	e.repos = memory.NewRepositoryProvider(e.store)
	calc := calculator.New(calculator.Policy{DeductionCeiling: decimal.NewFromInt(50)})

	ledger := services.NewLedgerService(e.repos, now)
	e.ledger = ledger
	e.accounts = services.NewAccountService(e.repos, now)
	e.settings = services.NewSettingsService(e.repos, calc, now)
	e.fiscal = services.NewFiscalYearService(e.repos, ledger, cfg.ledger.CorpusCode, publisher, now)
	executor := services.NewDisbursementExecutor(e.repos, ledger, services.DisbursementOptions{
		PostingMode: cfg.postingMode,
		Accounts:    cfg.ledger,
	}, now)
	e.dist = services.NewDistributionService(e.repos, calc, executor, publisher, now)

	for _, a := range []struct{ code, name string }{
		{"1", "Assets"}, {"1.1", "Current assets"}, {codeCash, "Cash at bank"},
		{"2", "Liabilities"}, {"2.1", "Current liabilities"}, {codePayable, "Distributions payable"},
		{"3", "Equity"}, {codeCorpus, "Endowment corpus"},
		{"4", "Revenue"}, {codeRent, "Rental income"},
		{"5", "Expenses"}, {codeMaintenance, "Maintenance expense"},
	} {
		acc, err := e.accounts.CreateAccount(e.ctx, admin, dto.CreateAccountRequest{Code: a.code, Name: a.name})
		require.NoError(t, err)
		e.byCode[a.code] = *acc
	}

	fy, err := e.fiscal.CreateFiscalYear(e.ctx, admin, dto.CreateFiscalYearRequest{
		Name:      "FY2025",
		StartDate: day(2025, time.January, 1),
		EndDate:   day(2025, time.December, 31),
	})
	require.NoError(t, err)
	e.year = fy

	e.useSettings("10", "10", "5", "0", domain.RuleEqual)
	return e
}

func (e *engine) useSettings(maint, nazerPct, charity, reserve string, rule domain.DistributionRule) *domain.DistributionSettings {
	e.t.Helper()
	s, err := e.settings.CreateSettings(e.ctx, admin, dto.CreateSettingsRequest{
		MaintenancePercentage:  dec(maint),
		NazerPercentage:        dec(nazerPct),
		WaqifCharityPercentage: dec(charity),
		ReservePercentage:      dec(reserve),
		DistributionRule:       rule,
	})
	require.NoError(e.t, err)
	return s
}

func (e *engine) accountID(code string) string {
	return e.byCode[code].AccountID
}

func (e *engine) balance(code string) decimal.Decimal {
	e.t.Helper()
	acc, err := e.accounts.GetAccountByID(e.ctx, e.accountID(code))
	require.NoError(e.t, err)
	return acc.CurrentBalance
}

// fiveHeirs registers five equal-rule beneficiaries.
func (e *engine) fiveHeirs() {
	e.store.SetBeneficiaries([]domain.Beneficiary{
		{BeneficiaryID: "b-1", FullName: "Beneficiary 1", BeneficiaryType: domain.BeneficiarySon},
		{BeneficiaryID: "b-2", FullName: "Beneficiary 2", BeneficiaryType: domain.BeneficiarySon},
		{BeneficiaryID: "b-3", FullName: "Beneficiary 3", BeneficiaryType: domain.BeneficiaryDaughter},
		{BeneficiaryID: "b-4", FullName: "Beneficiary 4", BeneficiaryType: domain.BeneficiaryDaughter},
		{BeneficiaryID: "b-5", FullName: "Beneficiary 5", BeneficiaryType: domain.BeneficiaryWife},
	})
}

// entry builds a two-line manual entry.
func (e *engine) entry(date time.Time, debitCode, creditCode, amount string) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:   date,
		Description: "test entry",
		Lines: []dto.JournalLineRequest{
			{AccountID: e.accountID(debitCode), DebitAmount: dec(amount), CreditAmount: decimal.Zero},
			{AccountID: e.accountID(creditCode), DebitAmount: decimal.Zero, CreditAmount: dec(amount)},
		},
	}
}

// approvedDistribution drives a first-quarter distribution of 100000 revenue to approved.
func (e *engine) approvedDistribution() *domain.Distribution {
	e.t.Helper()
	e.fiveHeirs()
	e.store.AddRevenue(day(2025, time.February, 10), dec("100000"))
	d, err := e.dist.Create(e.ctx, accountant, firstQuarter())
	require.NoError(e.t, err)
	_, err = e.dist.Submit(e.ctx, accountant, d.DistributionID)
	require.NoError(e.t, err)
	d, err = e.dist.Approve(e.ctx, nazer, d.DistributionID, "")
	require.NoError(e.t, err)
	return d
}
