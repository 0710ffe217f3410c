// Package memory implements every repository port on in-process maps. Transactions are
// serialized by a single mutex and roll back by restoring a snapshot taken at Begin.
// It backs the service tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type txKey struct{}

// datedAmount is one externally sourced revenue or expense record.
type datedAmount struct {
	date   time.Time
	amount decimal.Decimal
}

type state struct {
	accounts      map[string]domain.Account
	entries       map[string]domain.JournalEntry
	fiscalYears   map[string]domain.FiscalYear
	settings      map[string]domain.DistributionSettings
	distributions map[string]domain.Distribution
	approvals     []domain.DistributionApproval
	vouchers      map[string]domain.PaymentVoucher
	sequences     map[string]int64
	revenues      []datedAmount
	expenses      []datedAmount
	beneficiaries []domain.Beneficiary
}

func newState() *state {
	return &state{
		accounts:      make(map[string]domain.Account),
		entries:       make(map[string]domain.JournalEntry),
		fiscalYears:   make(map[string]domain.FiscalYear),
		settings:      make(map[string]domain.DistributionSettings),
		distributions: make(map[string]domain.Distribution),
		vouchers:      make(map[string]domain.PaymentVoucher),
		sequences:     make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:      make(map[string]domain.Account, len(s.accounts)),
		entries:       make(map[string]domain.JournalEntry, len(s.entries)),
		fiscalYears:   make(map[string]domain.FiscalYear, len(s.fiscalYears)),
		settings:      make(map[string]domain.DistributionSettings, len(s.settings)),
		distributions: make(map[string]domain.Distribution, len(s.distributions)),
		approvals:     append([]domain.DistributionApproval(nil), s.approvals...),
		vouchers:      make(map[string]domain.PaymentVoucher, len(s.vouchers)),
		sequences:     make(map[string]int64, len(s.sequences)),
		revenues:      append([]datedAmount(nil), s.revenues...),
		expenses:      append([]datedAmount(nil), s.expenses...),
		beneficiaries: append([]domain.Beneficiary(nil), s.beneficiaries...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = copyEntry(v)
	}
	for k, v := range s.fiscalYears {
		c.fiscalYears[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	for k, v := range s.distributions {
		c.distributions[k] = copyDistribution(v)
	}
	for k, v := range s.vouchers {
		c.vouchers[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = append([]domain.JournalLine(nil), e.Lines...)
	return e
}

func copyDistribution(d domain.Distribution) domain.Distribution {
	d.Details = append([]domain.DistributionDetail(nil), d.Details...)
	return d
}

// Store is an in-memory implementation of every repository port.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:        s,
		AccountRepo:      s,
		JournalRepo:      s,
		FiscalYearRepo:   s,
		SettingsRepo:     s,
		DistributionRepo: s,
		VoucherRepo:      s,
		SequenceRepo:     s,
		RevenueSource:    s,
		Beneficiaries:    s,
	}
}

// WithinTransaction implements portsrepo.TransactionManager.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// view runs fn against the current state, taking the lock unless ctx already holds it.
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// AddRevenue records an externally sourced revenue amount.
func (s *Store) AddRevenue(date time.Time, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.revenues = append(s.data.revenues, datedAmount{date: date, amount: amount})
}

// AddExpense records an externally sourced expense amount.
func (s *Store) AddExpense(date time.Time, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.expenses = append(s.data.expenses, datedAmount{date: date, amount: amount})
}

// SetBeneficiaries replaces the active beneficiary list.
func (s *Store) SetBeneficiaries(beneficiaries []domain.Beneficiary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.beneficiaries = append([]domain.Beneficiary(nil), beneficiaries...)
}

var (
	_ portsrepo.TransactionManager           = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade      = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade      = (*Store)(nil)
	_ portsrepo.FiscalYearRepositoryFacade   = (*Store)(nil)
	_ portsrepo.SettingsRepositoryFacade     = (*Store)(nil)
	_ portsrepo.DistributionRepositoryFacade = (*Store)(nil)
	_ portsrepo.VoucherRepositoryFacade      = (*Store)(nil)
	_ portsrepo.SequenceRepository           = (*Store)(nil)
	_ portsrepo.RevenueSource                = (*Store)(nil)
	_ portsrepo.BeneficiaryRegistry          = (*Store)(nil)
)
