package services

import (
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/calculator"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with all services initialized.
// publisher may be nil, in which case domain events are dropped.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	return newServiceContainer(cfg, repos, publisher, nil)
}

func newServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher, now func() time.Time) *portssvc.ServiceContainer {
	calc := calculator.New(calculator.Policy{DeductionCeiling: cfg.DeductionCeiling})

	ledgerSvc := NewLedgerService(repos, now)
	executor := NewDisbursementExecutor(repos, ledgerSvc, DisbursementOptions{
		PostingMode: cfg.DisbursementPostingMode,
		Accounts:    cfg.Ledger,
	}, now)

	return &portssvc.ServiceContainer{
		Account:      NewAccountService(repos, now),
		Ledger:       ledgerSvc,
		FiscalYear:   NewFiscalYearService(repos, ledgerSvc, cfg.Ledger.CorpusCode, publisher, now),
		Settings:     NewSettingsService(repos, calc, now),
		Distribution: NewDistributionService(repos, calc, executor, publisher, now),
	}
}
