package pgsql

import (
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	voucherRepo := newPgxVoucherRepository(dbPool)
	sourceRepo := newPgxSourceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:        newTxManager(dbPool),
		AccountRepo:      newPgxAccountRepository(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		FiscalYearRepo:   newPgxFiscalYearRepository(dbPool),
		SettingsRepo:     newPgxSettingsRepository(dbPool),
		DistributionRepo: newPgxDistributionRepository(dbPool),
		VoucherRepo:      voucherRepo,
		SequenceRepo:     voucherRepo,
		RevenueSource:    sourceRepo,
		Beneficiaries:    sourceRepo,
	}
}
