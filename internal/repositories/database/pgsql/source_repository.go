package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/waqf_ledger/internal/models"
	"github.com/SscSPs/waqf_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSourceRepository reads the tables owned by the rental, expense and beneficiary modules.
type PgxSourceRepository struct {
	BaseRepository
}

func newPgxSourceRepository(pool *pgxpool.Pool) *PgxSourceRepository {
	return &PgxSourceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.RevenueSource = (*PgxSourceRepository)(nil)
var _ portsrepo.BeneficiaryRegistry = (*PgxSourceRepository)(nil)

// SumForPeriod totals paid rental payments and approved expenses within the period.
func (r *PgxSourceRepository) SumForPeriod(ctx context.Context, period domain.Period) (domain.RevenueSnapshot, error) {
	var snapshot domain.RevenueSnapshot
	err := r.db(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM rental_payments
			 WHERE status = 'paid' AND payment_date BETWEEN $1 AND $2),
			(SELECT COALESCE(SUM(amount), 0) FROM expenses
			 WHERE status = 'approved' AND expense_date BETWEEN $1 AND $2)`,
		period.Start, period.End).Scan(&snapshot.TotalRevenues, &snapshot.TotalExpenses)
	if err != nil {
		return domain.RevenueSnapshot{}, fmt.Errorf("failed to sum revenues and expenses: %w", err)
	}
	return snapshot, nil
}

// ListActiveBeneficiaries returns active beneficiaries in a stable order, which fixes
// who absorbs the rounding remainder.
func (r *PgxSourceRepository) ListActiveBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT beneficiary_id, full_name, relationship FROM beneficiaries
		WHERE status = 'active' ORDER BY beneficiary_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list beneficiaries: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Beneficiary])
	if err != nil {
		return nil, fmt.Errorf("failed to scan beneficiaries: %w", err)
	}
	return mapping.ToDomainBeneficiarySlice(ms), nil
}
