package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/waqf_ledger/internal/models"
	"github.com/SscSPs/waqf_ledger/internal/utils/mapping"
	"github.com/SscSPs/waqf_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const distributionColumns = `distribution_id, period_start, period_end, total_revenues, total_expenses,
	net_revenues, maintenance_amount, nazer_share, waqif_charity, reserve_amount, distributable_amount,
	beneficiaries_count, status, rejection_reason, approval_notes, settings_snapshot, cloned_from_id,
	journal_entry_id, disbursed_at, created_at, created_by, last_updated_at, last_updated_by`

const detailColumns = `detail_id, distribution_id, line_number, beneficiary_id, beneficiary_type,
	allocated_amount, payment_status, voucher_id`

const approvalColumns = `approval_id, distribution_id, action, from_status, to_status, actor_id,
	actor_role, notes, created_at`

// periodLockKey serializes the overlap check with the insert or status change that follows it.
const periodLockKey int64 = 0x0d157b17

type PgxDistributionRepository struct {
	BaseRepository
}

func newPgxDistributionRepository(pool *pgxpool.Pool) *PgxDistributionRepository {
	return &PgxDistributionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DistributionRepositoryFacade = (*PgxDistributionRepository)(nil)

func (r *PgxDistributionRepository) FindDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	return r.findDistribution(ctx, `SELECT `+distributionColumns+` FROM distributions WHERE distribution_id = $1`, distributionID)
}

func (r *PgxDistributionRepository) FindDistributionByIDForUpdate(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	return r.findDistribution(ctx, `SELECT `+distributionColumns+` FROM distributions WHERE distribution_id = $1 FOR UPDATE`, distributionID)
}

func (r *PgxDistributionRepository) findDistribution(ctx context.Context, query string, distributionID string) (*domain.Distribution, error) {
	rows, err := r.db(ctx).Query(ctx, query, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution %s: %w", distributionID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Distribution])
	if err != nil {
		return nil, notFound(err, "failed to scan distribution %s", distributionID)
	}
	d, err := mapping.ToDomainDistribution(m)
	if err != nil {
		return nil, err
	}

	detailRows, err := r.db(ctx).Query(ctx,
		`SELECT `+detailColumns+` FROM distribution_details WHERE distribution_id = $1 ORDER BY line_number`, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query details of distribution %s: %w", distributionID, err)
	}
	details, err := pgx.CollectRows(detailRows, pgx.RowToStructByName[models.DistributionDetail])
	if err != nil {
		return nil, fmt.Errorf("failed to scan details of distribution %s: %w", distributionID, err)
	}
	d.Details = mapping.ToDomainDistributionDetailSlice(details)
	return &d, nil
}

// ListDistributions returns a page of distributions without details, newest period first.
func (r *PgxDistributionRepository) ListDistributions(ctx context.Context, status *domain.DistributionStatus, limit int, nextToken *string) ([]domain.Distribution, *string, error) {
	var args []any
	query := `SELECT ` + distributionColumns + ` FROM distributions WHERE TRUE`
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	cur, hasCursor, err := pagination.Decode(nextToken)
	if err != nil {
		return nil, nil, err
	}
	if hasCursor {
		args = append(args, cur.SortKey, cur.CreatedAt)
		query += fmt.Sprintf(` AND (period_start, created_at) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY period_start DESC, created_at DESC LIMIT $%d`, len(args))

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Distribution])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan distributions: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token = pagination.After(last.PeriodStart, last.CreatedAt).Token()
	}
	ds, err := mapping.ToDomainDistributionSlice(ms)
	if err != nil {
		return nil, nil, err
	}
	return ds, token, nil
}

// FindOverlappingDistributions takes a transaction-scoped advisory lock before reading, so two
// writers checking the same period are serialized until the first one commits.
func (r *PgxDistributionRepository) FindOverlappingDistributions(ctx context.Context, period domain.Period, statuses []domain.DistributionStatus) ([]domain.Distribution, error) {
	db := r.db(ctx)
	if _, err := db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, periodLockKey); err != nil {
		return nil, fmt.Errorf("failed to lock distribution periods: %w", err)
	}

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	rows, err := db.Query(ctx, `
		SELECT `+distributionColumns+` FROM distributions
		WHERE status = ANY($1) AND period_start <= $3 AND period_end >= $2
		ORDER BY period_start`,
		names, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping distributions: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Distribution])
	if err != nil {
		return nil, fmt.Errorf("failed to scan overlapping distributions: %w", err)
	}
	return mapping.ToDomainDistributionSlice(ms)
}

// SumDisbursedBetween totals distributable amounts disbursed on a UTC day within [from, to].
func (r *PgxDistributionRepository) SumDisbursedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(distributable_amount), 0) FROM distributions
		WHERE status = $1 AND (disbursed_at AT TIME ZONE 'UTC')::date BETWEEN $2 AND $3`,
		string(domain.DistributionDisbursed), from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum disbursed distributions: %w", err)
	}
	return total, nil
}

func (r *PgxDistributionRepository) ListApprovals(ctx context.Context, distributionID string) ([]domain.DistributionApproval, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+approvalColumns+` FROM distribution_approvals WHERE distribution_id = $1 ORDER BY created_at, approval_id`,
		distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals of distribution %s: %w", distributionID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.DistributionApproval])
	if err != nil {
		return nil, fmt.Errorf("failed to scan approvals: %w", err)
	}
	return mapping.ToDomainApprovalSlice(ms), nil
}

// SaveDistribution inserts the header and its details in one batch.
func (r *PgxDistributionRepository) SaveDistribution(ctx context.Context, distribution domain.Distribution) error {
	m, err := mapping.ToModelDistribution(distribution)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO distributions (`+distributionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		m.DistributionID, m.PeriodStart, m.PeriodEnd, m.TotalRevenues, m.TotalExpenses,
		m.NetRevenues, m.MaintenanceAmount, m.NazerShare, m.WaqifCharity, m.ReserveAmount, m.DistributableAmount,
		m.BeneficiariesCount, m.Status, m.RejectionReason, m.ApprovalNotes, m.SettingsSnapshot, m.ClonedFromID,
		m.JournalEntryID, m.DisbursedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	for _, detail := range distribution.Details {
		dm := mapping.ToModelDistributionDetail(detail)
		batch.Queue(`INSERT INTO distribution_details (`+detailColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			dm.DetailID, dm.DistributionID, dm.LineNumber, dm.BeneficiaryID, dm.BeneficiaryType,
			dm.AllocatedAmount, dm.PaymentStatus, dm.VoucherID)
	}
	return execBatch(ctx, r.db(ctx), batch, func(err error) error {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: distribution %s already exists", apperrors.ErrDuplicate, m.DistributionID)
		}
		return fmt.Errorf("failed to save distribution %s: %w", m.DistributionID, err)
	})
}

// UpdateDistributionStatus applies change only when the row is still in change.From.
func (r *PgxDistributionRepository) UpdateDistributionStatus(ctx context.Context, distributionID string, change portsrepo.StatusChange) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `
		UPDATE distributions
		SET status = $2,
		    rejection_reason = COALESCE($3, rejection_reason),
		    approval_notes = COALESCE($4, approval_notes),
		    journal_entry_id = COALESCE($5, journal_entry_id),
		    disbursed_at = COALESCE($6, disbursed_at),
		    last_updated_at = $7, last_updated_by = $8
		WHERE distribution_id = $1 AND status = $9`,
		distributionID, string(change.To), change.RejectionReason, change.ApprovalNotes,
		change.JournalEntryID, change.DisbursedAt, change.At, change.UserID, string(change.From))
	if err != nil {
		return fmt.Errorf("failed to update status of distribution %s: %w", distributionID, err)
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}

	var actual string
	err = r.db(ctx).QueryRow(ctx, `SELECT status FROM distributions WHERE distribution_id = $1`, distributionID).Scan(&actual)
	if err != nil {
		return notFound(err, "failed to read status of distribution %s", distributionID)
	}
	return &apperrors.StaleStateError{Resource: "distribution", ID: distributionID, Expected: string(change.From), Actual: actual}
}

func (r *PgxDistributionRepository) MarkDetailsPaid(ctx context.Context, distributionID string, voucherByDetail map[string]string) error {
	if len(voucherByDetail) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for detailID, voucherID := range voucherByDetail {
		batch.Queue(`UPDATE distribution_details SET payment_status = $3, voucher_id = $4
			WHERE distribution_id = $1 AND detail_id = $2`,
			distributionID, detailID, string(domain.PaymentPaid), voucherID)
	}
	return execBatch(ctx, r.db(ctx), batch, func(err error) error {
		return fmt.Errorf("failed to mark details of distribution %s paid: %w", distributionID, err)
	})
}

func (r *PgxDistributionRepository) SaveApproval(ctx context.Context, approval domain.DistributionApproval) error {
	m := mapping.ToModelApproval(approval)
	_, err := r.db(ctx).Exec(ctx, `INSERT INTO distribution_approvals (`+approvalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ApprovalID, m.DistributionID, m.Action, m.FromStatus, m.ToStatus, m.ActorID, m.ActorRole, m.Notes, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save approval for distribution %s: %w", m.DistributionID, err)
	}
	return nil
}

// execBatch sends batch and reports the first failing statement through wrap.
func execBatch(ctx context.Context, db querier, batch *pgx.Batch, wrap func(error) error) error {
	br := db.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = wrap(err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = wrap(err)
	}
	return batchErr
}
