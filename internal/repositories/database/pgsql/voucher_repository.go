package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/waqf_ledger/internal/models"
	"github.com/SscSPs/waqf_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const voucherColumns = `voucher_id, voucher_number, distribution_id, detail_id, beneficiary_id, amount, status,
	journal_entry_id, paid_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool) *PgxVoucherRepository {
	return &PgxVoucherRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)
var _ portsrepo.SequenceRepository = (*PgxVoucherRepository)(nil)

func (r *PgxVoucherRepository) SaveVouchers(ctx context.Context, vouchers []domain.PaymentVoucher) error {
	if len(vouchers) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, v := range vouchers {
		m := mapping.ToModelVoucher(v)
		batch.Queue(`INSERT INTO payment_vouchers (`+voucherColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			m.VoucherID, m.VoucherNumber, m.DistributionID, m.DetailID, m.BeneficiaryID, m.Amount, m.Status,
			m.JournalEntryID, m.PaidAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	return execBatch(ctx, r.db(ctx), batch, func(err error) error {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment voucher already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save payment vouchers: %w", err)
	})
}

func (r *PgxVoucherRepository) ListVouchersByDistribution(ctx context.Context, distributionID string) ([]domain.PaymentVoucher, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+voucherColumns+` FROM payment_vouchers WHERE distribution_id = $1 ORDER BY voucher_number`, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers of distribution %s: %w", distributionID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PaymentVoucher])
	if err != nil {
		return nil, fmt.Errorf("failed to scan vouchers: %w", err)
	}
	return mapping.ToDomainVoucherSlice(ms), nil
}

// NextNumber upserts the series counter. The row stays locked until the surrounding
// transaction ends, so numbers are gap-free when the caller rolls back.
func (r *PgxVoucherRepository) NextNumber(ctx context.Context, series string) (int64, error) {
	var n int64
	err := r.db(ctx).QueryRow(ctx, `
		INSERT INTO document_sequences (series, last_value) VALUES ($1, 1)
		ON CONFLICT (series) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`, series).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate number in series %s: %w", series, err)
	}
	return n, nil
}
