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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fiscalYearColumns = `fiscal_year_id, name, start_date, end_date, is_closed, closed_at, closed_by,
	closing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalYearRepository struct {
	BaseRepository
}

func newPgxFiscalYearRepository(pool *pgxpool.Pool) *PgxFiscalYearRepository {
	return &PgxFiscalYearRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalYearRepositoryFacade = (*PgxFiscalYearRepository)(nil)

// SaveFiscalYear inserts the year unless an existing year overlaps its range.
func (r *PgxFiscalYearRepository) SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error {
	m := mapping.ToModelFiscalYear(fy)
	query := `
		INSERT INTO fiscal_years (` + fiscalYearColumns + `)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		WHERE NOT EXISTS (
			SELECT 1 FROM fiscal_years WHERE start_date <= $4 AND end_date >= $3
		);
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.FiscalYearID, m.Name, m.StartDate, m.EndDate, m.IsClosed, m.ClosedAt, m.ClosedBy,
		m.ClosingEntryID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: fiscal year %s already exists", apperrors.ErrDuplicate, m.FiscalYearID)
		}
		return fmt.Errorf("failed to save fiscal year %s: %w", m.FiscalYearID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal year %s overlaps an existing fiscal year", apperrors.ErrDuplicate, m.Name)
	}
	return nil
}

func (r *PgxFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	return r.findOne(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE fiscal_year_id = $1`, fiscalYearID)
}

func (r *PgxFiscalYearRepository) FindFiscalYearByIDForUpdate(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	return r.findOne(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE fiscal_year_id = $1 FOR UPDATE`, fiscalYearID)
}

// FindFiscalYearCovering takes a shared lock so a concurrent close waits for the posting to finish.
func (r *PgxFiscalYearRepository) FindFiscalYearCovering(ctx context.Context, date time.Time) (*domain.FiscalYear, error) {
	return r.findOne(ctx,
		`SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE start_date <= $1 AND end_date >= $1 FOR SHARE`,
		date.UTC().Truncate(24*time.Hour))
}

func (r *PgxFiscalYearRepository) findOne(ctx context.Context, query string, arg any) (*domain.FiscalYear, error) {
	rows, err := r.db(ctx).Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal year %v: %w", arg, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.FiscalYear])
	if err != nil {
		return nil, notFound(err, "failed to scan fiscal year %v", arg)
	}
	fy := mapping.ToDomainFiscalYear(m)
	return &fy, nil
}

func (r *PgxFiscalYearRepository) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FiscalYear])
	if err != nil {
		return nil, fmt.Errorf("failed to scan fiscal years: %w", err)
	}
	return mapping.ToDomainFiscalYearSlice(ms), nil
}

// MarkFiscalYearClosed closes an open year. An empty closingEntryID leaves the column NULL.
func (r *PgxFiscalYearRepository) MarkFiscalYearClosed(ctx context.Context, fiscalYearID string, closingEntryID string, userID string, now time.Time) error {
	var entryID *string
	if closingEntryID != "" {
		entryID = &closingEntryID
	}
	cmdTag, err := r.db(ctx).Exec(ctx, `
		UPDATE fiscal_years
		SET is_closed = TRUE, closed_at = $2, closed_by = $3, closing_entry_id = $4,
		    last_updated_at = $2, last_updated_by = $3
		WHERE fiscal_year_id = $1 AND NOT is_closed`,
		fiscalYearID, now, userID, entryID)
	if err != nil {
		return fmt.Errorf("failed to close fiscal year %s: %w", fiscalYearID, err)
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.FindFiscalYearByID(ctx, fiscalYearID); err != nil {
		return err
	}
	return &apperrors.StaleStateError{Resource: "fiscal year", ID: fiscalYearID, Expected: "open", Actual: "closed"}
}
