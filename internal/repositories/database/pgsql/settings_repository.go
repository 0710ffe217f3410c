package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/waqf_ledger/internal/models"
	"github.com/SscSPs/waqf_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingsColumns = `settings_id, version, maintenance_percentage, nazer_percentage, waqif_charity_percentage,
	reserve_percentage, distribution_rule, wives_share_ratio, include_other_beneficiaries, is_active,
	effective_from, created_at, created_by, last_updated_at, last_updated_by`

// settingsLockKey serializes version assignment across writers.
const settingsLockKey int64 = 0x5e771265

type PgxSettingsRepository struct {
	BaseRepository
}

func newPgxSettingsRepository(pool *pgxpool.Pool) *PgxSettingsRepository {
	return &PgxSettingsRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) FindActiveSettings(ctx context.Context) (*domain.DistributionSettings, error) {
	s, err := r.findOne(ctx, `SELECT `+settingsColumns+` FROM distribution_settings WHERE is_active`)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("no active distribution settings")
	}
	return s, err
}

func (r *PgxSettingsRepository) FindSettingsByID(ctx context.Context, settingsID string) (*domain.DistributionSettings, error) {
	return r.findOne(ctx, `SELECT `+settingsColumns+` FROM distribution_settings WHERE settings_id = $1`, settingsID)
}

func (r *PgxSettingsRepository) findOne(ctx context.Context, query string, args ...any) (*domain.DistributionSettings, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution settings: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.DistributionSettings])
	if err != nil {
		return nil, notFound(err, "failed to scan distribution settings")
	}
	s := mapping.ToDomainSettings(m)
	return &s, nil
}

func (r *PgxSettingsRepository) ListSettings(ctx context.Context) ([]domain.DistributionSettings, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+settingsColumns+` FROM distribution_settings ORDER BY version DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list distribution settings: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.DistributionSettings])
	if err != nil {
		return nil, fmt.Errorf("failed to scan distribution settings: %w", err)
	}
	return mapping.ToDomainSettingsSlice(ms), nil
}

// SaveSettingsVersion must run inside a transaction: the advisory lock is released at commit.
func (r *PgxSettingsRepository) SaveSettingsVersion(ctx context.Context, settings *domain.DistributionSettings) error {
	db := r.db(ctx)
	if _, err := db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, settingsLockKey); err != nil {
		return fmt.Errorf("failed to lock distribution settings: %w", err)
	}

	var latest int
	if err := db.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM distribution_settings`).Scan(&latest); err != nil {
		return fmt.Errorf("failed to read latest settings version: %w", err)
	}
	if _, err := db.Exec(ctx, `UPDATE distribution_settings SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("failed to deactivate previous settings: %w", err)
	}

	settings.Version = latest + 1
	settings.IsActive = true
	m := mapping.ToModelSettings(*settings)
	_, err := db.Exec(ctx, `INSERT INTO distribution_settings (`+settingsColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.SettingsID, m.Version, m.MaintenancePercentage, m.NazerPercentage, m.WaqifCharityPercentage,
		m.ReservePercentage, m.DistributionRule, m.WivesShareRatio, m.IncludeOtherBeneficiaries, m.IsActive,
		m.EffectiveFrom, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: settings version %d already exists", apperrors.ErrDuplicate, m.Version)
		}
		return fmt.Errorf("failed to save settings version %d: %w", m.Version, err)
	}
	return nil
}
