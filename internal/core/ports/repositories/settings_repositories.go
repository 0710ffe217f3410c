package repositories

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

// SettingsRepositoryFacade stores versioned distribution settings.
type SettingsRepositoryFacade interface {
	// FindActiveSettings returns the single active version.
	FindActiveSettings(ctx context.Context) (*domain.DistributionSettings, error)

	FindSettingsByID(ctx context.Context, settingsID string) (*domain.DistributionSettings, error)

	// ListSettings returns every version, newest first.
	ListSettings(ctx context.Context) ([]domain.DistributionSettings, error)

	// SaveSettingsVersion assigns the next version number, stores the record as the active
	// version and deactivates the previous one.
	SaveSettingsVersion(ctx context.Context, settings *domain.DistributionSettings) error
}
