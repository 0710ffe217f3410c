package services

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
)

// SettingsSvcFacade manages versioned distribution settings.
type SettingsSvcFacade interface {
	// CreateSettings validates and stores a new active version.
	CreateSettings(ctx context.Context, actor domain.Actor, req dto.CreateSettingsRequest) (*domain.DistributionSettings, error)
	GetActiveSettings(ctx context.Context) (*domain.DistributionSettings, error)
	GetSettings(ctx context.Context, settingsID string) (*domain.DistributionSettings, error)
	ListSettings(ctx context.Context) ([]domain.DistributionSettings, error)
}
