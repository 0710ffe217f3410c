package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/calculator"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
)

type settingsService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	settingsRepo portsrepo.SettingsRepositoryFacade
	calc         *calculator.Calculator
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repos portsrepo.RepositoryProvider, calc *calculator.Calculator, now func() time.Time) portssvc.SettingsSvcFacade {
	return &settingsService{
		BaseService:  newBaseService(now),
		txManager:    repos.TxManager,
		settingsRepo: repos.SettingsRepo,
		calc:         calc,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// CreateSettings stores a new version and makes it the only active one. Earlier versions stay
// readable so distributions can be reproduced from the version they were computed with.
func (s *settingsService) CreateSettings(ctx context.Context, actor domain.Actor, req dto.CreateSettingsRequest) (*domain.DistributionSettings, error) {
	if err := s.Authorize(ctx, actor, domain.CapManageSettings); err != nil {
		return nil, err
	}
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	now := s.Now()
	effectiveFrom := now
	if req.EffectiveFrom != nil {
		effectiveFrom = req.EffectiveFrom.UTC()
	}
	settings := domain.DistributionSettings{
		SettingsID:                uuid.NewString(),
		MaintenancePercentage:     req.MaintenancePercentage,
		NazerPercentage:           req.NazerPercentage,
		WaqifCharityPercentage:    req.WaqifCharityPercentage,
		ReservePercentage:         req.ReservePercentage,
		DistributionRule:          req.DistributionRule,
		WivesShareRatio:           req.WivesShareRatio,
		IncludeOtherBeneficiaries: req.IncludeOtherBeneficiaries,
		EffectiveFrom:             effectiveFrom,
		AuditFields:               domain.NewAuditFields(actor.UserID, now),
	}
	if err := calculator.ValidateSettings(settings, s.calc.Ceiling()); err != nil {
		return nil, err
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.settingsRepo.SaveSettingsVersion(ctx, &settings)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save distribution settings")
		return nil, err
	}
	s.LogInfo(ctx, "Distribution settings version created",
		slog.String("settings_id", settings.SettingsID),
		slog.Int("version", settings.Version),
		slog.String("rule", string(settings.DistributionRule)))
	return &settings, nil
}

func (s *settingsService) GetActiveSettings(ctx context.Context) (*domain.DistributionSettings, error) {
	settings, err := s.settingsRepo.FindActiveSettings(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("no active distribution settings")
		}
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) GetSettings(ctx context.Context, settingsID string) (*domain.DistributionSettings, error) {
	settings, err := s.settingsRepo.FindSettingsByID(ctx, settingsID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("distribution settings not found: " + settingsID)
		}
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) ListSettings(ctx context.Context) ([]domain.DistributionSettings, error) {
	return s.settingsRepo.ListSettings(ctx)
}
