package dto

import (
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSettingsRequest defines a new distribution settings version.
// ReservePercentage and WivesShareRatio default to zero when omitted.
type CreateSettingsRequest struct {
	MaintenancePercentage     decimal.Decimal         `json:"maintenancePercentage"`
	NazerPercentage           decimal.Decimal         `json:"nazerPercentage"`
	WaqifCharityPercentage    decimal.Decimal         `json:"waqifCharityPercentage"`
	ReservePercentage         decimal.Decimal         `json:"reservePercentage"`
	DistributionRule          domain.DistributionRule `json:"distributionRule" binding:"required,oneof=sharia equal"`
	WivesShareRatio           decimal.Decimal         `json:"wivesShareRatio"`
	IncludeOtherBeneficiaries bool                    `json:"includeOtherBeneficiaries"`
	EffectiveFrom             *time.Time              `json:"effectiveFrom"`
}
