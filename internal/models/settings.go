package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributionSettings is a row of the distribution_settings table.
type DistributionSettings struct {
	SettingsID                string          `db:"settings_id"`
	Version                   int             `db:"version"`
	MaintenancePercentage     decimal.Decimal `db:"maintenance_percentage"`
	NazerPercentage           decimal.Decimal `db:"nazer_percentage"`
	WaqifCharityPercentage    decimal.Decimal `db:"waqif_charity_percentage"`
	ReservePercentage         decimal.Decimal `db:"reserve_percentage"`
	DistributionRule          string          `db:"distribution_rule"`
	WivesShareRatio           decimal.Decimal `db:"wives_share_ratio"`
	IncludeOtherBeneficiaries bool            `db:"include_other_beneficiaries"`
	IsActive                  bool            `db:"is_active"`
	EffectiveFrom             time.Time       `db:"effective_from"`
	AuditFields
}
