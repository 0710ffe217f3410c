package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributionRule selects how the distributable pool is split among beneficiaries.
type DistributionRule string

const (
	RuleSharia DistributionRule = "sharia" // شرعي
	RuleEqual  DistributionRule = "equal"  // متساوي
)

// DistributionSettings is one immutable version of the percentage policy.
// A distribution keeps a copy of the version it was computed with.
type DistributionSettings struct {
	SettingsID                string           `json:"settingsID"`
	Version                   int              `json:"version"`
	MaintenancePercentage     decimal.Decimal  `json:"maintenancePercentage"`
	NazerPercentage           decimal.Decimal  `json:"nazerPercentage"`
	WaqifCharityPercentage    decimal.Decimal  `json:"waqifCharityPercentage"`
	ReservePercentage         decimal.Decimal  `json:"reservePercentage"`
	DistributionRule          DistributionRule `json:"distributionRule"`
	WivesShareRatio           decimal.Decimal  `json:"wivesShareRatio"`
	IncludeOtherBeneficiaries bool             `json:"includeOtherBeneficiaries"`
	IsActive                  bool             `json:"isActive"`
	EffectiveFrom             time.Time        `json:"effectiveFrom"`
	AuditFields
}

// TotalDeductionPercentage is the nominal sum of the four deduction percentages.
func (s DistributionSettings) TotalDeductionPercentage() decimal.Decimal {
	return s.MaintenancePercentage.
		Add(s.NazerPercentage).
		Add(s.WaqifCharityPercentage).
		Add(s.ReservePercentage)
}
