package calculator

import (
	"fmt"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultDeductionCeiling is the policy ceiling on the sum of the four deduction percentages.
var DefaultDeductionCeiling = decimal.NewFromInt(50)

// Policy holds calculator configuration that is not part of a settings version.
type Policy struct {
	// DeductionCeiling caps the nominal sum of the deduction percentages.
	DeductionCeiling decimal.Decimal
}

// Calculator computes distribution previews.
type Calculator struct {
	policy Policy
}

// New creates a Calculator. A zero ceiling falls back to DefaultDeductionCeiling.
func New(policy Policy) *Calculator {
	if !policy.DeductionCeiling.IsPositive() {
		policy.DeductionCeiling = DefaultDeductionCeiling
	}
	return &Calculator{policy: policy}
}

// Ceiling returns the configured deduction ceiling.
func (c *Calculator) Ceiling() decimal.Decimal {
	return c.policy.DeductionCeiling
}

// Compute returns the preview for the period, or a *apperrors.CalculationError.
func (c *Calculator) Compute(period domain.Period, snapshot domain.RevenueSnapshot, settings domain.DistributionSettings, beneficiaries []domain.Beneficiary) (*domain.DistributionPreview, error) {
	if err := ValidateSettings(settings, c.policy.DeductionCeiling); err != nil {
		return nil, err
	}

	net := snapshot.TotalRevenues.Sub(snapshot.TotalExpenses)
	if !domain.RoundMoney(net).IsPositive() {
		return nil, &apperrors.CalculationError{
			Reason: apperrors.NoDistributableSurplus,
			Detail: fmt.Sprintf("net revenues %s", net.StringFixed(2)),
		}
	}

	breakdown := RunPipeline(net, settings)
	breakdown.TotalRevenues = domain.RoundMoney(snapshot.TotalRevenues)
	breakdown.TotalExpenses = domain.RoundMoney(snapshot.TotalExpenses)

	var allocations []domain.Allocation
	var err error
	switch settings.DistributionRule {
	case domain.RuleEqual:
		allocations, err = AllocateEqual(breakdown.DistributableAmount, beneficiaries)
	case domain.RuleSharia:
		allocations, err = AllocateSharia(breakdown.DistributableAmount, beneficiaries, settings.WivesShareRatio, settings.IncludeOtherBeneficiaries)
	default:
		err = &apperrors.CalculationError{Reason: apperrors.UnknownDistributionRule, Detail: string(settings.DistributionRule)}
	}
	if err != nil {
		return nil, err
	}

	return &domain.DistributionPreview{
		Period:      period,
		Breakdown:   breakdown,
		Settings:    settings,
		Allocations: allocations,
	}, nil
}

// ValidateSettings checks percentage bounds and the deduction ceiling.
func ValidateSettings(settings domain.DistributionSettings, ceiling decimal.Decimal) error {
	checks := []struct {
		name  string
		value decimal.Decimal
	}{
		{"maintenance_percentage", settings.MaintenancePercentage},
		{"nazer_percentage", settings.NazerPercentage},
		{"waqif_charity_percentage", settings.WaqifCharityPercentage},
		{"reserve_percentage", settings.ReservePercentage},
		{"wives_share_ratio", settings.WivesShareRatio},
	}
	for _, c := range checks {
		if c.value.IsNegative() || c.value.GreaterThan(domain.Hundred) {
			return &apperrors.CalculationError{
				Reason: apperrors.InvalidPercentage,
				Detail: fmt.Sprintf("%s must be between 0 and 100, got %s", c.name, c.value.String()),
			}
		}
	}
	if total := settings.TotalDeductionPercentage(); total.GreaterThan(ceiling) {
		return &apperrors.CalculationError{
			Reason: apperrors.DeductionCeilingExceeded,
			Detail: fmt.Sprintf("deductions total %s%% exceeds ceiling %s%%", total.String(), ceiling.String()),
		}
	}
	switch settings.DistributionRule {
	case domain.RuleEqual, domain.RuleSharia:
	default:
		return &apperrors.CalculationError{Reason: apperrors.UnknownDistributionRule, Detail: string(settings.DistributionRule)}
	}
	return nil
}
