package calculator

import (
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DeductionStep is one named stage of the sequential deduction chain.
type DeductionStep struct {
	Name       string
	percentage func(domain.DistributionSettings) decimal.Decimal
	assign     func(*domain.Breakdown, decimal.Decimal)
}

// Apply takes Percentage(settings)% of the running balance and returns the amount taken
// and the new running balance. Both carry full precision.
func (s DeductionStep) Apply(running decimal.Decimal, settings domain.DistributionSettings) (taken, remaining decimal.Decimal) {
	taken = running.Mul(s.percentage(settings)).Div(domain.Hundred)
	return taken, running.Sub(taken)
}

// Percentage returns the settings percentage this step applies.
func (s DeductionStep) Percentage(settings domain.DistributionSettings) decimal.Decimal {
	return s.percentage(settings)
}

// Pipeline is the fixed deduction order. It is not configurable per call.
var Pipeline = []DeductionStep{
	{
		Name:       "maintenance",
		percentage: func(s domain.DistributionSettings) decimal.Decimal { return s.MaintenancePercentage },
		assign:     func(b *domain.Breakdown, v decimal.Decimal) { b.MaintenanceAmount = v },
	},
	{
		Name:       "nazer",
		percentage: func(s domain.DistributionSettings) decimal.Decimal { return s.NazerPercentage },
		assign:     func(b *domain.Breakdown, v decimal.Decimal) { b.NazerShare = v },
	},
	{
		Name:       "waqif_charity",
		percentage: func(s domain.DistributionSettings) decimal.Decimal { return s.WaqifCharityPercentage },
		assign:     func(b *domain.Breakdown, v decimal.Decimal) { b.WaqifCharity = v },
	},
	{
		Name:       "reserve",
		percentage: func(s domain.DistributionSettings) decimal.Decimal { return s.ReservePercentage },
		assign:     func(b *domain.Breakdown, v decimal.Decimal) { b.ReserveAmount = v },
	},
}

// RunPipeline applies every step to net and returns the rounded breakdown.
// Intermediate amounts keep full precision; each deduction is rounded to the minor
// unit only when stored, and the distributable amount is whatever the rounded
// deductions leave of the rounded net, so the parts always sum to net exactly.
func RunPipeline(net decimal.Decimal, settings domain.DistributionSettings) domain.Breakdown {
	var b domain.Breakdown
	roundedNet := domain.RoundMoney(net)
	b.NetRevenues = roundedNet

	running := net
	deducted := decimal.Zero
	for _, step := range Pipeline {
		var taken decimal.Decimal
		taken, running = step.Apply(running, settings)
		rounded := domain.RoundMoney(taken)
		step.assign(&b, rounded)
		deducted = deducted.Add(rounded)
	}
	b.DistributableAmount = roundedNet.Sub(deducted)
	return b
}
