package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/calculator"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// CalcInput is the YAML document accepted by `waqfctl calc --file`.
// Amounts and percentages are strings so they keep their exact decimal value.
type CalcInput struct {
	PeriodStart   string            `yaml:"period_start"`
	PeriodEnd     string            `yaml:"period_end"`
	Revenues      string            `yaml:"revenues"`
	Expenses      string            `yaml:"expenses"`
	Ceiling       string            `yaml:"deduction_ceiling"`
	Settings      CalcSettings      `yaml:"settings"`
	Beneficiaries []CalcBeneficiary `yaml:"beneficiaries"`
}

// CalcSettings mirrors one distribution settings version.
type CalcSettings struct {
	Maintenance   string `yaml:"maintenance_percentage"`
	Nazer         string `yaml:"nazer_percentage"`
	WaqifCharity  string `yaml:"waqif_charity_percentage"`
	Reserve       string `yaml:"reserve_percentage"`
	Rule          string `yaml:"distribution_rule"`
	WivesRatio    string `yaml:"wives_share_ratio"`
	IncludeOthers bool   `yaml:"include_other_beneficiaries"`
}

// CalcBeneficiary is one registry row; Type accepts the registry's Arabic or English labels.
type CalcBeneficiary struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file          string
		input         CalcInput
		beneficiaries []string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a distribution breakdown offline",
		Long: `Run the distribution calculator without touching storage.

Inputs come from --file (YAML) or from flags; flags given explicitly
override the file. Beneficiaries are passed as id:type, e.g. b1:son.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			merged := CalcInput{}
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				if err := yaml.Unmarshal(raw, &merged); err != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}
			}
			overrideFromFlags(cmd, &merged, input)
			if cmd.Flags().Changed("beneficiary") {
				merged.Beneficiaries = nil
				for _, b := range beneficiaries {
					id, typ, _ := strings.Cut(b, ":")
					merged.Beneficiaries = append(merged.Beneficiaries, CalcBeneficiary{ID: id, Type: typ})
				}
			}

			preview, err := RunCalc(merged)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), preview)
			}
			return writePreviewText(cmd.OutOrStdout(), preview)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "YAML input file")
	f.StringVar(&input.PeriodStart, "from", "", "period start (YYYY-MM-DD)")
	f.StringVar(&input.PeriodEnd, "to", "", "period end (YYYY-MM-DD)")
	f.StringVar(&input.Revenues, "revenues", "0", "total revenues of the period")
	f.StringVar(&input.Expenses, "expenses", "0", "total expenses of the period")
	f.StringVar(&input.Ceiling, "ceiling", "", "deduction ceiling percentage (default 50)")
	f.StringVar(&input.Settings.Maintenance, "maintenance", "0", "maintenance percentage")
	f.StringVar(&input.Settings.Nazer, "nazer", "0", "nazer percentage")
	f.StringVar(&input.Settings.WaqifCharity, "charity", "0", "waqif charity percentage")
	f.StringVar(&input.Settings.Reserve, "reserve", "0", "reserve percentage")
	f.StringVar(&input.Settings.Rule, "rule", string(domain.RuleEqual), "distribution rule (sharia|equal)")
	f.StringVar(&input.Settings.WivesRatio, "wives-ratio", "0", "wives share ratio for the sharia rule")
	f.BoolVar(&input.Settings.IncludeOthers, "include-others", false, "include 'other' beneficiaries in the sharia rule")
	f.StringSliceVarP(&beneficiaries, "beneficiary", "b", nil, "beneficiary as id:type (repeatable)")

	return cmd
}

func overrideFromFlags(cmd *cobra.Command, dst *CalcInput, flags CalcInput) {
	set := func(name string, target *string, value string) {
		if cmd.Flags().Changed(name) || *target == "" {
			*target = value
		}
	}
	set("from", &dst.PeriodStart, flags.PeriodStart)
	set("to", &dst.PeriodEnd, flags.PeriodEnd)
	set("revenues", &dst.Revenues, flags.Revenues)
	set("expenses", &dst.Expenses, flags.Expenses)
	set("ceiling", &dst.Ceiling, flags.Ceiling)
	set("maintenance", &dst.Settings.Maintenance, flags.Settings.Maintenance)
	set("nazer", &dst.Settings.Nazer, flags.Settings.Nazer)
	set("charity", &dst.Settings.WaqifCharity, flags.Settings.WaqifCharity)
	set("reserve", &dst.Settings.Reserve, flags.Settings.Reserve)
	set("rule", &dst.Settings.Rule, flags.Settings.Rule)
	set("wives-ratio", &dst.Settings.WivesRatio, flags.Settings.WivesRatio)
	if cmd.Flags().Changed("include-others") {
		dst.Settings.IncludeOthers = flags.Settings.IncludeOthers
	}
}

// RunCalc parses in and runs the calculator.
func RunCalc(in CalcInput) (*domain.DistributionPreview, error) {
	var period domain.Period
	var err error
	if in.PeriodStart != "" {
		if period.Start, err = time.Parse(time.DateOnly, in.PeriodStart); err != nil {
			return nil, fmt.Errorf("period start: %w", err)
		}
	}
	if in.PeriodEnd != "" {
		if period.End, err = time.Parse(time.DateOnly, in.PeriodEnd); err != nil {
			return nil, fmt.Errorf("period end: %w", err)
		}
	}

	p := decimalParser{}
	snapshot := domain.RevenueSnapshot{
		TotalRevenues: p.parse("revenues", in.Revenues),
		TotalExpenses: p.parse("expenses", in.Expenses),
	}
	settings := domain.DistributionSettings{
		Version:                   1,
		MaintenancePercentage:     p.parse("maintenance_percentage", in.Settings.Maintenance),
		NazerPercentage:           p.parse("nazer_percentage", in.Settings.Nazer),
		WaqifCharityPercentage:    p.parse("waqif_charity_percentage", in.Settings.WaqifCharity),
		ReservePercentage:         p.parse("reserve_percentage", in.Settings.Reserve),
		DistributionRule:          domain.DistributionRule(strings.ToLower(in.Settings.Rule)),
		WivesShareRatio:           p.parse("wives_share_ratio", in.Settings.WivesRatio),
		IncludeOtherBeneficiaries: in.Settings.IncludeOthers,
		IsActive:                  true,
	}
	ceiling := p.parse("deduction_ceiling", in.Ceiling)
	if p.err != nil {
		return nil, p.err
	}

	beneficiaries := make([]domain.Beneficiary, 0, len(in.Beneficiaries))
	for _, b := range in.Beneficiaries {
		beneficiaries = append(beneficiaries, domain.Beneficiary{
			BeneficiaryID:   b.ID,
			BeneficiaryType: domain.NormalizeBeneficiaryType(b.Type),
		})
	}

	calc := calculator.New(calculator.Policy{DeductionCeiling: ceiling})
	return calc.Compute(period, snapshot, settings, beneficiaries)
}

// decimalParser keeps the first parse error; empty strings parse as zero.
type decimalParser struct {
	err error
}

func (p *decimalParser) parse(field, s string) decimal.Decimal {
	if s == "" || p.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", field, err)
	}
	return d
}
