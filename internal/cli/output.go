package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/utils"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePreviewText(w io.Writer, p *domain.DistributionPreview) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value string
	}{
		{"Total revenues", utils.FormatMoney(p.TotalRevenues)},
		{"Total expenses", utils.FormatMoney(p.TotalExpenses)},
		{"Net revenues", utils.FormatMoney(p.NetRevenues)},
		{"Maintenance (" + utils.FormatPercentage(p.Settings.MaintenancePercentage) + ")", utils.FormatMoney(p.MaintenanceAmount)},
		{"Nazer share (" + utils.FormatPercentage(p.Settings.NazerPercentage) + ")", utils.FormatMoney(p.NazerShare)},
		{"Waqif charity (" + utils.FormatPercentage(p.Settings.WaqifCharityPercentage) + ")", utils.FormatMoney(p.WaqifCharity)},
		{"Reserve (" + utils.FormatPercentage(p.Settings.ReservePercentage) + ")", utils.FormatMoney(p.ReserveAmount)},
		{"Distributable", utils.FormatMoney(p.DistributableAmount)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.label, r.value)
	}
	fmt.Fprintf(tw, "\nBeneficiary\tType\tAmount\n")
	for _, a := range p.Allocations {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.BeneficiaryID, a.BeneficiaryType, utils.FormatMoney(a.Amount))
	}
	return tw.Flush()
}

func writeClosingText(w io.Writer, s *domain.ClosingSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Fiscal year\t%s\n", s.FiscalYearID)
	fmt.Fprintf(tw, "Total revenues\t%s\n", utils.FormatMoney(s.TotalRevenues))
	fmt.Fprintf(tw, "Total expenses\t%s\n", utils.FormatMoney(s.TotalExpenses))
	fmt.Fprintf(tw, "Net income\t%s\n", utils.FormatMoney(s.NetIncome))
	fmt.Fprintf(tw, "Nazer share\t%s\n", utils.FormatMoney(s.NazerShare))
	fmt.Fprintf(tw, "Waqif share\t%s\n", utils.FormatMoney(s.WaqifShare))
	fmt.Fprintf(tw, "Distributed\t%s\n", utils.FormatMoney(s.Distributed))
	fmt.Fprintf(tw, "Corpus residual\t%s\n", utils.FormatMoney(s.CorpusResidual))
	fmt.Fprintf(tw, "Settings version\t%d\n", s.SettingsVersion)
	return tw.Flush()
}
