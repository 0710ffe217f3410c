package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalYear is an accounting period. Once closed no entry may target it.
type FiscalYear struct {
	FiscalYearID   string     `json:"fiscalYearID"`
	Name           string     `json:"name"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        time.Time  `json:"endDate"`
	IsClosed       bool       `json:"isClosed"`
	ClosedAt       *time.Time `json:"closedAt,omitempty"`
	ClosedBy       *string    `json:"closedBy,omitempty"`
	ClosingEntryID *string    `json:"closingEntryID,omitempty"`
	AuditFields
}

// Contains reports whether the date falls inside the fiscal year, inclusive on both ends.
func (f FiscalYear) Contains(d time.Time) bool {
	day := truncateDay(d)
	return !day.Before(truncateDay(f.StartDate)) && !day.After(truncateDay(f.EndDate))
}

// Overlaps reports whether two inclusive date ranges share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !truncateDay(aEnd).Before(truncateDay(bStart)) && !truncateDay(bEnd).Before(truncateDay(aStart))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClosingSummary is the year-level reconciliation produced by fiscal year closing.
type ClosingSummary struct {
	FiscalYearID    string          `json:"fiscalYearID"`
	TotalRevenues   decimal.Decimal `json:"totalRevenues"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	NetIncome       decimal.Decimal `json:"netIncome"`
	NazerShare      decimal.Decimal `json:"nazerShare"`
	WaqifShare      decimal.Decimal `json:"waqifShare"`
	Distributed     decimal.Decimal `json:"distributed"` // beneficiary distributions disbursed in the year
	CorpusResidual  decimal.Decimal `json:"corpusResidual"`
	SettingsVersion int             `json:"settingsVersion"`
	PreviewOnly     bool            `json:"previewOnly"`
	ClosingEntryID  *string         `json:"closingEntryID,omitempty"`
}
