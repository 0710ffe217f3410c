package apperrors

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ImbalancedEntryError is returned when an entry's debits and credits differ.
type ImbalancedEntryError struct {
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
}

func (e *ImbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry is not balanced: debits %s, credits %s",
		e.TotalDebits.StringFixed(2), e.TotalCredits.StringFixed(2))
}

func (e *ImbalancedEntryError) Unwrap() error { return ErrValidation }

// ClosedPeriodError is returned when an entry targets a closed fiscal year
// or a date no fiscal year covers.
type ClosedPeriodError struct {
	FiscalYearID string
	Date         time.Time
}

func (e *ClosedPeriodError) Error() string {
	if e.FiscalYearID == "" {
		return fmt.Sprintf("no open fiscal year covers %s", e.Date.Format(time.DateOnly))
	}
	return fmt.Sprintf("fiscal year %s is closed (date %s)", e.FiscalYearID, e.Date.Format(time.DateOnly))
}

func (e *ClosedPeriodError) Unwrap() error { return ErrConflict }

// UnknownAccountError is returned when a line references a missing or inactive account.
type UnknownAccountError struct {
	AccountID string
	Inactive  bool
}

func (e *UnknownAccountError) Error() string {
	if e.Inactive {
		return fmt.Sprintf("account %s is inactive", e.AccountID)
	}
	return fmt.Sprintf("account %s does not exist", e.AccountID)
}

func (e *UnknownAccountError) Unwrap() error { return ErrValidation }
