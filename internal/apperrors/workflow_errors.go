package apperrors

import (
	"fmt"
	"time"
)

// CalculationReason identifies why the distribution calculator refused to produce a preview.
type CalculationReason string

const (
	NoDistributableSurplus   CalculationReason = "NO_DISTRIBUTABLE_SURPLUS"
	DeductionCeilingExceeded CalculationReason = "DEDUCTION_CEILING_EXCEEDED"
	InvalidPercentage        CalculationReason = "INVALID_PERCENTAGE"
	NoEligibleBeneficiaries  CalculationReason = "NO_ELIGIBLE_BENEFICIARIES"
	UnknownDistributionRule  CalculationReason = "UNKNOWN_DISTRIBUTION_RULE"
)

// CalculationError is returned by the distribution calculator.
type CalculationError struct {
	Reason CalculationReason
	Detail string
}

func (e *CalculationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("distribution calculation failed: %s", e.Reason)
	}
	return fmt.Sprintf("distribution calculation failed: %s: %s", e.Reason, e.Detail)
}

func (e *CalculationError) Unwrap() error { return ErrValidation }

// DuplicatePeriodError is returned when another active distribution overlaps the requested period.
type DuplicatePeriodError struct {
	ExistingID  string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (e *DuplicatePeriodError) Error() string {
	return fmt.Sprintf("distribution %s already covers an overlapping period (%s to %s)",
		e.ExistingID, e.PeriodStart.Format(time.DateOnly), e.PeriodEnd.Format(time.DateOnly))
}

func (e *DuplicatePeriodError) Unwrap() error { return ErrDuplicate }

// StaleCalculationError is returned by submit when the stored preview no longer
// matches a fresh recomputation.
type StaleCalculationError struct {
	DistributionID string
	Field          string
	Stored         string
	Fresh          string
}

func (e *StaleCalculationError) Error() string {
	return fmt.Sprintf("distribution %s is stale: %s was %s, recomputed %s; re-draft required",
		e.DistributionID, e.Field, e.Stored, e.Fresh)
}

func (e *StaleCalculationError) Unwrap() error { return ErrConflict }

// StaleStateError is returned when an optimistic status check fails.
type StaleStateError struct {
	Resource string
	ID       string
	Expected string
	Actual   string
}

func (e *StaleStateError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("%s %s is no longer in state %s", e.Resource, e.ID, e.Expected)
	}
	return fmt.Sprintf("%s %s is in state %s, expected %s", e.Resource, e.ID, e.Actual, e.Expected)
}

func (e *StaleStateError) Unwrap() error { return ErrConflict }

// PermissionDeniedError is returned when the caller's role may not perform an action.
type PermissionDeniedError struct {
	Role   string
	Action string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}

func (e *PermissionDeniedError) Unwrap() error { return ErrForbidden }

// DisbursementError wraps any failure that aborted a disbursement.
type DisbursementError struct {
	DistributionID string
	Err            error
}

func (e *DisbursementError) Error() string {
	return fmt.Sprintf("disbursement of distribution %s failed: %v", e.DistributionID, e.Err)
}

func (e *DisbursementError) Unwrap() error { return e.Err }
