package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributionStatus is the approval workflow state.
type DistributionStatus string

const (
	DistributionDraft     DistributionStatus = "draft"
	DistributionSubmitted DistributionStatus = "submitted"
	DistributionApproved  DistributionStatus = "approved"
	DistributionRejected  DistributionStatus = "rejected"
	DistributionDisbursed DistributionStatus = "disbursed"
)

// IsTerminal reports whether no further transition is possible.
func (s DistributionStatus) IsTerminal() bool {
	return s == DistributionRejected || s == DistributionDisbursed
}

// PaymentStatus tracks a single beneficiary payout.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Period is an inclusive date range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether p and o share at least one day.
func (p Period) Overlaps(o Period) bool {
	return Overlaps(p.Start, p.End, o.Start, o.End)
}

// RevenueSnapshot is the aggregated revenue/expense figure for a period, supplied externally.
type RevenueSnapshot struct {
	TotalRevenues decimal.Decimal `json:"totalRevenues"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

// Breakdown holds the sequential deduction amounts, rounded to the minor unit.
// Maintenance + Nazer + Charity + Reserve + Distributable == Net exactly.
type Breakdown struct {
	TotalRevenues       decimal.Decimal `json:"totalRevenues"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	NetRevenues         decimal.Decimal `json:"netRevenues"`
	MaintenanceAmount   decimal.Decimal `json:"maintenanceAmount"`
	NazerShare          decimal.Decimal `json:"nazerShare"`
	WaqifCharity        decimal.Decimal `json:"waqifCharity"`
	ReserveAmount       decimal.Decimal `json:"reserveAmount"`
	DistributableAmount decimal.Decimal `json:"distributableAmount"`
}

// DistributionDetail is one beneficiary's allocation within a distribution.
type DistributionDetail struct {
	DetailID        string          `json:"detailID"`
	DistributionID  string          `json:"distributionID"`
	LineNumber      int             `json:"lineNumber"`
	BeneficiaryID   string          `json:"beneficiaryID"`
	BeneficiaryType BeneficiaryType `json:"beneficiaryType"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	VoucherID       *string         `json:"voucherID,omitempty"`
}

// Distribution is one distribution cycle. It is mutated only by workflow transitions.
type Distribution struct {
	DistributionID string `json:"distributionID"`
	Period         Period `json:"period"`
	Breakdown
	BeneficiariesCount int                  `json:"beneficiariesCount"`
	Status             DistributionStatus   `json:"status"`
	RejectionReason    *string              `json:"rejectionReason,omitempty"`
	ApprovalNotes      *string              `json:"approvalNotes,omitempty"`
	Settings           DistributionSettings `json:"settings"` // snapshot used for the computation
	ClonedFromID       *string              `json:"clonedFromID,omitempty"`
	JournalEntryID     *string              `json:"journalEntryID,omitempty"`
	DisbursedAt        *time.Time           `json:"disbursedAt,omitempty"`
	Details            []DistributionDetail `json:"details,omitempty"`
	AuditFields
}

// DistributionPreview is the calculator's pure output.
type DistributionPreview struct {
	Period Period `json:"period"`
	Breakdown
	Settings    DistributionSettings `json:"settings"`
	Allocations []Allocation         `json:"allocations"`
}

// Allocation is one beneficiary's computed share.
type Allocation struct {
	BeneficiaryID   string          `json:"beneficiaryID"`
	BeneficiaryType BeneficiaryType `json:"beneficiaryType"`
	Amount          decimal.Decimal `json:"amount"`
}

// ApprovalAction names a recorded workflow transition.
type ApprovalAction string

const (
	ActionCreate   ApprovalAction = "create"
	ActionSubmit   ApprovalAction = "submit"
	ActionApprove  ApprovalAction = "approve"
	ActionReject   ApprovalAction = "reject"
	ActionDisburse ApprovalAction = "disburse"
	ActionClone    ApprovalAction = "clone"
)

// DistributionApproval is an append-only audit record of one transition.
type DistributionApproval struct {
	ApprovalID     string             `json:"approvalID"`
	DistributionID string             `json:"distributionID"`
	Action         ApprovalAction     `json:"action"`
	FromStatus     DistributionStatus `json:"fromStatus"`
	ToStatus       DistributionStatus `json:"toStatus"`
	ActorID        string             `json:"actorID"`
	ActorRole      Role               `json:"actorRole"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}
