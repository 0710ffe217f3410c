package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribution is a row of the distributions table. The settings used for the
// computation are stored as a JSON snapshot.
type Distribution struct {
	DistributionID      string          `db:"distribution_id"`
	PeriodStart         time.Time       `db:"period_start"`
	PeriodEnd           time.Time       `db:"period_end"`
	TotalRevenues       decimal.Decimal `db:"total_revenues"`
	TotalExpenses       decimal.Decimal `db:"total_expenses"`
	NetRevenues         decimal.Decimal `db:"net_revenues"`
	MaintenanceAmount   decimal.Decimal `db:"maintenance_amount"`
	NazerShare          decimal.Decimal `db:"nazer_share"`
	WaqifCharity        decimal.Decimal `db:"waqif_charity"`
	ReserveAmount       decimal.Decimal `db:"reserve_amount"`
	DistributableAmount decimal.Decimal `db:"distributable_amount"`
	BeneficiariesCount  int             `db:"beneficiaries_count"`
	Status              string          `db:"status"`
	RejectionReason     *string         `db:"rejection_reason"`
	ApprovalNotes       *string         `db:"approval_notes"`
	SettingsSnapshot    []byte          `db:"settings_snapshot"`
	ClonedFromID        *string         `db:"cloned_from_id"`
	JournalEntryID      *string         `db:"journal_entry_id"`
	DisbursedAt         *time.Time      `db:"disbursed_at"`
	AuditFields
}

// DistributionDetail is a row of the distribution_details table.
type DistributionDetail struct {
	DetailID        string          `db:"detail_id"`
	DistributionID  string          `db:"distribution_id"`
	LineNumber      int             `db:"line_number"`
	BeneficiaryID   string          `db:"beneficiary_id"`
	BeneficiaryType string          `db:"beneficiary_type"`
	AllocatedAmount decimal.Decimal `db:"allocated_amount"`
	PaymentStatus   string          `db:"payment_status"`
	VoucherID       *string         `db:"voucher_id"`
}

// DistributionApproval is a row of the append-only distribution_approvals table.
type DistributionApproval struct {
	ApprovalID     string    `db:"approval_id"`
	DistributionID string    `db:"distribution_id"`
	Action         string    `db:"action"`
	FromStatus     string    `db:"from_status"`
	ToStatus       string    `db:"to_status"`
	ActorID        string    `db:"actor_id"`
	ActorRole      string    `db:"actor_role"`
	Notes          string    `db:"notes"`
	CreatedAt      time.Time `db:"created_at"`
}
