package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentVoucher is a row of the payment_vouchers table.
type PaymentVoucher struct {
	VoucherID      string          `db:"voucher_id"`
	VoucherNumber  string          `db:"voucher_number"`
	DistributionID string          `db:"distribution_id"`
	DetailID       string          `db:"detail_id"`
	BeneficiaryID  string          `db:"beneficiary_id"`
	Amount         decimal.Decimal `db:"amount"`
	Status         string          `db:"status"`
	JournalEntryID *string         `db:"journal_entry_id"`
	PaidAt         time.Time       `db:"paid_at"`
	AuditFields
}

// Beneficiary is a row of the externally maintained beneficiaries table.
type Beneficiary struct {
	BeneficiaryID string `db:"beneficiary_id"`
	FullName      string `db:"full_name"`
	Relationship  string `db:"relationship"` // Arabic or English label
}
