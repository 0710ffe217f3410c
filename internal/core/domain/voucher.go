package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus is the payment voucher state.
type VoucherStatus string

const (
	VoucherPaid VoucherStatus = "paid"
)

// PaymentVoucher is a payment instruction for one beneficiary share.
type PaymentVoucher struct {
	VoucherID      string          `json:"voucherID"`
	VoucherNumber  string          `json:"voucherNumber"`
	DistributionID string          `json:"distributionID"`
	DetailID       string          `json:"detailID"`
	BeneficiaryID  string          `json:"beneficiaryID"`
	Amount         decimal.Decimal `json:"amount"`
	Status         VoucherStatus   `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	PaidAt         time.Time       `json:"paidAt"`
	AuditFields
}

// DisbursementResult lists what a successful disbursement wrote.
type DisbursementResult struct {
	DistributionID  string   `json:"distributionID"`
	JournalEntryIDs []string `json:"journalEntryIDs"`
	VoucherIDs      []string `json:"voucherIDs"`
}
