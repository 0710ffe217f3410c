package mapping

import (
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/models"
)

func ToModelVoucher(d domain.PaymentVoucher) models.PaymentVoucher {
	return models.PaymentVoucher{
		VoucherID:      d.VoucherID,
		VoucherNumber:  d.VoucherNumber,
		DistributionID: d.DistributionID,
		DetailID:       d.DetailID,
		BeneficiaryID:  d.BeneficiaryID,
		Amount:         d.Amount,
		Status:         string(d.Status),
		JournalEntryID: d.JournalEntryID,
		PaidAt:         d.PaidAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainVoucherSlice(ms []models.PaymentVoucher) []domain.PaymentVoucher {
	ds := make([]domain.PaymentVoucher, len(ms))
	for i, m := range ms {
		ds[i] = domain.PaymentVoucher{
			VoucherID:      m.VoucherID,
			VoucherNumber:  m.VoucherNumber,
			DistributionID: m.DistributionID,
			DetailID:       m.DetailID,
			BeneficiaryID:  m.BeneficiaryID,
			Amount:         m.Amount,
			Status:         domain.VoucherStatus(m.Status),
			JournalEntryID: m.JournalEntryID,
			PaidAt:         m.PaidAt,
			AuditFields:    ToDomainAuditFields(m.AuditFields),
		}
	}
	return ds
}

// ToDomainBeneficiarySlice normalizes the registry's relationship labels.
func ToDomainBeneficiarySlice(ms []models.Beneficiary) []domain.Beneficiary {
	ds := make([]domain.Beneficiary, len(ms))
	for i, m := range ms {
		ds[i] = domain.Beneficiary{
			BeneficiaryID:   m.BeneficiaryID,
			FullName:        m.FullName,
			BeneficiaryType: domain.NormalizeBeneficiaryType(m.Relationship),
		}
	}
	return ds
}
