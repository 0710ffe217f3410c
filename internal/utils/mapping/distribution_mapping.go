package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/models"
)

// ToModelDistribution converts a domain Distribution (without details) to a model Distribution.
func ToModelDistribution(d domain.Distribution) (models.Distribution, error) {
	snapshot, err := json.Marshal(d.Settings)
	if err != nil {
		return models.Distribution{}, fmt.Errorf("failed to encode settings snapshot: %w", err)
	}
	return models.Distribution{
		DistributionID:      d.DistributionID,
		PeriodStart:         d.Period.Start,
		PeriodEnd:           d.Period.End,
		TotalRevenues:       d.TotalRevenues,
		TotalExpenses:       d.TotalExpenses,
		NetRevenues:         d.NetRevenues,
		MaintenanceAmount:   d.MaintenanceAmount,
		NazerShare:          d.NazerShare,
		WaqifCharity:        d.WaqifCharity,
		ReserveAmount:       d.ReserveAmount,
		DistributableAmount: d.DistributableAmount,
		BeneficiariesCount:  d.BeneficiariesCount,
		Status:              string(d.Status),
		RejectionReason:     d.RejectionReason,
		ApprovalNotes:       d.ApprovalNotes,
		SettingsSnapshot:    snapshot,
		ClonedFromID:        d.ClonedFromID,
		JournalEntryID:      d.JournalEntryID,
		DisbursedAt:         d.DisbursedAt,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainDistribution converts a model Distribution to a domain Distribution; details are attached separately.
func ToDomainDistribution(m models.Distribution) (domain.Distribution, error) {
	var settings domain.DistributionSettings
	if len(m.SettingsSnapshot) > 0 {
		if err := json.Unmarshal(m.SettingsSnapshot, &settings); err != nil {
			return domain.Distribution{}, fmt.Errorf("failed to decode settings snapshot of distribution %s: %w", m.DistributionID, err)
		}
	}
	return domain.Distribution{
		DistributionID: m.DistributionID,
		Period:         domain.Period{Start: m.PeriodStart.UTC(), End: m.PeriodEnd.UTC()},
		Breakdown: domain.Breakdown{
			TotalRevenues:       m.TotalRevenues,
			TotalExpenses:       m.TotalExpenses,
			NetRevenues:         m.NetRevenues,
			MaintenanceAmount:   m.MaintenanceAmount,
			NazerShare:          m.NazerShare,
			WaqifCharity:        m.WaqifCharity,
			ReserveAmount:       m.ReserveAmount,
			DistributableAmount: m.DistributableAmount,
		},
		BeneficiariesCount: m.BeneficiariesCount,
		Status:             domain.DistributionStatus(m.Status),
		RejectionReason:    m.RejectionReason,
		ApprovalNotes:      m.ApprovalNotes,
		Settings:           settings,
		ClonedFromID:       m.ClonedFromID,
		JournalEntryID:     m.JournalEntryID,
		DisbursedAt:        m.DisbursedAt,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainDistributionSlice converts model rows, failing on the first undecodable snapshot.
func ToDomainDistributionSlice(ms []models.Distribution) ([]domain.Distribution, error) {
	ds := make([]domain.Distribution, len(ms))
	for i, m := range ms {
		d, err := ToDomainDistribution(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

func ToModelDistributionDetail(d domain.DistributionDetail) models.DistributionDetail {
	return models.DistributionDetail{
		DetailID:        d.DetailID,
		DistributionID:  d.DistributionID,
		LineNumber:      d.LineNumber,
		BeneficiaryID:   d.BeneficiaryID,
		BeneficiaryType: string(d.BeneficiaryType),
		AllocatedAmount: d.AllocatedAmount,
		PaymentStatus:   string(d.PaymentStatus),
		VoucherID:       d.VoucherID,
	}
}

func ToDomainDistributionDetailSlice(ms []models.DistributionDetail) []domain.DistributionDetail {
	ds := make([]domain.DistributionDetail, len(ms))
	for i, m := range ms {
		ds[i] = domain.DistributionDetail{
			DetailID:        m.DetailID,
			DistributionID:  m.DistributionID,
			LineNumber:      m.LineNumber,
			BeneficiaryID:   m.BeneficiaryID,
			BeneficiaryType: domain.BeneficiaryType(m.BeneficiaryType),
			AllocatedAmount: m.AllocatedAmount,
			PaymentStatus:   domain.PaymentStatus(m.PaymentStatus),
			VoucherID:       m.VoucherID,
		}
	}
	return ds
}

func ToModelApproval(d domain.DistributionApproval) models.DistributionApproval {
	return models.DistributionApproval{
		ApprovalID:     d.ApprovalID,
		DistributionID: d.DistributionID,
		Action:         string(d.Action),
		FromStatus:     string(d.FromStatus),
		ToStatus:       string(d.ToStatus),
		ActorID:        d.ActorID,
		ActorRole:      string(d.ActorRole),
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
	}
}

func ToDomainApprovalSlice(ms []models.DistributionApproval) []domain.DistributionApproval {
	ds := make([]domain.DistributionApproval, len(ms))
	for i, m := range ms {
		ds[i] = domain.DistributionApproval{
			ApprovalID:     m.ApprovalID,
			DistributionID: m.DistributionID,
			Action:         domain.ApprovalAction(m.Action),
			FromStatus:     domain.DistributionStatus(m.FromStatus),
			ToStatus:       domain.DistributionStatus(m.ToStatus),
			ActorID:        m.ActorID,
			ActorRole:      domain.Role(m.ActorRole),
			Notes:          m.Notes,
			CreatedAt:      m.CreatedAt,
		}
	}
	return ds
}
