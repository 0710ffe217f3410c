package mapping

import (
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/models"
)

func ToModelSettings(d domain.DistributionSettings) models.DistributionSettings {
	return models.DistributionSettings{
		SettingsID:                d.SettingsID,
		Version:                   d.Version,
		MaintenancePercentage:     d.MaintenancePercentage,
		NazerPercentage:           d.NazerPercentage,
		WaqifCharityPercentage:    d.WaqifCharityPercentage,
		ReservePercentage:         d.ReservePercentage,
		DistributionRule:          string(d.DistributionRule),
		WivesShareRatio:           d.WivesShareRatio,
		IncludeOtherBeneficiaries: d.IncludeOtherBeneficiaries,
		IsActive:                  d.IsActive,
		EffectiveFrom:             d.EffectiveFrom,
		AuditFields:               ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainSettings(m models.DistributionSettings) domain.DistributionSettings {
	return domain.DistributionSettings{
		SettingsID:                m.SettingsID,
		Version:                   m.Version,
		MaintenancePercentage:     m.MaintenancePercentage,
		NazerPercentage:           m.NazerPercentage,
		WaqifCharityPercentage:    m.WaqifCharityPercentage,
		ReservePercentage:         m.ReservePercentage,
		DistributionRule:          domain.DistributionRule(m.DistributionRule),
		WivesShareRatio:           m.WivesShareRatio,
		IncludeOtherBeneficiaries: m.IncludeOtherBeneficiaries,
		IsActive:                  m.IsActive,
		EffectiveFrom:             m.EffectiveFrom,
		AuditFields:               ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainSettingsSlice(ms []models.DistributionSettings) []domain.DistributionSettings {
	ds := make([]domain.DistributionSettings, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSettings(m)
	}
	return ds
}
