package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleNazer.Can(CapApproveDistribution))
	assert.False(t, RoleAccountant.Can(CapApproveDistribution))
	assert.False(t, RoleAdmin.Can(CapRejectDistribution))
	assert.True(t, RoleCashier.Can(CapDisburse))
	assert.False(t, RoleCashier.Can(CapCreateDistribution))
	assert.False(t, Role("auditor").Can(CapPreviewClose))
	assert.ElementsMatch(t, []Role{RoleAdmin, RoleNazer}, AllowedRoles(CapCloseFiscalYear))
}

func TestParseAccountCode(t *testing.T) {
	typ, parent, err := ParseAccountCode("1.1.2")
	assert.NoError(t, err)
	assert.Equal(t, Asset, typ)
	assert.Equal(t, "1.1", parent)

	typ, parent, err = ParseAccountCode("4")
	assert.NoError(t, err)
	assert.Equal(t, Revenue, typ)
	assert.Empty(t, parent)

	for _, bad := range []string{"", "6.1", "1..2", "1.a", "1."} {
		_, _, err := ParseAccountCode(bad)
		assert.Error(t, err, bad)
	}
}

func TestOverlapsInclusive(t *testing.T) {
	a := Period{Start: date(2026, 1, 1), End: date(2026, 3, 31)}
	assert.True(t, a.Overlaps(Period{Start: date(2026, 3, 31), End: date(2026, 6, 30)}))
	assert.False(t, a.Overlaps(Period{Start: date(2026, 4, 1), End: date(2026, 6, 30)}))

	fy := FiscalYear{StartDate: date(2026, 1, 1), EndDate: date(2026, 12, 31)}
	assert.True(t, fy.Contains(date(2026, 12, 31).Add(23*time.Hour)))
	assert.False(t, fy.Contains(date(2027, 1, 1)))
}

func TestNormalizeBeneficiaryType(t *testing.T) {
	assert.Equal(t, BeneficiaryWife, NormalizeBeneficiaryType("زوجة"))
	assert.Equal(t, BeneficiarySon, NormalizeBeneficiaryType("ولد"))
	assert.Equal(t, BeneficiaryDaughter, NormalizeBeneficiaryType("daughter"))
	assert.Equal(t, BeneficiaryOther, NormalizeBeneficiaryType("nephew"))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
