package calculator_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/calculator"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateEqual_FiveBeneficiaries(t *testing.T) {
	allocs, err := calculator.AllocateEqual(dec("10000"), beneficiaries(
		domain.BeneficiaryWife, domain.BeneficiarySon, domain.BeneficiaryDaughter, domain.BeneficiaryOther, domain.BeneficiarySon))
	require.NoError(t, err)
	require.Len(t, allocs, 5)
	for _, a := range allocs {
		assert.True(t, a.Amount.Equal(dec("2000")), a.Amount.String())
	}
}

func TestAllocateEqual_LastAbsorbsRemainder(t *testing.T) {
	allocs, err := calculator.AllocateEqual(dec("100"), beneficiaries(domain.BeneficiaryOther, domain.BeneficiaryOther, domain.BeneficiaryOther))
	require.NoError(t, err)
	assert.True(t, allocs[0].Amount.Equal(dec("33.33")))
	assert.True(t, allocs[1].Amount.Equal(dec("33.33")))
	assert.True(t, allocs[2].Amount.Equal(dec("33.34")))
	assert.True(t, sumAllocations(allocs).Equal(dec("100")))
}

func TestAllocateEqual_NoBeneficiaries(t *testing.T) {
	_, err := calculator.AllocateEqual(dec("100"), nil)
	var calcErr *apperrors.CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, apperrors.NoEligibleBeneficiaries, calcErr.Reason)
}

func TestAllocateSharia_SonDaughterRatio(t *testing.T) {
	allocs, err := calculator.AllocateSharia(dec("6000"), beneficiaries(domain.BeneficiarySon, domain.BeneficiaryDaughter), decimal.Zero, false)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.True(t, allocs[0].Amount.Equal(dec("4000")), allocs[0].Amount.String())
	assert.True(t, allocs[1].Amount.Equal(dec("2000")), allocs[1].Amount.String())
}

func TestAllocateSharia_TwoSonsOneDaughter(t *testing.T) {
	allocs, err := calculator.AllocateSharia(dec("9000"), beneficiaries(domain.BeneficiarySon, domain.BeneficiarySon, domain.BeneficiaryDaughter), decimal.Zero, false)
	require.NoError(t, err)
	require.Len(t, allocs, 3)
	// share value = 9000 / (2+2+1)
	assert.True(t, allocs[0].Amount.Equal(dec("3600")))
	assert.True(t, allocs[1].Amount.Equal(dec("3600")))
	assert.True(t, allocs[2].Amount.Equal(dec("1800")))
	assert.True(t, allocs[0].Amount.Equal(allocs[2].Amount.Mul(decimal.NewFromInt(2))))
	assert.True(t, sumAllocations(allocs).Equal(dec("9000")))
}

func TestAllocateSharia_WivesPool(t *testing.T) {
	bs := beneficiaries(domain.BeneficiaryWife, domain.BeneficiaryWife, domain.BeneficiarySon, domain.BeneficiaryDaughter)
	allocs, err := calculator.AllocateSharia(dec("10000"), bs, dec("12.5"), false)
	require.NoError(t, err)
	require.Len(t, allocs, 4)
	// wives pool 1250 split evenly, 8750 split 2:1
	assert.True(t, allocs[0].Amount.Equal(dec("625")))
	assert.True(t, allocs[1].Amount.Equal(dec("625")))
	assert.True(t, allocs[2].Amount.Equal(dec("5833.33")), allocs[2].Amount.String())
	assert.True(t, allocs[3].Amount.Equal(dec("2916.67")), allocs[3].Amount.String())
	assert.True(t, sumAllocations(allocs).Equal(dec("10000")))
}

func TestAllocateSharia_OthersExcludedUnlessIncluded(t *testing.T) {
	bs := beneficiaries(domain.BeneficiarySon, domain.BeneficiaryOther)

	allocs, err := calculator.AllocateSharia(dec("300"), bs, decimal.Zero, false)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "b-1", allocs[0].BeneficiaryID)
	assert.True(t, allocs[0].Amount.Equal(dec("300")))

	allocs, err = calculator.AllocateSharia(dec("300"), bs, decimal.Zero, true)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.True(t, allocs[0].Amount.Equal(dec("200")))
	assert.True(t, allocs[1].Amount.Equal(dec("100")))
}

func TestAllocateSharia_OrphanPoolsFold(t *testing.T) {
	onlyWives, err := calculator.AllocateSharia(dec("1000"), beneficiaries(domain.BeneficiaryWife, domain.BeneficiaryWife), dec("25"), false)
	require.NoError(t, err)
	assert.True(t, sumAllocations(onlyWives).Equal(dec("1000")))
	assert.True(t, onlyWives[0].Amount.Equal(dec("500")))

	onlyChildren, err := calculator.AllocateSharia(dec("1000"), beneficiaries(domain.BeneficiaryDaughter), dec("25"), false)
	require.NoError(t, err)
	assert.True(t, onlyChildren[0].Amount.Equal(dec("1000")))
}

func TestAllocateSharia_NoEligible(t *testing.T) {
	_, err := calculator.AllocateSharia(dec("1000"), beneficiaries(domain.BeneficiaryOther), decimal.Zero, false)
	var calcErr *apperrors.CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, apperrors.NoEligibleBeneficiaries, calcErr.Reason)
}

func assertNonNegativeExact(t *testing.T, pool decimal.Decimal, allocs []domain.Allocation) {
	t.Helper()
	for _, a := range allocs {
		assert.False(t, a.Amount.IsNegative(), "%s got %s", a.BeneficiaryID, a.Amount)
		assert.True(t, a.Amount.Equal(a.Amount.Truncate(domain.MinorUnitPlaces)), "%s not in minor units: %s", a.BeneficiaryID, a.Amount)
	}
	assert.True(t, sumAllocations(allocs).Equal(pool), "sum %s, pool %s", sumAllocations(allocs), pool)
}

func TestAllocateEqual_SubCentSharesStayNonNegative(t *testing.T) {
	types := make([]domain.BeneficiaryType, 200)
	for i := range types {
		types[i] = domain.BeneficiaryOther
	}

	allocs, err := calculator.AllocateEqual(dec("1.00"), beneficiaries(types...))
	require.NoError(t, err)
	require.Len(t, allocs, 200)
	assertNonNegativeExact(t, dec("1.00"), allocs)
	assert.True(t, allocs[0].Amount.IsZero())
	assert.True(t, allocs[199].Amount.Equal(dec("1.00")))
}

func TestAllocateEqual_SharesAboveHalfCent(t *testing.T) {
	types := make([]domain.BeneficiaryType, 12)
	for i := range types {
		types[i] = domain.BeneficiarySon
	}
	// 0.10 / 12 = 0.00833..., which rounds up to a full cent
	allocs, err := calculator.AllocateEqual(dec("0.10"), beneficiaries(types...))
	require.NoError(t, err)
	assertNonNegativeExact(t, dec("0.10"), allocs)
	for _, a := range allocs[:11] {
		assert.True(t, a.Amount.IsZero(), a.Amount.String())
	}
	assert.True(t, allocs[11].Amount.Equal(dec("0.10")))
}

func TestAllocateSharia_SubCentWivesPool(t *testing.T) {
	bs := beneficiaries(
		domain.BeneficiaryWife, domain.BeneficiaryWife, domain.BeneficiaryWife,
		domain.BeneficiaryWife, domain.BeneficiaryWife, domain.BeneficiaryWife,
		domain.BeneficiarySon)

	allocs, err := calculator.AllocateSharia(dec("0.03"), bs, dec("100"), false)
	require.NoError(t, err)
	require.Len(t, allocs, 7)
	assertNonNegativeExact(t, dec("0.03"), allocs)
}

func TestAllocateSharia_ManyChildrenSmallPool(t *testing.T) {
	var types []domain.BeneficiaryType
	for i := 0; i < 40; i++ {
		types = append(types, domain.BeneficiarySon, domain.BeneficiaryDaughter, domain.BeneficiaryWife)
	}

	allocs, err := calculator.AllocateSharia(dec("2.57"), beneficiaries(types...), dec("12.5"), false)
	require.NoError(t, err)
	require.Len(t, allocs, 120)
	assertNonNegativeExact(t, dec("2.57"), allocs)
}
