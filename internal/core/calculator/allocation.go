package calculator

import (
	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	sonWeight      = decimal.NewFromInt(2)
	daughterWeight = decimal.NewFromInt(1)
	otherWeight    = decimal.NewFromInt(1)
)

// AllocateEqual splits pool evenly among all beneficiaries.
func AllocateEqual(pool decimal.Decimal, beneficiaries []domain.Beneficiary) ([]domain.Allocation, error) {
	if len(beneficiaries) == 0 {
		return nil, &apperrors.CalculationError{Reason: apperrors.NoEligibleBeneficiaries, Detail: "no active beneficiaries"}
	}
	share := pool.Div(decimal.NewFromInt(int64(len(beneficiaries))))
	raw := make([]domain.Allocation, len(beneficiaries))
	for i, b := range beneficiaries {
		raw[i] = domain.Allocation{BeneficiaryID: b.BeneficiaryID, BeneficiaryType: b.BeneficiaryType, Amount: share}
	}
	return roundAllocations(pool, raw), nil
}

// AllocateSharia reserves wivesRatio% of pool for wives (split evenly) and splits the rest
// among sons and daughters at 2:1. Other beneficiary types take one daughter-weight share
// only when includeOthers is set.
//
// A pool with no claimant is folded into the other pool: with no wives the whole amount
// goes to the children, and with no children it goes to the wives.
func AllocateSharia(pool decimal.Decimal, beneficiaries []domain.Beneficiary, wivesRatio decimal.Decimal, includeOthers bool) ([]domain.Allocation, error) {
	var wives, heirs []domain.Beneficiary
	totalWeight := decimal.Zero
	for _, b := range beneficiaries {
		switch b.BeneficiaryType {
		case domain.BeneficiaryWife:
			wives = append(wives, b)
		case domain.BeneficiarySon, domain.BeneficiaryDaughter:
			heirs = append(heirs, b)
			totalWeight = totalWeight.Add(shariaWeight(b.BeneficiaryType))
		default:
			if includeOthers {
				heirs = append(heirs, b)
				totalWeight = totalWeight.Add(otherWeight)
			}
		}
	}
	if len(wives) == 0 && len(heirs) == 0 {
		return nil, &apperrors.CalculationError{Reason: apperrors.NoEligibleBeneficiaries, Detail: "no wives, sons or daughters among active beneficiaries"}
	}

	wivesPool := pool.Mul(wivesRatio).Div(domain.Hundred)
	switch {
	case len(wives) == 0:
		wivesPool = decimal.Zero
	case len(heirs) == 0:
		wivesPool = pool
	}
	heirsPool := pool.Sub(wivesPool)

	raw := make([]domain.Allocation, 0, len(wives)+len(heirs))
	if len(wives) > 0 {
		perWife := wivesPool.Div(decimal.NewFromInt(int64(len(wives))))
		for _, w := range wives {
			raw = append(raw, domain.Allocation{BeneficiaryID: w.BeneficiaryID, BeneficiaryType: w.BeneficiaryType, Amount: perWife})
		}
	}
	if len(heirs) > 0 {
		shareValue := heirsPool.Div(totalWeight)
		for _, h := range heirs {
			raw = append(raw, domain.Allocation{
				BeneficiaryID:   h.BeneficiaryID,
				BeneficiaryType: h.BeneficiaryType,
				Amount:          shareValue.Mul(shariaWeight(h.BeneficiaryType)),
			})
		}
	}
	return roundAllocations(pool, raw), nil
}

func shariaWeight(t domain.BeneficiaryType) decimal.Decimal {
	switch t {
	case domain.BeneficiarySon:
		return sonWeight
	case domain.BeneficiaryDaughter:
		return daughterWeight
	default:
		return otherWeight
	}
}

// roundAllocations truncates every amount but the last to the minor unit; the last
// allocation absorbs the remainder so the total equals pool exactly. Truncating keeps
// the running sum at or below the raw shares, so no allocation can go negative.
func roundAllocations(pool decimal.Decimal, raw []domain.Allocation) []domain.Allocation {
	out := make([]domain.Allocation, len(raw))
	sum := decimal.Zero
	for i, a := range raw {
		if i == len(raw)-1 {
			a.Amount = pool.Sub(sum)
		} else {
			a.Amount = a.Amount.Truncate(domain.MinorUnitPlaces)
			sum = sum.Add(a.Amount)
		}
		out[i] = a
	}
	return out
}
