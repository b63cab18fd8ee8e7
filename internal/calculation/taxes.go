package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// ComputeTax returns the liability on income under a progressive bracket schedule.
// Brackets must be sorted ascending; income at or below zero owes nothing.
func ComputeTax(income decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, bracket := range brackets {
		if income.LessThanOrEqual(bracket.Min) {
			break
		}
		top := income
		if bracket.HasCeiling() {
			top = decimal.Min(income, bracket.Max)
		}
		inBracket := top.Sub(bracket.Min)
		if inBracket.IsPositive() {
			total = total.Add(inBracket.Mul(bracket.Rate))
		}
	}
	return total
}

// ComputeSurcharge returns rate × (income − threshold) above the threshold and zero otherwise
func ComputeSurcharge(income, rate, threshold decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(threshold) {
		return decimal.Zero
	}
	return income.Sub(threshold).Mul(rate)
}

// AdditionalTaxPerFiler is the extra liability a filer with the given AGI owes under the policy.
// The city surcharge is included only when the policy covers NYC; callers scale that
// piece by the resident share.
func AdditionalTaxPerFiler(avgAGI decimal.Decimal, policy domain.PolicyChange) decimal.Decimal {
	additional := policy.FlatRateChange.Mul(avgAGI).
		Add(ComputeSurcharge(avgAGI, policy.SurchargeRate, policy.SurchargeThreshold))
	if policy.IncludeNYC {
		additional = additional.Add(ComputeSurcharge(avgAGI, policy.NYCSurchargeRate, policy.NYCSurchargeThreshold))
	}
	return additional
}
