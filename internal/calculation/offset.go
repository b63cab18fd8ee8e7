package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// ComputeMiddleIncomeOffset finds the uniform rate increase on the band that would close
// a negative net revenue change. Cohorts overlapping the band are prorated by the share
// of their AGI range inside it.
func ComputeMiddleIncomeOffset(net decimal.Decimal, band domain.IncomeBand, cohorts []domain.IncomeCohort) domain.MiddleIncomeOffset {
	result := domain.MiddleIncomeOffset{
		Band:            band,
		ShortfallAmount: decimal.Zero,
		ProratedAGI:     decimal.Zero,
		ProratedFilers:  decimal.Zero,
		FilersInBand:    decimal.Zero,
	}

	for _, c := range cohorts {
		lo, hi := cohortSpan(c)
		if lo.GreaterThanOrEqual(band.Min) && hi.LessThanOrEqual(band.Max) {
			result.FilersInBand = result.FilersInBand.Add(c.FilerCount)
		}
	}

	if !net.IsNegative() {
		return result
	}
	result.ShortfallAmount = net.Abs()

	for _, c := range cohorts {
		frac := overlapFraction(c, band)
		if !frac.IsPositive() {
			continue
		}
		result.ProratedAGI = result.ProratedAGI.Add(c.TotalAGI.Mul(frac))
		result.ProratedFilers = result.ProratedFilers.Add(c.FilerCount.Mul(frac))
	}

	if !result.ProratedAGI.IsPositive() || !result.ProratedFilers.IsPositive() {
		return result
	}

	rate := result.ShortfallAmount.Div(result.ProratedAGI)
	perFiler := result.ShortfallAmount.Div(result.ProratedFilers)
	pct := perFiler.Div(result.ProratedAGI.Div(result.ProratedFilers))

	result.RateIncrease = &rate
	result.PerFilerCost = &perFiler
	result.PctOfIncome = &pct
	return result
}

// cohortSpan returns the AGI range a cohort covers. The open-ended top cohort is
// treated as spread evenly around its mean: [min, 2·avg − min].
func cohortSpan(c domain.IncomeCohort) (decimal.Decimal, decimal.Decimal) {
	if !c.IsOpenEnded() {
		return c.AGIMin, c.AGIMax
	}
	hi := c.AvgAGI().Mul(decimal.NewFromInt(2)).Sub(c.AGIMin)
	return c.AGIMin, decimal.Max(hi, c.AGIMin)
}

func overlapFraction(c domain.IncomeCohort, band domain.IncomeBand) decimal.Decimal {
	lo, hi := cohortSpan(c)
	width := hi.Sub(lo)
	if !width.IsPositive() {
		if lo.GreaterThanOrEqual(band.Min) && lo.LessThan(band.Max) {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	overlap := decimal.Min(hi, band.Max).Sub(decimal.Max(lo, band.Min))
	if !overlap.IsPositive() {
		return decimal.Zero
	}
	return overlap.Div(width)
}
