package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncomeCohort is one row of the reference dataset: filers grouped by AGI range.
// A zero AGIMax marks the open-ended top cohort.
type IncomeCohort struct {
	Label            string          `json:"label"`
	AGIMin           decimal.Decimal `json:"agiMin"`
	AGIMax           decimal.Decimal `json:"agiMax"`
	FilerCount       decimal.Decimal `json:"filerCount"`
	TotalAGI         decimal.Decimal `json:"totalAgi"`
	NYSLiability     decimal.Decimal `json:"nysLiability"`
	NYCLiability     decimal.Decimal `json:"nycLiability"`
	NYCResidentShare decimal.Decimal `json:"nycResidentShare"`
	Source           string          `json:"source"`
}

// IsOpenEnded reports whether the cohort has no upper AGI bound
func (c IncomeCohort) IsOpenEnded() bool {
	return !c.AGIMax.IsPositive()
}

// AvgAGI returns the mean AGI per filer
func (c IncomeCohort) AvgAGI() decimal.Decimal {
	return c.TotalAGI.Div(c.FilerCount)
}

// ExistingTaxPerFiler returns the combined state and city liability per filer
func (c IncomeCohort) ExistingTaxPerFiler() decimal.Decimal {
	return c.NYSLiability.Add(c.NYCLiability).Div(c.FilerCount)
}

// BaselineRevenue returns the cohort's combined state and city liability
func (c IncomeCohort) BaselineRevenue() decimal.Decimal {
	return c.NYSLiability.Add(c.NYCLiability)
}

// Validate checks the reference-data invariants
func (c IncomeCohort) Validate() error {
	if !c.FilerCount.IsPositive() {
		return fmt.Errorf("cohort %s: filer count must be positive", c.Label)
	}
	if !c.TotalAGI.IsPositive() {
		return fmt.Errorf("cohort %s: total AGI must be positive", c.Label)
	}
	if c.NYCResidentShare.IsNegative() || c.NYCResidentShare.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("cohort %s: NYC resident share must be between 0 and 1", c.Label)
	}
	if !c.IsOpenEnded() && c.AGIMax.LessThanOrEqual(c.AGIMin) {
		return fmt.Errorf("cohort %s: AGI max must exceed AGI min", c.Label)
	}
	return nil
}

// CohortResult is the per-cohort outcome of one evaluation
type CohortResult struct {
	Cohort                IncomeCohort    `json:"cohort"`
	AvgAGI                decimal.Decimal `json:"avgAgi"`
	AdditionalTaxPerFiler decimal.Decimal `json:"additionalTaxPerFiler"`
	MechanicalGain        decimal.Decimal `json:"mechanicalGain"`
	MigrationShare        decimal.Decimal `json:"migrationShare"`
	LeavingFilers         decimal.Decimal `json:"leavingFilers"`
	MigrationLoss         decimal.Decimal `json:"migrationLoss"`
	NetRevenueChange      decimal.Decimal `json:"netRevenueChange"`
}

// MiddleIncomeOffset is the uniform rate increase on a band needed to close a shortfall.
// Rate fields are nil when there is no shortfall or the band cannot absorb one.
type MiddleIncomeOffset struct {
	Band            IncomeBand       `json:"band"`
	ShortfallAmount decimal.Decimal  `json:"shortfallAmount"`
	RateIncrease    *decimal.Decimal `json:"rateIncrease"`
	PerFilerCost    *decimal.Decimal `json:"perFilerCost"`
	PctOfIncome     *decimal.Decimal `json:"pctOfIncome"`
	ProratedAGI     decimal.Decimal  `json:"proratedAgi"`
	ProratedFilers  decimal.Decimal  `json:"proratedFilers"`
	FilersInBand    decimal.Decimal  `json:"filersInBand"`
}

// HasOffset reports whether an offset rate was computed
func (o MiddleIncomeOffset) HasOffset() bool {
	return o.RateIncrease != nil
}

// ModelOutput aggregates every cohort result for one run
type ModelOutput struct {
	Dataset                string             `json:"dataset"`
	Horizon                TimeHorizon        `json:"timeHorizon"`
	Cohorts                []CohortResult     `json:"cohorts"`
	TotalMechanicalGain    decimal.Decimal    `json:"totalMechanicalGain"`
	TotalBehavioralLoss    decimal.Decimal    `json:"totalBehavioralLoss"`
	NetRevenueChange       decimal.Decimal    `json:"netRevenueChange"`
	BaselineRevenue        decimal.Decimal    `json:"baselineRevenue"`
	WeightedMigrationShare decimal.Decimal    `json:"weightedMigrationShare"`
	Offset                 MiddleIncomeOffset `json:"middleIncomeOffset"`
}

// NetAsPctOfBaseline returns net revenue change as a percentage of baseline revenue
func (mo *ModelOutput) NetAsPctOfBaseline() decimal.Decimal {
	if mo.BaselineRevenue.IsZero() {
		return decimal.Zero
	}
	return mo.NetRevenueChange.Div(mo.BaselineRevenue).Mul(decimal.NewFromInt(100))
}

// TotalLeavingFilers sums projected departures across cohorts
func (mo *ModelOutput) TotalLeavingFilers() decimal.Decimal {
	total := decimal.Zero
	for _, r := range mo.Cohorts {
		total = total.Add(r.LeavingFilers)
	}
	return total
}
