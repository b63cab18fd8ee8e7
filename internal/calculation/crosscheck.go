package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/dataset"
)

// CrossCheckTolerance is the relative deviation above which a warning is raised
var CrossCheckTolerance = decimal.NewFromFloat(0.20)

// Warning is an advisory data-quality finding
type Warning struct {
	Cohort    string          `json:"cohort"`
	Message   string          `json:"message"`
	Deviation decimal.Decimal `json:"deviation"`
}

// CrossCheck compares each cohort's reported state liability with the bracket schedule
// applied to its average AGI, and the vintage total with its published benchmark.
// Findings are informational; credits and deductions make per-cohort gaps normal at the low end.
func CrossCheck(ds dataset.Dataset) []Warning {
	var warnings []Warning

	for _, c := range ds.Cohorts {
		reported := c.NYSLiability.Div(c.FilerCount)
		if !reported.IsPositive() {
			continue
		}
		estimated := ComputeTax(c.AvgAGI(), ds.NYSBrackets)
		deviation := estimated.Sub(reported).Abs().Div(reported)
		if deviation.GreaterThan(CrossCheckTolerance) {
			warnings = append(warnings, Warning{
				Cohort: c.Label,
				Message: fmt.Sprintf("bracket estimate %s per filer differs from reported %s",
					estimated.StringFixed(0), reported.StringFixed(0)),
				Deviation: deviation,
			})
		}
	}

	if ds.BenchmarkNYSLiability.IsPositive() {
		total := ds.TotalNYSLiability()
		deviation := total.Sub(ds.BenchmarkNYSLiability).Abs().Div(ds.BenchmarkNYSLiability)
		if deviation.GreaterThan(CrossCheckTolerance) {
			warnings = append(warnings, Warning{
				Cohort: "total",
				Message: fmt.Sprintf("total NYS liability %s differs from benchmark %s",
					total.StringFixed(0), ds.BenchmarkNYSLiability.StringFixed(0)),
				Deviation: deviation,
			})
		}
	}
	return warnings
}
