// Package dataset holds the embedded New York income-cohort tables.
package dataset

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// DefaultName is the vintage used when a run does not pick one
const DefaultName = "ty2022"

// Dataset is one vintage of reference cohorts with the bracket schedules in force that year
type Dataset struct {
	Name        string
	TaxYear     int
	Description string
	Cohorts     []domain.IncomeCohort
	NYSBrackets []domain.TaxBracket
	NYCBrackets []domain.TaxBracket
	// BenchmarkNYSLiability is the published statewide PIT liability the cohorts are checked against
	BenchmarkNYSLiability decimal.Decimal
}

var registry = map[string]Dataset{
	ty2021.Name: ty2021,
	ty2022.Name: ty2022,
}

// Names returns the known vintages in ascending order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a copy of the named vintage
func Lookup(name string) (Dataset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultName
	}
	ds, ok := registry[key]
	if !ok {
		return Dataset{}, eris.Errorf("dataset: unknown vintage %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ds.clone(), nil
}

// Default returns the default vintage
func Default() Dataset {
	return registry[DefaultName].clone()
}

func (ds Dataset) clone() Dataset {
	ds.Cohorts = append([]domain.IncomeCohort(nil), ds.Cohorts...)
	ds.NYSBrackets = append([]domain.TaxBracket(nil), ds.NYSBrackets...)
	ds.NYCBrackets = append([]domain.TaxBracket(nil), ds.NYCBrackets...)
	return ds
}

// TotalFilers sums filer counts across cohorts
func (ds Dataset) TotalFilers() decimal.Decimal {
	total := decimal.Zero
	for _, c := range ds.Cohorts {
		total = total.Add(c.FilerCount)
	}
	return total
}

// TotalNYSLiability sums reported state liability across cohorts
func (ds Dataset) TotalNYSLiability() decimal.Decimal {
	total := decimal.Zero
	for _, c := range ds.Cohorts {
		total = total.Add(c.NYSLiability)
	}
	return total
}

// Validate checks every cohort and both bracket schedules
func (ds Dataset) Validate() error {
	if len(ds.Cohorts) == 0 {
		return eris.Errorf("dataset %s: no cohorts", ds.Name)
	}
	for _, c := range ds.Cohorts {
		if err := c.Validate(); err != nil {
			return eris.Wrapf(err, "dataset %s", ds.Name)
		}
	}
	if err := domain.ValidateBrackets(ds.NYSBrackets); err != nil {
		return eris.Wrapf(err, "dataset %s: NYS brackets", ds.Name)
	}
	if err := domain.ValidateBrackets(ds.NYCBrackets); err != nil {
		return eris.Wrapf(err, "dataset %s: NYC brackets", ds.Name)
	}
	return nil
}

func cohort(label string, agiMin, agiMax, filers, totalAGI, nys, nyc int64, nycShare float64, source string) domain.IncomeCohort {
	return domain.IncomeCohort{
		Label:            label,
		AGIMin:           decimal.NewFromInt(agiMin),
		AGIMax:           decimal.NewFromInt(agiMax),
		FilerCount:       decimal.NewFromInt(filers),
		TotalAGI:         decimal.NewFromInt(totalAGI),
		NYSLiability:     decimal.NewFromInt(nys),
		NYCLiability:     decimal.NewFromInt(nyc),
		NYCResidentShare: decimal.NewFromFloat(nycShare),
		Source:           source,
	}
}

func bracket(lo, hi int64, rate float64) domain.TaxBracket {
	return domain.TaxBracket{
		Min:  decimal.NewFromInt(lo),
		Max:  decimal.NewFromInt(hi),
		Rate: decimal.NewFromFloat(rate),
	}
}

// NYC resident rates were unchanged between the two vintages.
var nycBrackets = []domain.TaxBracket{
	bracket(0, 12000, 0.03078),
	bracket(12000, 25000, 0.03762),
	bracket(25000, 50000, 0.03819),
	bracket(50000, 0, 0.03876),
}
