package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

func TestCrossCheck_EmbeddedVintages(t *testing.T) {
	for _, name := range dataset.Names() {
		ds, _ := dataset.Lookup(name)
		for _, w := range CrossCheck(ds) {
			assert.True(t, w.Deviation.GreaterThan(CrossCheckTolerance), "%s: %s", name, w.Cohort)
			assert.NotEqual(t, "total", w.Cohort, "%s total should be within tolerance of its benchmark", name)
			assert.NotEmpty(t, w.Message)
		}
	}
}

func TestCrossCheck_ConsistentDataProducesNoWarnings(t *testing.T) {
	brackets := []domain.TaxBracket{{Min: dec(0), Rate: dec(0.05)}}
	ds := dataset.Dataset{
		Name:        "synthetic",
		NYSBrackets: brackets,
		Cohorts: []domain.IncomeCohort{
			{Label: "a", AGIMin: dec(0), AGIMax: dec(100000), FilerCount: dec(10), TotalAGI: dec(500000), NYSLiability: dec(25000)},
			{Label: "b", AGIMin: dec(100000), FilerCount: dec(10), TotalAGI: dec(2000000), NYSLiability: dec(110000)},
		},
		BenchmarkNYSLiability: dec(140000),
	}
	assert.Empty(t, CrossCheck(ds))

	ds.BenchmarkNYSLiability = dec(50000)
	ds.Cohorts[1].NYSLiability = dec(200000)
	warnings := CrossCheck(ds)
	if assert.Len(t, warnings, 2) {
		assert.Equal(t, "b", warnings[0].Cohort)
		assert.Equal(t, "total", warnings[1].Cohort)
	}
}
