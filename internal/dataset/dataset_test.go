package dataset

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"ty2021", "ty2022"}, Names())
}

func TestLookup(t *testing.T) {
	ds, err := Lookup("TY2021")
	require.NoError(t, err)
	assert.Equal(t, 2021, ds.TaxYear)

	ds, err = Lookup("")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, ds.Name)

	_, err = Lookup("ty1999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ty2021")
	assert.Contains(t, err.Error(), "ty2022")
}

func TestLookupReturnsIndependentCopy(t *testing.T) {
	ds, err := Lookup("ty2022")
	require.NoError(t, err)
	ds.Cohorts[0].FilerCount = decimal.NewFromInt(1)

	fresh := Default()
	assert.False(t, fresh.Cohorts[0].FilerCount.Equal(decimal.NewFromInt(1)))
}

func TestEveryVintageIsValid(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			ds, err := Lookup(name)
			require.NoError(t, err)
			require.NoError(t, ds.Validate())
			assert.Len(t, ds.Cohorts, 10)

			for i := 1; i < len(ds.Cohorts); i++ {
				assert.True(t, ds.Cohorts[i-1].AGIMax.Equal(ds.Cohorts[i].AGIMin),
					"cohort %s must start where %s ends", ds.Cohorts[i].Label, ds.Cohorts[i-1].Label)
			}
			assert.True(t, ds.Cohorts[len(ds.Cohorts)-1].IsOpenEnded())

			for _, c := range ds.Cohorts {
				avg := c.AvgAGI()
				assert.True(t, avg.GreaterThanOrEqual(c.AGIMin), "%s average below range", c.Label)
				if !c.IsOpenEnded() {
					assert.True(t, avg.LessThan(c.AGIMax), "%s average above range", c.Label)
				}
				assert.NotEmpty(t, c.Source)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	ds, err := Lookup("ty2021")
	require.NoError(t, err)
	assert.True(t, ds.TotalFilers().Equal(decimal.NewFromInt(9194100)))
	assert.True(t, ds.TotalNYSLiability().Equal(decimal.NewFromInt(67934800000)))
}
