package calculation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

func TestMillionairesTax_DefaultResponse(t *testing.T) {
	engine := NewEngine()
	for _, name := range dataset.Names() {
		t.Run(name, func(t *testing.T) {
			ds, err := dataset.Lookup(name)
			require.NoError(t, err)

			out, err := engine.RunScenario(context.Background(), ds, domain.DefaultMiddleIncomeBand(),
				&domain.Scenario{Name: "2% over $1M", Policy: millionairesTax(), Horizon: domain.HorizonFiveYear})
			require.NoError(t, err)

			assert.True(t, out.TotalMechanicalGain.IsPositive())
			assert.False(t, out.TotalBehavioralLoss.IsNegative())
			assert.True(t, out.TotalBehavioralLoss.LessThan(out.TotalMechanicalGain))
			assert.True(t, out.NetRevenueChange.IsPositive())
			assert.False(t, out.Offset.HasOffset())
		})
	}
}

func TestMillionairesTax_MechanicalValue(t *testing.T) {
	ds, err := dataset.Lookup("ty2021")
	require.NoError(t, err)

	out := NewEngine().RunModel(ds, millionairesTax(), domain.DefaultBehavioralParameters(), 5, domain.DefaultMiddleIncomeBand())
	// 2% of AGI above $1M summed over the five seven-figure cohorts
	assert.True(t, out.TotalMechanicalGain.Equal(dec(5346600000)), "got %s", out.TotalMechanicalGain)
	assert.InDelta(t, 1.391e9, out.TotalBehavioralLoss.InexactFloat64(), 0.01e9)
}

func TestMillionairesTax_LossGrowsWithHorizon(t *testing.T) {
	engine := NewEngine()
	ds := dataset.Default()
	bp := domain.DefaultBehavioralParameters()

	one := engine.RunModel(ds, millionairesTax(), bp, domain.HorizonOneYear, domain.DefaultMiddleIncomeBand())
	three := engine.RunModel(ds, millionairesTax(), bp, domain.HorizonThreeYear, domain.DefaultMiddleIncomeBand())
	five := engine.RunModel(ds, millionairesTax(), bp, domain.HorizonFiveYear, domain.DefaultMiddleIncomeBand())

	assert.True(t, one.TotalBehavioralLoss.LessThan(three.TotalBehavioralLoss))
	assert.True(t, three.TotalBehavioralLoss.LessThan(five.TotalBehavioralLoss))
	assert.True(t, one.TotalMechanicalGain.Equal(five.TotalMechanicalGain))
}

func TestSurchargeSweep_MechanicalNonDecreasing(t *testing.T) {
	sa := NewSensitivityAnalyzer(NewEngine())
	scenario := &domain.Scenario{Name: "sweep", Policy: millionairesTax(), Horizon: domain.HorizonFiveYear}

	for _, name := range dataset.Names() {
		ds, _ := dataset.Lookup(name)
		analysis, err := sa.AnalyzeParameter(context.Background(), ds, domain.DefaultMiddleIncomeBand(), scenario, domain.SurchargeRateParam)
		require.NoError(t, err)
		require.Len(t, analysis.Points, 51)

		assert.True(t, analysis.Points[0].TotalMechanicalGain.IsZero())
		assert.True(t, analysis.Points[0].NetRevenueChange.IsZero())
		for i := 1; i < len(analysis.Points); i++ {
			prev, cur := analysis.Points[i-1], analysis.Points[i]
			assert.True(t, cur.TotalMechanicalGain.GreaterThanOrEqual(prev.TotalMechanicalGain), "%s point %d", name, i)
			assert.True(t, cur.NetRevenueChange.Equal(cur.TotalMechanicalGain.Sub(cur.TotalBehavioralLoss)))
		}
	}
}

func TestSurchargeSweep_DefaultResponseTipsWithinRange(t *testing.T) {
	sa := NewSensitivityAnalyzer(NewEngine())
	scenario := &domain.Scenario{Name: "sweep", Policy: millionairesTax(), Horizon: domain.HorizonFiveYear}

	for _, name := range dataset.Names() {
		t.Run(name, func(t *testing.T) {
			ds, err := dataset.Lookup(name)
			require.NoError(t, err)

			analysis, err := sa.AnalyzeParameter(context.Background(), ds, domain.DefaultMiddleIncomeBand(), scenario, domain.SurchargeRateParam)
			require.NoError(t, err)
			require.Len(t, analysis.Points, 51)

			small := analysis.Points[1]
			assert.True(t, small.Value.Equal(dec(0.002)))
			assert.True(t, small.TotalBehavioralLoss.LessThan(small.TotalMechanicalGain),
				"a 0.2%% surcharge loses %s against a gain of %s", small.TotalBehavioralLoss, small.TotalMechanicalGain)
			assert.True(t, small.NetRevenueChange.IsPositive())

			top := analysis.Points[50]
			assert.True(t, top.Value.Equal(dec(0.10)))
			assert.True(t, top.NetRevenueChange.IsNegative(), "a 10%% surcharge nets %s", top.NetRevenueChange)

			require.NotNil(t, analysis.TippingPoint)
			assert.True(t, analysis.TippingPoint.GreaterThan(dec(0.02)), "tipping point %s", analysis.TippingPoint)
			assert.True(t, analysis.TippingPoint.LessThan(dec(0.10)), "tipping point %s", analysis.TippingPoint)

			crossed := false
			for _, p := range analysis.Points[1:] {
				if p.Value.Equal(*analysis.TippingPoint) {
					crossed = true
				}
				if crossed {
					assert.True(t, p.NetRevenueChange.IsNegative(), "net stays negative past the tipping point at %s", p.Value)
				} else {
					assert.True(t, p.NetRevenueChange.IsPositive(), "net is positive below the tipping point at %s", p.Value)
				}
			}
		})
	}
}

func TestDefaultResponse_SmallBurdenBarelyMoves(t *testing.T) {
	bp := domain.DefaultBehavioralParameters()

	// a 0.2% surcharge on a $30M filer adds $58,000
	small := MigrationShare(dec(58000), dec(30000000), bp, domain.HorizonFiveYear)
	assert.True(t, small.GreaterThan(bp.BaseMigrationRate), "got %s", small)
	assert.True(t, small.LessThan(dec(0.005)), "got %s", small)

	atCentre := MigrationShare(bp.ThresholdDollars, dec(30000000), bp, domain.HorizonFiveYear)
	assert.InDelta(t, 0.5005, atCentre.InexactFloat64(), 1e-9)

	assert.True(t, MigrationShare(dec(1e9), dec(30000000), bp, domain.HorizonFiveYear).LessThanOrEqual(bp.MaxMigrationShare))
}
