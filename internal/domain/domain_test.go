package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestValidateBrackets(t *testing.T) {
	valid := []TaxBracket{
		{Min: d(0), Max: d(10000), Rate: d(0.04)},
		{Min: d(10000), Max: d(50000), Rate: d(0.05)},
		{Min: d(50000), Rate: d(0.06)},
	}
	require.NoError(t, ValidateBrackets(valid))

	tests := []struct {
		name     string
		brackets []TaxBracket
	}{
		{"gap", []TaxBracket{{Min: d(0), Max: d(100), Rate: d(0.01)}, {Min: d(200), Rate: d(0.02)}}},
		{"unbounded middle", []TaxBracket{{Min: d(0), Rate: d(0.01)}, {Min: d(0), Rate: d(0.02)}}},
		{"inverted", []TaxBracket{{Min: d(100), Max: d(50), Rate: d(0.01)}}},
		{"negative rate", []TaxBracket{{Min: d(0), Rate: d(-0.01)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateBrackets(tt.brackets))
		})
	}
}

func TestPolicyChange_StateOnlyAndNoop(t *testing.T) {
	p := PolicyChange{
		SurchargeRate:      d(0.02),
		SurchargeThreshold: d(1000000),
		IncludeNYC:         true,
		NYCSurchargeRate:   d(0.01),
	}
	state := p.StateOnly()
	assert.False(t, state.IncludeNYC)
	assert.True(t, p.IncludeNYC, "StateOnly must not modify the receiver")
	assert.False(t, p.IsNoop())

	assert.True(t, PolicyChange{}.IsNoop())
	assert.True(t, PolicyChange{NYCSurchargeRate: d(0.01)}.IsNoop(), "city rate without IncludeNYC changes nothing")
	assert.False(t, PolicyChange{FlatRateChange: d(-0.001)}.IsNoop())
}

func TestPolicyChange_Validate(t *testing.T) {
	assert.NoError(t, PolicyChange{SurchargeRate: d(0.05), SurchargeThreshold: d(1e6)}.Validate())
	assert.Error(t, PolicyChange{SurchargeRate: d(1.5)}.Validate())
	assert.Error(t, PolicyChange{SurchargeThreshold: d(-1)}.Validate())
	assert.Error(t, PolicyChange{NYCSurchargeRate: d(-0.01)}.Validate())
	assert.Error(t, PolicyChange{FlatRateChange: d(-2)}.Validate())
}

func TestParseBehavioralModel(t *testing.T) {
	for _, m := range AllBehavioralModels() {
		parsed, err := ParseBehavioralModel(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	m, err := ParseBehavioralModel("")
	require.NoError(t, err)
	assert.Equal(t, ModelHybrid, m)

	m, err = ParseBehavioralModel("  Threshold ")
	require.NoError(t, err)
	assert.Equal(t, ModelThreshold, m)

	_, err = ParseBehavioralModel("quadratic")
	assert.Error(t, err)
}

func TestBehavioralModelType_JSONDecodeRejectsUnknown(t *testing.T) {
	var bp BehavioralParameters
	err := json.Unmarshal([]byte(`{"model":"exponential"}`), &bp)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"model":"elasticity"}`), &bp)
	require.NoError(t, err)
	assert.Equal(t, ModelElasticity, bp.Model)
}

func TestBehavioralParameters_Validate(t *testing.T) {
	require.NoError(t, DefaultBehavioralParameters().Validate())

	for _, name := range PresetNames() {
		bp, err := BehavioralPreset(name)
		require.NoError(t, err, name)
		assert.NoError(t, bp.Validate(), name)
	}

	bad := DefaultBehavioralParameters()
	bad.Year1Share = d(0.9)
	assert.Error(t, bad.Validate(), "year1 above year3")

	bad = DefaultBehavioralParameters()
	bad.MaxMigrationShare = d(1.2)
	assert.Error(t, bad.Validate())

	bad = DefaultBehavioralParameters()
	bad.MigrationElasticity = d(-1)
	assert.Error(t, bad.Validate())

	bad = DefaultBehavioralParameters()
	bad.Model = "bogus"
	assert.Error(t, bad.Validate())
}

func TestBehavioralPreset(t *testing.T) {
	static, err := BehavioralPreset("static")
	require.NoError(t, err)
	assert.Equal(t, ModelNone, static.Model)

	def, err := BehavioralPreset("default")
	require.NoError(t, err)
	assert.Equal(t, DefaultBehavioralParameters(), def)

	_, err = BehavioralPreset("panic")
	assert.Error(t, err)
}

func TestBehavioralSourcesCoverEveryParameter(t *testing.T) {
	sources := BehavioralSources()
	for _, key := range []string{
		"model", "base_migration_rate", "migration_elasticity", "max_migration_share",
		"threshold_dollars", "logistic_slope", "year1_share", "year3_share",
		"year5_share", "replacement_rate",
	} {
		assert.NotEmpty(t, sources[key], key)
	}
}

func TestHorizonShare(t *testing.T) {
	bp := DefaultBehavioralParameters()
	assert.True(t, bp.HorizonShare(HorizonOneYear).Equal(d(0.3)))
	assert.True(t, bp.HorizonShare(HorizonThreeYear).Equal(d(0.7)))
	assert.True(t, bp.HorizonShare(HorizonFiveYear).Equal(d(1)))
	assert.True(t, bp.HorizonShare(TimeHorizon(10)).Equal(d(1)))
	assert.False(t, TimeHorizon(2).Valid())
	assert.Equal(t, "1 year", HorizonOneYear.String())
	assert.Equal(t, "5 years", HorizonFiveYear.String())
}

func TestIncomeCohort(t *testing.T) {
	c := IncomeCohort{
		Label:            "$1M-$2M",
		AGIMin:           d(1000000),
		AGIMax:           d(2000000),
		FilerCount:       d(40000),
		TotalAGI:         d(56000000000),
		NYSLiability:     d(4000000000),
		NYCLiability:     d(800000000),
		NYCResidentShare: d(0.5),
	}
	require.NoError(t, c.Validate())
	assert.True(t, c.AvgAGI().Equal(d(1400000)))
	assert.True(t, c.ExistingTaxPerFiler().Equal(d(120000)))
	assert.False(t, c.IsOpenEnded())

	c.AGIMax = decimal.Zero
	assert.True(t, c.IsOpenEnded())
	assert.NoError(t, c.Validate())

	c.FilerCount = decimal.Zero
	assert.Error(t, c.Validate())
}

func TestMiddleIncomeOffset_NilFieldsEncodeAsNull(t *testing.T) {
	off := MiddleIncomeOffset{Band: DefaultMiddleIncomeBand()}
	assert.False(t, off.HasOffset())

	data, err := json.Marshal(off)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["rateIncrease"])
	assert.Contains(t, decoded, "rateIncrease")
}

func TestScenario_YAMLDefaults(t *testing.T) {
	doc := `
name: partial
policy:
  surcharge_rate: 0.02
  surcharge_threshold: 1000000
behavioral:
  model: elasticity
  migration_elasticity: 2.5
`
	var s Scenario
	require.NoError(t, yaml.Unmarshal([]byte(doc), &s))
	require.NotNil(t, s.Behavioral)

	def := DefaultBehavioralParameters()
	assert.Equal(t, ModelElasticity, s.Behavioral.Model)
	assert.True(t, s.Behavioral.MigrationElasticity.Equal(d(2.5)))
	assert.True(t, s.Behavioral.MaxMigrationShare.Equal(def.MaxMigrationShare), "omitted fields fall back to defaults")
	assert.True(t, s.Policy.SurchargeRate.Equal(d(0.02)))
	assert.Equal(t, DefaultTimeHorizon, s.EffectiveHorizon())
	assert.NoError(t, s.Validate())
}

func TestScenario_EffectiveBehavioral(t *testing.T) {
	s := Scenario{Name: "preset", Preset: "aggressive"}
	bp, err := s.EffectiveBehavioral()
	require.NoError(t, err)
	assert.True(t, bp.ThresholdDollars.Equal(d(1000000)))

	s = Scenario{Name: "bare"}
	bp, err = s.EffectiveBehavioral()
	require.NoError(t, err)
	assert.Equal(t, DefaultBehavioralParameters(), bp)

	s = Scenario{Name: "bad", Horizon: 4}
	assert.Error(t, s.Validate())
}

func TestScenario_DeepCopy(t *testing.T) {
	bp := DefaultBehavioralParameters()
	original := &Scenario{Name: "orig", Behavioral: &bp}
	copied := original.DeepCopy()

	assert.NotSame(t, original.Behavioral, copied.Behavioral)
	copied.Behavioral.Model = ModelNone
	assert.Equal(t, ModelHybrid, original.Behavioral.Model)

	var nilScenario *Scenario
	assert.Nil(t, nilScenario.DeepCopy())
}

func TestSensitivityAnalysis_TippingPointAndRange(t *testing.T) {
	sa := SensitivityAnalysis{Points: []SweepPoint{
		{Value: d(0), NetRevenueChange: d(-5)},
		{Value: d(0.01), NetRevenueChange: d(10)},
		{Value: d(0.02), NetRevenueChange: d(0)},
		{Value: d(0.03), NetRevenueChange: d(-3)},
		{Value: d(0.04), NetRevenueChange: d(-8)},
	}}
	tp := sa.FindTippingPoint()
	require.NotNil(t, tp)
	assert.True(t, tp.Equal(d(0.03)))

	lo, hi := sa.NetRange()
	assert.True(t, lo.Equal(d(-8)))
	assert.True(t, hi.Equal(d(10)))

	none := SensitivityAnalysis{Points: []SweepPoint{{NetRevenueChange: d(-1)}, {NetRevenueChange: d(-2)}}}
	assert.Nil(t, none.FindTippingPoint(), "starting negative is not a crossing")
}

func TestCommonParameters(t *testing.T) {
	p, ok := CommonParameter("surcharge_rate")
	require.True(t, ok)
	assert.Equal(t, 51, p.Steps)
	assert.True(t, p.MaxValue.Equal(d(0.10)))

	_, ok = CommonParameter("inflation_rate")
	assert.False(t, ok)
}

func TestFindTippingPoint(t *testing.T) {
	sweep := func(nets ...float64) *SensitivityAnalysis {
		sa := &SensitivityAnalysis{}
		for i, n := range nets {
			sa.Points = append(sa.Points, SweepPoint{Value: d(float64(i) * 0.002), NetRevenueChange: d(n)})
		}
		return sa
	}

	tests := []struct {
		name string
		nets []float64
		want *float64
	}{
		{"zero anchor then loss is not a crossing", []float64{0, -5e8, -1e9}, nil},
		{"zero anchor then loss then gain then loss", []float64{0, -5e8, 2e8, -3e8}, ptr(0.006)},
		{"gain then loss", []float64{0, 4e8, 1e8, -2e8, -9e8}, ptr(0.006)},
		{"gain then zero then loss", []float64{0, 4e8, 0, -2e8}, nil},
		{"never negative", []float64{0, 1e8, 2e8}, nil},
		{"single point", []float64{-1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := sweep(tt.nets...).FindTippingPoint()
			if tt.want == nil {
				assert.Nil(t, tp)
				return
			}
			require.NotNil(t, tp)
			assert.True(t, tp.Equal(d(*tt.want)), "got %s", tp)
		})
	}

	assert.True(t, IsTippingCrossing(d(1), d(-1)))
	assert.False(t, IsTippingCrossing(decimal.Zero, d(-1)))
	assert.False(t, IsTippingCrossing(d(1), decimal.Zero))
}

func ptr(v float64) *float64 { return &v }
