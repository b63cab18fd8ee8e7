package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent", "dollars", "ratio"
	Description string          `yaml:"description" json:"description"`
}

// SweepPoint is the model outcome at one swept parameter value
type SweepPoint struct {
	Value                  decimal.Decimal `json:"value"`
	NetRevenueChange       decimal.Decimal `json:"netRevenueChange"`
	TotalMechanicalGain    decimal.Decimal `json:"totalMechanicalGain"`
	TotalBehavioralLoss    decimal.Decimal `json:"totalBehavioralLoss"`
	WeightedMigrationShare decimal.Decimal `json:"weightedMigrationShare"`
}

// SensitivityAnalysis is a complete one-parameter sweep
type SensitivityAnalysis struct {
	Scenario     string               `json:"scenario"`
	Dataset      string               `json:"dataset"`
	Parameter    SensitivityParameter `json:"parameter"`
	Points       []SweepPoint         `json:"points"`
	TippingPoint *decimal.Decimal     `json:"tippingPoint"`
}

// FindTippingPoint returns the first swept value at which net revenue turns negative
// immediately after a strictly positive point, or nil if the sweep never crosses.
func (sa *SensitivityAnalysis) FindTippingPoint() *decimal.Decimal {
	for i := 1; i < len(sa.Points); i++ {
		if IsTippingCrossing(sa.Points[i-1].NetRevenueChange, sa.Points[i].NetRevenueChange) {
			v := sa.Points[i].Value
			return &v
		}
	}
	return nil
}

// IsTippingCrossing reports whether net revenue moves from a gain to a loss between two
// adjacent points. A zero net is neither, so a sweep anchored at a no-op value never
// crosses at its first step.
func IsTippingCrossing(prev, cur decimal.Decimal) bool {
	return prev.IsPositive() && cur.IsNegative()
}

// NetRange returns the smallest and largest net revenue change across the sweep
func (sa *SensitivityAnalysis) NetRange() (decimal.Decimal, decimal.Decimal) {
	if len(sa.Points) == 0 {
		return decimal.Zero, decimal.Zero
	}
	lo, hi := sa.Points[0].NetRevenueChange, sa.Points[0].NetRevenueChange
	for _, p := range sa.Points[1:] {
		lo = decimal.Min(lo, p.NetRevenueChange)
		hi = decimal.Max(hi, p.NetRevenueChange)
	}
	return lo, hi
}

// PresetResult pairs a behavioral preset with the run it produced
type PresetResult struct {
	Preset     string               `json:"preset"`
	Parameters BehavioralParameters `json:"parameters"`
	Output     *ModelOutput         `json:"output"`
}

// Common sensitivity parameters
var (
	SurchargeRateParam = SensitivityParameter{
		Name:        "surcharge_rate",
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromFloat(0.10),
		Steps:       51,
		BaseValue:   decimal.NewFromFloat(0.02),
		Unit:        "percent",
		Description: "State surcharge rate above the surcharge threshold",
	}

	SurchargeThresholdParam = SensitivityParameter{
		Name:        "surcharge_threshold",
		MinValue:    decimal.NewFromInt(250000),
		MaxValue:    decimal.NewFromInt(5000000),
		Steps:       20,
		BaseValue:   decimal.NewFromInt(1000000),
		Unit:        "dollars",
		Description: "AGI above which the state surcharge applies",
	}

	MigrationElasticityParam = SensitivityParameter{
		Name:        "migration_elasticity",
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromInt(5),
		Steps:       11,
		BaseValue:   decimal.NewFromFloat(1.5),
		Unit:        "ratio",
		Description: "Migration response per unit of fractional burden increase",
	}

	MaxMigrationShareParam = SensitivityParameter{
		Name:        "max_migration_share",
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromInt(1),
		Steps:       21,
		BaseValue:   decimal.NewFromInt(1),
		Unit:        "percent",
		Description: "Ceiling on the share of a cohort that leaves",
	}

	ReplacementRateParam = SensitivityParameter{
		Name:        "replacement_rate",
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromFloat(0.5),
		Steps:       11,
		BaseValue:   decimal.Zero,
		Unit:        "percent",
		Description: "Share of departing filers replaced by in-movers",
	}
)

// CommonParameters returns the predefined sweeps
func CommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		SurchargeRateParam,
		SurchargeThresholdParam,
		MigrationElasticityParam,
		MaxMigrationShareParam,
		ReplacementRateParam,
	}
}

// CommonParameter looks up a predefined sweep by name
func CommonParameter(name string) (SensitivityParameter, bool) {
	for _, p := range CommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}
