package calculation

import (
	"context"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

// parameterSetters maps each sweepable parameter to the field it overrides
var parameterSetters = map[string]func(s *domain.Scenario, bp *domain.BehavioralParameters, v decimal.Decimal){
	"surcharge_rate":          func(s *domain.Scenario, _ *domain.BehavioralParameters, v decimal.Decimal) { s.Policy.SurchargeRate = v },
	"surcharge_threshold":     func(s *domain.Scenario, _ *domain.BehavioralParameters, v decimal.Decimal) { s.Policy.SurchargeThreshold = v },
	"flat_rate_change":        func(s *domain.Scenario, _ *domain.BehavioralParameters, v decimal.Decimal) { s.Policy.FlatRateChange = v },
	"nyc_surcharge_rate":      func(s *domain.Scenario, _ *domain.BehavioralParameters, v decimal.Decimal) { s.Policy.NYCSurchargeRate = v },
	"nyc_surcharge_threshold": func(s *domain.Scenario, _ *domain.BehavioralParameters, v decimal.Decimal) { s.Policy.NYCSurchargeThreshold = v },
	"base_migration_rate":     func(_ *domain.Scenario, bp *domain.BehavioralParameters, v decimal.Decimal) { bp.BaseMigrationRate = v },
	"migration_elasticity":    func(_ *domain.Scenario, bp *domain.BehavioralParameters, v decimal.Decimal) { bp.MigrationElasticity = v },
	"max_migration_share":     func(_ *domain.Scenario, bp *domain.BehavioralParameters, v decimal.Decimal) { bp.MaxMigrationShare = v },
	"threshold_dollars":       func(_ *domain.Scenario, bp *domain.BehavioralParameters, v decimal.Decimal) { bp.ThresholdDollars = v },
	"logistic_slope":          func(_ *domain.Scenario, bp *domain.BehavioralParameters, v decimal.Decimal) { bp.LogisticSlope = v },
	"replacement_rate":        func(_ *domain.Scenario, bp *domain.BehavioralParameters, v decimal.Decimal) { bp.ReplacementRate = v },
}

// SweepableParameters lists the parameter names ApplyParameter accepts
func SweepableParameters() []string {
	names := make([]string, 0, len(parameterSetters))
	for name := range parameterSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyParameter returns a copy of the scenario with one named parameter overridden.
// Behavioral overrides materialize the scenario's effective parameters first.
func ApplyParameter(scenario *domain.Scenario, name string, value decimal.Decimal) (*domain.Scenario, error) {
	set, ok := parameterSetters[name]
	if !ok {
		return nil, fmt.Errorf("unknown sensitivity parameter %q", name)
	}
	modified := scenario.DeepCopy()
	bp, err := modified.EffectiveBehavioral()
	if err != nil {
		return nil, err
	}
	set(modified, &bp, value)
	modified.Behavioral = &bp
	return modified, nil
}

// RunPresets runs the scenario once per behavioral preset, least to most responsive
func (e *Engine) RunPresets(ctx context.Context, ds dataset.Dataset, band domain.IncomeBand, scenario *domain.Scenario) ([]domain.PresetResult, error) {
	results := make([]domain.PresetResult, 0, len(domain.PresetNames()))
	for _, name := range domain.PresetNames() {
		bp, err := domain.BehavioralPreset(name)
		if err != nil {
			return nil, eris.Wrapf(err, "presets: load %s", name)
		}
		modified := scenario.DeepCopy()
		modified.Preset = name
		modified.Behavioral = &bp

		out, err := e.RunScenario(ctx, ds, band, modified)
		if err != nil {
			return nil, eris.Wrapf(err, "presets: run %s", name)
		}
		results = append(results, domain.PresetResult{Preset: name, Parameters: bp, Output: out})
	}
	return results, nil
}

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	engine *Engine
}

// NewSensitivityAnalyzer creates an analyzer backed by the given engine
func NewSensitivityAnalyzer(engine *Engine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewEngine()
	}
	return &SensitivityAnalyzer{engine: engine}
}

// AnalyzeParameter sweeps one parameter across its range with everything else held fixed
func (sa *SensitivityAnalyzer) AnalyzeParameter(
	ctx context.Context,
	ds dataset.Dataset,
	band domain.IncomeBand,
	scenario *domain.Scenario,
	param domain.SensitivityParameter,
) (*domain.SensitivityAnalysis, error) {
	if _, ok := parameterSetters[param.Name]; !ok {
		return nil, eris.Errorf("sensitivity: unknown parameter %q (expected one of %v)", param.Name, SweepableParameters())
	}
	if param.MaxValue.LessThan(param.MinValue) {
		return nil, eris.Errorf("sensitivity: %s max %s is below min %s", param.Name, param.MaxValue, param.MinValue)
	}

	values := generateParameterValues(param)
	analysis := &domain.SensitivityAnalysis{
		Scenario:  scenario.Name,
		Dataset:   ds.Name,
		Parameter: param,
		Points:    make([]domain.SweepPoint, 0, len(values)),
	}

	for _, value := range values {
		modified, err := ApplyParameter(scenario, param.Name, value)
		if err != nil {
			return nil, eris.Wrapf(err, "sensitivity: apply %s=%s", param.Name, value)
		}
		out, err := sa.engine.RunScenario(ctx, ds, band, modified)
		if err != nil {
			return nil, eris.Wrapf(err, "sensitivity: run %s=%s", param.Name, value)
		}
		analysis.Points = append(analysis.Points, domain.SweepPoint{
			Value:                  value,
			NetRevenueChange:       out.NetRevenueChange,
			TotalMechanicalGain:    out.TotalMechanicalGain,
			TotalBehavioralLoss:    out.TotalBehavioralLoss,
			WeightedMigrationShare: out.WeightedMigrationShare,
		})
	}

	analysis.TippingPoint = analysis.FindTippingPoint()
	if analysis.TippingPoint != nil {
		sa.engine.Logger.Infof("sensitivity: net revenue turns negative at %s=%s", param.Name, analysis.TippingPoint)
	}
	return analysis, nil
}

// generateParameterValues returns Steps evenly spaced values from MinValue to MaxValue inclusive
func generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	step := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		if i == param.Steps-1 {
			values = append(values, param.MaxValue)
			break
		}
		values = append(values, param.MinValue.Add(step.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}
