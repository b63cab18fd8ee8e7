package compare

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rgehrsitz/revimpact/internal/calculation"
	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
	"github.com/rgehrsitz/revimpact/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

func (ce *CompareEngine) evaluate(ctx context.Context, ds dataset.Dataset, band domain.IncomeBand, scenario *domain.Scenario) (ComparisonResult, error) {
	out, err := ce.CalcEngine.RunScenario(ctx, ds, band, scenario)
	if err != nil {
		return ComparisonResult{}, err
	}
	bp, err := scenario.EffectiveBehavioral()
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(scenario, bp, out), nil
}

// Compare runs the base scenario and one alternative per template
func (ce *CompareEngine) Compare(
	ctx context.Context,
	ds dataset.Dataset,
	band domain.IncomeBand,
	base *domain.Scenario,
	templates []string,
) (*ComparisonSet, error) {
	if base == nil {
		return nil, eris.New("compare: base scenario is nil")
	}

	baseResult, err := ce.evaluate(ctx, ds, band, base)
	if err != nil {
		return nil, eris.Wrap(err, "compare: calculate base scenario")
	}

	alternatives := make([]ComparisonResult, 0, len(templates))
	for _, templateName := range templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, eris.Errorf("compare: template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, eris.Wrapf(err, "compare: apply template %s", templateName)
		}
		modified.Name = base.Name + "_" + template.Name

		altResult, err := ce.evaluate(ctx, ds, band, modified)
		if err != nil {
			return nil, eris.Wrapf(err, "compare: calculate scenario %s", templateName)
		}
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		Dataset:            ds.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareScenarios compares explicit scenarios from a run file
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	ds dataset.Dataset,
	band domain.IncomeBand,
	config *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	find := func(name string) *domain.Scenario {
		for i := range config.Scenarios {
			if config.Scenarios[i].Name == name {
				return &config.Scenarios[i]
			}
		}
		return nil
	}

	base := find(baseScenarioName)
	if base == nil {
		return nil, eris.Errorf("compare: base scenario %s not found", baseScenarioName)
	}
	baseResult, err := ce.evaluate(ctx, ds, band, base)
	if err != nil {
		return nil, eris.Wrap(err, "compare: calculate base scenario")
	}

	alternatives := make([]ComparisonResult, 0, len(alternativeScenarioNames))
	for _, altName := range alternativeScenarioNames {
		alt := find(altName)
		if alt == nil {
			return nil, eris.Errorf("compare: alternative scenario %s not found", altName)
		}
		altResult, err := ce.evaluate(ctx, ds, band, alt)
		if err != nil {
			return nil, eris.Wrapf(err, "compare: calculate scenario %s", altName)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenarioName,
		Dataset:            ds.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
