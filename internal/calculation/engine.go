package calculation

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

// Engine runs the revenue model over a dataset
type Engine struct {
	Logger Logger
}

// NewEngine creates an engine that logs nowhere
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger replaces the engine's logger. nil restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// RunModel evaluates every cohort and aggregates the results.
// Mechanical and behavioral totals are summed from their own columns.
func (e *Engine) RunModel(ds dataset.Dataset, policy domain.PolicyChange, bp domain.BehavioralParameters, horizon domain.TimeHorizon, band domain.IncomeBand) *domain.ModelOutput {
	out := &domain.ModelOutput{
		Dataset:                ds.Name,
		Horizon:                horizon,
		Cohorts:                make([]domain.CohortResult, 0, len(ds.Cohorts)),
		TotalMechanicalGain:    decimal.Zero,
		TotalBehavioralLoss:    decimal.Zero,
		BaselineRevenue:        decimal.Zero,
		WeightedMigrationShare: decimal.Zero,
	}

	filers := decimal.Zero
	leaving := decimal.Zero
	for _, c := range ds.Cohorts {
		r := EvaluateCohort(c, policy, bp, horizon)
		out.Cohorts = append(out.Cohorts, r)

		out.TotalMechanicalGain = out.TotalMechanicalGain.Add(r.MechanicalGain)
		out.TotalBehavioralLoss = out.TotalBehavioralLoss.Add(r.MigrationLoss)
		out.BaselineRevenue = out.BaselineRevenue.Add(c.BaselineRevenue())
		filers = filers.Add(c.FilerCount)
		leaving = leaving.Add(r.LeavingFilers)
	}

	out.NetRevenueChange = out.TotalMechanicalGain.Sub(out.TotalBehavioralLoss)
	if filers.IsPositive() {
		out.WeightedMigrationShare = leaving.Div(filers)
	}
	out.Offset = ComputeMiddleIncomeOffset(out.NetRevenueChange, band, ds.Cohorts)

	e.Logger.Debugf("model run: dataset=%s model=%s horizon=%d mechanical=%s behavioral=%s net=%s",
		ds.Name, bp.Model, horizon,
		out.TotalMechanicalGain.StringFixed(0), out.TotalBehavioralLoss.StringFixed(0), out.NetRevenueChange.StringFixed(0))
	return out
}

// RunScenario validates a scenario and runs it
func (e *Engine) RunScenario(ctx context.Context, ds dataset.Dataset, band domain.IncomeBand, scenario *domain.Scenario) (*domain.ModelOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "engine: run cancelled")
	}
	if scenario == nil {
		return nil, eris.New("engine: scenario is nil")
	}
	if err := scenario.Validate(); err != nil {
		return nil, eris.Wrap(err, "engine: invalid scenario")
	}
	if err := band.Validate(); err != nil {
		return nil, eris.Wrap(err, "engine: invalid middle-income band")
	}

	bp, err := scenario.EffectiveBehavioral()
	if err != nil {
		return nil, eris.Wrap(err, "engine: resolve behavioral parameters")
	}

	e.Logger.Debugf("running scenario %q on %s", scenario.Name, ds.Name)
	return e.RunModel(ds, scenario.Policy, bp, scenario.EffectiveHorizon(), band), nil
}
