package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/calculation"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

// Solver finds break-even values of one scenario parameter
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Solve scans the parameter range on a grid and, for crossing goals, bisects the
// first interval where net revenue falls from above the target to below it.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if req.BaseScenario == nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "base scenario is required"}
	}
	if !isSweepable(req.Parameter) {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unknown parameter %q (expected one of %v)", req.Parameter, calculation.SweepableParameters()),
		}
	}
	if req.Goal == "" {
		req.Goal = GoalTippingPoint
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}

	lo, hi, err := req.Constraints.resolveBounds(req.Parameter)
	if err != nil {
		return nil, err
	}

	target := decimal.Zero
	if req.Goal == GoalTargetNet {
		if req.Constraints.TargetNet == nil {
			return nil, &BreakEvenError{Operation: "solve", Message: "target_net goal requires a target net revenue"}
		}
		target = *req.Constraints.TargetNet
	}

	baseOut, err := s.Engine.RunScenario(ctx, req.Dataset, req.Band, req.BaseScenario)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to calculate base scenario", Cause: err}
	}

	result := &Result{
		Parameter:            req.Parameter,
		Goal:                 req.Goal,
		Min:                  lo,
		Max:                  hi,
		BaseNetRevenueChange: baseOut.NetRevenueChange,
	}

	values, outputs, err := s.scanGrid(ctx, req, lo, hi)
	if err != nil {
		return nil, err
	}
	result.Iterations = len(values)

	switch req.Goal {
	case GoalMaximizeNet:
		best := 0
		for i := range outputs {
			if outputs[i].NetRevenueChange.GreaterThan(outputs[best].NetRevenueChange) {
				best = i
			}
		}
		s.setOutcome(result, values[best], outputs[best])
		result.Success = true
		result.ConvergenceInfo = fmt.Sprintf("Evaluated %d grid points", len(values))
	case GoalTippingPoint, GoalTargetNet:
		if err := s.bisect(ctx, req, target, values, outputs, result); err != nil {
			return nil, err
		}
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported goal: %s", req.Goal),
		}
	}

	if result.Value != nil {
		s.Engine.Logger.Infof("breakeven: %s %s=%s net=%s", req.Goal, req.Parameter, result.Value.String(), result.NetRevenueChange.StringFixed(0))
	}
	return result, nil
}

// scanGrid evaluates GridResolution+1 evenly spaced values, ending exactly on hi
func (s *Solver) scanGrid(ctx context.Context, req Request, lo, hi decimal.Decimal) ([]decimal.Decimal, []*domain.ModelOutput, error) {
	n := s.Options.GridResolution
	if n < 1 {
		n = 1
	}
	step := hi.Sub(lo).Div(decimal.NewFromInt(int64(n)))

	values := make([]decimal.Decimal, 0, n+1)
	outputs := make([]*domain.ModelOutput, 0, n+1)
	for i := 0; i <= n; i++ {
		v := lo.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if i == n {
			v = hi
		}
		out, err := s.evaluate(ctx, req, v)
		if err != nil {
			return nil, nil, err
		}
		values = append(values, v)
		outputs = append(outputs, out)
	}
	return values, outputs, nil
}

func (s *Solver) bisect(
	ctx context.Context,
	req Request,
	target decimal.Decimal,
	values []decimal.Decimal,
	outputs []*domain.ModelOutput,
	result *Result,
) error {
	bracket := -1
	sawAbove := false
	for i := range outputs {
		diff := outputs[i].NetRevenueChange.Sub(target)
		if diff.IsPositive() {
			sawAbove = true
		}
		if i > 0 && domain.IsTippingCrossing(outputs[i-1].NetRevenueChange.Sub(target), diff) {
			bracket = i
			break
		}
	}

	if bracket < 0 {
		if sawAbove {
			result.ConvergenceInfo = fmt.Sprintf("Net revenue stays above $%s across the range", target.StringFixed(0))
		} else {
			result.ConvergenceInfo = fmt.Sprintf("Net revenue never rises above $%s in the range", target.StringFixed(0))
		}
		return nil
	}

	lo, hi := values[bracket-1], values[bracket]
	tolerance := result.Max.Sub(result.Min).Mul(s.Options.RelativeTolerance)
	two := decimal.NewFromInt(2)

	for steps := 1; steps <= req.MaxIterations; steps++ {
		if err := ctx.Err(); err != nil {
			return &BreakEvenError{Operation: "bisect", Message: "cancelled", Cause: err}
		}
		mid := lo.Add(hi).Div(two)
		out, err := s.evaluate(ctx, req, mid)
		if err != nil {
			return err
		}
		result.Iterations++
		s.setOutcome(result, mid, out)

		diff := out.NetRevenueChange.Sub(target)
		if diff.Abs().LessThanOrEqual(s.Options.NetTolerance) {
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Converged within $%s of target", s.Options.NetTolerance.StringFixed(0))
			return nil
		}
		if diff.IsPositive() {
			lo = mid
		} else {
			hi = mid
		}
		if hi.Sub(lo).LessThanOrEqual(tolerance) {
			result.Success = true
			result.ConvergenceInfo = "Bisection converged"
			return nil
		}
	}

	result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	return nil
}

func (s *Solver) evaluate(ctx context.Context, req Request, value decimal.Decimal) (*domain.ModelOutput, error) {
	modified, err := calculation.ApplyParameter(req.BaseScenario, req.Parameter, value)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "evaluate",
			Message:   fmt.Sprintf("failed to apply %s=%s", req.Parameter, value),
			Cause:     err,
		}
	}
	out, err := s.Engine.RunScenario(ctx, req.Dataset, req.Band, modified)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "evaluate",
			Message:   fmt.Sprintf("failed to calculate %s=%s", req.Parameter, value),
			Cause:     err,
		}
	}
	return out, nil
}

func (s *Solver) setOutcome(result *Result, value decimal.Decimal, out *domain.ModelOutput) {
	v := value
	result.Value = &v
	result.Output = out
	result.NetRevenueChange = out.NetRevenueChange
	result.MechanicalGain = out.TotalMechanicalGain
	result.BehavioralLoss = out.TotalBehavioralLoss
	result.NetDiffFromBase = out.NetRevenueChange.Sub(result.BaseNetRevenueChange)
}

func isSweepable(name string) bool {
	for _, p := range calculation.SweepableParameters() {
		if p == name {
			return true
		}
	}
	return false
}
