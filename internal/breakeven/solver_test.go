package breakeven

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/revimpact/internal/calculation"
	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func stressScenario() *domain.Scenario {
	return &domain.Scenario{
		Name: "stress",
		Policy: domain.PolicyChange{
			SurchargeRate:      dec(0.02),
			SurchargeThreshold: dec(1000000),
		},
		Behavioral: &domain.BehavioralParameters{
			Model:               domain.ModelElasticity,
			BaseMigrationRate:   dec(0),
			MigrationElasticity: dec(6),
			MaxMigrationShare:   dec(0.6),
			ThresholdDollars:    dec(100000),
			LogisticSlope:       dec(50000),
			Year1Share:          dec(0.3),
			Year3Share:          dec(0.7),
			Year5Share:          dec(1),
			ReplacementRate:     dec(0),
		},
		Horizon: domain.HorizonFiveYear,
	}
}

func request(parameter string, goal Goal) Request {
	ds, _ := dataset.Lookup("ty2021")
	return Request{
		BaseScenario: stressScenario(),
		Dataset:      ds,
		Band:         domain.DefaultMiddleIncomeBand(),
		Parameter:    parameter,
		Goal:         goal,
	}
}

func netAt(t *testing.T, parameter string, value decimal.Decimal) decimal.Decimal {
	t.Helper()
	req := request(parameter, GoalTippingPoint)
	modified, err := calculation.ApplyParameter(req.BaseScenario, parameter, value)
	require.NoError(t, err)
	out, err := calculation.NewEngine().RunScenario(context.Background(), req.Dataset, req.Band, modified)
	require.NoError(t, err)
	return out.NetRevenueChange
}

func TestSolve_TippingPoint(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewEngine())
	result, err := solver.Solve(context.Background(), request("surcharge_rate", GoalTippingPoint))
	require.NoError(t, err)

	require.True(t, result.Success, result.ConvergenceInfo)
	require.NotNil(t, result.Value)
	assert.True(t, result.Value.GreaterThan(dec(0.04)), "tipping point %s", result.Value)
	assert.True(t, result.Value.LessThan(dec(0.07)), "tipping point %s", result.Value)
	assert.True(t, result.NetRevenueChange.Abs().LessThan(dec(1e8)), "net at tipping point %s", result.NetRevenueChange)
	assert.Greater(t, result.Iterations, 51, "grid plus at least one bisection step")

	assert.True(t, netAt(t, "surcharge_rate", result.Value.Sub(dec(0.002))).IsPositive())
	assert.True(t, netAt(t, "surcharge_rate", result.Value.Add(dec(0.002))).IsNegative())

	assert.True(t, result.BaseNetRevenueChange.IsPositive())
	assert.True(t, result.NetDiffFromBase.IsNegative())
}

func TestSolve_MaximizeNet(t *testing.T) {
	solver := NewDefaultSolver(nil)
	result, err := solver.Solve(context.Background(), request("surcharge_rate", GoalMaximizeNet))
	require.NoError(t, err)

	require.True(t, result.Success)
	require.NotNil(t, result.Value)
	assert.Equal(t, 51, result.Iterations)
	assert.True(t, result.Value.IsPositive())
	assert.True(t, result.Value.LessThan(dec(0.07)))

	assert.True(t, result.NetRevenueChange.GreaterThanOrEqual(netAt(t, "surcharge_rate", dec(0.02))))
	assert.True(t, result.NetRevenueChange.GreaterThanOrEqual(netAt(t, "surcharge_rate", dec(0.04))))
}

func TestSolve_TargetNet(t *testing.T) {
	target := netAt(t, "surcharge_rate", dec(0.051))
	require.True(t, target.IsPositive())

	req := request("surcharge_rate", GoalTargetNet)
	req.Constraints.TargetNet = &target

	result, err := NewDefaultSolver(nil).Solve(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	assert.True(t, result.Value.Sub(dec(0.051)).Abs().LessThan(dec(0.0001)), "solved %s", result.Value)
}

func TestSolve_NoCrossing(t *testing.T) {
	req := request("surcharge_rate", GoalTippingPoint)
	req.BaseScenario.Behavioral = nil
	req.BaseScenario.Preset = domain.PresetStatic

	result, err := NewDefaultSolver(nil).Solve(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Nil(t, result.Value)
	assert.Contains(t, result.ConvergenceInfo, "stays above")
}

func TestSolve_Constraints(t *testing.T) {
	lo, hi := dec(0.03), dec(0.08)
	req := request("surcharge_rate", GoalTippingPoint)
	req.Constraints = Constraints{Min: &lo, Max: &hi}

	result, err := NewDefaultSolver(nil).Solve(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Min.Equal(lo))
	assert.True(t, result.Max.Equal(hi))
	require.NotNil(t, result.Value)
	assert.True(t, result.Value.GreaterThan(lo))
	assert.True(t, result.Value.LessThan(hi))
}

func TestSolve_Errors(t *testing.T) {
	solver := NewDefaultSolver(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Request)
		want   string
	}{
		{"nil scenario", func(r *Request) { r.BaseScenario = nil }, "base scenario"},
		{"unknown parameter", func(r *Request) { r.Parameter = "inflation" }, "unknown parameter"},
		{"no default range", func(r *Request) { r.Parameter = "base_migration_rate" }, "no default range"},
		{"inverted range", func(r *Request) {
			lo, hi := dec(0.05), dec(0.01)
			r.Constraints = Constraints{Min: &lo, Max: &hi}
		}, "greater than min"},
		{"target without value", func(r *Request) { r.Goal = GoalTargetNet }, "requires a target"},
		{"unknown goal", func(r *Request) { r.Goal = "minimize_pain" }, "unsupported goal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request("surcharge_rate", GoalTippingPoint)
			tt.mutate(&req)
			_, err := solver.Solve(ctx, req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var beErr *BreakEvenError
			assert.True(t, errors.As(err, &beErr))
		})
	}
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDefaultSolver(nil).Solve(ctx, request("surcharge_rate", GoalTippingPoint))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancel")
}

func TestParseGoal(t *testing.T) {
	g, err := ParseGoal("")
	require.NoError(t, err)
	assert.Equal(t, GoalTippingPoint, g)

	g, err = ParseGoal("maximize_net")
	require.NoError(t, err)
	assert.Equal(t, GoalMaximizeNet, g)

	_, err = ParseGoal("fastest")
	assert.Error(t, err)
}

func TestSolveParameters(t *testing.T) {
	req := request("", GoalTippingPoint)
	mr, err := NewDefaultSolver(nil).SolveParameters(context.Background(), req.BaseScenario, req.Dataset, req.Band, nil, GoalTippingPoint)
	require.NoError(t, err)

	require.Len(t, mr.Results, len(DefaultParameters))
	require.Len(t, mr.Recommendations, len(DefaultParameters))
	assert.True(t, strings.HasPrefix(mr.Recommendations[0], "surcharge_rate: net revenue turns negative at"))

	_, err = NewDefaultSolver(nil).SolveParameters(context.Background(), req.BaseScenario, req.Dataset, req.Band, []string{"bogus"}, GoalTippingPoint)
	assert.Error(t, err)
}
