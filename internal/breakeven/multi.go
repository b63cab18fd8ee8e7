package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

// DefaultParameters are the parameters solved when none are named
var DefaultParameters = []string{"surcharge_rate", "migration_elasticity", "max_migration_share"}

// SolveParameters runs the same goal over several parameters and summarizes the outcomes
func (s *Solver) SolveParameters(
	ctx context.Context,
	base *domain.Scenario,
	ds dataset.Dataset,
	band domain.IncomeBand,
	parameters []string,
	goal Goal,
) (*MultiParameterResult, error) {
	if base == nil {
		return nil, &BreakEvenError{Operation: "solve_parameters", Message: "base scenario is required"}
	}
	if len(parameters) == 0 {
		parameters = DefaultParameters
	}

	mr := &MultiParameterResult{
		Scenario: base.Name,
		Dataset:  ds.Name,
		Goal:     goal,
	}

	for _, name := range parameters {
		result, err := s.Solve(ctx, Request{
			BaseScenario: base,
			Dataset:      ds,
			Band:         band,
			Parameter:    name,
			Goal:         goal,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, &BreakEvenError{Operation: "solve_parameters", Message: "cancelled", Cause: err}
			}
			// Log error but continue with other parameters
			s.Engine.Logger.Warnf("breakeven: %s: %v", name, err)
			continue
		}
		mr.Results = append(mr.Results, *result)
	}

	if len(mr.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_parameters",
			Message:   "no parameter could be solved",
		}
	}

	mr.Recommendations = generateRecommendations(mr)
	return mr, nil
}

func generateRecommendations(mr *MultiParameterResult) []string {
	var recs []string
	for _, r := range mr.Results {
		if r.Value == nil {
			recs = append(recs, fmt.Sprintf("%s: %s between %s and %s",
				r.Parameter, r.ConvergenceInfo, FormatValue(r.Parameter, r.Min), FormatValue(r.Parameter, r.Max)))
			continue
		}
		switch r.Goal {
		case GoalMaximizeNet:
			recs = append(recs, fmt.Sprintf("%s: net revenue peaks at %s", r.Parameter, FormatValue(r.Parameter, *r.Value)))
		case GoalTargetNet:
			recs = append(recs, fmt.Sprintf("%s: net revenue falls to target at %s", r.Parameter, FormatValue(r.Parameter, *r.Value)))
		default:
			recs = append(recs, fmt.Sprintf("%s: net revenue turns negative at %s", r.Parameter, FormatValue(r.Parameter, *r.Value)))
		}
	}
	return recs
}
