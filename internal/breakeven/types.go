package breakeven

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

// Goal defines what outcome to solve for
type Goal string

const (
	GoalTippingPoint Goal = "tipping_point" // Value at which net revenue turns negative
	GoalTargetNet    Goal = "target_net"    // Value at which net revenue falls to a target
	GoalMaximizeNet  Goal = "maximize_net"  // Value with the highest net revenue
)

// ParseGoal converts a CLI goal name, defaulting to the tipping point
func ParseGoal(s string) (Goal, error) {
	switch Goal(s) {
	case "", GoalTippingPoint:
		return GoalTippingPoint, nil
	case GoalTargetNet, GoalMaximizeNet:
		return Goal(s), nil
	}
	return "", &BreakEvenError{
		Operation: "parse_goal",
		Message:   "unknown goal " + s + " (expected tipping_point, target_net or maximize_net)",
	}
}

// Constraints bound the searched parameter range
type Constraints struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`

	// Net revenue target for GoalTargetNet
	TargetNet *decimal.Decimal `json:"target_net,omitempty"`
}

// Request defines one solver run
type Request struct {
	BaseScenario  *domain.Scenario
	Dataset       dataset.Dataset
	Band          domain.IncomeBand
	Parameter     string
	Goal          Goal
	Constraints   Constraints
	MaxIterations int // Maximum bisection steps
}

// Result contains the outcome of a solver run
type Result struct {
	Parameter       string `json:"parameter"`
	Goal            Goal   `json:"goal"`
	Success         bool   `json:"success"`
	Iterations      int    `json:"iterations"`
	ConvergenceInfo string `json:"convergence_info"`

	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`

	// Solved value, nil when the range holds no crossing
	Value *decimal.Decimal `json:"value"`

	// Outcome at the solved value
	Output           *domain.ModelOutput `json:"-"`
	NetRevenueChange decimal.Decimal     `json:"net_revenue_change"`
	MechanicalGain   decimal.Decimal     `json:"mechanical_gain"`
	BehavioralLoss   decimal.Decimal     `json:"behavioral_loss"`

	// Comparison to the unmodified scenario
	BaseNetRevenueChange decimal.Decimal `json:"base_net_revenue_change"`
	NetDiffFromBase      decimal.Decimal `json:"net_diff_from_base"`
}

// MultiParameterResult holds one solve per parameter
type MultiParameterResult struct {
	Scenario        string   `json:"scenario"`
	Dataset         string   `json:"dataset"`
	Goal            Goal     `json:"goal"`
	Results         []Result `json:"results"`
	Recommendations []string `json:"recommendations"`
}

// SolverOptions configures the search
type SolverOptions struct {
	GridResolution    int             // Grid intervals scanned before bisecting
	RelativeTolerance decimal.Decimal // Bisection stops below this fraction of the range
	NetTolerance      decimal.Decimal // Bisection stops when |net - target| is within this many dollars
	MaxIterations     int             // Maximum bisection steps
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		GridResolution:    50,
		RelativeTolerance: decimal.NewFromFloat(0.000001),
		NetTolerance:      decimal.NewFromInt(100000),
		MaxIterations:     60,
	}
}

// resolveBounds applies constraints over the predefined sweep range for the parameter
func (c *Constraints) resolveBounds(parameter string) (decimal.Decimal, decimal.Decimal, error) {
	var lo, hi decimal.Decimal
	known := false
	if p, ok := domain.CommonParameter(parameter); ok {
		lo, hi = p.MinValue, p.MaxValue
		known = true
	}
	if c.Min != nil {
		lo = *c.Min
	}
	if c.Max != nil {
		hi = *c.Max
	}
	if !known && (c.Min == nil || c.Max == nil) {
		return lo, hi, &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "parameter " + parameter + " has no default range; set both min and max",
		}
	}
	if !hi.GreaterThan(lo) {
		return lo, hi, &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max must be greater than min",
		}
	}
	return lo, hi, nil
}

// BreakEvenError represents errors from the solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
