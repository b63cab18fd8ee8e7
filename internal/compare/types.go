package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string              `json:"scenarioName"`
	Description  string              `json:"description"`
	Output       *domain.ModelOutput `json:"-"`

	// Key Metrics
	MechanicalGain         decimal.Decimal  `json:"mechanicalGain"`
	BehavioralLoss         decimal.Decimal  `json:"behavioralLoss"`
	NetRevenueChange       decimal.Decimal  `json:"netRevenueChange"`
	WeightedMigrationShare decimal.Decimal  `json:"weightedMigrationShare"`
	OffsetRate             *decimal.Decimal `json:"offsetRate"`

	// Comparison to Base
	NetDiffFromBase        decimal.Decimal `json:"netDiffFromBase"`
	NetPctFromBase         decimal.Decimal `json:"netPctFromBase"`
	MechanicalDiffFromBase decimal.Decimal `json:"mechanicalDiffFromBase"`
	BehavioralDiffFromBase decimal.Decimal `json:"behavioralDiffFromBase"`
	MigrationShareDiff     decimal.Decimal `json:"migrationShareDiff"`

	// Scenario Specifics (extracted from scenario for display)
	Model         string             `json:"model"`
	Horizon       domain.TimeHorizon `json:"timeHorizon"`
	SurchargeRate decimal.Decimal    `json:"surchargeRate"`
	IncludeNYC    bool               `json:"includeNyc"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	Dataset            string             `json:"dataset"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from model runs
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for one run of a scenario
func (mc *MetricsCalculator) CalculateMetrics(scenario *domain.Scenario, bp domain.BehavioralParameters, out *domain.ModelOutput) ComparisonResult {
	return ComparisonResult{
		ScenarioName:           scenario.Name,
		Description:            scenario.Description,
		Output:                 out,
		MechanicalGain:         out.TotalMechanicalGain,
		BehavioralLoss:         out.TotalBehavioralLoss,
		NetRevenueChange:       out.NetRevenueChange,
		WeightedMigrationShare: out.WeightedMigrationShare,
		OffsetRate:             out.Offset.RateIncrease,
		Model:                  bp.Model.String(),
		Horizon:                out.Horizon,
		SurchargeRate:          scenario.Policy.SurchargeRate,
		IncludeNYC:             scenario.Policy.IncludeNYC,
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.NetDiffFromBase = scenario.NetRevenueChange.Sub(base.NetRevenueChange)

	if !base.NetRevenueChange.IsZero() {
		scenario.NetPctFromBase = scenario.NetDiffFromBase.
			Div(base.NetRevenueChange.Abs()).
			Mul(decimal.NewFromInt(100))
	}

	scenario.MechanicalDiffFromBase = scenario.MechanicalGain.Sub(base.MechanicalGain)
	scenario.BehavioralDiffFromBase = scenario.BehavioralLoss.Sub(base.BehavioralLoss)
	scenario.MigrationShareDiff = scenario.WeightedMigrationShare.Sub(base.WeightedMigrationShare)

	return scenario
}

// GenerateRecommendations creates findings based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Highest net revenue
	best := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.NetRevenueChange.GreaterThan(best.NetRevenueChange) {
			best = alt
		}
	}
	if best != compSet.BaseResult {
		recommendations = append(recommendations,
			"Highest Net Revenue: "+best.ScenarioName+" raises $"+best.NetDiffFromBase.StringFixed(0)+
				" more than the base scenario")
	}

	// Smallest migration loss
	leastLoss := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.BehavioralLoss.LessThan(leastLoss.BehavioralLoss) {
			leastLoss = alt
		}
	}
	if leastLoss != compSet.BaseResult {
		recommendations = append(recommendations,
			"Lowest Migration Loss: "+leastLoss.ScenarioName+" loses $"+
				leastLoss.BehavioralDiffFromBase.Abs().StringFixed(0)+" less to out-migration")
	}

	// Sign flips relative to the base
	for _, alt := range compSet.AlternativeResults {
		if !compSet.BaseResult.NetRevenueChange.IsNegative() && alt.NetRevenueChange.IsNegative() {
			msg := "Revenue Loss: " + alt.ScenarioName + " turns net revenue negative"
			if alt.OffsetRate != nil {
				msg += fmt.Sprintf(" (middle-income offset %s%%)", alt.OffsetRate.Mul(decimal.NewFromInt(100)).StringFixed(3))
			}
			recommendations = append(recommendations, msg)
		}
	}

	return recommendations
}
