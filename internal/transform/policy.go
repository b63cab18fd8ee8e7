package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

var one = decimal.NewFromInt(1)

func pct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// AddSurcharge sets the state surcharge rate and threshold
type AddSurcharge struct {
	Rate      decimal.Decimal
	Threshold decimal.Decimal
}

func (as *AddSurcharge) Name() string {
	return "add_surcharge"
}

func (as *AddSurcharge) Description() string {
	return fmt.Sprintf("State surcharge of %s on AGI above $%s", pct(as.Rate), as.Threshold.StringFixed(0))
}

func (as *AddSurcharge) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(as.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if as.Rate.IsNegative() || as.Rate.GreaterThan(one) {
		return NewTransformError(as.Name(), "validate", fmt.Sprintf("rate must be between 0 and 1, got %s", as.Rate), nil)
	}
	if as.Threshold.IsNegative() {
		return NewTransformError(as.Name(), "validate", "threshold cannot be negative", nil)
	}
	return nil
}

func (as *AddSurcharge) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Policy.SurchargeRate = as.Rate
	modified.Policy.SurchargeThreshold = as.Threshold
	return modified, nil
}

// AdjustFlatRate shifts the across-the-board rate change by Delta
type AdjustFlatRate struct {
	Delta decimal.Decimal
}

func (afr *AdjustFlatRate) Name() string {
	return "adjust_flat_rate"
}

func (afr *AdjustFlatRate) Description() string {
	return fmt.Sprintf("Adjust every bracket by %s", pct(afr.Delta))
}

func (afr *AdjustFlatRate) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(afr.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if base.Policy.FlatRateChange.Add(afr.Delta).Abs().GreaterThan(one) {
		return NewTransformError(afr.Name(), "validate", "resulting flat rate change must be between -1 and 1", nil)
	}
	return nil
}

func (afr *AdjustFlatRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Policy.FlatRateChange = modified.Policy.FlatRateChange.Add(afr.Delta)
	return modified, nil
}

// AddNYCSurcharge turns on the city component with the given rate and threshold
type AddNYCSurcharge struct {
	Rate      decimal.Decimal
	Threshold decimal.Decimal
}

func (ans *AddNYCSurcharge) Name() string {
	return "add_nyc_surcharge"
}

func (ans *AddNYCSurcharge) Description() string {
	return fmt.Sprintf("NYC surcharge of %s on AGI above $%s", pct(ans.Rate), ans.Threshold.StringFixed(0))
}

func (ans *AddNYCSurcharge) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(ans.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if ans.Rate.IsNegative() || ans.Rate.GreaterThan(one) {
		return NewTransformError(ans.Name(), "validate", fmt.Sprintf("rate must be between 0 and 1, got %s", ans.Rate), nil)
	}
	if ans.Threshold.IsNegative() {
		return NewTransformError(ans.Name(), "validate", "threshold cannot be negative", nil)
	}
	return nil
}

func (ans *AddNYCSurcharge) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Policy.IncludeNYC = true
	modified.Policy.NYCSurchargeRate = ans.Rate
	modified.Policy.NYCSurchargeThreshold = ans.Threshold
	return modified, nil
}
