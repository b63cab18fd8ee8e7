package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is a half-open [Min, Max) income range taxed at a marginal rate.
// A zero Max marks the top, unbounded bracket.
type TaxBracket struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max" json:"max"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// HasCeiling reports whether the bracket has a finite upper bound
func (b TaxBracket) HasCeiling() bool {
	return b.Max.IsPositive()
}

// ValidateBrackets checks that a schedule is sorted, contiguous and non-overlapping,
// and that only the last bracket is unbounded.
func ValidateBrackets(brackets []TaxBracket) error {
	for i, b := range brackets {
		if b.Min.IsNegative() {
			return fmt.Errorf("bracket %d: min cannot be negative", i)
		}
		if b.Rate.IsNegative() {
			return fmt.Errorf("bracket %d: rate cannot be negative", i)
		}
		if b.HasCeiling() && b.Max.LessThanOrEqual(b.Min) {
			return fmt.Errorf("bracket %d: max %s must exceed min %s", i, b.Max, b.Min)
		}
		if !b.HasCeiling() && i != len(brackets)-1 {
			return fmt.Errorf("bracket %d: only the last bracket may be unbounded", i)
		}
		if i > 0 && !brackets[i-1].Max.Equal(b.Min) {
			return fmt.Errorf("bracket %d: min %s does not continue previous max %s", i, b.Min, brackets[i-1].Max)
		}
	}
	return nil
}

// PolicyChange describes one hypothetical tax modification
type PolicyChange struct {
	SurchargeRate         decimal.Decimal `yaml:"surcharge_rate" json:"surchargeRate"`
	SurchargeThreshold    decimal.Decimal `yaml:"surcharge_threshold" json:"surchargeThreshold"`
	FlatRateChange        decimal.Decimal `yaml:"flat_rate_change" json:"flatRateChange"`
	IncludeNYC            bool            `yaml:"include_nyc" json:"includeNyc"`
	NYCSurchargeRate      decimal.Decimal `yaml:"nyc_surcharge_rate" json:"nycSurchargeRate"`
	NYCSurchargeThreshold decimal.Decimal `yaml:"nyc_surcharge_threshold" json:"nycSurchargeThreshold"`
}

// StateOnly returns a copy of the policy with the city component switched off
func (p PolicyChange) StateOnly() PolicyChange {
	p.IncludeNYC = false
	return p
}

// IsNoop reports whether the policy leaves every filer's liability unchanged
func (p PolicyChange) IsNoop() bool {
	nycActive := p.IncludeNYC && !p.NYCSurchargeRate.IsZero()
	return p.SurchargeRate.IsZero() && p.FlatRateChange.IsZero() && !nycActive
}

// Validate rejects policies with negative thresholds or surcharge rates outside [0,1]
func (p PolicyChange) Validate() error {
	if p.SurchargeRate.IsNegative() || p.SurchargeRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("surcharge rate must be between 0 and 1")
	}
	if p.SurchargeThreshold.IsNegative() {
		return fmt.Errorf("surcharge threshold cannot be negative")
	}
	if p.NYCSurchargeRate.IsNegative() || p.NYCSurchargeRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("NYC surcharge rate must be between 0 and 1")
	}
	if p.NYCSurchargeThreshold.IsNegative() {
		return fmt.Errorf("NYC surcharge threshold cannot be negative")
	}
	if p.FlatRateChange.Abs().GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("flat rate change must be between -1 and 1")
	}
	return nil
}

// TimeHorizon is the number of years after enactment at which migration is measured
type TimeHorizon int

const (
	HorizonOneYear   TimeHorizon = 1
	HorizonThreeYear TimeHorizon = 3
	HorizonFiveYear  TimeHorizon = 5
)

// DefaultTimeHorizon is the horizon used when a scenario leaves it unset
const DefaultTimeHorizon = HorizonFiveYear

// Valid reports whether the horizon is one of the modeled years
func (h TimeHorizon) Valid() bool {
	return h == HorizonOneYear || h == HorizonThreeYear || h == HorizonFiveYear
}

func (h TimeHorizon) String() string {
	if h == HorizonOneYear {
		return "1 year"
	}
	return fmt.Sprintf("%d years", int(h))
}

// IncomeBand is a half-open [Min, Max) AGI range used for the middle-income offset
type IncomeBand struct {
	Min decimal.Decimal `yaml:"min" json:"min" mapstructure:"min"`
	Max decimal.Decimal `yaml:"max" json:"max" mapstructure:"max"`
}

// DefaultMiddleIncomeBand returns the $50,000–$150,000 band
func DefaultMiddleIncomeBand() IncomeBand {
	return IncomeBand{
		Min: decimal.NewFromInt(50000),
		Max: decimal.NewFromInt(150000),
	}
}

// Validate ensures the band is non-empty
func (b IncomeBand) Validate() error {
	if b.Min.IsNegative() {
		return fmt.Errorf("middle income min cannot be negative")
	}
	if b.Max.LessThanOrEqual(b.Min) {
		return fmt.Errorf("middle income max (%s) must exceed min (%s)", b.Max, b.Min)
	}
	return nil
}
