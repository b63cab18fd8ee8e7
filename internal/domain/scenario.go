package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scenario is one run request: a policy, a behavioral response and a horizon
type Scenario struct {
	Name        string                `yaml:"name" json:"name"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Policy      PolicyChange          `yaml:"policy" json:"policy"`
	Preset      string                `yaml:"preset,omitempty" json:"preset,omitempty"`
	Behavioral  *BehavioralParameters `yaml:"behavioral,omitempty" json:"behavioral,omitempty"`
	Horizon     TimeHorizon           `yaml:"time_horizon,omitempty" json:"timeHorizon,omitempty"`
}

// EffectiveBehavioral returns the explicit parameters, the named preset, or the defaults, in that order
func (s *Scenario) EffectiveBehavioral() (BehavioralParameters, error) {
	if s.Behavioral != nil {
		return *s.Behavioral, nil
	}
	if s.Preset != "" {
		return BehavioralPreset(s.Preset)
	}
	return DefaultBehavioralParameters(), nil
}

// EffectiveHorizon substitutes the default for an unset horizon
func (s *Scenario) EffectiveHorizon() TimeHorizon {
	if s.Horizon == 0 {
		return DefaultTimeHorizon
	}
	return s.Horizon
}

// Validate checks the policy, behavioral parameters and horizon
func (s *Scenario) Validate() error {
	if err := s.Policy.Validate(); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	bp, err := s.EffectiveBehavioral()
	if err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if err := bp.Validate(); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if !s.EffectiveHorizon().Valid() {
		return fmt.Errorf("scenario %q: time horizon must be 1, 3 or 5 years, got %d", s.Name, s.Horizon)
	}
	return nil
}

// DeepCopy returns a copy that shares no pointers with the receiver
func (s *Scenario) DeepCopy() *Scenario {
	if s == nil {
		return nil
	}
	copied := *s
	if s.Behavioral != nil {
		bp := *s.Behavioral
		copied.Behavioral = &bp
	}
	return &copied
}

// Configuration is the YAML run file
type Configuration struct {
	Dataset      string      `yaml:"dataset,omitempty" json:"dataset,omitempty"`
	MiddleIncome *IncomeBand `yaml:"middle_income,omitempty" json:"middleIncome,omitempty"`
	Scenarios    []Scenario  `yaml:"scenarios" json:"scenarios"`
}

// UnmarshalYAML starts from the default parameters so a run file only has to name what it changes
func (bp *BehavioralParameters) UnmarshalYAML(value *yaml.Node) error {
	type plain BehavioralParameters
	p := plain(DefaultBehavioralParameters())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*bp = BehavioralParameters(p)
	return nil
}
