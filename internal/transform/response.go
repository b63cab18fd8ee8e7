package transform

import (
	"fmt"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// SetBehavioralModel switches the migration curve, keeping the other parameters
type SetBehavioralModel struct {
	Model domain.BehavioralModelType
}

func (sbm *SetBehavioralModel) Name() string {
	return "set_behavioral_model"
}

func (sbm *SetBehavioralModel) Description() string {
	return fmt.Sprintf("Use the %s migration model", sbm.Model)
}

func (sbm *SetBehavioralModel) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sbm.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if _, err := domain.ParseBehavioralModel(string(sbm.Model)); err != nil {
		return NewTransformError(sbm.Name(), "validate", "unsupported model", err)
	}
	return nil
}

func (sbm *SetBehavioralModel) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	bp, err := modified.EffectiveBehavioral()
	if err != nil {
		return nil, NewTransformError(sbm.Name(), "apply", "cannot resolve behavioral parameters", err)
	}
	bp.Model = sbm.Model.Resolved()
	modified.Behavioral = &bp
	return modified, nil
}

// ApplyPreset replaces the behavioral parameters with a named preset
type ApplyPreset struct {
	Preset string
}

func (ap *ApplyPreset) Name() string {
	return "apply_preset"
}

func (ap *ApplyPreset) Description() string {
	return fmt.Sprintf("Apply the %s behavioral preset", ap.Preset)
}

func (ap *ApplyPreset) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(ap.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if _, err := domain.BehavioralPreset(ap.Preset); err != nil {
		return NewTransformError(ap.Name(), "validate", "unknown preset", err)
	}
	return nil
}

func (ap *ApplyPreset) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	bp, err := domain.BehavioralPreset(ap.Preset)
	if err != nil {
		return nil, NewTransformError(ap.Name(), "apply", "unknown preset", err)
	}
	modified := base.DeepCopy()
	modified.Preset = ap.Preset
	modified.Behavioral = &bp
	return modified, nil
}

// SetHorizon changes the year at which migration is measured
type SetHorizon struct {
	Horizon domain.TimeHorizon
}

func (sh *SetHorizon) Name() string {
	return "set_horizon"
}

func (sh *SetHorizon) Description() string {
	return fmt.Sprintf("Measure migration after %d year(s)", sh.Horizon)
}

func (sh *SetHorizon) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sh.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if !sh.Horizon.Valid() {
		return NewTransformError(sh.Name(), "validate", fmt.Sprintf("horizon must be 1, 3 or 5 years, got %d", sh.Horizon), nil)
	}
	return nil
}

func (sh *SetHorizon) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Horizon = sh.Horizon
	return modified, nil
}
