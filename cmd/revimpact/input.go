package main

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/revimpact/internal/config"
	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
	"github.com/rgehrsitz/revimpact/internal/transform"
)

// input is a resolved scenario with the dataset and band it runs against
type input struct {
	Config   *domain.Configuration // nil when the scenario came from flags
	Scenario *domain.Scenario
	Dataset  dataset.Dataset
	Band     domain.IncomeBand
}

// addScenarioFlags registers the flags that select or describe a scenario
func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("scenario", "", "Scenario name in the run file (default: first scenario)")
	f.Float64("surcharge-rate", 0.02, "State surcharge rate above the threshold, as a fraction")
	f.Float64("threshold", 1000000, "AGI above which the state surcharge applies")
	f.Float64("flat-rate-change", 0, "Change to every state bracket rate, as a fraction")
	f.Bool("nyc", false, "Include a New York City surcharge")
	f.Float64("nyc-rate", 0, "NYC surcharge rate above the NYC threshold")
	f.Float64("nyc-threshold", 1000000, "AGI above which the NYC surcharge applies")
	f.String("preset", "", "Behavioral preset: static, conservative, moderate, aggressive")
	f.String("model", "", "Migration model: none, elasticity, threshold, hybrid")
	f.Int("horizon", int(domain.DefaultTimeHorizon), "Years after enactment: 1, 3 or 5")
	f.StringArray("transform", nil, "Transform to apply, e.g. add_surcharge:rate=0.03,threshold=2000000 (repeatable)")
}

// defaultInlineScenario matches the flag defaults
func defaultInlineScenario() *domain.Scenario {
	return &domain.Scenario{
		Name:        "inline",
		Description: "Scenario from command-line flags",
		Policy: domain.PolicyChange{
			SurchargeRate:         decimal.NewFromFloat(0.02),
			SurchargeThreshold:    decimal.NewFromInt(1000000),
			NYCSurchargeThreshold: decimal.NewFromInt(1000000),
		},
		Horizon: domain.DefaultTimeHorizon,
	}
}

// loadInput resolves the scenario from an optional run file plus any flags the user set.
// An explicit --dataset wins over the run file, which wins over settings.
func (a *app) loadInput(cmd *cobra.Command, args []string) (*input, error) {
	in := &input{Band: a.settings.MiddleIncome.Band()}
	datasetName := a.settings.Dataset

	if len(args) > 0 {
		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return nil, err
		}
		name, _ := cmd.Flags().GetString("scenario")
		s, err := config.FindScenario(cfg, name)
		if err != nil {
			return nil, err
		}
		in.Config = cfg
		in.Scenario = s.DeepCopy()
		if cfg.Dataset != "" && !flagChanged(cmd, "dataset") {
			datasetName = cfg.Dataset
		}
		if cfg.MiddleIncome != nil {
			in.Band = *cfg.MiddleIncome
		}
	} else {
		in.Scenario = defaultInlineScenario()
	}

	if err := applyScenarioFlags(cmd, in.Scenario); err != nil {
		return nil, err
	}
	if err := in.Scenario.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid scenario")
	}

	ds, err := dataset.Lookup(datasetName)
	if err != nil {
		return nil, err
	}
	in.Dataset = ds
	return in, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// applyScenarioFlags overrides the scenario with every flag the user set, then applies transforms
func applyScenarioFlags(cmd *cobra.Command, s *domain.Scenario) error {
	f := cmd.Flags()

	decimals := []struct {
		flag   string
		target *decimal.Decimal
	}{
		{"surcharge-rate", &s.Policy.SurchargeRate},
		{"threshold", &s.Policy.SurchargeThreshold},
		{"flat-rate-change", &s.Policy.FlatRateChange},
		{"nyc-rate", &s.Policy.NYCSurchargeRate},
		{"nyc-threshold", &s.Policy.NYCSurchargeThreshold},
	}
	for _, d := range decimals {
		if !f.Changed(d.flag) {
			continue
		}
		v, err := f.GetFloat64(d.flag)
		if err != nil {
			return err
		}
		*d.target = decimal.NewFromFloat(v)
	}

	if f.Changed("nyc") {
		s.Policy.IncludeNYC, _ = f.GetBool("nyc")
	} else if f.Changed("nyc-rate") {
		s.Policy.IncludeNYC = true
	}
	if f.Changed("horizon") {
		h, _ := f.GetInt("horizon")
		s.Horizon = domain.TimeHorizon(h)
	}

	if f.Changed("preset") {
		preset, _ := f.GetString("preset")
		if _, err := domain.BehavioralPreset(preset); err != nil {
			return err
		}
		s.Preset = preset
		s.Behavioral = nil
	}
	if f.Changed("model") {
		name, _ := f.GetString("model")
		model, err := domain.ParseBehavioralModel(name)
		if err != nil {
			return err
		}
		bp, err := s.EffectiveBehavioral()
		if err != nil {
			return err
		}
		bp.Model = model
		s.Behavioral = &bp
	}

	specs, _ := f.GetStringArray("transform")
	if len(specs) == 0 {
		return nil
	}
	registry := transform.NewTransformRegistry()
	transforms := make([]transform.ScenarioTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return eris.Wrapf(err, "transform %q", spec)
		}
		transforms = append(transforms, t)
	}
	modified, err := transform.ApplyTransforms(s, transforms)
	if err != nil {
		return err
	}
	*s = *modified
	return nil
}
