package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// defaultSurchargeThreshold applies when a surcharge spec omits its threshold
var defaultSurchargeThreshold = decimal.NewFromInt(1000000)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("add_surcharge", createAddSurcharge)
	registry.Register("adjust_flat_rate", createAdjustFlatRate)
	registry.Register("add_nyc_surcharge", createAddNYCSurcharge)
	registry.Register("set_behavioral_model", createSetBehavioralModel)
	registry.Register("apply_preset", createApplyPreset)
	registry.Register("set_horizon", createSetHorizon)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in sorted order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "add_surcharge:rate=0.02,threshold=1000000"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func requireDecimal(transform, key string, params map[string]string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func optionalDecimal(key string, params map[string]string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return fallback, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// Factory functions for each transform

func createAddSurcharge(params map[string]string) (ScenarioTransform, error) {
	rate, err := requireDecimal("add_surcharge", "rate", params)
	if err != nil {
		return nil, err
	}
	threshold, err := optionalDecimal("threshold", params, defaultSurchargeThreshold)
	if err != nil {
		return nil, err
	}
	return &AddSurcharge{Rate: rate, Threshold: threshold}, nil
}

func createAdjustFlatRate(params map[string]string) (ScenarioTransform, error) {
	delta, err := requireDecimal("adjust_flat_rate", "delta", params)
	if err != nil {
		return nil, err
	}
	return &AdjustFlatRate{Delta: delta}, nil
}

func createAddNYCSurcharge(params map[string]string) (ScenarioTransform, error) {
	rate, err := requireDecimal("add_nyc_surcharge", "rate", params)
	if err != nil {
		return nil, err
	}
	threshold, err := optionalDecimal("threshold", params, defaultSurchargeThreshold)
	if err != nil {
		return nil, err
	}
	return &AddNYCSurcharge{Rate: rate, Threshold: threshold}, nil
}

func createSetBehavioralModel(params map[string]string) (ScenarioTransform, error) {
	raw, ok := params["model"]
	if !ok {
		return nil, fmt.Errorf("set_behavioral_model requires 'model' parameter")
	}
	model, err := domain.ParseBehavioralModel(raw)
	if err != nil {
		return nil, err
	}
	return &SetBehavioralModel{Model: model}, nil
}

func createApplyPreset(params map[string]string) (ScenarioTransform, error) {
	preset, ok := params["preset"]
	if !ok {
		return nil, fmt.Errorf("apply_preset requires 'preset' parameter")
	}
	return &ApplyPreset{Preset: strings.ToLower(preset)}, nil
}

func createSetHorizon(params map[string]string) (ScenarioTransform, error) {
	raw, ok := params["years"]
	if !ok {
		return nil, fmt.Errorf("set_horizon requires 'years' parameter")
	}
	years, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid years value: %w", err)
	}
	return &SetHorizon{Horizon: domain.TimeHorizon(years)}, nil
}
