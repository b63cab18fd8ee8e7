package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
)

// InputParser handles parsing of scenario run files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a run file from YAML
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "config: failed to read file %s", filename)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes parses and validates a run file
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, eris.Wrap(err, "config: failed to parse YAML")
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config.Dataset != "" {
		if _, err := dataset.Lookup(config.Dataset); err != nil {
			return eris.Wrap(err, "config: configuration validation failed")
		}
	}
	if config.MiddleIncome != nil {
		if err := config.MiddleIncome.Validate(); err != nil {
			return eris.Wrap(err, "config: configuration validation failed: middle_income")
		}
	}

	if len(config.Scenarios) == 0 {
		return eris.New("config: configuration validation failed: no scenarios provided")
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		scenario := &config.Scenarios[i]
		if scenario.Name == "" {
			return eris.Errorf("config: configuration validation failed: scenario %d has no name", i)
		}
		if seen[scenario.Name] {
			return eris.Errorf("config: configuration validation failed: duplicate scenario name %q", scenario.Name)
		}
		seen[scenario.Name] = true

		if err := scenario.Validate(); err != nil {
			return eris.Wrapf(err, "config: configuration validation failed: scenario %d", i)
		}
	}

	return nil
}

// FindScenario returns the named scenario, or the first one when name is empty
func FindScenario(config *domain.Configuration, name string) (*domain.Scenario, error) {
	if len(config.Scenarios) == 0 {
		return nil, eris.New("config: no scenarios provided")
	}
	if name == "" {
		return &config.Scenarios[0], nil
	}
	for i := range config.Scenarios {
		if config.Scenarios[i].Name == name {
			return &config.Scenarios[i], nil
		}
	}
	return nil, eris.Errorf("config: scenario %q not found", name)
}
