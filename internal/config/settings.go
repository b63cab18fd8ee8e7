package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// Settings holds the application configuration.
type Settings struct {
	Dataset      string             `yaml:"dataset" mapstructure:"dataset"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	MiddleIncome MiddleIncomeConfig `yaml:"middle_income" mapstructure:"middle_income"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// OutputConfig selects the default report format.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// MiddleIncomeConfig is the AGI band used for the middle-income offset.
type MiddleIncomeConfig struct {
	Min float64 `yaml:"min" mapstructure:"min"`
	Max float64 `yaml:"max" mapstructure:"max"`
}

// Band converts the configured range to a domain band
func (m MiddleIncomeConfig) Band() domain.IncomeBand {
	return domain.IncomeBand{
		Min: decimal.NewFromFloat(m.Min),
		Max: decimal.NewFromFloat(m.Max),
	}
}

// NewViper returns a viper instance with the config search path, environment
// binding and defaults applied. Callers may bind flags before LoadFrom.
func NewViper() *viper.Viper {
	v := viper.New()

	// Config file
	v.SetConfigName("revimpact")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/revimpact")

	// Environment
	v.SetEnvPrefix("REVIMPACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset", "ty2022")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("output.format", "console")
	v.SetDefault("middle_income.min", 50000)
	v.SetDefault("middle_income.max", 150000)

	return v
}

// Load reads configuration from file and environment.
func Load() (*Settings, error) {
	return LoadFrom(NewViper())
}

// LoadFrom reads the optional config file into v and decodes the result.
func LoadFrom(v *viper.Viper) (*Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the logging options and the middle-income band
func (s *Settings) Validate() error {
	switch s.Log.Format {
	case "console", "json":
	default:
		return eris.Errorf("config: log.format must be console or json, got %q", s.Log.Format)
	}
	if err := s.MiddleIncome.Band().Validate(); err != nil {
		return eris.Wrap(err, "config: middle_income")
	}
	return nil
}
