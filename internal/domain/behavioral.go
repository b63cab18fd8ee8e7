package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BehavioralModelType selects the migration response curve
type BehavioralModelType string

const (
	ModelNone       BehavioralModelType = "none"
	ModelElasticity BehavioralModelType = "elasticity"
	ModelThreshold  BehavioralModelType = "threshold"
	ModelHybrid     BehavioralModelType = "hybrid"
)

// DefaultBehavioralModel is used when no model is named
const DefaultBehavioralModel = ModelHybrid

// AllBehavioralModels returns every supported model in display order
func AllBehavioralModels() []BehavioralModelType {
	return []BehavioralModelType{ModelNone, ModelElasticity, ModelThreshold, ModelHybrid}
}

// ParseBehavioralModel resolves a model name. The empty string selects the default.
func ParseBehavioralModel(s string) (BehavioralModelType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return DefaultBehavioralModel, nil
	}
	for _, m := range AllBehavioralModels() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown behavioral model %q (expected none, elasticity, threshold or hybrid)", s)
}

// UnmarshalText validates the model name while decoding YAML or JSON
func (m *BehavioralModelType) UnmarshalText(text []byte) error {
	parsed, err := ParseBehavioralModel(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Resolved returns the model, substituting the default for the zero value
func (m BehavioralModelType) Resolved() BehavioralModelType {
	if m == "" {
		return DefaultBehavioralModel
	}
	return m
}

// String returns the model name
func (m BehavioralModelType) String() string {
	return string(m.Resolved())
}

// BehavioralParameters configures the out-migration response
type BehavioralParameters struct {
	Model               BehavioralModelType `yaml:"model" json:"model"`
	BaseMigrationRate   decimal.Decimal     `yaml:"base_migration_rate" json:"baseMigrationRate"`
	MigrationElasticity decimal.Decimal     `yaml:"migration_elasticity" json:"migrationElasticity"`
	MaxMigrationShare   decimal.Decimal     `yaml:"max_migration_share" json:"maxMigrationShare"`
	ThresholdDollars    decimal.Decimal     `yaml:"threshold_dollars" json:"thresholdDollars"`
	LogisticSlope       decimal.Decimal     `yaml:"logistic_slope" json:"logisticSlope"`
	Year1Share          decimal.Decimal     `yaml:"year1_share" json:"year1Share"`
	Year3Share          decimal.Decimal     `yaml:"year3_share" json:"year3Share"`
	Year5Share          decimal.Decimal     `yaml:"year5_share" json:"year5Share"`
	ReplacementRate     decimal.Decimal     `yaml:"replacement_rate" json:"replacementRate"`
}

// DefaultBehavioralParameters returns the moderate preset. The logistic centre sits
// well above the burden a small surcharge places on seven-figure filers, so modest
// increases raise revenue while large ones drive the top cohort out.
func DefaultBehavioralParameters() BehavioralParameters {
	return BehavioralParameters{
		Model:               ModelHybrid,
		BaseMigrationRate:   decimal.NewFromFloat(0.001),
		MigrationElasticity: decimal.NewFromFloat(1.5),
		MaxMigrationShare:   decimal.NewFromInt(1),
		ThresholdDollars:    decimal.NewFromInt(3000000),
		LogisticSlope:       decimal.NewFromInt(500000),
		Year1Share:          decimal.NewFromFloat(0.3),
		Year3Share:          decimal.NewFromFloat(0.7),
		Year5Share:          decimal.NewFromInt(1),
		ReplacementRate:     decimal.Zero,
	}
}

// HorizonShare returns the fraction of the long-run response realized by the horizon
func (bp BehavioralParameters) HorizonShare(h TimeHorizon) decimal.Decimal {
	switch h {
	case HorizonOneYear:
		return bp.Year1Share
	case HorizonThreeYear:
		return bp.Year3Share
	case HorizonFiveYear:
		return bp.Year5Share
	default:
		return decimal.NewFromInt(1)
	}
}

// Validate enforces the parameter ranges
func (bp BehavioralParameters) Validate() error {
	one := decimal.NewFromInt(1)
	unitFields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"base_migration_rate", bp.BaseMigrationRate},
		{"max_migration_share", bp.MaxMigrationShare},
		{"year1_share", bp.Year1Share},
		{"year3_share", bp.Year3Share},
		{"year5_share", bp.Year5Share},
		{"replacement_rate", bp.ReplacementRate},
	}
	for _, f := range unitFields {
		if f.value.IsNegative() || f.value.GreaterThan(one) {
			return fmt.Errorf("%s must be between 0 and 1, got %s", f.name, f.value)
		}
	}
	if bp.MigrationElasticity.IsNegative() {
		return fmt.Errorf("migration_elasticity cannot be negative")
	}
	if bp.ThresholdDollars.IsNegative() {
		return fmt.Errorf("threshold_dollars cannot be negative")
	}
	if bp.LogisticSlope.IsNegative() {
		return fmt.Errorf("logistic_slope cannot be negative")
	}
	if bp.Year1Share.GreaterThan(bp.Year3Share) || bp.Year3Share.GreaterThan(bp.Year5Share) {
		return fmt.Errorf("horizon shares must satisfy year1 <= year3 <= year5")
	}
	if _, err := ParseBehavioralModel(string(bp.Model)); err != nil {
		return err
	}
	return nil
}

// BehavioralSources maps each parameter to the reasoning behind its default value
func BehavioralSources() map[string]string {
	return map[string]string{
		"model":                "Hybrid logistic response: little movement for small increases, saturating for large ones.",
		"base_migration_rate":  "About 0.1% of a cohort relocates in response to any increase, however small.",
		"migration_elasticity": "Linear elasticity of ~1.5 on the effective rate, mid-range of published millionaire-migration estimates.",
		"max_migration_share":  "No ceiling beyond the logistic curve itself; an extreme burden can empty a cohort.",
		"threshold_dollars":    "Half the cohort relocates once the additional burden reaches about $3,000,000 per filer.",
		"logistic_slope":       "Response ramps over roughly $500,000 of additional burden around the threshold.",
		"year1_share":          "About 30% of the long-run response occurs in the first year.",
		"year3_share":          "About 70% of the long-run response occurs within three years.",
		"year5_share":          "The full long-run response is realized by year five.",
		"replacement_rate":     "Departing filers are not replaced within the horizon.",
	}
}

// Preset names for behavioral parameter sets
const (
	PresetStatic       = "static"
	PresetConservative = "conservative"
	PresetModerate     = "moderate"
	PresetAggressive   = "aggressive"
)

// PresetNames returns the behavioral presets from least to most responsive
func PresetNames() []string {
	return []string{PresetStatic, PresetConservative, PresetModerate, PresetAggressive}
}

// BehavioralPreset returns the named parameter set
func BehavioralPreset(name string) (BehavioralParameters, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetStatic:
		bp := DefaultBehavioralParameters()
		bp.Model = ModelNone
		return bp, nil
	case PresetConservative:
		return BehavioralParameters{
			Model:               ModelHybrid,
			BaseMigrationRate:   decimal.NewFromFloat(0.0005),
			MigrationElasticity: decimal.NewFromFloat(0.75),
			MaxMigrationShare:   decimal.NewFromFloat(0.5),
			ThresholdDollars:    decimal.NewFromInt(5000000),
			LogisticSlope:       decimal.NewFromInt(1000000),
			Year1Share:          decimal.NewFromFloat(0.25),
			Year3Share:          decimal.NewFromFloat(0.6),
			Year5Share:          decimal.NewFromInt(1),
			ReplacementRate:     decimal.NewFromFloat(0.3),
		}, nil
	case PresetModerate, "default":
		return DefaultBehavioralParameters(), nil
	case PresetAggressive:
		return BehavioralParameters{
			Model:               ModelHybrid,
			BaseMigrationRate:   decimal.NewFromFloat(0.002),
			MigrationElasticity: decimal.NewFromInt(3),
			MaxMigrationShare:   decimal.NewFromInt(1),
			ThresholdDollars:    decimal.NewFromInt(1000000),
			LogisticSlope:       decimal.NewFromInt(250000),
			Year1Share:          decimal.NewFromFloat(0.4),
			Year3Share:          decimal.NewFromFloat(0.8),
			Year5Share:          decimal.NewFromInt(1),
			ReplacementRate:     decimal.Zero,
		}, nil
	default:
		return BehavioralParameters{}, fmt.Errorf("unknown behavioral preset %q", name)
	}
}
