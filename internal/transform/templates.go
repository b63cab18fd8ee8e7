package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common policy alternatives
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()
	million := decimal.NewFromInt(1000000)

	// Policy templates
	registry.Register(Template{
		Name:        "millionaires_tax",
		Description: "2% state surcharge on AGI above $1,000,000",
		Transforms: []ScenarioTransform{
			&AddSurcharge{Rate: decimal.NewFromFloat(0.02), Threshold: million},
		},
	})

	registry.Register(Template{
		Name:        "millionaires_tax_nyc",
		Description: "2% state plus 1% NYC surcharge above $1,000,000",
		Transforms: []ScenarioTransform{
			&AddSurcharge{Rate: decimal.NewFromFloat(0.02), Threshold: million},
			&AddNYCSurcharge{Rate: decimal.NewFromFloat(0.01), Threshold: million},
		},
	})

	registry.Register(Template{
		Name:        "flat_quarter_point",
		Description: "Raise every bracket by 0.25 percentage points",
		Transforms: []ScenarioTransform{
			&AdjustFlatRate{Delta: decimal.NewFromFloat(0.0025)},
		},
	})

	// Response templates
	registry.Register(Template{
		Name:        "static_response",
		Description: "Assume no migration response",
		Transforms: []ScenarioTransform{
			&ApplyPreset{Preset: domain.PresetStatic},
		},
	})

	registry.Register(Template{
		Name:        "aggressive_response",
		Description: "Assume a strong, fast migration response",
		Transforms: []ScenarioTransform{
			&ApplyPreset{Preset: domain.PresetAggressive},
		},
	})

	registry.Register(Template{
		Name:        "short_horizon",
		Description: "Measure migration one year after enactment",
		Transforms: []ScenarioTransform{
			&SetHorizon{Horizon: domain.HorizonOneYear},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario and names the result after it
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}
	var (
		modified *domain.Scenario
		err      error
	)
	if len(template.Transforms) == 0 {
		modified = base.DeepCopy()
	} else {
		modified, err = ApplyTransforms(base, template.Transforms)
		if err != nil {
			return nil, err
		}
	}
	modified.Name = template.Name
	modified.Description = template.Description
	return modified, nil
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{
		"Policy":   {},
		"Response": {},
	}
	for _, name := range registry.List() {
		template := registry.templates[name]
		if strings.HasSuffix(template.Name, "_response") || strings.HasSuffix(template.Name, "_horizon") {
			categories["Response"] = append(categories["Response"], template)
		} else {
			categories["Policy"] = append(categories["Policy"], template)
		}
	}

	for _, category := range []string{"Policy", "Response"} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  revimpact compare run.yaml --with millionaires_tax,aggressive_response\n")
	sb.WriteString("  revimpact compare --with flat_quarter_point,short_horizon\n")

	return sb.String()
}
