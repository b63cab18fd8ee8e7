package output

import (
	"encoding/json"
	"fmt"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// JSONFormatter writes the full run document
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

type behavioralDocument struct {
	domain.BehavioralParameters
	Sources map[string]string `json:"_sources"`
}

type runDocument struct {
	Scenario     string              `json:"scenario"`
	Description  string              `json:"description,omitempty"`
	Dataset      string              `json:"dataset"`
	Policy       domain.PolicyChange `json:"policy"`
	Preset       string              `json:"preset,omitempty"`
	Behavioral   behavioralDocument  `json:"behavioral"`
	TimeHorizon  domain.TimeHorizon  `json:"timeHorizon"`
	MiddleIncome domain.IncomeBand   `json:"middleIncome"`
	Results      *domain.ModelOutput `json:"results"`
}

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	if r == nil || r.Output == nil || r.Scenario == nil {
		return nil, fmt.Errorf("json: empty report")
	}
	doc := runDocument{
		Scenario:    r.Scenario.Name,
		Description: r.Scenario.Description,
		Dataset:     r.Output.Dataset,
		Policy:      r.Scenario.Policy,
		Preset:      r.Scenario.Preset,
		Behavioral: behavioralDocument{
			BehavioralParameters: r.Behavioral,
			Sources:              domain.BehavioralSources(),
		},
		TimeHorizon:  r.Output.Horizon,
		MiddleIncome: r.Band,
		Results:      r.Output,
	}
	return json.MarshalIndent(doc, "", "  ")
}
