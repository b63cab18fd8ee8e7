package compare

import (
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"
)

// JSONFormatter writes a comparison as a ranked JSON document. Scenarios are ordered
// by net revenue and the recommendations sit in their own section so consumers can
// read the numbers without parsing prose.
type JSONFormatter struct {
	Pretty bool
}

type jsonComparison struct {
	Dataset         string              `json:"dataset"`
	BaseScenario    string              `json:"baseScenario"`
	ConfigPath      string              `json:"configPath,omitempty"`
	Ranking         []jsonRankedResult  `json:"ranking"`
	Recommendations jsonRecommendations `json:"recommendations"`
}

type jsonRankedResult struct {
	Rank int  `json:"rank"`
	Base bool `json:"base"`
	ComparisonResult
}

type jsonRecommendations struct {
	HighestNet       string   `json:"highestNet,omitempty"`
	LowestNet        string   `json:"lowestNet,omitempty"`
	NegativeNetCount int      `json:"negativeNetCount"`
	Notes            []string `json:"notes"`
}

// Format generates the JSON document
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	if compSet == nil {
		return "", eris.New("compare: nil comparison set")
	}

	doc := jsonComparison{
		Dataset:      compSet.Dataset,
		BaseScenario: compSet.BaseScenarioName,
		ConfigPath:   compSet.ConfigPath,
		Ranking:      rankByNet(compSet),
		Recommendations: jsonRecommendations{
			Notes: append([]string{}, compSet.Recommendations...),
		},
	}
	if n := len(doc.Ranking); n > 0 {
		doc.Recommendations.HighestNet = doc.Ranking[0].ScenarioName
		doc.Recommendations.LowestNet = doc.Ranking[n-1].ScenarioName
	}
	for _, r := range doc.Ranking {
		if r.NetRevenueChange.IsNegative() {
			doc.Recommendations.NegativeNetCount++
		}
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", eris.Wrap(err, "compare: encoding JSON")
	}
	return string(data), nil
}

// rankByNet orders the base and alternatives by net revenue, highest first. Ties keep
// their input order with the base ahead.
func rankByNet(compSet *ComparisonSet) []jsonRankedResult {
	ranked := make([]jsonRankedResult, 0, len(compSet.AlternativeResults)+1)
	if compSet.BaseResult != nil {
		ranked = append(ranked, jsonRankedResult{Base: true, ComparisonResult: *compSet.BaseResult})
	}
	for _, alt := range compSet.AlternativeResults {
		ranked = append(ranked, jsonRankedResult{ComparisonResult: alt})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NetRevenueChange.GreaterThan(ranked[j].NetRevenueChange)
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
