package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Model",
		"Horizon",
		"Mechanical Gain",
		"Behavioral Loss",
		"Net Revenue Change",
		"Weighted Migration Share",
		"Offset Rate",
		"Net Diff from Base",
		"Net % Change",
		"Migration Share Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	offset := ""
	if result.OffsetRate != nil {
		offset = result.OffsetRate.StringFixed(6)
	}
	return []string{
		result.ScenarioName,
		scenarioType,
		result.Model,
		result.Horizon.String(),
		result.MechanicalGain.StringFixed(2),
		result.BehavioralLoss.StringFixed(2),
		result.NetRevenueChange.StringFixed(2),
		result.WeightedMigrationShare.StringFixed(6),
		offset,
		result.NetDiffFromBase.StringFixed(2),
		result.NetPctFromBase.StringFixed(2),
		result.MigrationShareDiff.StringFixed(6),
	}
}
