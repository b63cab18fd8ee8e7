package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// SensitivityFormatter renders sweep results and preset comparisons.
// Accepted inputs are *domain.SensitivityAnalysis and []domain.PresetResult.
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis interface{}) (string, error)
	Name() string
}

// GetSensitivityFormatter returns the sweep formatter for a name, or nil
func GetSensitivityFormatter(name string) SensitivityFormatter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "console", "table", "text":
		return SensitivityConsoleFormatter{}
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	}
	return nil
}

// formatParamValue renders a swept value in its parameter's unit
func formatParamValue(param domain.SensitivityParameter, v decimal.Decimal) string {
	switch param.Unit {
	case "percent":
		return FormatPercentage(v, 2)
	case "dollars":
		return FormatCurrency(v)
	}
	return v.StringFixed(3)
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis interface{}) (string, error) {
	var buf bytes.Buffer

	switch a := analysis.(type) {
	case *domain.SensitivityAnalysis:
		return scf.formatSweep(&buf, a)
	case []domain.PresetResult:
		return scf.formatPresets(&buf, a)
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
}

func (scf SensitivityConsoleFormatter) formatSweep(buf *bytes.Buffer, a *domain.SensitivityAnalysis) (string, error) {
	if len(a.Points) == 0 {
		return "", fmt.Errorf("no points in analysis")
	}
	param := a.Parameter

	fmt.Fprintf(buf, "SENSITIVITY ANALYSIS: %s\n", title(param.Name))
	fmt.Fprintln(buf, strings.Repeat("=", 80))
	fmt.Fprintf(buf, "Scenario: %s   Dataset: %s\n", a.Scenario, a.Dataset)
	fmt.Fprintf(buf, "Range: %s to %s (%d steps)\n",
		formatParamValue(param, param.MinValue), formatParamValue(param, param.MaxValue), len(a.Points))
	if param.Description != "" {
		fmt.Fprintf(buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%14s %14s %14s %14s %10s\n", "Value", "Mechanical", "Migr Loss", "Net", "Migr %")
	fmt.Fprintln(buf, strings.Repeat("-", 80))
	for _, p := range a.Points {
		marker := ""
		if a.TippingPoint != nil && p.Value.Equal(*a.TippingPoint) {
			marker = "  ← tipping point"
		}
		fmt.Fprintf(buf, "%14s %14s %14s %14s %10s%s\n",
			formatParamValue(param, p.Value),
			FormatMillions(p.TotalMechanicalGain),
			FormatMillions(p.TotalBehavioralLoss),
			FormatMillions(p.NetRevenueChange),
			FormatPercentage(p.WeightedMigrationShare, 3),
			marker)
	}
	fmt.Fprintln(buf)

	lo, hi := a.NetRange()
	fmt.Fprintf(buf, "Net revenue range: %s to %s\n", FormatMillions(lo), FormatMillions(hi))
	if a.TippingPoint != nil {
		fmt.Fprintf(buf, "Net revenue turns negative at %s = %s\n", param.Name, formatParamValue(param, *a.TippingPoint))
	} else {
		fmt.Fprintln(buf, "Net revenue does not turn negative in this range")
	}
	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) formatPresets(buf *bytes.Buffer, results []domain.PresetResult) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("no preset results")
	}
	fmt.Fprintln(buf, "BEHAVIORAL PRESET COMPARISON")
	fmt.Fprintln(buf, strings.Repeat("=", 80))
	fmt.Fprintf(buf, "%-14s %-11s %14s %14s %14s %10s\n", "Preset", "Model", "Mechanical", "Migr Loss", "Net", "Offset")
	fmt.Fprintln(buf, strings.Repeat("-", 80))
	for _, pr := range results {
		offset := "-"
		if pr.Output.Offset.HasOffset() {
			offset = FormatPercentage(*pr.Output.Offset.RateIncrease, 3)
		}
		fmt.Fprintf(buf, "%-14s %-11s %14s %14s %14s %10s\n",
			pr.Preset,
			pr.Parameters.Model.String(),
			FormatMillions(pr.Output.TotalMechanicalGain),
			FormatMillions(pr.Output.TotalBehavioralLoss),
			FormatMillions(pr.Output.NetRevenueChange),
			offset)
	}
	return buf.String(), nil
}

// SensitivityCSVFormatter writes one row per sweep point or preset
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis interface{}) (string, error) {
	var rows [][]string
	switch a := analysis.(type) {
	case *domain.SensitivityAnalysis:
		rows = append(rows, []string{a.Parameter.Name, "TotalMechanicalGain", "TotalBehavioralLoss", "NetRevenueChange", "WeightedMigrationShare"})
		for _, p := range a.Points {
			rows = append(rows, []string{
				p.Value.String(),
				p.TotalMechanicalGain.StringFixed(2),
				p.TotalBehavioralLoss.StringFixed(2),
				p.NetRevenueChange.StringFixed(2),
				p.WeightedMigrationShare.StringFixed(6),
			})
		}
	case []domain.PresetResult:
		rows = append(rows, []string{"Preset", "Model", "TotalMechanicalGain", "TotalBehavioralLoss", "NetRevenueChange", "OffsetRate"})
		for _, pr := range a {
			rows = append(rows, []string{
				pr.Preset,
				pr.Parameters.Model.String(),
				pr.Output.TotalMechanicalGain.StringFixed(2),
				pr.Output.TotalBehavioralLoss.StringFixed(2),
				pr.Output.NetRevenueChange.StringFixed(2),
				optionalFixed(pr.Output.Offset.RateIncrease, 6),
			})
		}
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SensitivityJSONFormatter marshals the analysis as indented JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis interface{}) (string, error) {
	switch analysis.(type) {
	case *domain.SensitivityAnalysis, []domain.PresetResult:
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
