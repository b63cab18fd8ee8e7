package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// FormatValue renders a parameter value in its natural unit
func FormatValue(parameter string, v decimal.Decimal) string {
	unit := "ratio"
	if p, ok := domain.CommonParameter(parameter); ok {
		unit = p.Unit
	} else if strings.HasSuffix(parameter, "_rate") || strings.HasSuffix(parameter, "_share") || parameter == "flat_rate_change" {
		unit = "percent"
	} else if strings.HasSuffix(parameter, "_threshold") || parameter == "threshold_dollars" || parameter == "logistic_slope" {
		unit = "dollars"
	}

	switch unit {
	case "percent":
		return v.Mul(decimal.NewFromInt(100)).StringFixed(3) + "%"
	case "dollars":
		return "$" + v.StringFixed(0)
	}
	return v.StringFixed(4)
}

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted report for one solver result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Parameter:    %s\n", result.Parameter))
	sb.WriteString(fmt.Sprintf("Goal:         %s\n", result.Goal))
	sb.WriteString(fmt.Sprintf("Range:        %s to %s\n", FormatValue(result.Parameter, result.Min), FormatValue(result.Parameter, result.Max)))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:   %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:  %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	if result.Value == nil {
		sb.WriteString("No break-even value in range.\n")
		return sb.String()
	}

	sb.WriteString("SOLUTION\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%s = %s\n", result.Parameter, FormatValue(result.Parameter, *result.Value)))
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Mechanical Gain:    %s\n", tf.formatCurrency(result.MechanicalGain)))
	sb.WriteString(fmt.Sprintf("Migration Loss:     %s\n", tf.formatCurrency(result.BehavioralLoss)))
	sb.WriteString(fmt.Sprintf("Net Revenue Change: %s\n", tf.formatCurrency(result.NetRevenueChange)))
	sb.WriteString(fmt.Sprintf("Change vs Base:     %s\n", tf.formatCurrency(result.NetDiffFromBase)))

	return sb.String()
}

// FormatMulti generates a summary across several solved parameters
func (tf *TableFormatter) FormatMulti(mr *MultiParameterResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Scenario: %s   Dataset: %s   Goal: %s\n\n", mr.Scenario, mr.Dataset, mr.Goal))

	sb.WriteString(fmt.Sprintf("%-24s %14s %16s %s\n", "Parameter", "Value", "Net Revenue", "Status"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range mr.Results {
		value := "n/a"
		if r.Value != nil {
			value = FormatValue(r.Parameter, *r.Value)
		}
		sb.WriteString(fmt.Sprintf("%-24s %14s %16s %s\n",
			r.Parameter, value, tf.formatCurrency(r.NetRevenueChange), tf.formatStatus(r.Success)))
	}

	if len(mr.Recommendations) > 0 {
		sb.WriteString("\nFINDINGS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range mr.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}
	return sb.String()
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "✗ Not converged"
}

// formatCurrency formats dollars in millions with a sign
func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + d.Abs().Div(decimal.NewFromInt(1000000)).StringFixed(1) + "M"
}

// JSONFormatter formats solver results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format marshals a Result or MultiParameterResult
func (jf *JSONFormatter) Format(v interface{}) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
