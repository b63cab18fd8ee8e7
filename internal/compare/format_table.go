package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("REVENUE SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	sb.WriteString(fmt.Sprintf("Dataset:       %s\n", compSet.Dataset))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Mechanical",
		numWidth, "Migration",
		numWidth, "Net Change",
		numWidth, "Leave Share"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))

			sb.WriteString(fmt.Sprintf("  Net Revenue:      %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.NetDiffFromBase),
				tf.formatDecimal(alt.NetDiffFromBase.Abs()),
				alt.NetPctFromBase.StringFixed(1)))

			if !alt.MechanicalDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Mechanical Gain:  %s$%s\n",
					tf.deltaSymbol(alt.MechanicalDiffFromBase),
					tf.formatDecimal(alt.MechanicalDiffFromBase.Abs())))
			}

			if !alt.BehavioralDiffFromBase.IsZero() {
				// Smaller losses read as an improvement
				sb.WriteString(fmt.Sprintf("  Migration Loss:   %s$%s\n",
					tf.deltaSymbol(alt.BehavioralDiffFromBase.Neg()),
					tf.formatDecimal(alt.BehavioralDiffFromBase.Abs())))
			}

			if alt.OffsetRate != nil {
				sb.WriteString(fmt.Sprintf("  Middle-Income Offset: %s%%\n",
					alt.OffsetRate.Mul(decimal.NewFromInt(100)).StringFixed(3)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nFINDINGS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	sign := ""
	if result.NetRevenueChange.IsNegative() {
		sign = "-"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.MechanicalGain),
		numWidth, "$"+tf.formatDecimal(result.BehavioralLoss),
		numWidth, sign+"$"+tf.formatDecimal(result.NetRevenueChange.Abs()),
		numWidth, result.WeightedMigrationShare.Mul(decimal.NewFromInt(100)).StringFixed(2)+"%")
}

// formatDecimal formats a dollar amount in billions, millions or thousands
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	switch {
	case d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000000)):
		return d.Div(decimal.NewFromInt(1000000000)).StringFixed(2) + "B"
	case d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)):
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(1) + "M"
	case d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of net revenue deltas
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.NetDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+$%s", tf.formatDecimal(alt.NetDiffFromBase))
		} else if alt.NetDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-$%s", tf.formatDecimal(alt.NetDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
