package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// ConsoleFormatter renders a human-readable report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	if r == nil || r.Output == nil || r.Scenario == nil {
		return nil, fmt.Errorf("console: empty report")
	}
	var buf bytes.Buffer
	out := r.Output

	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintln(&buf, "NEW YORK TAX POLICY REVENUE IMPACT")
	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "Scenario: %s\n", r.Scenario.Name)
	if r.Scenario.Description != "" {
		fmt.Fprintf(&buf, "          %s\n", r.Scenario.Description)
	}
	model := r.Behavioral.Model.String()
	if r.Scenario.Preset != "" {
		model += " (" + r.Scenario.Preset + " preset)"
	}
	fmt.Fprintf(&buf, "Dataset:  %s   Horizon: %s   Response: %s\n", out.Dataset, out.Horizon, model)
	fmt.Fprintln(&buf)

	writePolicy(&buf, r.Scenario.Policy)
	writeCohortTable(&buf, out)
	writeSummary(&buf, out)
	writeOffset(&buf, out.Offset)

	assumptions := r.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	return buf.Bytes(), nil
}

func writePolicy(buf *bytes.Buffer, p domain.PolicyChange) {
	fmt.Fprintln(buf, "POLICY")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	if p.IsNoop() {
		fmt.Fprintln(buf, "  No change to current law")
	}
	if p.SurchargeRate.IsPositive() {
		fmt.Fprintf(buf, "  State surcharge:  %s above %s\n", FormatPercentage(p.SurchargeRate, 3), FormatCurrency(p.SurchargeThreshold))
	}
	if !p.FlatRateChange.IsZero() {
		fmt.Fprintf(buf, "  Flat rate change: %s on every bracket\n", signedPoints(p.FlatRateChange))
	}
	if p.IncludeNYC && p.NYCSurchargeRate.IsPositive() {
		fmt.Fprintf(buf, "  NYC surcharge:    %s above %s\n", FormatPercentage(p.NYCSurchargeRate, 3), FormatCurrency(p.NYCSurchargeThreshold))
	}
	fmt.Fprintln(buf)
}

func writeCohortTable(buf *bytes.Buffer, out *domain.ModelOutput) {
	fmt.Fprintln(buf, "COHORT RESULTS")
	fmt.Fprintln(buf, strings.Repeat("-", 100))
	fmt.Fprintf(buf, "%-16s %10s %13s %12s %12s %8s %12s %12s\n",
		"Cohort", "Filers", "Avg AGI", "Tax/Filer", "Mechanical", "Migr %", "Migr Loss", "Net")
	fmt.Fprintln(buf, strings.Repeat("-", 100))
	for _, cr := range out.Cohorts {
		fmt.Fprintf(buf, "%-16s %10s %13s %12s %12s %8s %12s %12s\n",
			cr.Cohort.Label,
			FormatCount(cr.Cohort.FilerCount),
			FormatCurrency(cr.AvgAGI),
			FormatCurrency(cr.AdditionalTaxPerFiler),
			FormatMillions(cr.MechanicalGain),
			FormatPercentage(cr.MigrationShare, 2),
			FormatMillions(cr.MigrationLoss),
			FormatMillions(cr.NetRevenueChange))
	}
	fmt.Fprintln(buf, strings.Repeat("-", 100))
	fmt.Fprintln(buf)
}

func writeSummary(buf *bytes.Buffer, out *domain.ModelOutput) {
	fmt.Fprintln(buf, "SUMMARY")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "  Mechanical Gain:          %s\n", FormatCurrency(out.TotalMechanicalGain))
	fmt.Fprintf(buf, "  Behavioral Loss:          %s\n", FormatCurrency(out.TotalBehavioralLoss))
	fmt.Fprintf(buf, "  Net Revenue Change:       %s\n", FormatCurrency(out.NetRevenueChange))
	fmt.Fprintf(buf, "  Baseline Revenue:         %s\n", FormatCurrency(out.BaselineRevenue))
	fmt.Fprintf(buf, "  Net as %% of Baseline:     %s%%\n", out.NetAsPctOfBaseline().StringFixed(2))
	fmt.Fprintf(buf, "  Weighted Migration Share: %s\n", FormatPercentage(out.WeightedMigrationShare, 3))
	fmt.Fprintf(buf, "  Filers Leaving:           %s\n", FormatCount(out.TotalLeavingFilers()))
	fmt.Fprintln(buf)
}

func writeOffset(buf *bytes.Buffer, off domain.MiddleIncomeOffset) {
	fmt.Fprintf(buf, "MIDDLE-INCOME OFFSET (%s to %s)\n", FormatCurrency(off.Band.Min), FormatCurrency(off.Band.Max))
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	switch {
	case off.HasOffset():
		fmt.Fprintf(buf, "  Shortfall:         %s\n", FormatCurrency(off.ShortfallAmount))
		fmt.Fprintf(buf, "  Rate Increase:     %s\n", FormatPercentage(*off.RateIncrease, 4))
		if off.PerFilerCost != nil {
			fmt.Fprintf(buf, "  Cost per Filer:    %s\n", FormatCurrency(*off.PerFilerCost))
		}
		if off.PctOfIncome != nil {
			fmt.Fprintf(buf, "  Share of Income:   %s\n", FormatPercentage(*off.PctOfIncome, 4))
		}
		fmt.Fprintf(buf, "  Filers in Band:    %s\n", FormatCount(off.FilersInBand))
	case off.ShortfallAmount.IsPositive():
		fmt.Fprintln(buf, "  The band holds no income to absorb the shortfall")
	default:
		fmt.Fprintln(buf, "  No shortfall: net revenue change is non-negative")
	}
	fmt.Fprintln(buf)
}
