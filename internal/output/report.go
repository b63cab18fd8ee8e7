package output

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// Report bundles one scenario run with everything needed to render it
type Report struct {
	Scenario    *domain.Scenario
	Band        domain.IncomeBand
	Behavioral  domain.BehavioralParameters
	Output      *domain.ModelOutput
	Assumptions []string
}

// NewReport resolves the scenario's effective behavioral parameters for rendering
func NewReport(scenario *domain.Scenario, band domain.IncomeBand, out *domain.ModelOutput) (*Report, error) {
	if scenario == nil {
		return nil, eris.New("report: scenario is nil")
	}
	if out == nil {
		return nil, eris.New("report: model output is nil")
	}
	bp, err := scenario.EffectiveBehavioral()
	if err != nil {
		return nil, eris.Wrap(err, "report: resolve behavioral parameters")
	}
	return &Report{
		Scenario:   scenario,
		Band:       band,
		Behavioral: bp,
		Output:     out,
	}, nil
}

var (
	printer = message.NewPrinter(language.AmericanEnglish)
	hundred = decimal.NewFromInt(100)
)

// FormatCurrency formats a decimal as whole dollars with digit grouping
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + printer.Sprintf("$%d", amount.Abs().Round(0).IntPart())
	}
	return printer.Sprintf("$%d", amount.Round(0).IntPart())
}

// FormatMillions formats a dollar amount in millions with one decimal
func FormatMillions(amount decimal.Decimal) string {
	m := amount.Div(decimal.NewFromInt(1000000))
	if m.IsNegative() {
		return "-$" + m.Abs().StringFixed(1) + "M"
	}
	return "$" + m.StringFixed(1) + "M"
}

// FormatCount formats a filer count with digit grouping
func FormatCount(n decimal.Decimal) string {
	return printer.Sprintf("%d", n.Round(0).IntPart())
}

// FormatPercentage formats a fraction as a percentage
func FormatPercentage(fraction decimal.Decimal, places int32) string {
	return fraction.Mul(hundred).StringFixed(places) + "%"
}

func signedPoints(delta decimal.Decimal) string {
	s := delta.Mul(hundred).StringFixed(3)
	if !delta.IsNegative() {
		s = "+" + s
	}
	return s + " pts"
}

func title(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "_", " "))
}
