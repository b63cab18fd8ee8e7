package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
	"github.com/rgehrsitz/revimpact/internal/tui/components"
	"github.com/rgehrsitz/revimpact/internal/tui/tuistyles"
)

var hundred = decimal.NewFromInt(100)

// View renders the current state of the application
func (m Model) View() string {
	sections := []string{
		m.renderTitleBar(),
		m.renderControls(),
	}
	if m.err != nil {
		sections = append(sections, tuistyles.ErrorStyle.Render("Error: "+m.err.Error()))
	}
	sections = append(sections,
		m.renderMetrics(),
		m.renderChart(),
		m.help.View(m.keys),
	)
	return tuistyles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderTitleBar renders the title and the current selection
func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("revimpact · NY tax policy explorer")

	nyc := "state only"
	if m.includeNYC {
		nyc = "state + NYC"
	}
	status := ""
	if m.calculating {
		status = " · calculating…"
	}
	subtitle := tuistyles.SubtitleStyle.Render(fmt.Sprintf("dataset %s · model %s · preset %s · %s%s",
		m.DatasetName(), m.models[m.modelIdx], m.PresetName(), nyc, status))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m Model) renderControls() string {
	lines := make([]string, 0, len(m.sliders))
	for _, s := range m.sliders {
		lines = append(lines, s.Render())
	}
	return tuistyles.BorderStyle.Render(strings.Join(lines, "\n"))
}

// renderMetrics renders the headline cards for the latest run
func (m Model) renderMetrics() string {
	out := m.output
	if out == nil {
		return tuistyles.InfoStyle.Render("Running model…")
	}

	mechanical := components.NewMetricCard("Mechanical gain", tuistyles.FormatBillions(out.TotalMechanicalGain.InexactFloat64())).
		WithDescription("before migration")
	behavioral := components.NewMetricCard("Migration loss", tuistyles.FormatBillions(out.TotalBehavioralLoss.InexactFloat64())).
		WithDescription(fmt.Sprintf("%s of filers leave", formatShare(out.WeightedMigrationShare.InexactFloat64())))

	net := out.NetRevenueChange
	netCard := components.NewMetricCard("Net revenue", tuistyles.FormatBillions(net.InexactFloat64())).
		WithTrend(!net.IsNegative(), fmt.Sprintf("%s of baseline", out.NetAsPctOfBaseline().StringFixed(2)+"%")).
		WithHighlight(true)

	offset := components.NewMetricCard("Middle-income offset", offsetValue(out.Offset)).
		WithDescription(offsetDescription(out.Offset))

	return components.MetricGrid([]*components.MetricCard{mechanical, behavioral, netCard, offset}, 4)
}

func offsetValue(o domain.MiddleIncomeOffset) string {
	if o.RateIncrease == nil {
		if o.ShortfallAmount.IsPositive() {
			return "n/a"
		}
		return "none needed"
	}
	return "+" + o.RateIncrease.Mul(hundred).StringFixed(3) + " pts"
}

func offsetDescription(o domain.MiddleIncomeOffset) string {
	if o.PerFilerCost == nil {
		return fmt.Sprintf("%s–%s band",
			tuistyles.FormatCurrency(o.Band.Min.InexactFloat64()), tuistyles.FormatCurrency(o.Band.Max.InexactFloat64()))
	}
	return tuistyles.FormatCurrency(o.PerFilerCost.InexactFloat64()) + " per filer"
}

// renderChart plots net revenue across the surcharge-rate sweep
func (m Model) renderChart() string {
	if m.sweep == nil || len(m.sweep.Points) < 2 {
		return ""
	}

	x := make([]float64, len(m.sweep.Points))
	y := make([]float64, len(m.sweep.Points))
	for i, p := range m.sweep.Points {
		x[i] = p.Value.InexactFloat64()
		y[i] = p.NetRevenueChange.InexactFloat64()
	}

	width := m.width - 4
	if width > 90 {
		width = 90
	}
	chart := components.NewSweepChart("Net revenue vs surcharge rate", x, y).
		WithSize(width, 10).
		WithFormatters(components.PercentFormatter(1), tuistyles.FormatBillions).
		WithMarker(m.slider(sliderSurchargeRate).Value)

	note := "No tipping point between 0% and 10%"
	if tp := m.sweep.FindTippingPoint(); tp != nil {
		note = fmt.Sprintf("Net revenue turns negative at a %s surcharge", components.PercentFormatter(2)(tp.InexactFloat64()))
	}
	return chart.Render() + "\n" + tuistyles.InfoStyle.Render(note)
}

func formatShare(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}
