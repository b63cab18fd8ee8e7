package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/revimpact/internal/tui/tuistyles"
)

// ValueFormatter renders a slider value for display
type ValueFormatter func(float64) string

// ParameterSlider displays an adjustable policy parameter with a visual track
type ParameterSlider struct {
	Key         string
	Label       string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Width       int
	IsFocused   bool
	Disabled    bool
	Description string
	format      ValueFormatter
}

// NewParameterSlider creates a slider over [min, max] moving in step increments
func NewParameterSlider(key, label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Key:   key,
		Label: label,
		Min:   min,
		Max:   max,
		Step:  step,
		Width: 24,
		format: func(v float64) string {
			return strings.TrimRight(strings.TrimRight(formatFloat(v, 2), "0"), ".")
		},
	}
	p.SetValue(value)
	return p
}

// WithFormatter sets how the value is displayed
func (p *ParameterSlider) WithFormatter(f ValueFormatter) *ParameterSlider {
	p.format = f
	return p
}

// WithWidth sets the track width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// WithDescription adds help text shown while focused
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment moves one step up, stopping at Max. It reports whether the value changed.
func (p *ParameterSlider) Increment() bool {
	return p.SetValue(p.Value + p.Step)
}

// Decrement moves one step down, stopping at Min. It reports whether the value changed.
func (p *ParameterSlider) Decrement() bool {
	return p.SetValue(p.Value - p.Step)
}

// SetValue snaps the value to the step grid and clamps it to the range
func (p *ParameterSlider) SetValue(value float64) bool {
	if p.Step > 0 {
		value = p.Min + math.Round((value-p.Min)/p.Step)*p.Step
	}
	value = math.Max(p.Min, math.Min(p.Max, value))
	// round off accumulated float error
	value = math.Round(value*1e9) / 1e9
	if value == 0 {
		value = 0 // drop negative zero
	}
	changed := value != p.Value
	p.Value = value
	return changed
}

// Percentage returns the value's position within the range
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

// FormattedValue returns the display text for the current value
func (p *ParameterSlider) FormattedValue() string {
	return p.format(p.Value)
}

// Render returns a single-line slider: label, track and value
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle.Width(22)
	valueStyle := tuistyles.ParameterValueStyle
	cursor := "  "
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary).Bold(true)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
		cursor = tuistyles.SelectedItemStyle.Render("▸ ")
	}
	if p.Disabled {
		labelStyle = labelStyle.Foreground(tuistyles.ColorMuted)
		valueStyle = valueStyle.Foreground(tuistyles.ColorMuted)
	}

	line := cursor + labelStyle.Render(p.Label) + " " + p.renderTrack() + " " + valueStyle.Render(p.FormattedValue())
	if p.IsFocused && p.Description != "" {
		descStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		line += "\n    " + descStyle.Render(p.Description)
	}
	return line
}

// renderTrack draws the bar with the thumb at the current position
func (p *ParameterSlider) renderTrack() string {
	width := p.Width
	if width < 2 {
		width = 2
	}
	pos := int(math.Round(float64(width-1) * p.Percentage()))

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if pos > 0 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", pos)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if rest := width - pos - 1; rest > 0 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	bar.WriteString("]")
	return bar.String()
}
