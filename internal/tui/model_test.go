package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle runs the command and feeds its result back into the model
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(CalculationCompleteMsg)
	require.True(t, ok, "expected a calculation result, got %T", msg)
	require.NoError(t, done.Err)
	m, _ = send(t, m, done)
	return m
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(Options{})

	assert.Equal(t, "ty2022", m.DatasetName())
	assert.Equal(t, domain.PresetModerate, m.PresetName())

	s := m.Scenario()
	assert.True(t, s.Policy.SurchargeRate.Equal(decimal.NewFromFloat(0.02)))
	assert.True(t, s.Policy.SurchargeThreshold.Equal(decimal.NewFromInt(1000000)))
	assert.False(t, s.Policy.IncludeNYC)
	assert.Equal(t, domain.HorizonFiveYear, s.Horizon)
	require.NotNil(t, s.Behavioral)
	assert.Equal(t, domain.ModelHybrid, s.Behavioral.Model)
	assert.NoError(t, s.Validate())
	assert.Nil(t, m.Output())
}

func TestInit_RunsModel(t *testing.T) {
	m := NewModel(Options{Dataset: "ty2021"})
	m = settle(t, m, m.Init())

	out := m.Output()
	require.NotNil(t, out)
	assert.Equal(t, "ty2021", out.Dataset)
	assert.True(t, out.TotalMechanicalGain.IsPositive())
	require.NotNil(t, m.sweep)
	assert.Len(t, m.sweep.Points, 41)

	view := m.View()
	assert.Contains(t, view, "Mechanical gain")
	assert.Contains(t, view, "Net revenue")
	assert.Contains(t, view, "Middle-income offset")
	assert.Contains(t, view, "Net revenue vs surcharge rate")
}

func TestSliderChangeTriggersRecalculation(t *testing.T) {
	m := NewModel(Options{})
	m = settle(t, m, m.Init())
	before := m.Output().TotalMechanicalGain

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, m.calculating)
	assert.True(t, m.Scenario().Policy.SurchargeRate.Equal(decimal.NewFromFloat(0.0225)))

	m = settle(t, m, cmd)
	assert.False(t, m.calculating)
	assert.True(t, m.Output().TotalMechanicalGain.GreaterThan(before))
}

func TestStaleResultsAreDropped(t *testing.T) {
	m := NewModel(Options{})
	stale := m.Init()

	m, fresh := send(t, m, tea.KeyMsg{Type: tea.KeyRight})

	m, _ = send(t, m, stale())
	assert.Nil(t, m.Output(), "result for an older request is ignored")
	assert.True(t, m.calculating)

	m = settle(t, m, fresh)
	require.NotNil(t, m.Output())
}

func TestFocusMovesBetweenSliders(t *testing.T) {
	m := NewModel(Options{})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.focused, "stops at the first slider")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.focused)
	assert.True(t, m.sliders[1].IsFocused)
	assert.False(t, m.sliders[0].IsFocused)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, m.Scenario().Policy.SurchargeThreshold.Equal(decimal.NewFromInt(750000)))
}

func TestHorizonSlider(t *testing.T) {
	m := NewModel(Options{})
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, keyRunes("j"))
	}
	require.Equal(t, sliderHorizon, m.sliders[m.focused].Key)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, domain.HorizonThreeYear, m.Scenario().Horizon)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, domain.HorizonOneYear, m.Scenario().Horizon)

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd, "no run when the value does not move")
}

func TestCyclePresetAndModel(t *testing.T) {
	m := NewModel(Options{})

	m, cmd := send(t, m, keyRunes("p"))
	assert.NotNil(t, cmd)
	assert.Equal(t, domain.PresetAggressive, m.PresetName())
	assert.True(t, m.Scenario().Behavioral.MigrationElasticity.Equal(decimal.NewFromInt(3)))

	m, _ = send(t, m, keyRunes("p"))
	assert.Equal(t, domain.PresetStatic, m.PresetName())
	assert.Equal(t, domain.ModelNone, m.Scenario().Behavioral.Model)

	m, _ = send(t, m, keyRunes("m"))
	assert.Equal(t, domain.ModelElasticity, m.Scenario().Behavioral.Model)
	assert.Equal(t, domain.PresetStatic, m.PresetName(), "model override keeps the preset's other parameters")
}

func TestStaticPresetHasNoMigrationLoss(t *testing.T) {
	m := NewModel(Options{})
	m, _ = send(t, m, keyRunes("p"))
	m, cmd := send(t, m, keyRunes("p"))
	m = settle(t, m, cmd)

	assert.True(t, m.Output().TotalBehavioralLoss.IsZero())
	assert.Contains(t, m.View(), "none needed")
}

func TestToggleNYC(t *testing.T) {
	m := NewModel(Options{})
	for i := 0; i < 3; i++ {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, sliderNYCSurchargeRate, m.sliders[m.focused].Key)

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd, "city slider is inactive until NYC is enabled")

	m, cmd = send(t, m, keyRunes("n"))
	assert.NotNil(t, cmd)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})

	s := m.Scenario()
	assert.True(t, s.Policy.IncludeNYC)
	assert.True(t, s.Policy.NYCSurchargeRate.Equal(decimal.NewFromFloat(0.0025)))
	assert.True(t, s.Policy.NYCSurchargeThreshold.Equal(decimal.NewFromInt(1000000)))
	assert.Contains(t, m.View(), "state + NYC")
}

func TestCycleDataset(t *testing.T) {
	m := NewModel(Options{})
	m, cmd := send(t, m, keyRunes("d"))
	assert.Equal(t, "ty2021", m.DatasetName())

	m = settle(t, m, cmd)
	assert.Equal(t, "ty2021", m.Output().Dataset)
}

func TestResetRestoresInitialScenario(t *testing.T) {
	m := NewModel(Options{})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = send(t, m, keyRunes("p"))
	m, _ = send(t, m, keyRunes("n"))

	m, cmd := send(t, m, keyRunes("r"))
	assert.NotNil(t, cmd)
	s := m.Scenario()
	assert.True(t, s.Policy.SurchargeRate.Equal(decimal.NewFromFloat(0.02)))
	assert.False(t, s.Policy.IncludeNYC)
	assert.Equal(t, domain.PresetModerate, m.PresetName())
}

func TestCustomBehavioralScenario(t *testing.T) {
	bp := domain.DefaultBehavioralParameters()
	bp.Model = domain.ModelThreshold
	scenario := &domain.Scenario{
		Name: "from_file",
		Policy: domain.PolicyChange{
			SurchargeRate:      decimal.NewFromFloat(0.03),
			SurchargeThreshold: decimal.NewFromInt(2000000),
		},
		Behavioral: &bp,
		Horizon:    domain.HorizonThreeYear,
	}

	m := NewModel(Options{Scenario: scenario})
	assert.Equal(t, "custom", m.PresetName())

	s := m.Scenario()
	assert.Equal(t, "from_file", s.Name)
	assert.Equal(t, domain.ModelThreshold, s.Behavioral.Model)
	assert.Empty(t, s.Preset)
	assert.Equal(t, domain.HorizonThreeYear, s.Horizon)
	assert.True(t, s.Policy.SurchargeThreshold.Equal(decimal.NewFromInt(2000000)))

	m, _ = send(t, m, keyRunes("p"))
	assert.Equal(t, domain.PresetStatic, m.PresetName())
}

func TestQuitAndHelp(t *testing.T) {
	m := NewModel(Options{})

	m, cmd := send(t, m, keyRunes("?"))
	assert.Nil(t, cmd)
	assert.True(t, m.help.ShowAll)

	_, cmd = send(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowResize(t *testing.T) {
	m := NewModel(Options{})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.help.Width)
}

func TestChartNoteRequiresPositiveNetBeforeCrossing(t *testing.T) {
	pt := func(v, net float64) domain.SweepPoint {
		return domain.SweepPoint{Value: decimal.NewFromFloat(v), NetRevenueChange: decimal.NewFromFloat(net)}
	}
	m := NewModel(Options{})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})

	m.sweep = &domain.SensitivityAnalysis{Points: []domain.SweepPoint{pt(0, 0), pt(0.0025, -10), pt(0.005, -20)}}
	assert.Contains(t, m.renderChart(), "No tipping point")

	m.sweep = &domain.SensitivityAnalysis{Points: []domain.SweepPoint{pt(0, 0), pt(0.02, 5e9), pt(0.04, 1e9), pt(0.06, -2e9)}}
	assert.Contains(t, m.renderChart(), "Net revenue turns negative at a 6.00% surcharge")
}
