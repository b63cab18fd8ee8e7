package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/calculation"
	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/domain"
	"github.com/rgehrsitz/revimpact/internal/tui/components"
	"github.com/rgehrsitz/revimpact/internal/tui/tuistyles"
)

// Slider keys, in display order
const (
	sliderSurchargeRate      = "surcharge_rate"
	sliderSurchargeThreshold = "surcharge_threshold"
	sliderFlatRateChange     = "flat_rate_change"
	sliderNYCSurchargeRate   = "nyc_surcharge_rate"
	sliderHorizon            = "horizon"
)

// customPreset marks behavioral parameters that came from a run file rather than a preset
const customPreset = -1

// Options configures the explorer's starting point
type Options struct {
	Engine   *calculation.Engine
	Dataset  string
	Band     domain.IncomeBand
	Scenario *domain.Scenario
}

// Model is the explorer state
type Model struct {
	engine  *calculation.Engine
	band    domain.IncomeBand
	initial *domain.Scenario

	datasets   []string
	datasetIdx int
	models     []domain.BehavioralModelType
	modelIdx   int
	presets    []string
	presetIdx  int
	behavioral domain.BehavioralParameters

	includeNYC   bool
	nycThreshold decimal.Decimal
	sliders      []*components.ParameterSlider
	focused      int

	seq         int
	calculating bool
	output      *domain.ModelOutput
	sweep       *domain.SensitivityAnalysis
	err         error

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// DefaultScenario is the explorer's opening policy: 2% above $1M with moderate migration
func DefaultScenario() *domain.Scenario {
	return &domain.Scenario{
		Name: "interactive",
		Policy: domain.PolicyChange{
			SurchargeRate:         decimal.NewFromFloat(0.02),
			SurchargeThreshold:    decimal.NewFromInt(1000000),
			NYCSurchargeThreshold: decimal.NewFromInt(1000000),
		},
		Preset:  domain.PresetModerate,
		Horizon: domain.DefaultTimeHorizon,
	}
}

// NewModel creates the explorer. Zero-valued options fall back to the defaults.
func NewModel(opts Options) Model {
	engine := opts.Engine
	if engine == nil {
		engine = calculation.NewEngine()
	}
	band := opts.Band
	if band.Max.IsZero() {
		band = domain.DefaultMiddleIncomeBand()
	}
	scenario := opts.Scenario
	if scenario == nil {
		scenario = DefaultScenario()
	}

	m := Model{
		engine:   engine,
		band:     band,
		initial:  scenario.DeepCopy(),
		datasets: dataset.Names(),
		models:   domain.AllBehavioralModels(),
		presets:  domain.PresetNames(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		width:    100,
		height:   40,
	}

	name := opts.Dataset
	if name == "" {
		name = dataset.DefaultName
	}
	for i, ds := range m.datasets {
		if ds == name {
			m.datasetIdx = i
		}
	}

	m.load(m.initial)
	return m
}

// load resets every control to the given scenario
func (m *Model) load(s *domain.Scenario) {
	m.presetIdx = customPreset
	if s.Behavioral == nil {
		preset := s.Preset
		if preset == "" {
			preset = domain.PresetModerate
		}
		for i, p := range m.presets {
			if p == preset {
				m.presetIdx = i
			}
		}
	}
	bp, err := s.EffectiveBehavioral()
	if err != nil {
		bp = domain.DefaultBehavioralParameters()
	}
	m.setBehavioral(bp)

	m.includeNYC = s.Policy.IncludeNYC
	m.nycThreshold = s.Policy.NYCSurchargeThreshold
	m.sliders = buildSliders(s)
	m.focused = 0
	m.sliders[0].SetFocused(true)
	m.syncNYCSlider()
}

func buildSliders(s *domain.Scenario) []*components.ParameterSlider {
	return []*components.ParameterSlider{
		components.NewParameterSlider(sliderSurchargeRate, "Surcharge rate",
			s.Policy.SurchargeRate.InexactFloat64(), 0, 0.10, 0.0025).
			WithFormatter(components.PercentFormatter(2)).
			WithDescription("State surcharge on AGI above the threshold"),
		components.NewParameterSlider(sliderSurchargeThreshold, "Surcharge threshold",
			s.Policy.SurchargeThreshold.InexactFloat64(), 250000, 5000000, 250000).
			WithFormatter(tuistyles.FormatCurrency).
			WithDescription("AGI above which the surcharge applies"),
		components.NewParameterSlider(sliderFlatRateChange, "Flat rate change",
			s.Policy.FlatRateChange.InexactFloat64(), -0.02, 0.02, 0.0025).
			WithFormatter(components.SignedPercentFormatter(2)).
			WithDescription("Change to every bracket rate, applied to all income"),
		components.NewParameterSlider(sliderNYCSurchargeRate, "NYC surcharge rate",
			s.Policy.NYCSurchargeRate.InexactFloat64(), 0, 0.05, 0.0025).
			WithFormatter(components.PercentFormatter(2)).
			WithDescription("City surcharge on NYC residents (press n to enable)"),
		components.NewParameterSlider(sliderHorizon, "Time horizon",
			float64(s.EffectiveHorizon()), 1, 5, 2).
			WithFormatter(components.YearsFormatter).
			WithDescription("Years after enactment at which migration is measured"),
	}
}

func (m *Model) setBehavioral(bp domain.BehavioralParameters) {
	m.behavioral = bp
	for i, model := range m.models {
		if model == bp.Model.Resolved() {
			m.modelIdx = i
		}
	}
}

func (m *Model) syncNYCSlider() {
	if s := m.slider(sliderNYCSurchargeRate); s != nil {
		s.Disabled = !m.includeNYC
	}
}

func (m Model) slider(key string) *components.ParameterSlider {
	for _, s := range m.sliders {
		if s.Key == key {
			return s
		}
	}
	return nil
}

func (m Model) sliderDecimal(key string) decimal.Decimal {
	if s := m.slider(key); s != nil {
		return decimal.NewFromFloat(s.Value)
	}
	return decimal.Zero
}

// DatasetName returns the selected vintage
func (m Model) DatasetName() string {
	return m.datasets[m.datasetIdx]
}

// PresetName returns the selected preset, or "custom" for run-file parameters
func (m Model) PresetName() string {
	if m.presetIdx == customPreset {
		return "custom"
	}
	return m.presets[m.presetIdx]
}

// Scenario builds the scenario described by the current controls
func (m Model) Scenario() *domain.Scenario {
	threshold := m.sliderDecimal(sliderSurchargeThreshold)
	nycThreshold := m.nycThreshold
	if nycThreshold.IsZero() {
		nycThreshold = threshold
	}

	bp := m.behavioral
	bp.Model = m.models[m.modelIdx]

	s := &domain.Scenario{
		Name:        m.initial.Name,
		Description: m.initial.Description,
		Policy: domain.PolicyChange{
			SurchargeRate:         m.sliderDecimal(sliderSurchargeRate),
			SurchargeThreshold:    threshold,
			FlatRateChange:        m.sliderDecimal(sliderFlatRateChange),
			IncludeNYC:            m.includeNYC,
			NYCSurchargeRate:      m.sliderDecimal(sliderNYCSurchargeRate),
			NYCSurchargeThreshold: nycThreshold,
		},
		Behavioral: &bp,
		Horizon:    domain.TimeHorizon(int(m.slider(sliderHorizon).Value)),
	}
	if m.presetIdx != customPreset {
		s.Preset = m.presets[m.presetIdx]
	}
	return s
}

// Output returns the latest model run, nil before the first one completes
func (m Model) Output() *domain.ModelOutput {
	return m.output
}

// Init runs the opening scenario
func (m Model) Init() tea.Cmd {
	return m.recalculate()
}

// recalculate runs the scenario and the surcharge-rate sweep off the update loop
func (m Model) recalculate() tea.Cmd {
	seq := m.seq
	engine := m.engine
	band := m.band
	name := m.DatasetName()
	scenario := m.Scenario()

	return func() tea.Msg {
		ctx := context.Background()
		ds, err := dataset.Lookup(name)
		if err != nil {
			return CalculationCompleteMsg{Seq: seq, Err: err}
		}
		out, err := engine.RunScenario(ctx, ds, band, scenario)
		if err != nil {
			return CalculationCompleteMsg{Seq: seq, Err: err}
		}

		param := domain.SurchargeRateParam
		param.Steps = 41
		param.BaseValue = scenario.Policy.SurchargeRate
		sweep, err := calculation.NewSensitivityAnalyzer(engine).AnalyzeParameter(ctx, ds, band, scenario, param)
		if err != nil {
			return CalculationCompleteMsg{Seq: seq, Output: out, Err: err}
		}
		return CalculationCompleteMsg{Seq: seq, Output: out, Sweep: sweep}
	}
}
