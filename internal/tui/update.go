package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case CalculationCompleteMsg:
		if msg.Seq != m.seq {
			// superseded by a later change
			return m, nil
		}
		m.calculating = false
		m.err = msg.Err
		if msg.Output != nil {
			m.output = msg.Output
		}
		if msg.Err == nil {
			m.sweep = msg.Sweep
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if s := m.sliders[m.focused]; !s.Disabled && s.Decrement() {
			return m.startCalculation()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if s := m.sliders[m.focused]; !s.Disabled && s.Increment() {
			return m.startCalculation()
		}
		return m, nil

	case key.Matches(msg, m.keys.Model):
		m.modelIdx = (m.modelIdx + 1) % len(m.models)
		return m.startCalculation()

	case key.Matches(msg, m.keys.Preset):
		m.presetIdx = (m.presetIdx + 1) % len(m.presets)
		bp, err := domain.BehavioralPreset(m.presets[m.presetIdx])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.setBehavioral(bp)
		return m.startCalculation()

	case key.Matches(msg, m.keys.Dataset):
		m.datasetIdx = (m.datasetIdx + 1) % len(m.datasets)
		return m.startCalculation()

	case key.Matches(msg, m.keys.NYC):
		m.includeNYC = !m.includeNYC
		m.syncNYCSlider()
		return m.startCalculation()

	case key.Matches(msg, m.keys.Reset):
		m.load(m.initial)
		return m.startCalculation()
	}

	return m, nil
}

// moveFocus shifts slider focus by delta, stopping at either end
func (m *Model) moveFocus(delta int) {
	next := m.focused + delta
	if next < 0 || next >= len(m.sliders) {
		return
	}
	m.sliders[m.focused].SetFocused(false)
	m.focused = next
	m.sliders[m.focused].SetFocused(true)
}

// startCalculation invalidates any in-flight run and schedules a new one
func (m Model) startCalculation() (tea.Model, tea.Cmd) {
	m.seq++
	m.calculating = true
	return m, m.recalculate()
}
