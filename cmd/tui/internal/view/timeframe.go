package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lobofinance/lobo/internal/report"
)

// Timeframe represents a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeLast90Days
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "Este mês"
	case TimeframeLastMonth:
		return "Mês passado"
	case TimeframeThisYear:
		return "Este ano"
	case TimeframeLast90Days:
		return "Últimos 90 dias"
	case TimeframeAll:
		return "Todo o período"
	case TimeframeCustom:
		return "Personalizado"
	}

	return "Unknown"
}

func (t Timeframe) preset() report.Preset {
	switch t {
	case TimeframeLastMonth:
		return report.PresetLastMonth
	case TimeframeThisYear:
		return report.PresetThisYear
	case TimeframeLast90Days:
		return report.PresetLast90Days
	case TimeframeCustom:
		return report.PresetCustom
	}

	return report.PresetThisMonth
}

// TimeframeSelectedMsg is emitted when the user has selected a valid date range.
// Start and End are nil for an open bound.
type TimeframeSelectedMsg struct {
	Label string
	Start *time.Time
	End   *time.Time
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker is a reusable component for selecting a date range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker() TimeframePicker {
	si := textinput.New()
	si.Placeholder = "DD/MM/YYYY"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Início: "

	ei := textinput.New()
	ei.Placeholder = "DD/MM/YYYY"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "Fim:    "

	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   TimeframeThisMonth,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case timeframeStateSelect:
			return m.updateSelect(keyMsg)
		case timeframeStateCustom:
			if next, cmd, handled := m.updateCustom(keyMsg); handled {
				return next, cmd
			}
		}
	}

	if m.state == timeframeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > TimeframeThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case TimeframeCustom:
			m.state = timeframeStateCustom
			m.startInput.Focus()
			m.focusIndex = 0

			return m, textinput.Blink
		case TimeframeAll:
			return m, selected(m.selected.String(), nil, nil)
		}

		start, end, err := report.Period(m.selected.preset(), m.now(), "", "")
		if err != nil {
			m.err = err
			return m, nil
		}

		return m, selected(m.selected.String(), start, end)
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		start, end, err := report.Period(report.PresetCustom, m.now(), m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil
		label := fmt.Sprintf("%s a %s", m.startInput.Value(), m.endInput.Value())

		return m, selected(label, start, end), true

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func selected(label string, start, end *time.Time) tea.Cmd {
	return func() tea.Msg {
		return TimeframeSelectedMsg{Label: label, Start: start, End: end}
	}
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var (
		cmds []tea.Cmd
		c    tea.Cmd
	)

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nErro: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Período personalizado:\n\n%s\n%s\n\n(Enter confirma, Tab alterna, Esc volta)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Selecione o período:\n\n"
	for i := TimeframeThisMonth; i <= TimeframeCustom; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, i.String())
	}

	s += "\n(Enter seleciona, Esc volta)"

	return s + errStr
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

// Reset returns the picker to its initial selection state.
func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.selected = TimeframeThisMonth
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
