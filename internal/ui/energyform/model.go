// Package energyform asks for today's energy ceiling. Values are offered as
// a stepped scale between the configured bounds.
package energyform

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/theme"
)

// EnergySubmittedMsg carries the chosen ceiling.
type EnergySubmittedMsg struct {
	Ceiling int
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// Model is the set-energy form.
type Model struct {
	form   *huh.Form
	value  *int
	bounds model.EnergyConfig
	prompt string
	width  int
	height int
}

// New creates the form with the configured bounds.
func New(bounds model.EnergyConfig, width, height int) Model {
	return Model{value: new(int), bounds: bounds, width: width, height: height}
}

// Start opens the form with current pre-selected. prompt explains why the
// form opened and may be empty.
func (m *Model) Start(current int, prompt string) tea.Cmd {
	*m.value = Snap(current, m.bounds)
	m.prompt = prompt

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Today's energy").
				Description(fmt.Sprintf("%d to %d, in steps of %d", m.bounds.MinCeiling, m.bounds.MaxCeiling, m.bounds.Step)).
				Options(Options(m.bounds)...).
				Height(8).
				Value(m.value),
		),
	).WithWidth(min(60, max(30, m.width-4)))
	return m.form.Init()
}

// Options lists every selectable ceiling.
func Options(b model.EnergyConfig) []huh.Option[int] {
	var opts []huh.Option[int]
	for v := b.MinCeiling; v <= b.MaxCeiling; v += b.Step {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%3d  %s", v, bar(v, b.MaxCeiling)), v))
	}
	return opts
}

// Snap clamps v into the bounds and rounds it down onto the step grid.
func Snap(v int, b model.EnergyConfig) int {
	v = min(b.MaxCeiling, max(b.MinCeiling, v))
	return b.MinCeiling + (v-b.MinCeiling)/b.Step*b.Step
}

func bar(v, maxV int) string {
	const width = 20
	n := v * width / maxV
	out := make([]rune, width)
	for i := range out {
		if i < n {
			out[i] = '█'
		} else {
			out[i] = '░'
		}
	}
	return string(out)
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		v := *m.value
		return m, func() tea.Msg { return EnergySubmittedMsg{Ceiling: v} }
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	var b []string
	b = append(b, lipgloss.NewStyle().Bold(true).Foreground(theme.ColorYellow).Render("⚡ Set today's energy"))
	if m.prompt != "" {
		b = append(b, theme.HelpStyle.Render(m.prompt))
	}
	b = append(b, "", m.form.View())
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, b...))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
