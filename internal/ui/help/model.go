// Package help renders the reference overlay: key bindings, command
// palette syntax and how the energy budget works.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/energy-planner/internal/budget"
	"github.com/nhle/energy-planner/internal/keys"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/theme"
	"github.com/nhle/energy-planner/internal/ui/command"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	rules  string
	width  int
	height int
}

// New creates the overlay. bounds fills in the energy rules.
func New(k *keys.KeyMap, bounds model.EnergyConfig, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: k, help: h, rules: budgetRules(bounds)}
	m.SetSize(width, height)
	return m
}

func budgetRules(b model.EnergyConfig) string {
	return strings.Join([]string{
		fmt.Sprintf("Set today's energy (e) before completing anything: %d to %d, in steps of %d.",
			b.MinCeiling, b.MaxCeiling, b.Step),
		"A task's sub-tasks share its energy and never add up to more than it.",
		fmt.Sprintf("New sub-tasks get %d, or whatever is left when that is less.", budget.DefaultSubTaskEnergy),
		fmt.Sprintf("A new day starts at %s and asks for energy again.", b.RolloverTime),
	}, "\n")
}

// Update is a no-op; the app routes the close keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the overlay.
func (m Model) View() string {
	usage := command.Usage()
	palette := make([]string, 0, len(usage))
	for _, u := range usage {
		palette = append(palette, ":"+u)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		section("Keys", m.help.View(m.keys)),
		section("Commands", theme.HelpStyle.Render(strings.Join(palette, "   "))),
		section("Energy", theme.HelpStyle.Render(m.rules)),
	)

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

func section(title, body string) string {
	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginTop(1).
		Render(title)
	return lipgloss.JoinVertical(lipgloss.Left, heading, body)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = max(width-8, 0)
}
