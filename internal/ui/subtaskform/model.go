package subtaskform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/energy-planner/internal/budget"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/theme"
)

// SubTaskSubmittedMsg carries a new sub-task for TaskID.
type SubTaskSubmittedMsg struct {
	TaskID string
	Title  string
	Energy int
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

type formBindings struct {
	title  string
	energy string
}

// Model is the add-sub-task form. The energy field is pre-filled with the
// default allocation and validated against the parent's remaining budget.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	task   model.Task
	width  int
	height int
}

// New creates a new sub-task form model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start opens the form for t. It returns an error without opening the form
// when t has no budget left.
func (m *Model) Start(t model.Task) (tea.Cmd, error) {
	energy, ok := budget.DefaultNewSubTaskEnergy(t.EnergyCost, t.SubTasks)
	if !ok {
		return nil, &model.BudgetError{
			TaskEnergy: t.EnergyCost,
			Allocated:  budget.TotalEnergy(t.SubTasks),
			Requested:  budget.DefaultSubTaskEnergy,
		}
	}

	m.task = t
	*m.fb = formBindings{energy: strconv.Itoa(energy)}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sub-task").
				Placeholder("Next step...").
				Value(&m.fb.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return model.ErrEmptyTitle
					}
					return nil
				}),
			huh.NewInput().
				Title("Energy").
				Description(fmt.Sprintf("%d of %d left", budget.Remaining(t), t.EnergyCost)).
				Value(&m.fb.energy).
				Validate(m.validateEnergy),
		),
	).WithWidth(min(80, max(40, m.width-4)))
	return m.form.Init(), nil
}

func (m *Model) validateEnergy(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("energy must be a whole number")
	}
	if n <= 0 {
		return model.ErrInvalidEnergy
	}
	if !budget.CanAdd(n, m.task.EnergyCost, m.task.SubTasks) {
		return fmt.Errorf("only %d energy left", budget.Remaining(m.task))
	}
	return nil
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
		n, _ := strconv.Atoi(strings.TrimSpace(m.fb.energy))
		out := SubTaskSubmittedMsg{TaskID: m.task.ID, Title: m.fb.title, Energy: n}
		return m, func() tea.Msg { return out }
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
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.TaskColor(m.task.Color)).
		MarginBottom(1).
		Render("Add sub-task to " + m.task.Title)

	return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
