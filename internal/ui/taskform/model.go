package taskform

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

// TaskSubmittedMsg is dispatched when the form is completed.
type TaskSubmittedMsg struct {
	Draft model.TaskDraft
}

// TaskFormCancelMsg is dispatched when the user cancels the form.
type TaskFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title    string
	color    model.Color
	symbol   model.Symbol
	energy   string
	subtasks string
}

// Model is the Bubble Tea model for the new-task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate resets the form for a new task.
func (m *Model) StartCreate() tea.Cmd {
	*m.fb = formBindings{
		color:  model.ColorPurple,
		symbol: model.SymbolCheckmark,
		energy: strconv.Itoa(budget.DefaultTaskEnergy),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Task") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	colorOpts := make([]huh.Option[model.Color], 0, len(model.AllColors()))
	for _, c := range model.AllColors() {
		colorOpts = append(colorOpts, huh.NewOption(c.String(), c))
	}
	symbolOpts := make([]huh.Option[model.Symbol], 0, len(model.AllSymbols()))
	for _, s := range model.AllSymbols() {
		symbolOpts = append(symbolOpts, huh.NewOption(s.Glyph()+" "+s.String(), s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewInput().
				Title("Energy").
				Description("How much of today's energy this task takes").
				Value(&m.fb.energy).
				Validate(validateEnergy),
			huh.NewText().
				Title("Sub-tasks").
				Description("One per line, optionally title:energy").
				Placeholder("outline:10\ndraft:15").
				Value(&m.fb.subtasks).
				Validate(m.validateSubTasks),
		),
		huh.NewGroup(
			huh.NewSelect[model.Color]().
				Title("Color").
				Options(colorOpts...).
				Value(&m.fb.color),
			huh.NewSelect[model.Symbol]().
				Title("Symbol").
				Options(symbolOpts...).
				Value(&m.fb.symbol),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// validateSubTasks rejects sub-task lines that do not fit the task's
// energy as currently entered.
func (m *Model) validateSubTasks(s string) error {
	drafts, err := model.ParseSubTaskDrafts(s)
	if err != nil {
		return err
	}
	energy, err := parseEnergy(m.fb.energy)
	if err != nil {
		return nil
	}
	total := 0
	for _, d := range drafts {
		if d.EnergyCost == 0 {
			d.EnergyCost = budget.DefaultSubTaskEnergy
		}
		total += d.EnergyCost
	}
	if total > energy {
		return fmt.Errorf("sub-tasks use %d energy, task has %d", total, energy)
	}
	return nil
}

func (m Model) handleSubmit() tea.Cmd {
	energy, _ := parseEnergy(m.fb.energy)
	drafts, _ := model.ParseSubTaskDrafts(m.fb.subtasks)

	d := model.TaskDraft{
		Title:      m.fb.title,
		Color:      m.fb.color,
		Symbol:     m.fb.symbol,
		EnergyCost: energy,
		SubTasks:   drafts,
	}
	return func() tea.Msg { return TaskSubmittedMsg{Draft: d} }
}

func (m Model) formWidth() int {
	return min(100, max(40, m.width-4))
}

func (m Model) formHeight() int {
	return max(10, m.height-4)
}

func parseEnergy(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("energy must be a whole number")
	}
	if n <= 0 {
		return 0, model.ErrInvalidEnergy
	}
	return n, nil
}

func validateEnergy(s string) error {
	_, err := parseEnergy(s)
	return err
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
