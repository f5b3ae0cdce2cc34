package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/energy-planner/internal/budget"
	"github.com/nhle/energy-planner/internal/keys"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Action names carried by ActionMsg.
const (
	ActionToggle     = "toggle"
	ActionAddSubTask = "add-subtask"
)

// ActionMsg signals the parent to execute an action on the current task.
type ActionMsg struct {
	Action string
	TaskID string
}

// Model is the task detail view: budget breakdown and progress bars.
type Model struct {
	task     *model.Task
	summary  budget.DaySummary
	viewport viewport.Model
	bar      progress.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = min(40, max(10, width-30))

	return Model{
		viewport: vp,
		bar:      bar,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Toggle):
			if m.task != nil {
				id := m.task.ID
				return m, func() tea.Msg {
					return ActionMsg{Action: ActionToggle, TaskID: id}
				}
			}

		case key.Matches(msg, m.keys.AddSubTask):
			if m.task != nil {
				id := m.task.ID
				return m, func() tea.Msg {
					return ActionMsg{Action: ActionAddSubTask, TaskID: id}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// TaskID returns the ID of the displayed task, or "".
func (m Model) TaskID() string {
	if m.task == nil {
		return ""
	}
	return m.task.ID
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := *m.task
	var sections []string

	titleStyle := theme.TaskStyle(task.Color)
	title := task.Symbol.Glyph() + " " + task.Title
	if task.Completed {
		title += "  (done)"
	}
	sections = append(sections, titleStyle.Render(title), "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-12s", label)), valStyle.Render(value))
	}

	allocated := budget.TotalEnergy(task.SubTasks)
	sections = append(sections,
		row("Energy:", fmt.Sprintf("%d", task.EnergyCost)),
		row("Allocated:", fmt.Sprintf("%d  %s", allocated, m.bar.ViewAs(budget.Percent(allocated, task.EnergyCost)/100))),
		row("Remaining:", fmt.Sprintf("%d", budget.Remaining(task))),
		row("Spent:", fmt.Sprintf("%d  %s", budget.SpentEnergy(task), m.bar.ViewAs(budget.Percent(budget.SpentEnergy(task), task.EnergyCost)/100))),
		row("Created:", task.CreatedAt.Format("2006-01-02 15:04")),
	)

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(0, min(m.width-4, 80))))
	sections = append(sections, "", separator, "")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, headerStyle.Render(fmt.Sprintf(
		"Sub-tasks (%d/%d)  %.0f%%",
		budget.CompletedSubTasks(task), len(task.SubTasks), budget.SubTaskProgress(task),
	)), "")

	if len(task.SubTasks) == 0 {
		sections = append(sections, metaStyle.Italic(true).Render("No sub-tasks. Press a to split this task."))
	}
	for _, st := range task.SubTasks {
		check := "[ ]"
		name := st.Title
		if st.Completed {
			check = "[x]"
			name = theme.CompletedStyle.Render(name)
		}
		sections = append(sections, fmt.Sprintf("%s %s  %s", check, name, metaStyle.Render(fmt.Sprintf("%d", st.EnergyCost))))
	}

	sections = append(sections, "", separator, "")
	s := m.summary
	sections = append(sections,
		headerStyle.Render("Today"),
		row("Tasks done:", fmt.Sprintf("%d/%d  %s", s.CompletedTasks, s.TotalTasks, m.bar.ViewAs(s.TaskPercent/100))),
		row("Energy used:", fmt.Sprintf("%d/%d  %s", s.Spent, s.Ceiling, m.bar.ViewAs(s.EnergyPercent/100))),
	)
	if s.OverCommitted {
		sections = append(sections, theme.UsageStyle(100).Render(
			fmt.Sprintf("Planned %d energy against a ceiling of %d", s.Planned, s.Ceiling)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask updates the task being displayed and re-renders the content.
// The viewport keeps its scroll position when the same task is refreshed.
func (m *Model) SetTask(task model.Task, summary budget.DaySummary) {
	same := m.task != nil && m.task.ID == task.ID
	m.task = &task
	m.summary = summary
	m.viewport.SetContent(m.renderContent())
	if !same {
		m.viewport.GotoTop()
	}
}

// Clear removes the displayed task.
func (m *Model) Clear() {
	m.task = nil
	m.viewport.SetContent("")
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.bar.Width = min(40, max(10, width-30))
	m.viewport.SetContent(m.renderContent())
}
