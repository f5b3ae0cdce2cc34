package tasklist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/energy-planner/internal/keys"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/theme"
)

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID string
}

// Selection identifies the row under the cursor. SubTaskID is empty when
// the cursor is on a task row.
type Selection struct {
	TaskID    string
	SubTaskID string
}

// Model is the main task list view component.
type Model struct {
	list          list.Model
	keys          *keys.KeyMap
	tasks         []model.Task
	showCompleted bool
	query         string
	searchMode    bool
	searchInput   textinput.Model
	width         int
	height        int
}

// New creates a new task list model.
func New(k *keys.KeyMap, showCompleted bool, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Today"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	l.SetStatusBarItemName("row", "rows")

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:          l,
		keys:          k,
		showCompleted: showCompleted,
		searchInput:   si,
		width:         width,
		height:        height,
	}
}

// SetTasks replaces the rows, keeping the cursor on the same task or
// sub-task when it still exists.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	m.tasks = tasks
	return m.refresh()
}

func (m *Model) refresh() tea.Cmd {
	prev, hadPrev := m.Selected()
	items := rows(m.tasks, m.showCompleted, m.query)
	cmd := m.list.SetItems(items)

	if hadPrev {
		for i, it := range items {
			if selectionOf(it) == prev {
				m.list.Select(i)
				return cmd
			}
		}
		// Fall back to the parent task, e.g. after deleting a sub-task.
		for i, it := range items {
			if ti, ok := it.(TaskItem); ok && ti.Task.ID == prev.TaskID {
				m.list.Select(i)
				return cmd
			}
		}
	}
	if m.list.Index() >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
	return cmd
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Selection, bool) {
	it := m.list.SelectedItem()
	if it == nil {
		return Selection{}, false
	}
	return selectionOf(it), true
}

// SelectedTask returns the task of the row under the cursor, or the
// owning task when a sub-task row is selected.
func (m Model) SelectedTask() (model.Task, bool) {
	switch it := m.list.SelectedItem().(type) {
	case TaskItem:
		return it.Task, true
	case SubTaskItem:
		return it.Task, true
	}
	return model.Task{}, false
}

// SelectedSubTask returns the sub-task under the cursor.
func (m Model) SelectedSubTask() (model.SubTask, bool) {
	if it, ok := m.list.SelectedItem().(SubTaskItem); ok {
		return it.SubTask, true
	}
	return model.SubTask{}, false
}

// ToggleShowCompleted flips whether completed tasks are listed.
func (m *Model) ToggleShowCompleted() tea.Cmd {
	m.showCompleted = !m.showCompleted
	return m.refresh()
}

// ShowCompleted reports whether completed tasks are listed.
func (m Model) ShowCompleted() bool { return m.showCompleted }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searchMode }

func selectionOf(it list.Item) Selection {
	switch v := it.(type) {
	case TaskItem:
		return Selection{TaskID: v.Task.ID}
	case SubTaskItem:
		return Selection{TaskID: v.Task.ID, SubTaskID: v.SubTask.ID}
	}
	return Selection{}
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		return m, m.refresh()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		t, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: t.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ToggleCompleted):
		return m, m.ToggleShowCompleted()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the task list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no rows are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.query != "":
		return style.Render("No matching tasks.\nPress / and clear the search.")
	case len(m.tasks) > 0:
		return style.Render("Everything is done.\nPress c to show completed tasks.")
	default:
		return style.Render("No tasks yet.\n\nPress n to plan your first task.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
