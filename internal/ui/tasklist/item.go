package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/energy-planner/internal/budget"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/theme"
)

// TaskItem is a task row in the list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return fmt.Sprintf("%d energy | %d/%d sub-tasks | %d left",
		i.Task.EnergyCost,
		budget.CompletedSubTasks(i.Task), len(i.Task.SubTasks),
		budget.Remaining(i.Task))
}

// SubTaskItem is a sub-task row indented under its task.
type SubTaskItem struct {
	Task    model.Task
	SubTask model.SubTask
	Last    bool
}

func (i SubTaskItem) FilterValue() string { return i.SubTask.Title }
func (i SubTaskItem) Title() string       { return i.SubTask.Title }
func (i SubTaskItem) Description() string { return fmt.Sprintf("%d energy", i.SubTask.EnergyCost) }

// ItemDelegate implements list.ItemDelegate for rendering list items.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	isSelected := index == m.Index()

	var line string
	switch it := item.(type) {
	case TaskItem:
		line = renderTask(it.Task)
	case SubTaskItem:
		line = renderSubTask(it)
	default:
		return
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func renderTask(t model.Task) string {
	check := "○"
	if t.Completed {
		check = "●"
	}

	glyph := theme.TaskStyle(t.Color).Render(t.Symbol.Glyph())
	title := t.Title
	if t.Completed {
		title = theme.CompletedStyle.Render(title)
	} else {
		title = theme.TaskStyle(t.Color).Render(title)
	}

	energy := lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(fmt.Sprintf("⚡%d", t.EnergyCost))

	progress := ""
	if len(t.SubTasks) > 0 {
		progress = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(fmt.Sprintf("  %d/%d  %d left", budget.CompletedSubTasks(t), len(t.SubTasks), budget.Remaining(t)))
	}

	return fmt.Sprintf("%s %s %s  %s%s", check, glyph, title, energy, progress)
}

func renderSubTask(it SubTaskItem) string {
	branch := "├─"
	if it.Last {
		branch = "└─"
	}
	check := "[ ]"
	title := it.SubTask.Title
	if it.SubTask.Completed {
		check = "[x]"
		title = theme.CompletedStyle.Render(title)
	}

	energy := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%d", it.SubTask.EnergyCost))

	return fmt.Sprintf("  %s %s %s  %s", branch, check, title, energy)
}

// rows flattens tasks into list items, each task followed by its
// sub-tasks. Completed tasks are skipped unless showCompleted is set, and
// query (if any) matches task or sub-task titles case-insensitively.
func rows(tasks []model.Task, showCompleted bool, query string) []list.Item {
	query = strings.ToLower(strings.TrimSpace(query))

	var items []list.Item
	for _, t := range tasks {
		if t.Completed && !showCompleted {
			continue
		}
		if query != "" && !matches(t, query) {
			continue
		}
		items = append(items, TaskItem{Task: t})
		for i, st := range t.SubTasks {
			items = append(items, SubTaskItem{Task: t, SubTask: st, Last: i == len(t.SubTasks)-1})
		}
	}
	return items
}

func matches(t model.Task, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	for _, st := range t.SubTasks {
		if strings.Contains(strings.ToLower(st.Title), query) {
			return true
		}
	}
	return false
}
