package tasklist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/energy-planner/internal/keys"
	"github.com/nhle/energy-planner/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "t1", Title: "Write report", EnergyCost: 30, SubTasks: []model.SubTask{
			{ID: "s1", Title: "outline", EnergyCost: 10},
			{ID: "s2", Title: "draft", EnergyCost: 15},
		}},
		{ID: "t2", Title: "Gym", EnergyCost: 20, Completed: true},
		{ID: "t3", Title: "Cook dinner", EnergyCost: 15},
	}
}

func TestRowsFlattensSubTasks(t *testing.T) {
	t.Parallel()

	items := rows(sampleTasks(), true, "")
	if len(items) != 5 {
		t.Fatalf("got %d rows, want 5", len(items))
	}
	if _, ok := items[1].(SubTaskItem); !ok {
		t.Errorf("row 1 should be a sub-task, got %T", items[1])
	}
	if last := items[2].(SubTaskItem); !last.Last {
		t.Error("second sub-task should be marked last")
	}
}

func TestRowsHidesCompletedAndFilters(t *testing.T) {
	t.Parallel()

	if got := rows(sampleTasks(), false, ""); len(got) != 4 {
		t.Errorf("hiding completed: got %d rows, want 4", len(got))
	}
	got := rows(sampleTasks(), true, "DRAFT")
	if len(got) != 3 || got[0].(TaskItem).Task.ID != "t1" {
		t.Errorf("query on sub-task title should keep its task: %+v", got)
	}
	if got := rows(sampleTasks(), true, "nothing"); len(got) != 0 {
		t.Errorf("unmatched query returned %d rows", len(got))
	}
}

func TestSelectionSurvivesRefresh(t *testing.T) {
	t.Parallel()

	m := New(keys.DefaultKeyMap(), true, 80, 24)
	m.SetTasks(sampleTasks())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, ok := m.Selected()
	if !ok || sel.SubTaskID != "s2" {
		t.Fatalf("selection = %+v, want sub-task s2", sel)
	}

	// Removing s2 moves the cursor to its task.
	tasks := sampleTasks()
	tasks[0].SubTasks = tasks[0].SubTasks[:1]
	m.SetTasks(tasks)
	sel, _ = m.Selected()
	if sel.TaskID != "t1" || sel.SubTaskID != "" {
		t.Errorf("selection after delete = %+v, want task t1", sel)
	}

	task, ok := m.SelectedTask()
	if !ok || task.ID != "t1" {
		t.Errorf("SelectedTask = %+v", task)
	}
	if _, ok := m.SelectedSubTask(); ok {
		t.Error("no sub-task should be selected")
	}
}

func TestToggleCompletedKey(t *testing.T) {
	t.Parallel()

	m := New(keys.DefaultKeyMap(), false, 80, 24)
	m.SetTasks(sampleTasks())
	if len(m.list.Items()) != 4 {
		t.Fatalf("rows = %d, want 4", len(m.list.Items()))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if !m.ShowCompleted() || len(m.list.Items()) != 5 {
		t.Errorf("after toggle: show=%v rows=%d", m.ShowCompleted(), len(m.list.Items()))
	}
}
