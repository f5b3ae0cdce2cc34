package model

import "time"

// Task is a unit of planned work with its own energy budget. Sub-tasks
// split that budget and must never exceed it in total.
type Task struct {
	// ID is the internal unique identifier for this task.
	ID string `json:"id" yaml:"id"`

	// Title is the trimmed, non-empty display name.
	Title string `json:"title" yaml:"title"`

	// CreatedAt is when the task was created, from the injected clock.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Completed reports whether the task has been marked done.
	Completed bool `json:"completed" yaml:"completed"`

	Color  Color  `json:"color" yaml:"color"`
	Symbol Symbol `json:"symbol" yaml:"symbol"`

	// EnergyCost is the task's energy budget. Always positive.
	EnergyCost int `json:"energy_cost" yaml:"energy_cost"`

	// SubTasks are owned exclusively by this task, ordered by Position.
	SubTasks []SubTask `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

// SubTask is a named slice of its parent task's energy budget.
type SubTask struct {
	ID         string `json:"id" yaml:"id"`
	TaskID     string `json:"task_id" yaml:"-"`
	Title      string `json:"title" yaml:"title"`
	Completed  bool   `json:"completed" yaml:"completed"`
	EnergyCost int    `json:"energy_cost" yaml:"energy_cost"`
	Position   int    `json:"position" yaml:"-"`
}

// Clone returns a deep copy of t so callers can mutate it freely.
func (t Task) Clone() Task {
	c := t
	if t.SubTasks != nil {
		c.SubTasks = make([]SubTask, len(t.SubTasks))
		copy(c.SubTasks, t.SubTasks)
	}
	return c
}

// SubTaskIndex returns the position of the sub-task with the given ID
// within t.SubTasks, or -1.
func (t Task) SubTaskIndex(id string) int {
	for i := range t.SubTasks {
		if t.SubTasks[i].ID == id {
			return i
		}
	}
	return -1
}

// TaskDraft is the input for creating a task. Zero values for Color,
// Symbol and EnergyCost select the defaults.
type TaskDraft struct {
	Title      string
	Color      Color
	Symbol     Symbol
	EnergyCost int
	SubTasks   []SubTaskDraft
}

// SubTaskDraft is a sub-task row collected alongside a new task.
// Rows with a blank title are dropped on create.
type SubTaskDraft struct {
	Title      string
	EnergyCost int
}
