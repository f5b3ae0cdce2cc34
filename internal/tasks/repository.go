// Package tasks owns the in-memory task list and keeps it in step with the
// persistent store. Every mutation either lands in both places or in
// neither.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nhle/energy-planner/internal/budget"
	"github.com/nhle/energy-planner/internal/clock"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/store"
)

// Repository is the single writer for tasks and sub-tasks.
//
// Completing a task is deliberately not gated on today's energy here;
// callers check energy.Tracker.RequireEnergyForToday first.
type Repository struct {
	mu    sync.Mutex
	store store.Store
	clock clock.Clock
	newID func() string

	tasks []model.Task
}

// NewRepository builds a repository on s. A nil newID uses random UUIDs.
func NewRepository(s store.Store, c clock.Clock, newID func() string) *Repository {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Repository{store: s, clock: c, newID: newID}
}

// Load replaces the in-memory list with the store's contents.
func (r *Repository) Load(ctx context.Context) error {
	tasks, err := r.store.FetchTasks(ctx, store.TaskFilter{})
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	r.mu.Lock()
	r.tasks = tasks
	r.mu.Unlock()
	return nil
}

// Tasks returns a copy of every task in creation order.
func (r *Repository) Tasks() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns a copy of the task with the given ID.
func (r *Repository) Task(id string) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Task{}, &model.NotFoundError{Kind: "task", ID: id}
	}
	return r.tasks[i].Clone(), nil
}

// Summary aggregates the current tasks against ceiling.
func (r *Repository) Summary(ceiling int) budget.DaySummary {
	return budget.Summarize(r.Tasks(), ceiling)
}

// CreateTask validates d and persists a new task with its sub-tasks.
// Sub-task rows with a blank title are dropped before the budget check.
func (r *Repository) CreateTask(ctx context.Context, d model.TaskDraft) (string, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return "", model.ErrEmptyTitle
	}
	energy, err := energyOrDefault(d.EnergyCost, budget.DefaultTaskEnergy)
	if err != nil {
		return "", err
	}

	task := model.Task{
		ID:         r.newID(),
		Title:      title,
		CreatedAt:  r.clock.Now(),
		Color:      d.Color,
		Symbol:     d.Symbol,
		EnergyCost: energy,
	}

	for _, sd := range d.SubTasks {
		stTitle := strings.TrimSpace(sd.Title)
		if stTitle == "" {
			continue
		}
		stEnergy, err := energyOrDefault(sd.EnergyCost, budget.DefaultSubTaskEnergy)
		if err != nil {
			return "", err
		}
		task.SubTasks = append(task.SubTasks, model.SubTask{
			ID:         r.newID(),
			TaskID:     task.ID,
			Title:      stTitle,
			EnergyCost: stEnergy,
			Position:   len(task.SubTasks),
		})
	}

	if !budget.FitsWithinBudget(task.SubTasks, task.EnergyCost) {
		return "", &model.BudgetError{
			TaskEnergy: task.EnergyCost,
			Requested:  budget.TotalEnergy(task.SubTasks),
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.store.Write(func() error {
		r.store.Insert(task)
		return r.store.Save(ctx)
	})
	if err != nil {
		return "", &model.PersistenceError{Op: "create task", Err: err}
	}
	r.tasks = append(r.tasks, task)
	return task.ID, nil
}

// DeleteTask removes a task and its sub-tasks. Unknown IDs are a no-op.
func (r *Repository) DeleteTask(ctx context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(taskID)
	if i < 0 {
		return nil
	}

	removed := r.tasks[i]
	err := r.store.Write(func() error {
		r.store.Delete(removed)
		return r.store.Save(ctx)
	})
	if err != nil {
		return &model.PersistenceError{Op: "delete task", Err: err}
	}
	r.tasks = append(r.tasks[:i:i], r.tasks[i+1:]...)
	return nil
}

// ToggleTaskCompletion flips a task's completed flag.
func (r *Repository) ToggleTaskCompletion(ctx context.Context, taskID string) error {
	return r.mutateTask(ctx, taskID, "toggle task", func(t *model.Task) error {
		t.Completed = !t.Completed
		r.store.Update(*t)
		return nil
	})
}

// UpdateTaskEnergy changes a task's energy cost. The existing sub-tasks
// must still fit.
func (r *Repository) UpdateTaskEnergy(ctx context.Context, taskID string, newEnergy int) error {
	if newEnergy <= 0 {
		return model.ErrInvalidEnergy
	}
	return r.mutateTask(ctx, taskID, "update task energy", func(t *model.Task) error {
		if !budget.FitsWithinBudget(t.SubTasks, newEnergy) {
			return &model.BudgetError{
				TaskEnergy: newEnergy,
				Allocated:  budget.TotalEnergy(t.SubTasks),
			}
		}
		t.EnergyCost = newEnergy
		r.store.Update(*t)
		return nil
	})
}

// AddSubTask appends a sub-task to taskID. An energy of 0 selects the
// default allocation, which fails when the task has no budget left.
func (r *Repository) AddSubTask(ctx context.Context, taskID, title string, energy int) (string, error) {
	if energy < 0 {
		return "", model.ErrInvalidEnergy
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", model.ErrEmptyTitle
	}

	var id string
	err := r.mutateTask(ctx, taskID, "add sub-task", func(t *model.Task) error {
		cost := energy
		if cost == 0 {
			var ok bool
			if cost, ok = budget.DefaultNewSubTaskEnergy(t.EnergyCost, t.SubTasks); !ok {
				return r.budgetError(*t, budget.DefaultSubTaskEnergy)
			}
		}
		if !budget.CanAdd(cost, t.EnergyCost, t.SubTasks) {
			return r.budgetError(*t, cost)
		}

		st := model.SubTask{
			ID:         r.newID(),
			TaskID:     t.ID,
			Title:      title,
			EnergyCost: cost,
			Position:   nextPosition(t.SubTasks),
		}
		t.SubTasks = append(t.SubTasks, st)
		r.store.Insert(st)
		id = st.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteSubTask removes a sub-task from taskID. Unknown IDs are a no-op.
func (r *Repository) DeleteSubTask(ctx context.Context, taskID, subTaskID string) error {
	err := r.mutateTask(ctx, taskID, "delete sub-task", func(t *model.Task) error {
		i := t.SubTaskIndex(subTaskID)
		if i < 0 {
			return errNothingToDo
		}
		st := t.SubTasks[i]
		t.SubTasks = append(t.SubTasks[:i], t.SubTasks[i+1:]...)
		r.store.Delete(st)
		return nil
	})
	if errors.Is(err, errNothingToDo) || errors.Is(err, model.ErrNotFound) {
		return nil
	}
	return err
}

// ToggleSubTaskCompletion flips a sub-task's completed flag. Sub-task IDs
// are unique across tasks, so the owner is looked up.
func (r *Repository) ToggleSubTaskCompletion(ctx context.Context, subTaskID string) error {
	r.mu.Lock()
	taskID, ok := r.ownerOf(subTaskID)
	r.mu.Unlock()
	if !ok {
		return &model.NotFoundError{Kind: "sub-task", ID: subTaskID}
	}

	return r.mutateTask(ctx, taskID, "toggle sub-task", func(t *model.Task) error {
		i := t.SubTaskIndex(subTaskID)
		if i < 0 {
			return &model.NotFoundError{Kind: "sub-task", ID: subTaskID}
		}
		t.SubTasks[i].Completed = !t.SubTasks[i].Completed
		r.store.Update(t.SubTasks[i])
		return nil
	})
}

// UpdateSubTaskEnergy changes one sub-task's energy. The new total must
// still fit inside the task's budget.
func (r *Repository) UpdateSubTaskEnergy(ctx context.Context, taskID, subTaskID string, newEnergy int) error {
	if newEnergy <= 0 {
		return model.ErrInvalidEnergy
	}
	return r.mutateTask(ctx, taskID, "update sub-task energy", func(t *model.Task) error {
		i := t.SubTaskIndex(subTaskID)
		if i < 0 {
			return &model.NotFoundError{Kind: "sub-task", ID: subTaskID}
		}
		others := budget.Without(t.SubTasks, subTaskID)
		if !budget.CanReviseEnergy(newEnergy, t.EnergyCost, others) {
			return &model.BudgetError{
				TaskEnergy: t.EnergyCost,
				Allocated:  budget.TotalEnergy(others),
				Requested:  newEnergy,
			}
		}
		t.SubTasks[i].EnergyCost = newEnergy
		r.store.Update(t.SubTasks[i])
		return nil
	})
}

// CompletedSubTaskEnergy sums the energy of taskID's completed sub-tasks.
func (r *Repository) CompletedSubTaskEnergy(taskID string) (int, error) {
	t, err := r.Task(taskID)
	if err != nil {
		return 0, err
	}
	return budget.CompletedSubTaskEnergy(t), nil
}

// errNothingToDo lets a mutation finish early without saving.
var errNothingToDo = errors.New("nothing to do")

// mutateTask applies fn to a copy of the task and, if fn succeeds, saves
// what fn staged and swaps the copy in. fn runs under the store's writer
// lock, and whatever it stages before failing is discarded.
func (r *Repository) mutateTask(ctx context.Context, taskID, op string, fn func(*model.Task) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(taskID)
	if i < 0 {
		return &model.NotFoundError{Kind: "task", ID: taskID}
	}

	next := r.tasks[i].Clone()
	var saveErr error
	err := r.store.Write(func() error {
		if err := fn(&next); err != nil {
			return err
		}
		saveErr = r.store.Save(ctx)
		return saveErr
	})
	if saveErr != nil {
		return &model.PersistenceError{Op: op, Err: saveErr}
	}
	if err != nil {
		return err
	}

	r.tasks[i] = next
	return nil
}

func (r *Repository) budgetError(t model.Task, requested int) error {
	return &model.BudgetError{
		TaskEnergy: t.EnergyCost,
		Allocated:  budget.TotalEnergy(t.SubTasks),
		Requested:  requested,
	}
}

func (r *Repository) indexOf(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) ownerOf(subTaskID string) (string, bool) {
	for _, t := range r.tasks {
		if t.SubTaskIndex(subTaskID) >= 0 {
			return t.ID, true
		}
	}
	return "", false
}

func nextPosition(subtasks []model.SubTask) int {
	pos := 0
	for _, s := range subtasks {
		if s.Position >= pos {
			pos = s.Position + 1
		}
	}
	return pos
}

// energyOrDefault maps 0 to def and rejects negatives.
func energyOrDefault(v, def int) (int, error) {
	switch {
	case v == 0:
		return def, nil
	case v < 0:
		return 0, model.ErrInvalidEnergy
	default:
		return v, nil
	}
}
