// Package budget holds the pure energy arithmetic shared by the repository
// and every presentation surface. Nothing here touches storage or clocks.
package budget

import "github.com/nhle/energy-planner/internal/model"

const (
	// DefaultTaskEnergy is the energy cost given to a task created
	// without one.
	DefaultTaskEnergy = 25

	// DefaultSubTaskEnergy is the energy given to a sub-task created
	// without one, capped by what the parent has left.
	DefaultSubTaskEnergy = 5
)

// TotalEnergy sums the energy cost of subtasks.
func TotalEnergy(subtasks []model.SubTask) int {
	total := 0
	for _, s := range subtasks {
		total += s.EnergyCost
	}
	return total
}

// RemainingBudget is the energy a task still has available for new
// sub-tasks. Never negative.
func RemainingBudget(taskEnergy int, subtasks []model.SubTask) int {
	return max(0, taskEnergy-TotalEnergy(subtasks))
}

// CanAdd reports whether a new sub-task costing candidate fits next to
// existing.
func CanAdd(candidate, taskEnergy int, existing []model.SubTask) bool {
	return candidate <= RemainingBudget(taskEnergy, existing)
}

// FitsWithinBudget reports whether subtasks fit inside taskEnergy.
func FitsWithinBudget(subtasks []model.SubTask, taskEnergy int) bool {
	return TotalEnergy(subtasks) <= taskEnergy
}

// CanReviseEnergy reports whether one sub-task may change to newEnergy,
// given the other sub-tasks of the same task (excluding the one being
// revised).
func CanReviseEnergy(newEnergy, taskEnergy int, others []model.SubTask) bool {
	return TotalEnergy(others)+newEnergy <= taskEnergy
}

// DefaultNewSubTaskEnergy is the value pre-filled for a new sub-task:
// DefaultSubTaskEnergy, or less if that is all that remains. ok is false
// when nothing remains.
func DefaultNewSubTaskEnergy(taskEnergy int, existing []model.SubTask) (energy int, ok bool) {
	remaining := RemainingBudget(taskEnergy, existing)
	if remaining <= 0 {
		return 0, false
	}
	return min(DefaultSubTaskEnergy, remaining), true
}

// Without returns subtasks minus the one with the given ID.
func Without(subtasks []model.SubTask, id string) []model.SubTask {
	out := make([]model.SubTask, 0, len(subtasks))
	for _, s := range subtasks {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// Remaining is RemainingBudget for t.
func Remaining(t model.Task) int {
	return RemainingBudget(t.EnergyCost, t.SubTasks)
}

// CanAddMoreSubTasks reports whether t has any budget left.
func CanAddMoreSubTasks(t model.Task) bool {
	return Remaining(t) > 0
}

// CompletedSubTasks counts the completed sub-tasks of t.
func CompletedSubTasks(t model.Task) int {
	n := 0
	for _, s := range t.SubTasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// CompletedSubTaskEnergy sums the energy of the completed sub-tasks of t.
func CompletedSubTaskEnergy(t model.Task) int {
	total := 0
	for _, s := range t.SubTasks {
		if s.Completed {
			total += s.EnergyCost
		}
	}
	return total
}

// HasNamedSubTasks reports whether t has a sub-task with a non-blank title.
func HasNamedSubTasks(t model.Task) bool {
	for _, s := range t.SubTasks {
		if trimmed(s.Title) != "" {
			return true
		}
	}
	return false
}
