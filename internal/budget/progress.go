package budget

import (
	"strings"

	"github.com/nhle/energy-planner/internal/model"
)

// DaySummary aggregates the numbers shown on the day overview.
type DaySummary struct {
	TotalTasks     int `json:"total_tasks" yaml:"total_tasks"`
	CompletedTasks int `json:"completed_tasks" yaml:"completed_tasks"`

	Ceiling int `json:"ceiling" yaml:"ceiling"`
	Planned int `json:"planned" yaml:"planned"` // sum of task energy costs
	Spent   int `json:"spent" yaml:"spent"`

	TaskPercent   float64 `json:"task_percent" yaml:"task_percent"`
	EnergyPercent float64 `json:"energy_percent" yaml:"energy_percent"`

	// OverCommitted is set when planned energy exceeds the ceiling.
	OverCommitted bool `json:"over_committed" yaml:"over_committed"`
}

// Percent returns part/whole as a percentage clamped to [0, 100].
// A non-positive whole yields 0.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	p := float64(part) / float64(whole) * 100
	return min(100, max(0, p))
}

// SubTaskProgress is the share of t's sub-tasks that are complete.
func SubTaskProgress(t model.Task) float64 {
	return Percent(CompletedSubTasks(t), len(t.SubTasks))
}

// SpentEnergy is the energy t has consumed so far: its full cost once
// completed, otherwise the energy of its completed sub-tasks.
func SpentEnergy(t model.Task) int {
	if t.Completed {
		return t.EnergyCost
	}
	return CompletedSubTaskEnergy(t)
}

// Summarize builds the day overview for tasks against ceiling.
func Summarize(tasks []model.Task, ceiling int) DaySummary {
	s := DaySummary{TotalTasks: len(tasks), Ceiling: ceiling}
	for _, t := range tasks {
		if t.Completed {
			s.CompletedTasks++
		}
		s.Planned += t.EnergyCost
		s.Spent += SpentEnergy(t)
	}
	s.TaskPercent = Percent(s.CompletedTasks, s.TotalTasks)
	s.EnergyPercent = Percent(s.Spent, ceiling)
	s.OverCommitted = s.Planned > ceiling
	return s
}

func trimmed(s string) string { return strings.TrimSpace(s) }
