package cli

import (
	"fmt"
	"strings"

	"github.com/nhle/energy-planner/internal/model"
)

// resolveTask finds the task whose ID is ref or starts with ref.
// An exact match wins over prefix matches.
func resolveTask(tasks []model.Task, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, fmt.Errorf("task ID must not be empty")
	}

	var matches []model.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return model.Task{}, &model.NotFoundError{Kind: "task", ID: ref}
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("task ID %q is ambiguous: %d tasks match", ref, len(matches))
	}
}

// resolveSubTask finds the sub-task whose ID is ref or starts with ref,
// together with its task.
func resolveSubTask(tasks []model.Task, ref string) (model.Task, model.SubTask, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, model.SubTask{}, fmt.Errorf("sub-task ID must not be empty")
	}

	type hit struct {
		task model.Task
		sub  model.SubTask
	}
	var matches []hit
	for _, t := range tasks {
		for _, st := range t.SubTasks {
			if st.ID == ref {
				return t, st, nil
			}
			if strings.HasPrefix(st.ID, ref) {
				matches = append(matches, hit{t, st})
			}
		}
	}

	switch len(matches) {
	case 0:
		return model.Task{}, model.SubTask{}, &model.NotFoundError{Kind: "sub-task", ID: ref}
	case 1:
		return matches[0].task, matches[0].sub, nil
	default:
		return model.Task{}, model.SubTask{}, fmt.Errorf("sub-task ID %q is ambiguous: %d sub-tasks match", ref, len(matches))
	}
}

// shortID is the ID prefix shown in tables.
func shortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}
	return id[:n]
}
