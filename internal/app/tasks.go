package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/ui/tasklist"
)

// mutationDoneMsg is sent after a repository mutation finishes.
type mutationDoneMsg struct{ err error }

// energySavedMsg is sent after today's ceiling is persisted.
type energySavedMsg struct{ err error }

// energyPromptMsg opens the energy form when nothing else is in progress.
type energyPromptMsg struct{ prompt string }

func (m Model) createTask(d model.TaskDraft) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		_, err := repo.CreateTask(context.Background(), d)
		return mutationDoneMsg{err: err}
	}
}

func (m Model) addSubTask(taskID, title string, energy int) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		_, err := repo.AddSubTask(context.Background(), taskID, title, energy)
		return mutationDoneMsg{err: err}
	}
}

// deleteSelection removes the sub-task under the cursor, or the whole task
// when the cursor is on a task row.
func (m Model) deleteSelection(sel tasklist.Selection) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		ctx := context.Background()
		if sel.SubTaskID != "" {
			return mutationDoneMsg{err: repo.DeleteSubTask(ctx, sel.TaskID, sel.SubTaskID)}
		}
		return mutationDoneMsg{err: repo.DeleteTask(ctx, sel.TaskID)}
	}
}

func (m Model) toggleCmd(sel tasklist.Selection) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		ctx := context.Background()
		if sel.SubTaskID != "" {
			return mutationDoneMsg{err: repo.ToggleSubTaskCompletion(ctx, sel.SubTaskID)}
		}
		return mutationDoneMsg{err: repo.ToggleTaskCompletion(ctx, sel.TaskID)}
	}
}

func (m Model) updateTaskEnergy(taskID string, energy int) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		return mutationDoneMsg{err: repo.UpdateTaskEnergy(context.Background(), taskID, energy)}
	}
}

func (m Model) updateSubTaskEnergy(taskID, subTaskID string, energy int) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		return mutationDoneMsg{err: repo.UpdateSubTaskEnergy(context.Background(), taskID, subTaskID, energy)}
	}
}

func (m Model) setEnergy(ceiling int) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		return energySavedMsg{err: tracker.SetEnergyForToday(context.Background(), ceiling)}
	}
}

// describe turns an engine error into a status bar message.
func describe(err error) string {
	switch {
	case errors.Is(err, model.ErrEnergyNotSet):
		return "Set today's energy first (press e)"
	case errors.Is(err, model.ErrPersistence):
		return "Not saved: " + err.Error()
	default:
		return err.Error()
	}
}
