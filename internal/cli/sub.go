package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/energy-planner/internal/budget"
)

func newSubCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sub",
		Aliases: []string{"subtask"},
		Short:   "Manage a task's sub-tasks",
	}
	cmd.AddCommand(
		newSubAddCmd(s),
		newSubDoneCmd(s),
		newSubRmCmd(s),
		newSubEnergyCmd(s),
	)
	return cmd
}

func newSubAddCmd(s *session) *cobra.Command {
	var energy int

	cmd := &cobra.Command{
		Use:   "add TASK TITLE",
		Short: "Split part of a task's energy into a sub-task",
		Long: fmt.Sprintf(`Add a sub-task. Without --energy it gets %d, or whatever is left of
the task's budget when that is less.`, budget.DefaultSubTaskEnergy),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if energy < 0 {
				return fmt.Errorf("--energy must be positive")
			}
			t, err := resolveTask(s.repo.Tasks(), args[0])
			if err != nil {
				return err
			}
			id, err := s.repo.AddSubTask(cmd.Context(), t.ID, strings.Join(args[1:], " "), energy)
			if err != nil {
				return err
			}
			updated, err := s.repo.Task(t.ID)
			if err != nil {
				return err
			}
			st := updated.SubTasks[updated.SubTaskIndex(id)]
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%d energy, %d left on %s)\n",
				shortID(id), st.Title, st.EnergyCost, budget.Remaining(updated), t.Title)
			return nil
		},
	}

	cmd.Flags().IntVarP(&energy, "energy", "e", 0, "energy taken from the task")
	return cmd
}

func newSubDoneCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "done SUBTASK",
		Short: "Toggle a sub-task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := resolveSubTask(s.repo.Tasks(), args[0])
			if err != nil {
				return err
			}
			if !st.Completed {
				if err := s.requireEnergy(); err != nil {
					return err
				}
			}
			if err := s.repo.ToggleSubTaskCompletion(cmd.Context(), st.ID); err != nil {
				return err
			}
			state := "done"
			if st.Completed {
				state = "reopened"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", st.Title, state)
			return nil
		},
	}
}

func newSubRmCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "rm SUBTASK",
		Aliases: []string{"delete"},
		Short:   "Delete a sub-task and return its energy to the task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, st, err := resolveSubTask(s.repo.Tasks(), args[0])
			if err != nil {
				return err
			}
			if err := s.repo.DeleteSubTask(cmd.Context(), t.ID, st.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", st.Title, t.Title)
			return nil
		},
	}
}

func newSubEnergyCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "energy SUBTASK ENERGY",
		Short: "Change a sub-task's energy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, st, err := resolveSubTask(s.repo.Tasks(), args[0])
			if err != nil {
				return err
			}
			n, err := parsePositive(args[1])
			if err != nil {
				return err
			}
			if err := s.repo.UpdateSubTaskEnergy(cmd.Context(), t.ID, st.ID, n); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s now takes %d of %s's %d energy\n", st.Title, n, t.Title, t.EnergyCost)
			return nil
		},
	}
}
