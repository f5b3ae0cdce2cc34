package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/energy-planner/internal/model"
)

// addOptions are the flags of `energyplan add`.
type addOptions struct {
	Energy   int
	Color    string
	Symbol   string
	SubTasks []string
}

// draft turns the title and flags into a TaskDraft.
func (o *addOptions) draft(title string) (model.TaskDraft, error) {
	d := model.TaskDraft{Title: title, EnergyCost: o.Energy}
	if o.Energy < 0 {
		return d, model.ErrInvalidEnergy
	}
	if o.Color != "" {
		if err := model.ValidateColorName(o.Color); err != nil {
			return d, err
		}
		d.Color = model.ParseColor(o.Color)
	}
	if o.Symbol != "" {
		if err := model.ValidateSymbolName(o.Symbol); err != nil {
			return d, err
		}
		d.Symbol = model.ParseSymbol(o.Symbol)
	}
	for _, raw := range o.SubTasks {
		sd, err := model.ParseSubTaskDraft(raw)
		if err != nil {
			return d, fmt.Errorf("--sub %q: %w", raw, err)
		}
		d.SubTasks = append(d.SubTasks, sd)
	}
	return d, nil
}

func newAddCmd(s *session) *cobra.Command {
	o := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task",
		Example: `
energyplan add "Write report" --energy 40 --sub outline:10 --sub draft:20
energyplan add "Read chapter 3" --color blue --symbol book
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := o.draft(strings.Join(args, " "))
			if err != nil {
				return err
			}
			id, err := s.repo.CreateTask(cmd.Context(), d)
			if err != nil {
				return err
			}
			t, err := s.repo.Task(id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%d energy)\n", shortID(t.ID), t.Title, t.EnergyCost)
			return nil
		},
	}

	cmd.Flags().IntVarP(&o.Energy, "energy", "e", 0, "energy cost (default 25)")
	cmd.Flags().StringVar(&o.Color, "color", "", "one of: "+joinNames(model.AllColors()))
	cmd.Flags().StringVar(&o.Symbol, "symbol", "", "one of: "+joinNames(model.AllSymbols()))
	cmd.Flags().StringArrayVar(&o.SubTasks, "sub", nil, `sub-task as "title" or "title:energy"; repeatable`)
	return cmd
}

func newListCmd(s *session) *cobra.Command {
	var (
		all    bool
		output string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks and today's energy",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			shown := s.repo.Tasks()
			if !all && !s.cfg.Display.ShowCompleted {
				open := shown[:0]
				for _, t := range shown {
					if !t.Completed {
						open = append(open, t)
					}
				}
				shown = open
			}

			view := s.dayView()
			w := cmd.OutOrStdout()
			if output != formatTable {
				view.Tasks = shown
				return encode(w, output, view)
			}
			printTasks(w, shown)
			printSummary(w, view.Summary, view.EnergySet)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks even when display.show_completed is off")
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, yaml or json")
	return cmd
}

func newShowCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show TASK",
		Short: "Show a task and its budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			t, err := resolveTask(s.repo.Tasks(), args[0])
			if err != nil {
				return err
			}
			if output != formatTable {
				return encode(cmd.OutOrStdout(), output, t)
			}
			printTask(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, yaml or json")
	return cmd
}

func newDoneCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "done TASK",
		Aliases: []string{"complete", "toggle"},
		Short:   "Toggle a task's completion",
		Long: `Toggle a task between open and done. Completing a task requires
today's energy to be set; reopening one does not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(s.repo.Tasks(), args[0])
			if err != nil {
				return err
			}
			if !t.Completed {
				if err := s.requireEnergy(); err != nil {
					return err
				}
			}
			if err := s.repo.ToggleTaskCompletion(cmd.Context(), t.ID); err != nil {
				return err
			}
			state := "done"
			if t.Completed {
				state = "reopened"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", t.Title, state)
			return nil
		},
	}
}

func newRmCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "rm TASK",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its sub-tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(s.repo.Tasks(), args[0])
			if err != nil {
				return err
			}
			if err := s.repo.DeleteTask(cmd.Context(), t.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", t.Title)
			return nil
		},
	}
}

func newBudgetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "budget TASK ENERGY",
		Short: "Change a task's energy cost",
		Long: `Change a task's energy cost. The new cost must still cover the energy
already given to its sub-tasks.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(s.repo.Tasks(), args[0])
			if err != nil {
				return err
			}
			n, err := parsePositive(args[1])
			if err != nil {
				return err
			}
			if err := s.repo.UpdateTaskEnergy(cmd.Context(), t.ID, n); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s now costs %d energy\n", t.Title, n)
			return nil
		},
	}
}

// dayView snapshots today's tasks and energy.
func (s *session) dayView() dayView {
	tasks := s.repo.Tasks()
	return dayView{
		Date:      s.clock.Today().String(),
		EnergySet: s.tracker.IsEnergySetForToday(),
		Summary:   s.repo.Summary(s.tracker.CurrentCeiling()),
		Tasks:     tasks,
	}
}

func parsePositive(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", arg)
	}
	if n <= 0 {
		return 0, model.ErrInvalidEnergy
	}
	return n, nil
}

func joinNames[T fmt.Stringer](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}
