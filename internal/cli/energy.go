package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnergyCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Set or inspect today's energy",
	}
	cmd.AddCommand(
		newEnergySetCmd(s),
		newEnergyShowCmd(s),
		newEnergyHistoryCmd(s),
	)
	return cmd
}

func newEnergySetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set ENERGY",
		Short: "Set today's energy ceiling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePositive(args[0])
			if err != nil {
				return err
			}
			b := s.cfg.Energy
			if n < b.MinCeiling || n > b.MaxCeiling {
				return fmt.Errorf("energy must be between %d and %d", b.MinCeiling, b.MaxCeiling)
			}
			if err := s.tracker.SetEnergyForToday(cmd.Context(), n); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Today's energy set to %s\n", zap.Sprint(n))
			return nil
		},
	}
}

func newEnergyShowCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show today's energy and how much is spent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			view := s.dayView()
			if output != formatTable {
				view.Tasks = nil
				return encode(cmd.OutOrStdout(), output, view)
			}
			printSummary(cmd.OutOrStdout(), view.Summary, view.EnergySet)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, yaml or json")
	return cmd
}

func newEnergyHistoryCmd(s *session) *cobra.Command {
	var (
		days   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the energy set on recent days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			today := s.clock.Today()
			recs, err := s.tracker.History(cmd.Context(), today.AddDays(-(days - 1)), today)
			if err != nil {
				return err
			}
			if output != formatTable {
				return encode(cmd.OutOrStdout(), output, recs)
			}
			printEnergyHistory(cmd.OutOrStdout(), recs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "number of days to show, including today")
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, yaml or json")
	return cmd
}
