// Package cli is the energyplan command line. Every command runs against
// the same repository and tracker the interactive UI uses.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nhle/energy-planner/internal/clock"
	"github.com/nhle/energy-planner/internal/energy"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/store"
	"github.com/nhle/energy-planner/internal/tasks"
)

// skipSession marks commands that run without opening the database.
const skipSession = "energyplan/skip-session"

// session is the state shared by one command invocation.
type session struct {
	configPath string
	dbPath     string

	cfg     *model.AppConfig
	clock   clock.Clock
	store   *store.SQLiteStore
	repo    *tasks.Repository
	tracker *energy.Tracker
}

// newRoot builds the command tree around s. The caller closes s.
func newRoot(s *session, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "energyplan",
		Short: "Plan the day against an energy budget",
		Long: `energyplan keeps a list of tasks, each with an energy cost. Sub-tasks
split a task's energy and can never add up to more than the task itself.
Set today's energy before completing anything.

Run without a command to open the interactive planner.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.open(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), s)
		},
	}

	root.PersistentFlags().StringVar(&s.configPath, "config", model.DefaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&s.dbPath, "db", "", "database file (overrides storage.path)")

	root.AddCommand(
		newAddCmd(s),
		newListCmd(s),
		newShowCmd(s),
		newDoneCmd(s),
		newRmCmd(s),
		newBudgetCmd(s),
		newSubCmd(s),
		newEnergyCmd(s),
		newConfigCmd(s),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute(version string) error {
	s := &session{clock: clock.System{}}
	err := newRoot(s, version).ExecuteContext(context.Background())
	if cerr := s.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// open loads the configuration and, unless cmd opts out, the database,
// the task list and today's energy.
func (s *session) open(cmd *cobra.Command) error {
	cfg, err := model.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	s.cfg = cfg
	if s.dbPath != "" {
		s.cfg.Storage.Path = s.dbPath
	}

	if cmd.Annotations[skipSession] == "true" {
		return nil
	}

	path, err := s.cfg.DatabasePath()
	if err != nil {
		return err
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	s.store = st
	s.repo = tasks.NewRepository(st, s.clock, nil)
	s.tracker = energy.NewTracker(st, s.clock, cfg.Energy.DefaultCeiling, nil)

	ctx := cmd.Context()
	if err := s.repo.Load(ctx); err != nil {
		return err
	}
	return s.tracker.LoadTodayCeiling(ctx)
}

func (s *session) close() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// requireEnergy returns a user-facing error when today's energy is unset.
func (s *session) requireEnergy() error {
	if err := s.tracker.RequireEnergyForToday(); err != nil {
		return fmt.Errorf("%w; run `energyplan energy set N` first", err)
	}
	return nil
}
