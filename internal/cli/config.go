package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/energy-planner/internal/model"
)

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage energyplan configuration",
		Annotations: map[string]string{skipSession: "true"},
	}
	cmd.AddCommand(
		newConfigInitCmd(s),
		newConfigShowCmd(s),
	)
	return cmd
}

func newConfigInitCmd(s *session) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(s.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", s.configPath)
			}
			if err := model.SaveConfig(s.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", s.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(s.cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s (with defaults and ENERGYPLAN_* overrides)\n", s.configPath)
			_, _ = cmd.OutOrStdout().Write(data)
			return nil
		},
	}
}
