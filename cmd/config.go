package cmd

import (
	"fmt"

	"github.com/penwyp/syncpush/internal/config"
	"github.com/penwyp/syncpush/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// shownConfig 是 config show 的输出结构
type shownConfig struct {
	SettingsFile string `yaml:"settings_file"`
	Repo         string `yaml:"repo"`
	Remote       string `yaml:"remote"`
	Branch       string `yaml:"branch"`
	OnFailure    string `yaml:"on_failure"`
	Timeout      int    `yaml:"timeout"`
	Quiet        bool   `yaml:"quiet"`
}

func newConfigCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the syncpush settings file",
	}
	cmd.AddCommand(newConfigInitCmd(f), newConfigShowCmd(f))
	return cmd
}

func newConfigInitCmd(f *rootFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := f.configPath
			if path == "" {
				p, err := config.DefaultPath(getenv)
				if err != nil {
					return err
				}
				path = p
			}
			m, err := config.NewManager(path)
			if err != nil {
				return err
			}
			if err := m.CreateDefault(force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStatusLine("✓", "Wrote default settings to "+m.Path(), ui.DefaultStyles().Success))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}

func newConfigShowCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings after flags, environment and file are merged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, path, err := resolveSettings(cmd, f)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(shownConfig{
				SettingsFile: path,
				Repo:         resolved.Options.RepoPath,
				Remote:       resolved.Options.Remote,
				Branch:       resolved.Options.Branch,
				OnFailure:    string(resolved.Options.Policy),
				Timeout:      int(resolved.Timeout.Seconds()),
				Quiet:        resolved.Quiet,
			})
			if err != nil {
				return fmt.Errorf("failed to render settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
