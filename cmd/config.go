package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tonhe/ifwatch/internal/config"
	"github.com/tonhe/ifwatch/internal/engine"
	"github.com/tonhe/ifwatch/tui/styles"
)

func configCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ifwatch configuration",
		Long: "View and modify persistent ifwatch settings.\n\n" +
			"Configuration is stored as TOML in the platform config directory\n" +
			"unless --config points somewhere else.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "theme NAME",
		Short:        "Set the default theme",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if styles.GetThemeByName(name) == nil {
				return fmt.Errorf("unknown theme %q, run 'ifwatch themes' to see available themes", name)
			}
			if err := updateConfig(opts, func(cfg *config.Config) { cfg.Theme = name }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default theme set to %q.\n", name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "policy NAME",
		Short:        "Set the failure policy (resilient or fail-fast)",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := engine.ParsePolicy(args[0])
			if err != nil {
				return err
			}
			if err := updateConfig(opts, func(cfg *config.Config) { cfg.FailurePolicy = policy.String() }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Failure policy set to %q.\n", policy.String())
			return nil
		},
	})

	return cmd
}

func themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range styles.ListThemes() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

// updateConfig loads the file without flag overrides, applies fn and saves
// it back, creating directories as needed.
func updateConfig(opts *options, fn func(*config.Config)) error {
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	fn(cfg)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// writeConfig prints cfg in the same TOML form SaveConfig writes.
func writeConfig(w io.Writer, cfg *config.Config) error {
	cfg.PollIntervalStr = cfg.PollInterval.String()
	cfg.FetchTimeoutStr = cfg.FetchTimeout.String()
	cfg.Source.SampleIntervalStr = cfg.Source.SampleInterval.String()
	return toml.NewEncoder(w).Encode(cfg)
}
