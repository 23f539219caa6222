package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tonhe/ifwatch/tui"
	"golang.org/x/term"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=...".
var Version = "0.1.0"

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	theme      string
	interval   time.Duration
	capacity   int
	source     string
	policy     string
	logLevel   string
}

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ifwatch",
		Short: "Live network adapter throughput monitor",
		Long: `ifwatch polls per-adapter throughput on a timer, keeps a rolling window of
the results and shows them next to the system's adapter catalog.

Without a subcommand it opens the interactive monitor. When stdout is not a
terminal it prints samples instead, like "ifwatch stream".

Quick start:
  ifwatch                          # Interactive monitor
  ifwatch stream --count 5         # Five samples as plain text
  ifwatch sample                   # One report with adapter types
  ifwatch adapters                 # Adapter catalog
  ifwatch interfaces --connected   # Interfaces with internet access`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return runStream(cmd, opts, 0, false)
			}
			return runTUI(opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Config file (default is the platform config dir)")
	f.StringVar(&opts.theme, "theme", "", "Theme override")
	f.DurationVar(&opts.interval, "interval", 0, "Poll interval override, e.g. 2s")
	f.IntVar(&opts.capacity, "capacity", 0, "Rolling window size override")
	f.StringVar(&opts.source, "source", "", "Source kind override (powershell, local, snmp)")
	f.StringVar(&opts.policy, "policy", "", "Failure policy override (resilient, fail-fast)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(streamCommand(opts))
	cmd.AddCommand(sampleCommand(opts))
	cmd.AddCommand(adaptersCommand(opts))
	cmd.AddCommand(interfacesCommand(opts))
	cmd.AddCommand(configCommand(opts))
	cmd.AddCommand(themesCommand())
	cmd.AddCommand(versionCommand())

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(opts *options) error {
	rt, err := newEnv(opts, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	model := tui.NewAppModel(rt.cfg, rt.ctrl, tui.Options{
		Catalog:    rt.catalog,
		Lister:     rt.src,
		Interfaces: rt.ifaces,
		SourceName: rt.kind,
		Version:    Version,
		Logger:     rt.log,
	})
	return tui.Run(model)
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ifwatch v%s\n", Version)
		},
	}
}
