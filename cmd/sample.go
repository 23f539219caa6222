package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/throughput"
	"github.com/tonhe/ifwatch/tui/components"
	"golang.org/x/sync/errgroup"
)

func sampleCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Take one throughput report and print it with adapter types",
		Long: "Fetch the adapter listing and one throughput report concurrently and\n" +
			"print a table of channels. A failed listing only loses the Type column.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(opts, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := withTimeout(cmd.Context(), e.cfg.FetchTimeout)
			defer cancel()

			var raw string
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := e.catalog.Refresh(gctx, e.src); err != nil {
					e.log.Warn("adapter catalog unavailable", "err", err)
				}
				return nil
			})
			g.Go(func() error {
				var err error
				raw, err = e.src.ThroughputReport(gctx)
				if err != nil {
					return fmt.Errorf("throughput report: %w", err)
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			printMeasurements(cmd.OutOrStdout(), throughput.Parse(raw), e.catalog)
			return nil
		},
	}
}

// printMeasurements writes one row per measurement with the matched
// adapter's type and link utilization.
func printMeasurements(w io.Writer, ms []throughput.Measurement, catalog *adapter.Catalog) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "No channels reported.")
		return
	}

	fmt.Fprintf(w, "%-32s  %-14s  %12s  %6s\n", "Channel", "Type", "Rate", "Util")
	fmt.Fprintf(w, "%-32s  %-14s  %12s  %6s\n", "-------", "----", "----", "----")

	for _, m := range ms {
		typ := "Unknown"
		util := "-"
		if a, ok := catalog.Lookup(m.Name); ok {
			typ = a.Category()
			if u := throughput.Utilization(m.BytesPerSec, a.LinkBitsPerSec()); u > 0 {
				util = fmt.Sprintf("%.1f%%", u)
			}
		}
		fmt.Fprintf(w, "%-32s  %-14s  %12s  %6s\n",
			truncate(m.Name, 32),
			typ,
			components.FormatRateUnit(m.BytesPerSec),
			util,
		)
	}
}

// truncate shortens a string to the given max length, adding "..." if needed.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
