package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/engine"
	"github.com/tonhe/ifwatch/tui/components"
)

// errStoppedAfterFailure is returned by stream when fail-fast ends the session.
var errStoppedAfterFailure = errors.New("monitoring stopped after a failed poll")

func streamCommand(opts *options) *cobra.Command {
	var (
		count int
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Print one line per sample without the interactive UI",
		Long: "Run the monitor headless and print one line per sample.\n\n" +
			"Each line starts with the sample label followed by every channel's\n" +
			"rate. Channels that match a known adapter carry its type.\n\n" +
			"Examples:\n" +
			"  ifwatch stream                # until interrupted\n" +
			"  ifwatch stream --count 10     # ten samples, then exit",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStream(cmd, opts, count, debug)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Stop after this many samples (0 runs until interrupted)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Mirror log output to stderr")

	return cmd
}

func runStream(cmd *cobra.Command, opts *options, count int, debug bool) error {
	var mirror io.Writer
	if debug {
		mirror = cmd.ErrOrStderr()
	}
	e, err := newEnv(opts, mirror)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	refreshCtx, cancel := withTimeout(ctx, e.cfg.FetchTimeout)
	if err := e.catalog.Refresh(refreshCtx, e.src); err != nil {
		e.log.Warn("adapter catalog unavailable", "err", err)
	}
	cancel()

	events := e.ctrl.Subscribe()
	e.ctrl.Start(e.cfg.PollInterval, e.cfg.Capacity)

	return streamEvents(ctx, events, e.catalog, count, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// streamEvents prints sample events until count samples have been written,
// ctx ends or the subscription closes.
func streamEvents(ctx context.Context, events <-chan engine.Event, catalog *adapter.Catalog, count int, out, errOut io.Writer) error {
	written := 0
	for count <= 0 || written < count {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case engine.EventSample:
				fmt.Fprintln(out, formatSample(ev.State, catalog))
				written++
			case engine.EventFailure:
				fmt.Fprintln(errOut, "poll failed:", ev.State.LastError)
				if !ev.State.Monitoring {
					return errStoppedAfterFailure
				}
			}
		}
	}
	return nil
}

// formatSample renders the newest point as "<label>  <channel> <rate> ...".
func formatSample(s engine.State, catalog *adapter.Catalog) string {
	p, ok := s.Latest()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.Label)
	for _, name := range s.ActiveChannels {
		v, ok := p.Series[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s", name)
		if catalog != nil {
			if a, found := catalog.Lookup(name); found {
				fmt.Fprintf(&b, " [%s]", a.Category())
			}
		}
		fmt.Fprintf(&b, " %s", components.FormatRateUnit(v))
	}
	if len(s.ActiveChannels) == 0 {
		b.WriteString("  (no channels)")
	}
	return b.String()
}

// withTimeout is context.WithTimeout that treats zero as no limit.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
