package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tonhe/ifwatch/internal/netif"
)

func interfacesCommand(opts *options) *cobra.Command {
	var active, connected bool

	cmd := &cobra.Command{
		Use:   "interfaces",
		Short: "List the host's network interfaces and their addresses",
		Long: "List every network interface on this host with its addresses and flags.\n\n" +
			"--active keeps interfaces that are up and not loopback. --connected also\n" +
			"needs a routable address and a working internet connection, checked by\n" +
			"dialing a public DNS resolver.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := netif.All
			switch {
			case active:
				filter = netif.Active
			case connected:
				filter = netif.Connected
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, logFile, err := openLogger(cfg, nil)
			if err != nil {
				return err
			}
			defer closeQuietly(logFile)

			ctx, cancel := withTimeout(cmd.Context(), cfg.FetchTimeout)
			defer cancel()

			ifaces, err := newInventory(logger).List(ctx, filter)
			if err != nil {
				return err
			}
			printInterfaces(cmd.OutOrStdout(), ifaces, filter)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "Only interfaces that are up and not loopback")
	cmd.Flags().BoolVar(&connected, "connected", false, "Only active interfaces with internet access")
	cmd.MarkFlagsMutuallyExclusive("active", "connected")

	return cmd
}

// printInterfaces writes the inventory as a table.
func printInterfaces(w io.Writer, ifaces []netif.Interface, filter netif.Filter) {
	if len(ifaces) == 0 {
		fmt.Fprintf(w, "No %s interfaces.\n", filterNoun(filter))
		return
	}

	fmt.Fprintf(w, "Found %d %s interfaces:\n\n", len(ifaces), filterNoun(filter))
	fmt.Fprintf(w, "%-6s  %-16s  %-6s  %-18s  %s\n", "Index", "Name", "State", "MAC", "Addresses")
	fmt.Fprintf(w, "%-6s  %-16s  %-6s  %-18s  %s\n", "-----", "----", "-----", "---", "---------")

	for _, i := range ifaces {
		addrs := strings.Join(i.Addrs, ", ")
		if addrs == "" {
			addrs = "-"
		}
		fmt.Fprintf(w, "%-6s  %-16s  %-6s  %-18s  %s\n",
			strconv.Itoa(i.Index),
			truncate(i.Name, 16),
			interfaceState(i),
			i.HardwareAddr,
			addrs,
		)
	}
}

func interfaceState(i netif.Interface) string {
	switch {
	case i.Loopback:
		return "lo"
	case i.Up:
		return "up"
	default:
		return "down"
	}
}

func filterNoun(f netif.Filter) string {
	if f == netif.All {
		return "network"
	}
	return f.String()
}
