package source

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/net"
	"github.com/tonhe/ifwatch/internal/adapter"
)

// Local reads adapters and octet counters from the host through gopsutil.
type Local struct {
	log        *slog.Logger
	interfaces func(ctx context.Context) (net.InterfaceStatList, error)
	counters   *counterReporter
}

// NewLocal creates a Local source. sampleInterval separates the two
// collections of the first report.
func NewLocal(sampleInterval time.Duration, logger *slog.Logger) *Local {
	logger = orDiscard(logger)
	l := &Local{
		log:        logger,
		interfaces: net.InterfacesWithContext,
	}
	l.counters = newCounterReporter(collectIOCounters(net.IOCountersWithContext), sampleInterval, logger)
	return l
}

func collectIOCounters(read func(ctx context.Context, pernic bool) ([]net.IOCountersStat, error)) collectFunc {
	return func(ctx context.Context) ([]namedCounters, error) {
		stats, err := read(ctx, true)
		if err != nil {
			return nil, err
		}
		out := make([]namedCounters, 0, len(stats))
		for _, s := range stats {
			if isLoopbackName(s.Name) {
				continue
			}
			out = append(out, namedCounters{
				Name:     s.Name,
				Counters: CounterSample{InOctets: s.BytesRecv, OutOctets: s.BytesSent},
			})
		}
		return out, nil
	}
}

// AdapterListing renders the host's up, non-loopback interfaces in the
// Get-NetAdapter CSV layout.
func (l *Local) AdapterListing(ctx context.Context) (string, error) {
	ifaces, err := l.interfaces(ctx)
	if err != nil {
		return "", err
	}
	var adapters []adapter.Adapter
	for _, iface := range ifaces {
		if !slices.Contains(iface.Flags, "up") || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		desc := iface.HardwareAddr
		if desc == "" {
			desc = iface.Name
		}
		adapters = append(adapters, adapter.Adapter{
			Name:          iface.Name,
			Description:   desc,
			Index:         iface.Index,
			InterfaceType: guessInterfaceType(iface.Name),
		})
	}
	l.log.Debug("listed local interfaces", "count", len(adapters))
	return adapter.FormatListing(adapters), nil
}

// ThroughputReport returns bytes/sec per interface since the previous call.
func (l *Local) ThroughputReport(ctx context.Context) (string, error) {
	return l.counters.report(ctx)
}

// Reset drops the previous counter sample, so the first report of a new
// session measures a fresh interval.
func (l *Local) Reset() {
	l.counters.reset()
}

func isLoopbackName(name string) bool {
	lower := strings.ToLower(name)
	return lower == "lo" || lower == "lo0" || strings.HasPrefix(lower, "loopback")
}

// guessInterfaceType maps common interface name prefixes to type codes.
func guessInterfaceType(name string) int {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "wl"), strings.Contains(lower, "wi-fi"), strings.Contains(lower, "wifi"):
		return adapter.TypeWiFi
	case strings.HasPrefix(lower, "ww"), strings.HasPrefix(lower, "rmnet"), strings.Contains(lower, "cellular"):
		return adapter.TypeCellular
	default:
		return adapter.TypeEthernet
	}
}
