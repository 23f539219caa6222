// Package netif lists the host's network interfaces with their addresses and
// state, independent of the throughput source in use.
package netif

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	stdnet "net"
	"net/netip"
	"slices"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/net"
)

// Filter selects which interfaces List returns.
type Filter int

const (
	// All returns every interface, loopback and down ones included.
	All Filter = iota
	// Active returns interfaces that are up and not loopback.
	Active
	// Connected returns active interfaces with a routable address, and only
	// when the host can reach the internet at all.
	Connected
)

func (f Filter) String() string {
	switch f {
	case Active:
		return "active"
	case Connected:
		return "connected"
	default:
		return "all"
	}
}

// Lister returns host interfaces matching a filter.
type Lister interface {
	List(ctx context.Context, f Filter) ([]Interface, error)
}

// Interface is one host interface.
type Interface struct {
	Name         string
	Index        int
	MTU          int
	HardwareAddr string
	Addrs        []string // addresses without prefix length, IPv4 first
	Up           bool
	Loopback     bool
}

// Active reports whether the interface is up and not loopback.
func (i Interface) Active() bool {
	return i.Up && !i.Loopback
}

// Routable reports whether any address is global unicast.
func (i Interface) Routable() bool {
	for _, a := range i.Addrs {
		addr, err := netip.ParseAddr(a)
		if err == nil && addr.IsGlobalUnicast() {
			return true
		}
	}
	return false
}

// DefaultReachTargets are dialed by the reachability check, in order.
var DefaultReachTargets = []string{"8.8.8.8:53", "1.1.1.1:53"}

const defaultReachTimeout = 3 * time.Second

// Inventory lists host interfaces through gopsutil.
type Inventory struct {
	log        *slog.Logger
	interfaces func(ctx context.Context) (net.InterfaceStatList, error)
	dial       func(ctx context.Context, network, address string) (stdnet.Conn, error)
	targets    []string
	timeout    time.Duration
}

// NewInventory creates an Inventory for the local host.
func NewInventory(logger *slog.Logger) *Inventory {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &stdnet.Dialer{}
	return &Inventory{
		log:        logger.With("module", "netif"),
		interfaces: net.InterfacesWithContext,
		dial:       d.DialContext,
		targets:    DefaultReachTargets,
		timeout:    defaultReachTimeout,
	}
}

// List returns the interfaces matching f, sorted by index.
func (inv *Inventory) List(ctx context.Context, f Filter) ([]Interface, error) {
	stats, err := inv.interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	out := make([]Interface, 0, len(stats))
	for _, s := range stats {
		iface := fromStat(s)
		switch f {
		case Active:
			if !iface.Active() {
				continue
			}
		case Connected:
			if !iface.Active() || !iface.Routable() {
				continue
			}
		}
		out = append(out, iface)
	}
	slices.SortStableFunc(out, func(a, b Interface) int { return a.Index - b.Index })

	if f == Connected && len(out) > 0 && !inv.Reachable(ctx) {
		inv.log.Info("no internet reachability, reporting no connected interfaces", "candidates", len(out))
		return []Interface{}, nil
	}
	inv.log.Debug("listed interfaces", "filter", f, "count", len(out))
	return out, nil
}

// Reachable reports whether a TCP connection to any reach target succeeds.
func (inv *Inventory) Reachable(ctx context.Context) bool {
	for _, target := range inv.targets {
		dctx, cancel := context.WithTimeout(ctx, inv.timeout)
		conn, err := inv.dial(dctx, "tcp", target)
		cancel()
		if err != nil {
			inv.log.Debug("reach target failed", "target", target, "err", err)
			continue
		}
		conn.Close()
		return true
	}
	return false
}

func fromStat(s net.InterfaceStat) Interface {
	iface := Interface{
		Name:         s.Name,
		Index:        s.Index,
		MTU:          s.MTU,
		HardwareAddr: s.HardwareAddr,
		Up:           slices.Contains(s.Flags, "up"),
		Loopback:     slices.Contains(s.Flags, "loopback"),
	}
	var v4, v6 []string
	for _, a := range s.Addrs {
		addr, ok := parseAddr(a.Addr)
		if !ok {
			continue
		}
		if addr.Is4() {
			v4 = append(v4, addr.String())
		} else {
			v6 = append(v6, addr.String())
		}
	}
	iface.Addrs = append(v4, v6...)
	return iface
}

// parseAddr accepts "10.0.0.2/24" or a bare address.
func parseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if p, err := netip.ParsePrefix(s); err == nil {
		return p.Addr().Unmap(), true
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return a.Unmap(), true
}
