package netif

import (
	"context"
	"errors"
	stdnet "net"
	"testing"

	"github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStats() net.InterfaceStatList {
	return net.InterfaceStatList{
		{Index: 3, Name: "wlan0", Flags: []string{"up", "broadcast"},
			Addrs: net.InterfaceAddrList{{Addr: "fe80::1%wlan0"}}},
		{Index: 1, Name: "lo", MTU: 65536, Flags: []string{"up", "loopback"},
			Addrs: net.InterfaceAddrList{{Addr: "127.0.0.1/8"}, {Addr: "::1/128"}}},
		{Index: 2, Name: "eth0", MTU: 1500, HardwareAddr: "00:11:22:33:44:55", Flags: []string{"up", "broadcast"},
			Addrs: net.InterfaceAddrList{{Addr: "2001:db8::5/64"}, {Addr: "192.168.1.5/24"}}},
		{Index: 4, Name: "eth1", Flags: []string{"broadcast"},
			Addrs: net.InterfaceAddrList{{Addr: "10.0.0.9/8"}}},
	}
}

func newTestInventory(reachable bool) (*Inventory, *[]string) {
	var dialed []string
	inv := NewInventory(nil)
	inv.interfaces = func(context.Context) (net.InterfaceStatList, error) {
		return testStats(), nil
	}
	inv.dial = func(_ context.Context, _, address string) (stdnet.Conn, error) {
		dialed = append(dialed, address)
		if !reachable {
			return nil, errors.New("connection refused")
		}
		client, server := stdnet.Pipe()
		server.Close()
		return client, nil
	}
	return inv, &dialed
}

func names(ifaces []Interface) []string {
	out := make([]string, 0, len(ifaces))
	for _, i := range ifaces {
		out = append(out, i.Name)
	}
	return out
}

func TestListAll(t *testing.T) {
	inv, dialed := newTestInventory(true)

	got, err := inv.List(context.Background(), All)
	require.NoError(t, err)
	assert.Equal(t, []string{"lo", "eth0", "wlan0", "eth1"}, names(got))
	assert.Empty(t, *dialed)

	eth0 := got[1]
	assert.Equal(t, Interface{
		Name:         "eth0",
		Index:        2,
		MTU:          1500,
		HardwareAddr: "00:11:22:33:44:55",
		Addrs:        []string{"192.168.1.5", "2001:db8::5"},
		Up:           true,
	}, eth0)
	assert.True(t, got[0].Loopback)
	assert.False(t, got[3].Up)
}

func TestListActive(t *testing.T) {
	inv, _ := newTestInventory(true)

	got, err := inv.List(context.Background(), Active)
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0", "wlan0"}, names(got))
}

func TestListConnected(t *testing.T) {
	inv, dialed := newTestInventory(true)

	got, err := inv.List(context.Background(), Connected)
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0"}, names(got), "link-local only interfaces are not connected")
	assert.Equal(t, []string{"8.8.8.8:53"}, *dialed, "stops at the first reachable target")
}

func TestListConnectedUnreachable(t *testing.T) {
	inv, dialed := newTestInventory(false)

	got, err := inv.List(context.Background(), Connected)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, DefaultReachTargets, *dialed)
}

func TestListError(t *testing.T) {
	inv := NewInventory(nil)
	inv.interfaces = func(context.Context) (net.InterfaceStatList, error) {
		return nil, errors.New("netlink: permission denied")
	}

	_, err := inv.List(context.Background(), All)
	assert.ErrorContains(t, err, "list interfaces: netlink: permission denied")
}

func TestRoutable(t *testing.T) {
	tests := []struct {
		addrs []string
		want  bool
	}{
		{[]string{"192.168.1.5"}, true},
		{[]string{"2001:db8::5"}, true},
		{[]string{"fe80::1%eth0"}, false},
		{[]string{"169.254.10.1"}, false},
		{[]string{"127.0.0.1"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Interface{Addrs: tt.addrs}.Routable(), "%v", tt.addrs)
	}
}

func TestFilterString(t *testing.T) {
	assert.Equal(t, "all", All.String())
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "connected", Connected.String())
}
