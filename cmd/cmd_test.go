package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/config"
	"github.com/tonhe/ifwatch/internal/engine"
	"github.com/tonhe/ifwatch/internal/netif"
	"github.com/tonhe/ifwatch/internal/source"
	"github.com/tonhe/ifwatch/internal/throughput"
)

const testListing = `"Name","InterfaceDescription","ifIndex","LinkSpeed","InterfaceType"
"Ethernet","Intel(R) Ethernet I219-V","12","1 Gbps","6"
"Wi-Fi","Intel(R) Wi-Fi 6 AX201 160MHz","7","866.7 Mbps","71"
`

type fakeSource struct {
	listing   string
	report    string
	reportErr error
}

func (f fakeSource) AdapterListing(context.Context) (string, error) { return f.listing, nil }

func (f fakeSource) ThroughputReport(context.Context) (string, error) {
	return f.report, f.reportErr
}

// useFakeSource swaps the source constructor and keeps config and log files
// inside a temp dir. It returns the config path to pass with --config.
func useFakeSource(t *testing.T, src source.Source) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("APPDATA", dir)
	t.Setenv("LOCALAPPDATA", dir)

	orig := newSource
	newSource = func(config.SourceConfig, *slog.Logger) (source.Source, error) { return src, nil }
	t.Cleanup(func() { newSource = orig })

	return filepath.Join(dir, "config.toml")
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ifwatch v"+Version+"\n", out)
}

func TestThemesCommand(t *testing.T) {
	out, err := runCommand(t, "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "solarized-dark\n")
	assert.Contains(t, out, "dracula\n")
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	out, err := runCommand(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigThemeAndPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := runCommand(t, "config", "theme", "dracula", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"dracula"`)

	_, err = runCommand(t, "config", "policy", "failfast", "--config", path)
	require.NoError(t, err)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dracula", cfg.Theme)
	assert.Equal(t, "fail-fast", cfg.FailurePolicy)
}

func TestConfigRejectsUnknownValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	_, err := runCommand(t, "config", "theme", "no-such-theme", "--config", path)
	assert.ErrorContains(t, err, "unknown theme")

	_, err = runCommand(t, "config", "policy", "sometimes", "--config", path)
	assert.ErrorContains(t, err, "unknown failure policy")
}

func TestConfigShowAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "show", "--config", path, "--capacity", "50", "--interval", "500ms")
	require.NoError(t, err)
	assert.Contains(t, out, "capacity = 50")
	assert.Contains(t, out, `poll_interval = "500ms"`)
}

func TestConfigShowRejectsBadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	_, err := runCommand(t, "config", "show", "--config", path, "--source", "carrier-pigeon")
	assert.ErrorIs(t, err, config.ErrInvalidSource)
}

func TestSampleCommand(t *testing.T) {
	path := useFakeSource(t, fakeSource{
		listing: testListing,
		report:  "Ethernet: 1500 bytes/sec\nvEthernet (WSL): 0 bytes/sec\n",
	})

	out, err := runCommand(t, "sample", "--config", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "Ethernet")
	assert.Contains(t, lines[2], "1.5K/s")
	assert.Contains(t, lines[3], "vEthernet (WSL)")
	assert.Contains(t, lines[3], "Unknown")
}

func TestSampleCommandReportError(t *testing.T) {
	path := useFakeSource(t, fakeSource{listing: testListing, reportErr: errors.New("boom")})
	_, err := runCommand(t, "sample", "--config", path)
	assert.ErrorContains(t, err, "throughput report: boom")
}

func TestAdaptersCommand(t *testing.T) {
	path := useFakeSource(t, fakeSource{listing: testListing})

	out, err := runCommand(t, "adapters", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 adapters")
	assert.Contains(t, out, "WiFi")
	assert.Contains(t, out, "866.7 Mbps")

	raw, err := runCommand(t, "adapters", "--raw", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, adapter.ParseListing(testListing), adapter.ParseListing(raw))
}

func TestStreamCommand(t *testing.T) {
	path := useFakeSource(t, fakeSource{
		listing: testListing,
		report:  "Ethernet: 2000 bytes/sec\nWi-Fi: 10 bytes/sec\n",
	})

	out, err := runCommand(t, "stream", "--count", "2", "--interval", "10ms", "--config", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, "Ethernet [Ethernet] 2.0K/s")
		assert.Contains(t, line, "Wi-Fi [WiFi] 10B/s")
	}
}

func TestStreamStopsOnFailFast(t *testing.T) {
	path := useFakeSource(t, fakeSource{listing: testListing, reportErr: errors.New("offline")})

	out, err := runCommand(t, "stream", "--interval", "10ms", "--policy", "fail-fast", "--config", path)
	assert.ErrorIs(t, err, errStoppedAfterFailure)
	assert.Contains(t, out, "poll failed: "+engine.FetchErrorMessage)
}

func TestStreamEventsStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := streamEvents(ctx, make(chan engine.Event), nil, 0, &out, &out)
	assert.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestFormatSample(t *testing.T) {
	catalog := adapter.NewCatalog(nil)
	require.NoError(t, catalog.Refresh(context.Background(), fakeSource{listing: testListing}))

	now := time.Date(2026, 1, 1, 12, 0, 1, 0, time.UTC)
	state := engine.State{
		ActiveChannels: []string{"Ethernet", "Loopback"},
		Points: []engine.DataPoint{{
			Label:  "12:00:01",
			Time:   now,
			Series: map[string]float64{"Ethernet": 500, "Loopback": 0},
		}},
	}
	assert.Equal(t, "12:00:01  Ethernet [Ethernet] 500B/s  Loopback 0B/s", formatSample(state, catalog))

	assert.Equal(t, "", formatSample(engine.State{}, catalog))

	state.ActiveChannels = nil
	assert.Equal(t, "12:00:01  (no channels)", formatSample(state, catalog))
}

func TestPrintMeasurementsEmpty(t *testing.T) {
	var out bytes.Buffer
	printMeasurements(&out, []throughput.Measurement{}, adapter.NewCatalog(nil))
	assert.Equal(t, "No channels reported.\n", out.String())
}

type fakeInventory struct {
	ifaces []netif.Interface
	got    *netif.Filter
}

func (f fakeInventory) List(_ context.Context, filter netif.Filter) ([]netif.Interface, error) {
	*f.got = filter
	return f.ifaces, nil
}

func useFakeInventory(t *testing.T, ifaces []netif.Interface) (string, *netif.Filter) {
	t.Helper()
	path := useFakeSource(t, fakeSource{listing: testListing})
	got := new(netif.Filter)
	orig := newInventory
	newInventory = func(*slog.Logger) netif.Lister { return fakeInventory{ifaces: ifaces, got: got} }
	t.Cleanup(func() { newInventory = orig })
	return path, got
}

func TestInterfacesCommand(t *testing.T) {
	path, got := useFakeInventory(t, []netif.Interface{
		{Name: "lo", Index: 1, Addrs: []string{"127.0.0.1", "::1"}, Up: true, Loopback: true},
		{Name: "eth0", Index: 2, HardwareAddr: "00:11:22:33:44:55", Addrs: []string{"192.168.1.5"}, Up: true},
		{Name: "eth1", Index: 4},
	})

	out, err := runCommand(t, "interfaces", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, netif.All, *got)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Found 3 network interfaces:", lines[0])
	assert.Contains(t, lines[4], "127.0.0.1, ::1")
	assert.Contains(t, lines[4], " lo ")
	assert.Contains(t, lines[5], "00:11:22:33:44:55")
	assert.Contains(t, lines[5], " up ")
	assert.Contains(t, lines[6], "down")
	assert.True(t, strings.HasSuffix(lines[6], "-"))
}

func TestInterfacesCommandFilters(t *testing.T) {
	path, got := useFakeInventory(t, nil)

	out, err := runCommand(t, "interfaces", "--active", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, netif.Active, *got)
	assert.Equal(t, "No active interfaces.\n", out)

	out, err = runCommand(t, "interfaces", "--connected", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, netif.Connected, *got)
	assert.Equal(t, "No connected interfaces.\n", out)

	_, err = runCommand(t, "interfaces", "--active", "--connected", "--config", path)
	assert.ErrorContains(t, err, "none of the others can be")
}
