package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonhe/ifwatch/internal/config"
	"github.com/tonhe/ifwatch/internal/engine"
	"github.com/tonhe/ifwatch/internal/netif"
)

type fakeLister struct{ listing string }

func (f fakeLister) AdapterListing(context.Context) (string, error) { return f.listing, nil }

type fakeInventory struct{ calls *[]netif.Filter }

func (f fakeInventory) List(_ context.Context, filter netif.Filter) ([]netif.Interface, error) {
	*f.calls = append(*f.calls, filter)
	return []netif.Interface{
		{Name: "eth0", Index: 2, MTU: 1500, Addrs: []string{"192.168.1.5"}, Up: true},
	}, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T) (AppModel, *engine.Controller) {
	t.Helper()
	ctrl := engine.NewController(engine.ReporterFunc(func(context.Context) (string, error) {
		return "Ethernet: 100 bytes/sec", nil
	}))
	t.Cleanup(ctrl.Close)

	cfg := config.DefaultConfig()
	cfg.AutoStart = false
	m := NewAppModel(cfg, ctrl, Options{
		Lister: fakeLister{listing: `"Name","InterfaceDescription","ifIndex","LinkSpeed","InterfaceType"
"Ethernet","Intel(R) Ethernet I219-V","12","1 Gbps","6"
`},
		SourceName: "test",
		Version:    "0.0.0",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(AppModel), ctrl
}

func TestAppToggleMonitoring(t *testing.T) {
	m, ctrl := newTestApp(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	cmd()
	assert.True(t, ctrl.Monitoring())

	_, cmd = next.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Nil(t, cmd)
	assert.False(t, ctrl.Monitoring())
}

func TestAppAdaptersView(t *testing.T) {
	m, _ := newTestApp(t)

	msg := m.refreshAdapters()()
	next, _ := m.Update(msg)
	m = next.(AppModel)

	next, _ = m.Update(runes("a"))
	m = next.(AppModel)
	assert.Equal(t, StateAdapters, m.state)
	assert.Contains(t, m.View(), "Network Adapters")
	assert.Contains(t, m.View(), "Intel(R) Ethernet I219-V")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateThroughput, next.(AppModel).state)
}

func TestAppSampleEventShowsChannel(t *testing.T) {
	m, _ := newTestApp(t)

	state := engine.State{
		Monitoring:     true,
		ActiveChannels: []string{"Ethernet"},
		Points: []engine.DataPoint{{
			Label:  "12:00:01",
			Series: map[string]float64{"Ethernet": 100},
		}},
		Capacity: 20,
	}
	next, cmd := m.Update(stateMsg(engine.Event{Kind: engine.EventSample, State: state}))
	assert.NotNil(t, cmd, "the app keeps listening for events")
	m = next.(AppModel)

	view := m.View()
	assert.Contains(t, view, "Ethernet")
	assert.Contains(t, view, "100B")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(AppModel)
	assert.Equal(t, StateDetail, m.state)
	assert.Equal(t, "Ethernet", m.detail.Channel())
}

func TestAppCyclesTheme(t *testing.T) {
	m, _ := newTestApp(t)
	before := m.config.Theme

	next, _ := m.Update(runes("t"))
	m = next.(AppModel)
	assert.NotEqual(t, before, m.config.Theme)
}

func TestAppQuitClosesController(t *testing.T) {
	m, ctrl := newTestApp(t)
	ctrl.Start(0, 0)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, ctrl.Monitoring())

	for range m.events {
	}
	assert.Nil(t, waitForEvent(m.events)(), "closed subscription ends the event loop")
}

func TestAppReloadWaitsForInitialRefresh(t *testing.T) {
	m, _ := newTestApp(t)
	require.NotNil(t, m.Init())

	next, cmd := m.Update(runes("u"))
	assert.Nil(t, cmd, "no second refresh while the first one is running")
	m = next.(AppModel)

	next, _ = m.Update(m.refreshAdapters()())
	m = next.(AppModel)
	assert.False(t, m.refreshing)

	next, cmd = m.Update(runes("u"))
	assert.NotNil(t, cmd, "reload allowed once the refresh finished")
	assert.True(t, next.(AppModel).refreshing)
}

func TestAppInterfacesView(t *testing.T) {
	m, _ := newTestApp(t)
	var calls []netif.Filter
	m.ifaces = fakeInventory{calls: &calls}

	next, cmd := m.Update(runes("i"))
	m = next.(AppModel)
	require.NotNil(t, cmd)
	assert.Equal(t, StateInterfaces, m.state)
	assert.Contains(t, m.View(), "Listing interfaces...")

	next, _ = m.Update(cmd())
	m = next.(AppModel)
	view := m.View()
	assert.Contains(t, view, "Network Interfaces (all)")
	assert.Contains(t, view, "192.168.1.5")

	next, cmd = m.Update(runes("f"))
	m = next.(AppModel)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(AppModel)
	assert.Contains(t, m.View(), "Network Interfaces (active)")

	next, cmd = m.Update(runes("u"))
	m = next.(AppModel)
	require.NotNil(t, cmd, "u lists interfaces again in this view")
	m.Update(cmd())
	assert.Equal(t, []netif.Filter{netif.All, netif.Active, netif.Active}, calls)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateThroughput, next.(AppModel).state)
}

func TestAppInterfacesWithoutInventory(t *testing.T) {
	m, _ := newTestApp(t)

	next, cmd := m.Update(runes("i"))
	assert.Nil(t, cmd)
	assert.Equal(t, StateThroughput, next.(AppModel).state)
}
