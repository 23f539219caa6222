package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/config"
	"github.com/tonhe/ifwatch/internal/engine"
	"github.com/tonhe/ifwatch/internal/netif"
	"github.com/tonhe/ifwatch/tui/components"
	"github.com/tonhe/ifwatch/tui/keys"
	"github.com/tonhe/ifwatch/tui/styles"
	"github.com/tonhe/ifwatch/tui/views"
)

// AppState represents the current screen/view of the application.
type AppState int

const (
	StateThroughput AppState = iota
	StateDetail
	StateAdapters
	StateInterfaces
)

// stateMsg carries a controller event into the update loop.
type stateMsg engine.Event

// adaptersMsg reports a finished catalog refresh.
type adaptersMsg struct{ err error }

// interfacesMsg carries a finished interface listing.
type interfacesMsg struct {
	filter netif.Filter
	ifaces []netif.Interface
	err    error
}

// Options are the pieces the app needs besides the controller.
type Options struct {
	Catalog    *adapter.Catalog
	Lister     adapter.Lister
	Interfaces netif.Lister
	SourceName string
	Version    string
	Logger     *slog.Logger
}

// AppModel is the root Bubble Tea model that manages all views and state.
type AppModel struct {
	state   AppState
	theme   styles.Theme
	config  *config.Config
	ctrl    *engine.Controller
	events  <-chan engine.Event
	catalog *adapter.Catalog
	lister  adapter.Lister
	ifaces  netif.Lister
	log     *slog.Logger

	snapshot   engine.State
	refreshing bool
	sourceName string
	version    string

	throughput views.ThroughputView
	detail     views.DetailView
	adapters   views.AdaptersView
	interfaces views.InterfacesView
	help       views.HelpView

	width  int
	height int
}

// NewAppModel creates an AppModel around a controller. The model subscribes
// to the controller immediately so no event between construction and Init is
// lost. With a lister the model starts out refreshing, since Init issues the
// first catalog refresh.
func NewAppModel(cfg *config.Config, ctrl *engine.Controller, opts Options) AppModel {
	theme := styles.Resolve(cfg.Theme)
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = adapter.NewCatalog(logger)
	}
	return AppModel{
		state:      StateThroughput,
		theme:      theme,
		config:     cfg,
		ctrl:       ctrl,
		events:     ctrl.Subscribe(),
		catalog:    catalog,
		lister:     opts.Lister,
		ifaces:     opts.Interfaces,
		refreshing: opts.Lister != nil,
		log:        logger.With("module", "tui"),
		snapshot:   ctrl.Snapshot(),
		sourceName: opts.SourceName,
		version:    opts.Version,
		throughput: views.NewThroughputView(theme),
		detail:     views.NewDetailView(theme),
		adapters:   views.NewAdaptersView(theme),
		interfaces: views.NewInterfacesView(theme),
		help:       views.NewHelpView(theme),
	}
}

// Init starts listening for controller events, loads the adapter catalog and
// starts monitoring when auto_start is set.
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEvent(m.events)}
	if m.lister != nil {
		cmds = append(cmds, m.refreshAdapters())
	}
	if m.config.AutoStart {
		cmds = append(cmds, m.startCmd())
	}
	return tea.Batch(cmds...)
}

// waitForEvent blocks on the subscription and turns the next event into a
// message. A closed subscription ends the loop.
func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return stateMsg(ev)
	}
}

func (m AppModel) startCmd() tea.Cmd {
	ctrl, cfg := m.ctrl, m.config
	return func() tea.Msg {
		ctrl.Start(cfg.PollInterval, cfg.Capacity)
		return nil
	}
}

func (m AppModel) refreshAdapters() tea.Cmd {
	catalog, lister, timeout := m.catalog, m.lister, m.config.FetchTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return adaptersMsg{err: catalog.Refresh(ctx, lister)}
	}
}

// listInterfaces marks the interfaces view as loading and returns the
// command that lists with filter f.
func (m *AppModel) listInterfaces(f netif.Filter) tea.Cmd {
	if m.ifaces == nil {
		return nil
	}
	m.interfaces.SetLoading(f)
	inv, timeout := m.ifaces, m.config.FetchTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ifaces, err := inv.List(ctx, f)
		return interfacesMsg{filter: f, ifaces: ifaces, err: err}
	}
}

// Update handles messages and dispatches to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Body height = total - 1 (header) - 2 (status bar lines)
		bodyHeight := msg.Height - 3
		m.throughput.SetSize(msg.Width, bodyHeight)
		m.detail.SetSize(msg.Width, bodyHeight)
		m.adapters.SetSize(msg.Width, bodyHeight)
		m.interfaces.SetSize(msg.Width, bodyHeight)
		m.help.SetSize(msg.Width, bodyHeight)
		return m, nil

	case stateMsg:
		m.snapshot = msg.State
		m.syncViews()
		return m, waitForEvent(m.events)

	case adaptersMsg:
		m.refreshing = false
		if msg.err != nil {
			m.log.Warn("adapter refresh failed", "err", msg.err)
		}
		m.syncViews()
		return m, nil

	case interfacesMsg:
		if msg.err != nil {
			m.log.Warn("interface listing failed", "filter", msg.filter, "err", msg.err)
		}
		m.interfaces.SetInterfaces(msg.filter, msg.ifaces, msg.err, time.Now())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := keys.DefaultKeyMap

	// Global key bindings
	switch {
	case key.Matches(msg, km.Quit):
		m.ctrl.Close()
		return m, tea.Quit
	case key.Matches(msg, km.Help):
		m.help.Toggle()
		return m, nil
	}

	if m.help.IsVisible() {
		if key.Matches(msg, km.Escape) {
			m.help.Toggle()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, km.Toggle):
		if m.ctrl.Monitoring() {
			m.ctrl.Stop()
			return m, nil
		}
		return m, m.startCmd()
	case key.Matches(msg, km.Clear):
		m.ctrl.Clear()
		return m, nil
	case key.Matches(msg, km.Poll):
		m.ctrl.PollNow()
		return m, nil
	case key.Matches(msg, km.Reload):
		if m.refreshing || m.lister == nil {
			return m, nil
		}
		m.refreshing = true
		return m, m.refreshAdapters()
	case key.Matches(msg, km.Theme):
		m.nextTheme()
		return m, nil
	}

	switch m.state {
	case StateThroughput:
		switch {
		case key.Matches(msg, km.Enter):
			if row, ok := m.throughput.Selected(); ok {
				m.detail.SetChannel(row)
				m.state = StateDetail
			}
			return m, nil
		case key.Matches(msg, km.Adapters):
			m.adapters.SetCatalog(m.catalog)
			m.state = StateAdapters
			return m, nil
		}
		var cmd tea.Cmd
		m.throughput, cmd = m.throughput.Update(msg)
		return m, cmd

	case StateDetail:
		var cmd tea.Cmd
		var back bool
		m.detail, cmd, back = m.detail.Update(msg)
		if back {
			m.state = StateThroughput
		}
		return m, cmd

	case StateAdapters:
		var cmd tea.Cmd
		var back bool
		m.adapters, cmd, back = m.adapters.Update(msg)
		if back {
			m.state = StateThroughput
		}
		return m, cmd

	case StateInterfaces:
		if key.Matches(msg, km.Filter) {
			return m, m.listInterfaces(views.NextFilter(m.interfaces.Filter()))
		}
		var cmd tea.Cmd
		var back bool
		m.interfaces, cmd, back = m.interfaces.Update(msg)
		if back {
			m.state = StateThroughput
		}
		return m, cmd
	}
	return m, nil
}

// syncViews pushes the latest snapshot and catalog into the views.
func (m *AppModel) syncViews() {
	adapters := m.catalog.Adapters()
	m.throughput.SetData(m.snapshot, adapters)
	m.adapters.SetCatalog(m.catalog)
	if m.state == StateDetail {
		for _, row := range views.BuildRows(m.snapshot, adapters) {
			if row.Name == m.detail.Channel() {
				m.detail.SetChannel(row)
				break
			}
		}
	}
}

func (m *AppModel) nextTheme() {
	slug, t := styles.Next(m.config.Theme)
	m.config.Theme = slug
	m.theme = t
	m.throughput.SetTheme(t)
	m.detail.SetTheme(t)
	m.adapters.SetTheme(t)
	m.interfaces.SetTheme(t)
	m.help.SetTheme(t)
}

// View renders the full application UI by composing header, body, and status.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := components.RenderHeader(m.theme, components.HeaderInfo{
		Source:   m.sourceName,
		Live:     m.snapshot.Monitoring,
		Busy:     m.snapshot.Busy,
		Channels: len(m.snapshot.ActiveChannels),
		Adapters: len(m.catalog.Adapters()),
		Version:  m.version,
	}, m.width)

	var body string
	switch {
	case m.help.IsVisible():
		body = m.help.View()
	case m.state == StateDetail:
		body = m.detail.View()
	case m.state == StateAdapters:
		body = m.adapters.View()
	case m.state == StateInterfaces:
		body = m.interfaces.View()
	default:
		body = m.throughput.View()
	}

	statusBar := components.RenderStatusBar(m.theme, components.StatusInfo{
		Interval: m.snapshot.Interval,
		LastPoll: m.snapshot.LastPoll,
		Points:   len(m.snapshot.Points),
		Capacity: m.snapshot.Capacity,
		Skipped:  m.snapshot.SkippedTicks,
		Error:    m.snapshot.LastError,
	}, m.width)

	// Fill body to the available height between header and status bar
	bodyHeight := m.height - 1 - 2 // 1 header line, 2 status bar lines
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		Background(m.theme.Base00).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}

// Run starts the program and blocks until the user quits.
func Run(model AppModel) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
