package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonhe/ifwatch/internal/netif"
	"github.com/tonhe/ifwatch/tui/keys"
	"github.com/tonhe/ifwatch/tui/styles"
)

const (
	colIfaceName  = 18
	colIfaceIndex = 7
	colIfaceState = 7
	colIfaceMTU   = 8
	colIfaceAddrs = 24
)

// InterfacesView lists the host's interfaces with their addresses.
type InterfacesView struct {
	theme   styles.Theme
	sty     *styles.Styles
	ifaces  []netif.Interface
	filter  netif.Filter
	loading bool
	err     string
	updated time.Time
	cursor  int
	width   int
	height  int
}

// NewInterfacesView creates a new InterfacesView with the given theme.
func NewInterfacesView(theme styles.Theme) InterfacesView {
	return InterfacesView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Filter returns the filter of the current or pending listing.
func (v InterfacesView) Filter() netif.Filter {
	return v.filter
}

// Loading reports whether a listing is in flight.
func (v InterfacesView) Loading() bool {
	return v.loading
}

// SetLoading marks a listing with filter f as in flight.
func (v *InterfacesView) SetLoading(f netif.Filter) {
	v.filter = f
	v.loading = true
}

// SetInterfaces stores a finished listing. A result for a filter other than
// the pending one is dropped.
func (v *InterfacesView) SetInterfaces(f netif.Filter, ifaces []netif.Interface, err error, at time.Time) {
	if f != v.filter {
		return
	}
	v.loading = false
	if err != nil {
		v.err = err.Error()
		return
	}
	v.err = ""
	v.ifaces = ifaces
	v.updated = at
	if v.cursor >= len(v.ifaces) {
		v.cursor = max(len(v.ifaces)-1, 0)
	}
}

// SetTheme swaps the view's palette.
func (v *InterfacesView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// SetSize updates the available dimensions for the view.
func (v *InterfacesView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles navigation. The third return value reports Esc.
func (v InterfacesView) Update(msg tea.Msg) (InterfacesView, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, true
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < len(v.ifaces)-1 {
				v.cursor++
			}
		}
	}
	return v, nil, false
}

// View renders the interface table.
func (v InterfacesView) View() string {
	lines := []string{
		v.sty.SectionTitle.Render(" Network Interfaces (" + v.filter.String() + ")"),
		v.statusLine(),
		"",
	}

	if len(v.ifaces) == 0 {
		lines = append(lines, v.sty.DimText.Render("  No interfaces match"))
		return strings.Join(lines, "\n")
	}

	wAddrs := max(v.width-colIfaceName-colIfaceIndex-colIfaceState-colIfaceMTU, colIfaceAddrs)

	h := v.sty.TableHeader
	lines = append(lines,
		h.Render(padRight(" Name", colIfaceName))+
			h.Render(padLeft("Index", colIfaceIndex))+
			h.Render(padRight("  State", colIfaceState))+
			h.Render(padLeft("MTU ", colIfaceMTU))+
			h.Render(padRight("Addresses", wAddrs)))

	for i, iface := range v.ifaces {
		st := v.sty.TableRow
		if i == v.cursor {
			st = v.sty.TableRowSel
		}
		addrs := strings.Join(iface.Addrs, " ")
		if addrs == "" {
			addrs = "-"
		}
		lines = append(lines,
			st.Render(padRight(" "+truncate(iface.Name, colIfaceName-2), colIfaceName))+
				st.Render(padLeft(strconv.Itoa(iface.Index), colIfaceIndex))+
				st.Render(padRight("  "+ifaceState(iface), colIfaceState))+
				st.Render(padLeft(strconv.Itoa(iface.MTU)+" ", colIfaceMTU))+
				st.Render(padRight(truncate(addrs, wAddrs-1), wAddrs)))
	}
	return strings.Join(lines, "\n")
}

func (v InterfacesView) statusLine() string {
	switch {
	case v.loading:
		return v.sty.StatusWarn.Render("  Listing interfaces...")
	case v.err != "":
		return v.sty.ErrorText.Render("  " + v.err)
	case v.updated.IsZero():
		return v.sty.DimText.Render("  Not loaded yet")
	default:
		return v.sty.DimText.Render(fmt.Sprintf("  %d interfaces, updated %s  [f] filter",
			len(v.ifaces), v.updated.Format("15:04:05")))
	}
}

func ifaceState(i netif.Interface) string {
	switch {
	case i.Loopback:
		return "lo"
	case i.Up:
		return "up"
	default:
		return "down"
	}
}

// NextFilter cycles all, active, connected.
func NextFilter(f netif.Filter) netif.Filter {
	switch f {
	case netif.All:
		return netif.Active
	case netif.Active:
		return netif.Connected
	default:
		return netif.All
	}
}
