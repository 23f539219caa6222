package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/tui/keys"
	"github.com/tonhe/ifwatch/tui/styles"
)

const (
	colAdapterName  = 20
	colAdapterIndex = 7
	colAdapterSpeed = 12
	colAdapterType  = 14
	colAdapterDesc  = 20
)

// AdaptersView lists the adapter catalog.
type AdaptersView struct {
	theme    styles.Theme
	sty      *styles.Styles
	adapters []adapter.Adapter
	loading  bool
	err      string
	updated  time.Time
	cursor   int
	width    int
	height   int
}

// NewAdaptersView creates a new AdaptersView with the given theme.
func NewAdaptersView(theme styles.Theme) AdaptersView {
	return AdaptersView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetCatalog copies the catalog's current contents into the view.
func (v *AdaptersView) SetCatalog(c *adapter.Catalog) {
	v.adapters = c.Adapters()
	v.loading = c.Loading()
	v.err = c.Err()
	v.updated = c.Updated()
	if v.cursor >= len(v.adapters) {
		v.cursor = max(len(v.adapters)-1, 0)
	}
}

// SetTheme swaps the view's palette.
func (v *AdaptersView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// SetSize updates the available dimensions for the view.
func (v *AdaptersView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles navigation. The third return value reports Esc.
func (v AdaptersView) Update(msg tea.Msg) (AdaptersView, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, true
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < len(v.adapters)-1 {
				v.cursor++
			}
		}
	}
	return v, nil, false
}

// View renders the adapter table with the catalog status line.
func (v AdaptersView) View() string {
	var lines []string
	lines = append(lines, v.sty.SectionTitle.Render(" Network Adapters"), v.statusLine(), "")

	if len(v.adapters) == 0 {
		lines = append(lines, v.sty.DimText.Render("  No adapters are up"))
		return strings.Join(lines, "\n")
	}

	wDesc := v.width - colAdapterName - colAdapterIndex - colAdapterSpeed - colAdapterType
	if wDesc < colAdapterDesc {
		wDesc = colAdapterDesc
	}

	h := v.sty.TableHeader
	lines = append(lines,
		h.Render(padRight(" Name", colAdapterName))+
			h.Render(padLeft("Index", colAdapterIndex))+
			h.Render(padLeft("Speed ", colAdapterSpeed))+
			h.Render(padRight("Type", colAdapterType))+
			h.Render(padRight("Description", wDesc)))

	for i, a := range v.adapters {
		st := v.sty.TableRow
		if i == v.cursor {
			st = v.sty.TableRowSel
		}
		lines = append(lines,
			st.Render(padRight(" "+truncate(a.Name, colAdapterName-2), colAdapterName))+
				st.Render(padLeft(strconv.Itoa(a.Index), colAdapterIndex))+
				st.Render(padLeft(a.LinkSpeed+" ", colAdapterSpeed))+
				st.Render(padRight(truncate(a.Category(), colAdapterType-1), colAdapterType))+
				st.Render(padRight(truncate(a.Description, wDesc-1), wDesc)))
	}
	return strings.Join(lines, "\n")
}

func (v AdaptersView) statusLine() string {
	switch {
	case v.loading:
		return v.sty.StatusWarn.Render("  Loading adapters...")
	case v.err != "":
		return v.sty.ErrorText.Render("  " + v.err)
	case v.updated.IsZero():
		return v.sty.DimText.Render("  Not loaded yet")
	default:
		return v.sty.DimText.Render(fmt.Sprintf("  %d adapters, updated %s  [u] refresh",
			len(v.adapters), v.updated.Format("15:04:05")))
	}
}
