package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/ifwatch/tui/components"
	"github.com/tonhe/ifwatch/tui/keys"
	"github.com/tonhe/ifwatch/tui/styles"
)

// DetailView shows one channel's adapter information at the top and its
// throughput chart across the rolling window below.
type DetailView struct {
	theme  styles.Theme
	sty    *styles.Styles
	row    ChannelRow
	hasRow bool
	width  int
	height int
}

// NewDetailView creates a new DetailView with the given theme.
func NewDetailView(theme styles.Theme) DetailView {
	return DetailView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetChannel updates the detail view with new channel data.
func (v *DetailView) SetChannel(row ChannelRow) {
	v.row = row
	v.hasRow = true
}

// Channel returns the name of the displayed channel.
func (v DetailView) Channel() string {
	return v.row.Name
}

// SetTheme swaps the view's palette.
func (v *DetailView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// SetSize updates the available dimensions for the view.
func (v *DetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles key messages for the detail view. The third return value
// indicates whether the user wants to go back (Esc pressed).
func (v DetailView) Update(msg tea.Msg) (DetailView, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, true
		}
	}
	return v, nil, false
}

// View renders the detail view with an info panel and a throughput chart.
func (v DetailView) View() string {
	if !v.hasRow {
		msg := lipgloss.NewStyle().
			Foreground(v.theme.Base04).
			Align(lipgloss.Center).
			Render("No channel selected")
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
	}

	info := v.renderInfoPanel()
	infoHeight := lipgloss.Height(info)

	chartHeight := v.height - infoHeight - 2
	if chartHeight < 6 {
		chartHeight = 6
	}
	chartWidth := v.width - 2
	if chartWidth < 20 {
		chartWidth = 20
	}

	chart := components.RenderChart(v.row.History, v.row.Labels, chartWidth, chartHeight, v.row.Name+" bytes/sec")
	chartStyled := lipgloss.NewStyle().
		Foreground(v.theme.Base0B).
		PaddingLeft(1).
		Render(chart)

	return lipgloss.JoinVertical(lipgloss.Left, info, "", chartStyled, v.renderHelp())
}

// renderInfoPanel renders the channel and matched adapter information.
func (v DetailView) renderInfoPanel() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Width(16)
	valueStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base05)
	highlightStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)

	r := v.row
	line := func(label, value string, st lipgloss.Style) string {
		return fmt.Sprintf("  %s%s", labelStyle.Render(label), st.Render(value))
	}

	current := "no value this tick"
	if r.HasCurrent {
		current = components.FormatRateUnit(r.Current)
	}

	rows := []string{
		"",
		line("Channel:", r.Name, highlightStyle),
	}
	if r.Matched {
		speed := r.Adapter.LinkSpeed
		if speed == "" {
			speed = "unknown"
		}
		rows = append(rows,
			line("Adapter:", r.Adapter.Name, highlightStyle),
			line("Description:", r.Adapter.Description, valueStyle),
			line("Type:", r.Category(), v.sty.CategoryKnown),
			line("Link Speed:", speed, valueStyle),
		)
	} else {
		rows = append(rows, line("Type:", r.Category(), v.sty.CategoryUnknown))
	}
	rows = append(rows,
		line("Current:", current, valueStyle),
		line("Peak:", components.FormatRateUnit(r.Peak), valueStyle),
		line("Average:", components.FormatRateUnit(r.Average), valueStyle),
		line("Samples:", fmt.Sprintf("%d", len(r.History)), valueStyle),
	)
	if util := r.Utilization(); util > 0 {
		rows = append(rows, line("Utilization:", fmt.Sprintf("%.1f%%", util), valueStyle))
	}

	return strings.Join(rows, "\n")
}

// renderHelp renders a help line at the bottom of the detail view.
func (v DetailView) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	return helpStyle.Render(fmt.Sprintf("  %s to go back", keyStyle.Render("[esc]")))
}
