package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/engine"
	"github.com/tonhe/ifwatch/tui/components"
	"github.com/tonhe/ifwatch/tui/keys"
	"github.com/tonhe/ifwatch/tui/styles"
)

// Column width constants (minimum widths).
const (
	colChannel  = 24
	colType     = 14
	colCurrent  = 10
	colPeak     = 10
	colUtil     = 8
	colSparkMin = 12
)

// ThroughputView is the main monitoring table: one row per active channel
// with its adapter type, current and peak rate, and a trend sparkline.
type ThroughputView struct {
	theme      styles.Theme
	sty        *styles.Styles
	rows       []ChannelRow
	monitoring bool
	lastError  string
	cursor     int
	offset     int
	width      int
	height     int
}

// NewThroughputView creates a new ThroughputView with the given theme.
func NewThroughputView(theme styles.Theme) ThroughputView {
	return ThroughputView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Update handles key messages for cursor navigation within the table.
func (v ThroughputView) Update(msg tea.Msg) (ThroughputView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
				v.ensureVisible()
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < len(v.rows)-1 {
				v.cursor++
				v.ensureVisible()
			}
		}
	}
	return v, nil
}

// SetData rebuilds the rows from a controller state and the adapter catalog,
// keeping the cursor on the same channel when it still exists.
func (v *ThroughputView) SetData(s engine.State, adapters []adapter.Adapter) {
	var selected string
	if v.cursor < len(v.rows) {
		selected = v.rows[v.cursor].Name
	}

	v.rows = BuildRows(s, adapters)
	v.monitoring = s.Monitoring
	v.lastError = s.LastError

	v.cursor = 0
	for i, r := range v.rows {
		if r.Name == selected {
			v.cursor = i
			break
		}
	}
	v.ensureVisible()
}

// Selected returns the row under the cursor.
func (v ThroughputView) Selected() (ChannelRow, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return ChannelRow{}, false
	}
	return v.rows[v.cursor], true
}

// SetTheme swaps the view's palette.
func (v *ThroughputView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// SetSize updates the available dimensions for the view.
func (v *ThroughputView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.ensureVisible()
}

// View renders the throughput table.
func (v ThroughputView) View() string {
	if len(v.rows) == 0 {
		return v.renderEmpty()
	}
	return v.renderTable()
}

// ensureVisible adjusts the scroll offset so the cursor row is visible.
func (v *ThroughputView) ensureVisible() {
	// Account for the table header row in available space.
	visible := v.height - 1
	if visible < 1 {
		visible = 1
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
}

// columnWidths calculates responsive column widths based on terminal width.
// The sparkline column gets all remaining space.
func (v ThroughputView) columnWidths() (channel, typ, current, peak, util, spark int) {
	channel = colChannel
	typ = colType
	current = colCurrent
	peak = colPeak
	util = colUtil

	fixed := channel + typ + current + peak + util
	spark = v.width - fixed
	if spark < colSparkMin {
		spark = colSparkMin
	}
	return
}

func (v ThroughputView) renderTable() string {
	wChan, wType, wCur, wPeak, wUtil, wSpark := v.columnWidths()

	var lines []string

	headerStyle := v.sty.TableHeader
	header := fmt.Sprintf(
		"%s%s%s%s%s%s",
		headerStyle.Render(padRight("Channel", wChan)),
		headerStyle.Render(padRight("Type", wType)),
		headerStyle.Render(padLeft("Current", wCur)),
		headerStyle.Render(padLeft("Peak", wPeak)),
		headerStyle.Render(padLeft("Util", wUtil)),
		headerStyle.Render(padRight(" Trend", wSpark)),
	)
	lines = append(lines, header)

	visible := v.height - 1
	if visible < 1 {
		visible = 1
	}
	end := v.offset + visible
	if end > len(v.rows) {
		end = len(v.rows)
	}
	for i := v.offset; i < end; i++ {
		lines = append(lines, v.renderRow(v.rows[i], wChan, wType, wCur, wPeak, wUtil, wSpark, i == v.cursor))
	}

	if v.lastError != "" {
		lines = append(lines, "", v.sty.ErrorText.Render("  "+v.lastError))
	}

	return strings.Join(lines, "\n")
}

// renderRow renders a single channel row.
func (v ThroughputView) renderRow(r ChannelRow, wChan, wType, wCur, wPeak, wUtil, wSpark int, selected bool) string {
	rowStyle := v.sty.TableRow
	if selected {
		rowStyle = v.sty.TableRowSel
	}
	withSel := func(st lipgloss.Style) lipgloss.Style {
		if selected {
			return st.Background(v.theme.Base02)
		}
		return st
	}

	name := rowStyle.Render(padRight(truncate(r.Name, wChan-1), wChan))

	catStyle := v.sty.CategoryKnown
	if !r.Matched {
		catStyle = v.sty.CategoryUnknown
	}
	category := withSel(catStyle).Render(padRight(truncate(r.Category(), wType-1), wType))

	current := "-"
	if r.HasCurrent {
		current = components.FormatRate(r.Current)
	}
	curStr := rowStyle.Render(padLeft(current, wCur))
	peakStr := rowStyle.Render(padLeft(components.FormatRate(r.Peak), wPeak))

	var utilStr string
	util := r.Utilization()
	if util == 0 {
		utilStr = withSel(v.sty.TableCellDim).Render(padLeft("-", wUtil))
	} else {
		text := fmt.Sprintf("%.1f%%", util)
		switch {
		case util >= 80:
			utilStr = withSel(v.sty.UtilHigh).Render(padLeft(text, wUtil))
		case util >= 50:
			utilStr = withSel(v.sty.UtilMid).Render(padLeft(text, wUtil))
		default:
			utilStr = withSel(v.sty.UtilLow).Render(padLeft(text, wUtil))
		}
	}

	spark := withSel(v.sty.SparklineStyle).Render(" " + components.Sparkline(r.History, wSpark-1))

	return name + category + curStr + peakStr + utilStr + spark
}

// renderEmpty renders a centered message when there is nothing to show.
func (v ThroughputView) renderEmpty() string {
	msgStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Align(lipgloss.Center)

	keyStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)

	var lines []string
	lines = append(lines, "")
	if v.monitoring {
		lines = append(lines, msgStyle.Render("Waiting for network statistics..."))
	} else {
		lines = append(lines,
			msgStyle.Render("Monitoring is stopped"),
			"",
			msgStyle.Render(fmt.Sprintf("Press %s to start", keyStyle.Render("[space]"))),
		)
	}
	if v.lastError != "" {
		lines = append(lines, "", v.sty.ErrorText.Render(v.lastError))
	}
	lines = append(lines, "")

	msg := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
}
