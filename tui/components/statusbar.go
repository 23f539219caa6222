package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/ifwatch/tui/styles"
)

// StatusInfo is what the status bar shows.
type StatusInfo struct {
	Interval time.Duration
	LastPoll time.Time
	Points   int
	Capacity int
	Skipped  int
	Error    string
}

// RenderStatusBar renders the two-line status/footer bar showing poll info,
// the last error and key bindings.
func RenderStatusBar(theme styles.Theme, info StatusInfo, width int) string {
	bg := theme.Base01
	bgStyle := lipgloss.NewStyle().Background(bg)
	sep := lipgloss.NewStyle().Foreground(theme.Base03).Background(bg).Render(" | ")
	text := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg)

	pollSeg := text.Render(fmt.Sprintf("poll: %s", info.Interval))
	lastStr := "never"
	if !info.LastPoll.IsZero() {
		lastStr = info.LastPoll.Format("15:04:05")
	}
	lastSeg := text.Render(fmt.Sprintf("last: %s", lastStr))
	pointsSeg := text.Render(fmt.Sprintf("%d/%d points", info.Points, info.Capacity))

	topContent := bgStyle.Render(" ") + pollSeg + sep + lastSeg + sep + pointsSeg
	if info.Skipped > 0 {
		topContent += sep + lipgloss.NewStyle().Foreground(theme.Base0A).Background(bg).
			Render(fmt.Sprintf("%d skipped", info.Skipped))
	}
	if info.Error != "" {
		topContent += sep + lipgloss.NewStyle().Foreground(theme.Base08).Background(bg).Bold(true).
			Render(info.Error)
	}
	topWidth := lipgloss.Width(topContent)
	if topWidth < width {
		topContent += bgStyle.Render(strings.Repeat(" ", width-topWidth))
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Base0D).Background(bg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Base04).Background(bg)
	spacer := bgStyle.Render("  ")

	keys := bgStyle.Render(" ") +
		keyStyle.Render("space") + descStyle.Render(":start/stop") + spacer +
		keyStyle.Render("enter") + descStyle.Render(":detail") + spacer +
		keyStyle.Render("a") + descStyle.Render(":adapters") + spacer +
		keyStyle.Render("c") + descStyle.Render(":clear") + spacer +
		keyStyle.Render("?") + descStyle.Render(":help") + spacer +
		keyStyle.Render("q") + descStyle.Render(":quit")

	keysWidth := lipgloss.Width(keys)
	if keysWidth < width {
		keys += bgStyle.Render(strings.Repeat(" ", width-keysWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, topContent, keys)
}
