package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/ifwatch/tui/styles"
)

// HeaderInfo is what the header bar shows.
type HeaderInfo struct {
	Source   string
	Live     bool
	Busy     bool
	Channels int
	Adapters int
	Version  string
}

// RenderHeader renders the top header bar with app name, source, live/stopped
// status and channel/adapter counts.
func RenderHeader(theme styles.Theme, info HeaderInfo, width int) string {
	seg := func(fg lipgloss.Color, s string) string {
		return lipgloss.NewStyle().Foreground(fg).Background(theme.Base01).Render(s)
	}

	left := lipgloss.NewStyle().
		Foreground(theme.Base0D).
		Background(theme.Base01).
		Bold(true).
		Render("ifwatch")

	source := info.Source
	if source == "" {
		source = "(no source)"
	}

	status := "STOPPED"
	statusColor := theme.Base08
	if info.Live {
		status = "LIVE"
		statusColor = theme.Base0B
		if info.Busy {
			status = "LIVE*"
		}
	}

	counts := fmt.Sprintf("%d channels  %d adapters", info.Channels, info.Adapters)

	content := fmt.Sprintf(" %s  |  %s  |  %s  |  %s",
		left, seg(theme.Base05, source), seg(statusColor, status), seg(theme.Base04, counts))
	if info.Version != "" {
		content += "  |  " + seg(theme.Base04, "v"+info.Version)
	}
	content += " "

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		Render(content)
}
