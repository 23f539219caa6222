package components

import (
	"fmt"
	"strings"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the newest width values as block characters, right
// aligned.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	var sb strings.Builder
	padding := width - len(data)
	for i := 0; i < padding; i++ {
		sb.WriteRune(' ')
	}
	spread := max - min
	for _, v := range data {
		if spread == 0 {
			sb.WriteRune(blocks[3])
		} else {
			normalized := (v - min) / spread
			idx := int(normalized * float64(len(blocks)-1))
			if idx >= len(blocks) {
				idx = len(blocks) - 1
			}
			sb.WriteRune(blocks[idx])
		}
	}
	return sb.String()
}

// FormatRate renders a byte rate with a decimal SI suffix.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec == 0 {
		return "0B"
	}
	switch {
	case bytesPerSec >= 1_000_000_000_000:
		return fmt.Sprintf("%.1fT", bytesPerSec/1_000_000_000_000)
	case bytesPerSec >= 1_000_000_000:
		return fmt.Sprintf("%.1fG", bytesPerSec/1_000_000_000)
	case bytesPerSec >= 1_000_000:
		return fmt.Sprintf("%.1fM", bytesPerSec/1_000_000)
	case bytesPerSec >= 1_000:
		return fmt.Sprintf("%.1fK", bytesPerSec/1_000)
	default:
		return fmt.Sprintf("%.0fB", bytesPerSec)
	}
}

// FormatRateUnit is FormatRate with a "/s" unit, for labels that stand alone.
func FormatRateUnit(bytesPerSec float64) string {
	return FormatRate(bytesPerSec) + "/s"
}
