package throughput

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Measurement is a single channel's throughput from one report.
type Measurement struct {
	Name        string
	BytesPerSec float64
}

// reportLine matches "<name>: <number> bytes/sec". The name is everything
// before the first colon.
var reportLine = regexp.MustCompile(`(?i)^([^:]*):\s*([\d.]+)\s*bytes\s*/\s*sec`)

// Parse extracts measurements from a line-oriented throughput report.
// Lines that don't look like "<name>: <number> bytes/sec" are skipped, so the
// result can be shorter than the input. Order follows the input.
func Parse(raw string) []Measurement {
	var out []Measurement
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := reportLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		out = append(out, Measurement{
			Name:        strings.TrimSpace(m[1]),
			BytesPerSec: v,
		})
	}
	return out
}

// Names returns the channel names of ms in order.
func Names(ms []Measurement) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

// Format renders measurements in the report format Parse understands.
func Format(ms []Measurement) string {
	var b strings.Builder
	for _, m := range ms {
		fmt.Fprintf(&b, "%s: %.2f bytes/sec\n", m.Name, m.BytesPerSec)
	}
	return b.String()
}
