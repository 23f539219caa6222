package views

import (
	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/engine"
	"github.com/tonhe/ifwatch/internal/throughput"
)

// ChannelRow is one channel of the throughput table with its reconciled
// adapter metadata.
type ChannelRow struct {
	Name       string
	Adapter    adapter.Adapter
	Matched    bool
	Current    float64
	HasCurrent bool
	Peak       float64
	Average    float64
	History    []float64
	Labels     []string
}

// Category is the matched adapter's type, or "Unknown".
func (r ChannelRow) Category() string {
	if !r.Matched {
		return "Unknown"
	}
	return r.Adapter.Category()
}

// Utilization is the current rate as a percentage of the matched adapter's
// link speed, 0 when either is unknown.
func (r ChannelRow) Utilization() float64 {
	if !r.Matched || !r.HasCurrent {
		return 0
	}
	return throughput.Utilization(r.Current, r.Adapter.LinkBitsPerSec())
}

// BuildRows joins the active channels of s with the adapter catalog.
func BuildRows(s engine.State, adapters []adapter.Adapter) []ChannelRow {
	latest, _ := s.Latest()
	rows := make([]ChannelRow, 0, len(s.ActiveChannels))
	for _, name := range s.ActiveChannels {
		row := ChannelRow{Name: name}
		row.Adapter, row.Matched = adapter.Match(adapters, name)
		row.Current, row.HasCurrent = latest.Value(name)

		for _, p := range s.Points {
			v, ok := p.Value(name)
			if !ok {
				continue
			}
			row.History = append(row.History, v)
			row.Labels = append(row.Labels, p.Label)
			if v > row.Peak {
				row.Peak = v
			}
			row.Average += v
		}
		if n := len(row.History); n > 0 {
			row.Average /= float64(n)
		}
		rows = append(rows, row)
	}
	return rows
}
