package engine

import "time"

// DefaultCapacity is the number of points a window keeps when none is given.
const DefaultCapacity = 20

// DataPoint is one sample across all channels reported in a tick.
// A channel missing from Series had no value at that tick.
type DataPoint struct {
	Label  string
	Time   time.Time
	Series map[string]float64
}

// Value returns the channel's value and whether the point carries it.
func (p DataPoint) Value(channel string) (float64, bool) {
	v, ok := p.Series[channel]
	return v, ok
}

// clone copies the series map so callers can't mutate window contents.
func (p DataPoint) clone() DataPoint {
	series := make(map[string]float64, len(p.Series))
	for k, v := range p.Series {
		series[k] = v
	}
	p.Series = series
	return p
}

// RollingWindow is a FIFO of data points bounded by a fixed capacity.
type RollingWindow struct {
	buf *RingBuffer[DataPoint]
}

// NewRollingWindow creates an empty window. Capacities below one fall back
// to DefaultCapacity.
func NewRollingWindow(capacity int) *RollingWindow {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &RollingWindow{buf: NewRingBuffer[DataPoint](capacity)}
}

// Append adds p, evicting the oldest point when the window is full.
func (w *RollingWindow) Append(p DataPoint) {
	w.buf.Add(p.clone())
}

// Points returns copies of all points, oldest first.
func (w *RollingWindow) Points() []DataPoint {
	all := w.buf.All()
	for i := range all {
		all[i] = all[i].clone()
	}
	return all
}

// Values returns the channel's values, oldest first, skipping points that
// don't carry it.
func (w *RollingWindow) Values(channel string) []float64 {
	var out []float64
	for _, p := range w.buf.All() {
		if v, ok := p.Series[channel]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Last returns the newest point.
func (w *RollingWindow) Last() (DataPoint, bool) {
	p, ok := w.buf.Last()
	if !ok {
		return DataPoint{}, false
	}
	return p.clone(), true
}

func (w *RollingWindow) Len() int { return w.buf.Len() }
func (w *RollingWindow) Cap() int { return w.buf.Cap() }

// Reset drops every point.
func (w *RollingWindow) Reset() { w.buf.Reset() }
