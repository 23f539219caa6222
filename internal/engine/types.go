package engine

import (
	"context"
	"fmt"
	"time"
)

// DefaultInterval is the tick cadence when none is given.
const DefaultInterval = 2 * time.Second

// FetchErrorMessage is what LastError shows after a failed tick. The
// underlying error goes to the log.
const FetchErrorMessage = "Failed to fetch network statistics"

// Reporter returns a raw throughput report.
type Reporter interface {
	ThroughputReport(ctx context.Context) (string, error)
}

// Resetter is implemented by reporters that keep state between calls. Start
// calls Reset so a new session doesn't build on the previous one.
type Resetter interface {
	Reset()
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context) (string, error)

func (f ReporterFunc) ThroughputReport(ctx context.Context) (string, error) { return f(ctx) }

// FailurePolicy decides what a failed tick does to the session.
type FailurePolicy int

const (
	// PolicyResilient records the error and keeps ticking.
	PolicyResilient FailurePolicy = iota
	// PolicyFailFast stops monitoring on the first failure.
	PolicyFailFast
)

func (p FailurePolicy) String() string {
	switch p {
	case PolicyResilient:
		return "resilient"
	case PolicyFailFast:
		return "fail-fast"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a config value into a FailurePolicy.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "resilient":
		return PolicyResilient, nil
	case "fail-fast", "failfast":
		return PolicyFailFast, nil
	default:
		return PolicyResilient, fmt.Errorf("unknown failure policy %q", s)
	}
}

// State is a point-in-time copy of the controller's monitoring state.
type State struct {
	Monitoring     bool
	LastError      string
	ActiveChannels []string
	Points         []DataPoint
	Capacity       int
	Interval       time.Duration
	Policy         FailurePolicy
	Busy           bool
	PollCount      int
	ErrorCount     int
	SkippedTicks   int
	ChannelChanges int
	LastPoll       time.Time
}

// Latest returns the newest point, if any.
func (s State) Latest() (DataPoint, bool) {
	if len(s.Points) == 0 {
		return DataPoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Values returns a channel's values across the window, oldest first,
// skipping points without it.
func (s State) Values(channel string) []float64 {
	var out []float64
	for _, p := range s.Points {
		if v, ok := p.Series[channel]; ok {
			out = append(out, v)
		}
	}
	return out
}

// EventKind says what changed.
type EventKind int

const (
	EventStarted EventKind = iota
	EventStopped
	EventSample
	EventFailure
	EventSkipped
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventSample:
		return "sample"
	case EventFailure:
		return "failure"
	case EventSkipped:
		return "skipped"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is sent to subscribers after each state change.
type Event struct {
	Kind            EventKind
	ChannelsChanged bool
	State           State
}
