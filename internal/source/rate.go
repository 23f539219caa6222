package source

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tonhe/ifwatch/internal/throughput"
)

// ErrCounterWrap indicates that an octet counter has wrapped around or reset.
var ErrCounterWrap = errors.New("counter wrap detected")

// CounterSample holds raw octet counters at a point in time.
type CounterSample struct {
	InOctets  uint64
	OutOctets uint64
	Timestamp time.Time
}

// RateSample holds byte rates computed from two counter samples.
type RateSample struct {
	Timestamp time.Time
	InRate    float64
	OutRate   float64
}

// Total is the combined in and out rate, matching "Bytes Total/sec".
func (r RateSample) Total() float64 {
	return r.InRate + r.OutRate
}

// CalculateRate computes the byte rate between two counter samples.
// Returns ErrCounterWrap if either counter has decreased.
func CalculateRate(prev, curr CounterSample) (RateSample, error) {
	elapsed := curr.Timestamp.Sub(prev.Timestamp).Seconds()
	if elapsed <= 0 {
		return RateSample{}, errors.New("zero or negative elapsed time")
	}

	if curr.InOctets < prev.InOctets || curr.OutOctets < prev.OutOctets {
		return RateSample{}, ErrCounterWrap
	}

	deltaIn := curr.InOctets - prev.InOctets
	deltaOut := curr.OutOctets - prev.OutOctets

	return RateSample{
		Timestamp: curr.Timestamp,
		InRate:    float64(deltaIn) / elapsed,
		OutRate:   float64(deltaOut) / elapsed,
	}, nil
}

// namedCounters is one interface's counters from a collection pass.
type namedCounters struct {
	Name     string
	Counters CounterSample
}

// collectFunc reads the current octet counters of every interface.
type collectFunc func(ctx context.Context) ([]namedCounters, error)

// counterReporter turns successive counter collections into throughput
// reports. The first report takes two collections interval apart.
type counterReporter struct {
	mu       sync.Mutex
	log      *slog.Logger
	collect  collectFunc
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	prev     map[string]CounterSample
	stale    atomic.Bool
}

func newCounterReporter(collect collectFunc, interval time.Duration, logger *slog.Logger) *counterReporter {
	if interval <= 0 {
		interval = time.Second
	}
	return &counterReporter{
		log:      orDiscard(logger),
		collect:  collect,
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reset makes the next report sample twice again. It doesn't wait for a
// report that is already running.
func (r *counterReporter) reset() {
	r.stale.Store(true)
}

func (r *counterReporter) report(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stale.Swap(false) {
		r.prev = nil
	}
	if r.prev == nil {
		first, err := r.snapshot(ctx)
		if err != nil {
			return "", err
		}
		r.prev = first
		if err := r.sleep(ctx, r.interval); err != nil {
			return "", err
		}
	}

	raw, err := r.collect(ctx)
	if err != nil {
		return "", err
	}
	now := r.now()

	curr := make(map[string]CounterSample, len(raw))
	var out []throughput.Measurement
	for _, nc := range raw {
		nc.Counters.Timestamp = now
		curr[nc.Name] = nc.Counters
		prev, ok := r.prev[nc.Name]
		if !ok {
			continue
		}
		rate, err := CalculateRate(prev, nc.Counters)
		if err != nil {
			r.log.Debug("skipping interface", "name", nc.Name, "err", err)
			continue
		}
		out = append(out, throughput.Measurement{Name: nc.Name, BytesPerSec: rate.Total()})
	}
	r.prev = curr
	return throughput.Format(out), nil
}

func (r *counterReporter) snapshot(ctx context.Context) (map[string]CounterSample, error) {
	raw, err := r.collect(ctx)
	if err != nil {
		return nil, err
	}
	now := r.now()
	m := make(map[string]CounterSample, len(raw))
	for _, nc := range raw {
		nc.Counters.Timestamp = now
		m[nc.Name] = nc.Counters
	}
	return m, nil
}
