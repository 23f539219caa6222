package engine

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tonhe/ifwatch/internal/throughput"
	"golang.org/x/sync/semaphore"
)

// DefaultLabelLayout formats DataPoint labels as a time of day.
const DefaultLabelLayout = "15:04:05"

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the system clock, mainly for tests.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithPolicy selects how failed ticks are handled.
func WithPolicy(p FailurePolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithLabelLayout sets the time layout used for DataPoint labels.
func WithLabelLayout(layout string) Option {
	return func(c *Controller) {
		if layout != "" {
			c.layout = layout
		}
	}
}

// WithFetchTimeout bounds each collaborator call. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// Controller polls a Reporter on a timer and keeps a rolling window of the
// parsed results. At most one report call is outstanding at a time; ticks
// that fire while a call is running are skipped.
type Controller struct {
	mu       sync.RWMutex
	src      Reporter
	clock    Clock
	log      *slog.Logger
	policy   FailurePolicy
	layout   string
	timeout  time.Duration
	inflight *semaphore.Weighted

	monitoring bool
	session    uint64
	interval   time.Duration
	capacity   int
	ticker     Ticker
	stopCh     chan struct{}

	window    *RollingWindow
	channels  []string
	lastError string
	busy      bool

	pollCount      int
	errorCount     int
	skipped        int
	channelChanges int
	lastPoll       time.Time

	subscribers []chan Event
}

// NewController creates an idle Controller for src.
func NewController(src Reporter, opts ...Option) *Controller {
	c := &Controller{
		src:      src,
		clock:    SystemClock{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		layout:   DefaultLabelLayout,
		inflight: semaphore.NewWeighted(1),
		interval: DefaultInterval,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.window = NewRollingWindow(c.capacity)
	return c
}

// Start begins a monitoring session that ticks every interval and keeps the
// last capacity points. Zero or negative values pick the defaults. Calling
// Start while already monitoring does nothing.
func (c *Controller) Start(interval time.Duration, capacity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.monitoring {
		return
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	if r, ok := c.src.(Resetter); ok {
		r.Reset()
	}

	c.interval = interval
	c.capacity = capacity
	c.window = NewRollingWindow(capacity)
	c.channels = nil
	c.lastError = ""
	c.monitoring = true
	c.session++
	c.ticker = c.clock.NewTicker(interval)
	c.stopCh = make(chan struct{})

	go c.run(c.session, c.ticker, c.stopCh)

	c.log.Info("monitoring started", "interval", interval, "capacity", capacity, "policy", c.policy.String())
	c.notify(EventStarted, false)
}

// Stop cancels the ticker. The window is kept so the last session can be
// inspected. A report call already in flight finishes but its result is
// dropped. Calling Stop while idle does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.monitoring {
		return
	}
	c.stopLocked()
	c.log.Info("monitoring stopped", "points", c.window.Len())
	c.notify(EventStopped, false)
}

// Clear empties the window, the channel list and the last error whether or
// not a session is running.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	hadChannels := len(c.channels) > 0
	c.window.Reset()
	c.channels = nil
	c.lastError = ""
	c.notify(EventCleared, hadChannels)
}

// PollNow runs a tick immediately. It returns false when idle or when a
// report call is already outstanding.
func (c *Controller) PollNow() bool {
	c.mu.RLock()
	session, monitoring := c.session, c.monitoring
	c.mu.RUnlock()
	if !monitoring {
		return false
	}
	return c.tick(session)
}

// Monitoring reports whether a session is running.
func (c *Controller) Monitoring() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.monitoring
}

// Snapshot returns a copy of the current state. It is safe to call from any
// goroutine.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel that receives an event after every state
// change. Slow readers only ever see the newest event.
func (c *Controller) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (c *Controller) Unsubscribe(sub <-chan Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ch := range c.subscribers {
		if ch == sub {
			close(ch)
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			return
		}
	}
}

// Close stops monitoring and closes every subscriber channel.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitoring {
		c.stopLocked()
	}
	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
}

// run forwards ticks for one session until its stop channel closes.
func (c *Controller) run(session uint64, t Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.tick(session)
		}
	}
}

// tick admits one report call for session unless another is outstanding.
func (c *Controller) tick(session uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.monitoring || c.session != session {
		return false
	}
	if !c.inflight.TryAcquire(1) {
		c.skipped++
		c.log.Debug("tick skipped, report still running", "skipped", c.skipped)
		c.notify(EventSkipped, false)
		return false
	}
	c.busy = true
	go c.fetch(session)
	return true
}

// fetch performs the report call and applies its result. The semaphore is
// released while holding the lock, so the next call can't start before this
// result is in the window.
func (c *Controller) fetch(session uint64) {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.src.ThroughputReport(ctx)
	now := c.clock.Now()
	var measurements []throughput.Measurement
	if err == nil {
		measurements = throughput.Parse(raw)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.inflight.Release(1)

	if !c.monitoring || c.session != session {
		c.log.Debug("dropping report from stopped session", "session", session)
		return
	}

	c.pollCount++
	c.lastPoll = now

	if err != nil {
		c.errorCount++
		c.lastError = FetchErrorMessage
		c.log.Warn("throughput report failed", "err", err, "policy", c.policy.String())
		if c.policy == PolicyFailFast {
			c.stopLocked()
			c.log.Info("monitoring stopped after failure")
		}
		c.notify(EventFailure, false)
		return
	}

	names := throughput.Names(measurements)
	changed := !slices.Equal(names, c.channels)
	if changed {
		c.channels = names
		c.channelChanges++
	}

	point := DataPoint{
		Label:  now.Format(c.layout),
		Time:   now,
		Series: make(map[string]float64, len(measurements)),
	}
	for _, m := range measurements {
		point.Series[m.Name] = m.BytesPerSec
	}
	c.window.Append(point)
	c.lastError = ""

	c.notify(EventSample, changed)
}

// stopLocked ends the current session. The caller must hold c.mu.
func (c *Controller) stopLocked() {
	c.monitoring = false
	c.session++
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
}

// snapshotLocked builds a State. The caller must hold at least a read lock.
func (c *Controller) snapshotLocked() State {
	return State{
		Monitoring:     c.monitoring,
		LastError:      c.lastError,
		ActiveChannels: slices.Clone(c.channels),
		Points:         c.window.Points(),
		Capacity:       c.capacity,
		Interval:       c.interval,
		Policy:         c.policy,
		Busy:           c.busy,
		PollCount:      c.pollCount,
		ErrorCount:     c.errorCount,
		SkippedTicks:   c.skipped,
		ChannelChanges: c.channelChanges,
		LastPoll:       c.lastPoll,
	}
}

// notify sends the current state to all subscribers without blocking,
// replacing any event a subscriber hasn't read yet. The caller must hold the
// write lock.
func (c *Controller) notify(kind EventKind, channelsChanged bool) {
	if len(c.subscribers) == 0 {
		return
	}
	event := Event{Kind: kind, ChannelsChanged: channelsChanged, State: c.snapshotLocked()}
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
}
