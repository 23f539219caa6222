package adapter

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Lister fetches the raw adapter listing.
type Lister interface {
	AdapterListing(ctx context.Context) (string, error)
}

// Catalog holds the adapters from the most recent successful refresh.
// Concurrent refreshes are not serialized; callers run one at a time.
type Catalog struct {
	mu       sync.RWMutex
	log      *slog.Logger
	adapters []Adapter
	err      string
	loading  bool
	updated  time.Time
}

// NewCatalog creates an empty Catalog. A nil logger discards output.
func NewCatalog(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Catalog{log: logger}
}

// Refresh fetches and parses a new listing, replacing the whole set. On
// failure the previous set is kept and Err reports the reason.
func (c *Catalog) Refresh(ctx context.Context, src Lister) error {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	raw, err := src.AdapterListing(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err.Error()
		c.log.Warn("adapter listing failed", "err", err)
		return err
	}

	parsed := ParseListing(raw)
	c.adapters = parsed
	c.updated = time.Now()
	c.log.Debug("adapter catalog refreshed", "count", len(parsed))
	return nil
}

// Adapters returns a copy of the current set.
func (c *Catalog) Adapters() []Adapter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Adapter, len(c.adapters))
	copy(out, c.adapters)
	return out
}

// Err returns the last refresh error, or "" after a successful refresh.
func (c *Catalog) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Loading reports whether a refresh is outstanding.
func (c *Catalog) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Updated returns when the set was last replaced.
func (c *Catalog) Updated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updated
}

// Clear drops all adapters and the last error.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adapters = nil
	c.err = ""
}

// Lookup matches channel against the current set.
func (c *Catalog) Lookup(channel string) (Adapter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Match(c.adapters, channel)
}

// TypeOf returns the classified type of the adapter behind channel, or
// "Unknown" when nothing matches.
func (c *Catalog) TypeOf(channel string) string {
	a, ok := c.Lookup(channel)
	if !ok {
		return "Unknown"
	}
	return a.Category()
}
