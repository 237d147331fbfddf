// Package dedup suppresses repeat notifications for the same deal
// identity within a configurable time window.
package dedup

import (
	"sync"
	"time"

	"sjsage522/winedealworker/internal/deal"
)

const (
	// DefaultWindow is how long a repeat sighting of the same deal stays
	// suppressed.
	DefaultWindow = 5 * time.Minute

	// DefaultMaxEntries caps the seen-map before a bulk sweep runs.
	DefaultMaxEntries = 100
)

// Result is the outcome of observing one candidate.
type Result int

const (
	// Rejected means the candidate had no usable identity.
	Rejected Result = iota
	// Duplicate means the identity was already seen within the window.
	Duplicate
	// New means the candidate should flow downstream.
	New
)

func (r Result) String() string {
	switch r {
	case Rejected:
		return "rejected"
	case Duplicate:
		return "duplicate"
	case New:
		return "new"
	default:
		return "unknown"
	}
}

// Deduplicator owns the seen-deal map. The window is fixed from first
// sighting: a duplicate does not refresh the timestamp, so a deal that
// keeps reappearing is re-notified once per window, not silenced forever.
// State is in-memory only; a restart re-notifies the current deal.
type Deduplicator struct {
	mu         sync.Mutex
	window     time.Duration
	maxEntries int
	seen       map[string]time.Time
	now        func() time.Time
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithWindow overrides the dedup window.
func WithWindow(w time.Duration) Option {
	return func(d *Deduplicator) {
		if w > 0 {
			d.window = w
		}
	}
}

// WithMaxEntries overrides the seen-map size cap.
func WithMaxEntries(n int) Option {
	return func(d *Deduplicator) {
		if n > 0 {
			d.maxEntries = n
		}
	}
}

// withClock injects a clock for tests.
func withClock(now func() time.Time) Option {
	return func(d *Deduplicator) {
		d.now = now
	}
}

// NewDeduplicator creates a Deduplicator with the default window and size
// cap.
func NewDeduplicator(opts ...Option) *Deduplicator {
	d := &Deduplicator{
		window:     DefaultWindow,
		maxEntries: DefaultMaxEntries,
		seen:       make(map[string]time.Time),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe feeds one candidate through the dedup check. Candidates without
// a usable identity (empty or generic title) are rejected before any key
// is built. A price below the plausibility floor is normalized to absent
// on the candidate itself, so downstream consumers never see it; an
// absent price keys as "unknown" and flows through.
func (d *Deduplicator) Observe(c *deal.Deal) Result {
	if c == nil || deal.IsGenericTitle(c.Title) {
		return Rejected
	}

	c.Price = deal.ClampPrice(c.Price)
	key := deal.Key(c.Title, c.Vintage, c.Price)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if first, ok := d.seen[key]; ok && now.Sub(first) < d.window {
		return Duplicate
	}

	d.seen[key] = now
	if len(d.seen) > d.maxEntries {
		d.sweepLocked(now)
	}
	return New
}

// Seen reports whether the given candidate is currently suppressed,
// without mutating any state.
func (d *Deduplicator) Seen(c *deal.Deal) bool {
	if c == nil || deal.IsGenericTitle(c.Title) {
		return false
	}
	key := deal.Key(c.Title, c.Vintage, deal.ClampPrice(c.Price))

	d.mu.Lock()
	defer d.mu.Unlock()

	first, ok := d.seen[key]
	return ok && d.now().Sub(first) < d.window
}

// Len returns the current seen-map size, for heartbeat logging.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// sweepLocked drops entries older than twice the window. Called with the
// lock held, only when the map exceeds the cap.
func (d *Deduplicator) sweepLocked(now time.Time) {
	cutoff := now.Add(-2 * d.window)
	for k, ts := range d.seen {
		if ts.Before(cutoff) {
			delete(d.seen, k)
		}
	}
}
