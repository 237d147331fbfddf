// Package watcher drives the deal pipeline: poll the page source, extract
// a candidate, deduplicate, enrich, notify. One loop, strictly in order.
package watcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"sjsage522/winedealworker/internal/deal"
	"sjsage522/winedealworker/internal/dedup"
	"sjsage522/winedealworker/internal/enrich"
	"sjsage522/winedealworker/internal/extract"
	"sjsage522/winedealworker/logger"
	apperr "sjsage522/winedealworker/pkg/errors"
	"sjsage522/winedealworker/services/notifier"
	"sjsage522/winedealworker/services/pagesource"
)

const (
	// DefaultPollInterval is how often the page source is polled.
	DefaultPollInterval = 60 * time.Second

	// DefaultNotifyTimeout bounds one notification delivery.
	DefaultNotifyTimeout = 15 * time.Second

	heartbeatInterval = 60 * time.Second
)

// PageSource supplies page snapshots to the loop.
type PageSource interface {
	Poll() (*pagesource.Snapshot, error)
}

// Watcher owns the pipeline. All observations, whether from the poll loop
// or from an out-of-band payload, funnel through the same deduplicator, so
// two strategies racing on one deal produce one notification.
type Watcher struct {
	source        PageSource
	dedup         *dedup.Deduplicator
	enricher      *enrich.Adapter
	notifier      notifier.Notifier
	extractOpts   extract.Options
	pollInterval  time.Duration
	notifyTimeout time.Duration
	log           *logger.Logger

	// mu guards lastDealKey: observations may come from payload goroutines
	// while the heartbeat reads on the run loop.
	mu          sync.Mutex
	lastDealKey string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPollInterval overrides the polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithNotifyTimeout overrides the notification delivery budget.
func WithNotifyTimeout(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.notifyTimeout = d
		}
	}
}

// WithExtractOptions sets the extraction options threaded to every
// strategy.
func WithExtractOptions(opts extract.Options) Option {
	return func(w *Watcher) {
		w.extractOpts = opts
	}
}

// New wires a Watcher. The enricher may be built over a nil provider to
// disable enrichment; the notifier must not be nil.
func New(source PageSource, dd *dedup.Deduplicator, enricher *enrich.Adapter, n notifier.Notifier, opts ...Option) *Watcher {
	w := &Watcher{
		source:        source,
		dedup:         dd,
		enricher:      enricher,
		notifier:      n,
		pollInterval:  DefaultPollInterval,
		notifyTimeout: DefaultNotifyTimeout,
		log:           logger.ForWatcher(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until the context is cancelled. Poll failures are logged and
// retried on the next tick, never fatal.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info().
		Dur("poll_interval", w.pollInterval).
		Msg("Started watching for deals")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	// First check immediately, then on the tick.
	w.CheckOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopped watching for deals")
			return nil
		case <-ticker.C:
			w.CheckOnce(ctx)
		case <-heartbeat.C:
			w.logHeartbeat()
		}
	}
}

// CheckOnce runs one poll-extract-dedup-notify cycle.
func (w *Watcher) CheckOnce(ctx context.Context) {
	snapshot, err := w.source.Poll()
	if err != nil {
		var werr *apperr.WatcherError
		if errors.As(err, &werr) && werr.Type == apperr.ErrorTypeRateLimit {
			w.log.Debug().Msg("Page source rate limited, waiting out the block")
		} else {
			w.log.Warn().Err(err).Msg("Page poll failed")
		}
		return
	}

	if !snapshot.Changed {
		w.log.Debug().Msg("Page content unchanged, skipping extraction")
		return
	}

	candidate := extract.FromHTML(snapshot.Handle.HTML(), w.extractOpts)
	if candidate == nil {
		candidate = extract.FromPage(snapshot.Handle, w.extractOpts)
	}
	if candidate == nil {
		w.log.Debug().Msg("No deal candidate on page")
		return
	}

	w.observe(ctx, candidate, "page")
}

// ObservePayload feeds a structured payload (an intercepted API response)
// through the same pipeline as page snapshots. Safe to call from another
// goroutine: the deduplicator serializes identity insertion, so the first
// strategy to land a deal wins and the other becomes a duplicate.
func (w *Watcher) ObservePayload(ctx context.Context, payload map[string]any) {
	candidate := extract.FromJSON(payload, w.extractOpts)
	if candidate == nil {
		w.log.Debug().Msg("Payload held no deal candidate")
		return
	}
	w.observe(ctx, candidate, "network")
}

func (w *Watcher) observe(ctx context.Context, candidate *deal.Deal, source string) {
	switch w.dedup.Observe(candidate) {
	case dedup.Rejected:
		w.log.Debug().Str("source", source).Msg("Candidate rejected before key building")
	case dedup.Duplicate:
		w.log.Debug().
			Str("source", source).
			Str("title", candidate.Title).
			Msg("Ignoring duplicate deal within dedup window")
	case dedup.New:
		w.mu.Lock()
		w.lastDealKey = deal.Key(candidate.Title, candidate.Vintage, candidate.Price)
		w.mu.Unlock()
		w.log.Info().
			Str("source", source).
			Str("title", candidate.Title).
			Str("vintage", candidate.Vintage).
			Int("bottle_size_ml", candidate.BottleSizeML).
			Msg("New deal discovered")
		w.deliver(ctx, candidate)
	}
}

// deliver enriches and notifies. Enrichment failure degrades to an
// unenriched record; notification failure is logged and dropped, because
// the next genuinely new deal matters more than redelivery of this one.
func (w *Watcher) deliver(ctx context.Context, candidate *deal.Deal) {
	enriched := w.enricher.Enrich(ctx, candidate)

	notifyCtx, cancel := context.WithTimeout(ctx, w.notifyTimeout)
	defer cancel()

	if err := w.notifier.Notify(notifyCtx, enriched); err != nil {
		w.log.Error().Err(err).Str("title", enriched.Title).Msg("Deal notification failed")
		return
	}
	w.log.Info().
		Str("title", enriched.Title).
		Bool("has_rating_data", enriched.HasRatingData()).
		Float64("best_rating", enriched.BestRating()).
		Msg("Deal notification sent")
}

func (w *Watcher) logHeartbeat() {
	w.mu.Lock()
	lastKey := w.lastDealKey
	w.mu.Unlock()

	w.log.Info().
		Str("last_deal_key", lastKey).
		Int("seen_deals_count", w.dedup.Len()).
		Msg("Heartbeat")
}
