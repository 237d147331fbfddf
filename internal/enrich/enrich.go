// Package enrich merges third-party rating data into a deal record. The
// adapter owns the merge contract only; network behavior lives in the
// rating provider it is handed.
package enrich

import (
	"context"
	"regexp"
	"strings"
	"time"

	"sjsage522/winedealworker/internal/deal"
	"sjsage522/winedealworker/logger"
)

// DefaultTimeout is the whole-enrichment budget. Enrichment may use less,
// never more; on expiry the deal flows on unenriched.
const DefaultTimeout = 15 * time.Second

// RawResult is whatever the provider got back: a decoded JSON object or a
// raw HTML/text blob. Exactly one side is expected to be set.
type RawResult struct {
	JSON map[string]any
	HTML string
}

// RatingProvider performs one search against an external rating service.
type RatingProvider interface {
	Search(ctx context.Context, query string) (*RawResult, error)
}

var (
	yearTokenRe = regexp.MustCompile(`\b(?:19|20)[0-9]{2}\b`)
	// Generic color/style words dilute search relevance.
	fillerTermRe = regexp.MustCompile(`(?i)\b(?:wine|red|white|rose|rosé|sparkling)\b`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// SearchQuery shapes a wine title into a provider search string: vintage
// years and filler terms stripped, whitespace collapsed.
func SearchQuery(title string) string {
	q := yearTokenRe.ReplaceAllString(title, "")
	q = fillerTermRe.ReplaceAllString(q, "")
	q = spaceRunRe.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

// Adapter queries a RatingProvider for a deal and merges the answer.
type Adapter struct {
	provider RatingProvider
	timeout  time.Duration
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithTimeout overrides the enrichment budget.
func WithTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewAdapter creates an Adapter over the given provider. A nil provider
// disables enrichment entirely.
func NewAdapter(provider RatingProvider, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		provider: provider,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enrich looks up rating data for the deal, vintage-specific first and the
// wine overall second. It never fails the pipeline: on provider error or
// timeout the returned record simply carries no rating data.
func (a *Adapter) Enrich(ctx context.Context, d *deal.Deal) *deal.EnrichedDeal {
	enriched := &deal.EnrichedDeal{Deal: *d}
	if a.provider == nil {
		return enriched
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	overallQuery := SearchQuery(d.Title)
	if overallQuery == "" {
		return enriched
	}

	if d.Vintage != "" {
		enriched.VintageRating = a.lookup(ctx, overallQuery+" "+d.Vintage)
	}
	enriched.OverallRating = a.lookup(ctx, overallQuery)

	return enriched
}

func (a *Adapter) lookup(ctx context.Context, query string) *deal.RatingSummary {
	if ctx.Err() != nil {
		return nil
	}
	raw, err := a.provider.Search(ctx, query)
	if err != nil {
		logger.ForEnrichment().WithError(err).Debug().Str("query", query).Msg("Rating lookup failed")
		return nil
	}
	return SummaryFromRaw(raw)
}
