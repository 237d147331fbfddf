// Package rating implements the external rating lookup used for deal
// enrichment.
package rating

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sjsage522/winedealworker/internal/enrich"
	"sjsage522/winedealworker/logger"
	apperr "sjsage522/winedealworker/pkg/errors"
)

const (
	// DefaultTimeout bounds one search call. Kept tight: a slow rating
	// lookup must never hold up a deal notification.
	DefaultTimeout = 1500 * time.Millisecond

	defaultAttempts  = 2
	defaultRetryWait = 500 * time.Millisecond

	searchEndpoint   = "https://www.vivino.com/api/wines/search"
	fallbackEndpoint = "https://www.vivino.com/search/wines"
)

// VivinoProvider looks wines up on Vivino. The API endpoint answers JSON;
// when it misbehaves the HTML search page is tried and handed to the
// parser as raw text.
type VivinoProvider struct {
	endpoints []string
	client    *http.Client
	userAgent string
	attempts  int
	retryWait time.Duration
}

var _ enrich.RatingProvider = (*VivinoProvider)(nil)

// Option configures a VivinoProvider.
type Option func(*VivinoProvider)

// WithUserAgent sets the User-Agent sent on lookups.
func WithUserAgent(ua string) Option {
	return func(p *VivinoProvider) { p.userAgent = ua }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *VivinoProvider) {
		if d > 0 {
			p.client.Timeout = d
		}
	}
}

// WithEndpoints overrides the search endpoints, primary first.
func WithEndpoints(endpoints ...string) Option {
	return func(p *VivinoProvider) {
		if len(endpoints) > 0 {
			p.endpoints = endpoints
		}
	}
}

// withRetryWait shortens the retry pause for tests.
func withRetryWait(d time.Duration) Option {
	return func(p *VivinoProvider) { p.retryWait = d }
}

// NewVivinoProvider creates a provider with the default endpoints.
func NewVivinoProvider(opts ...Option) *VivinoProvider {
	p := &VivinoProvider{
		endpoints: []string{searchEndpoint, fallbackEndpoint},
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		attempts:  defaultAttempts,
		retryWait: defaultRetryWait,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Search runs one wine search. Each endpoint gets a bounded number of
// attempts with a fixed wait between them; the first parseable answer
// wins.
func (p *VivinoProvider) Search(ctx context.Context, query string) (*enrich.RawResult, error) {
	var lastErr error
	for _, endpoint := range p.endpoints {
		for attempt := 1; attempt <= p.attempts; attempt++ {
			result, err := p.searchOnce(ctx, endpoint, query)
			if err == nil {
				return result, nil
			}
			lastErr = err
			logger.ForEnrichment().WithError(err).Debug().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Msg("Rating search attempt failed")

			if ctx.Err() != nil {
				return nil, apperr.NewEnrichment("rating", "search cancelled", ctx.Err())
			}
			if attempt < p.attempts {
				select {
				case <-time.After(p.retryWait):
				case <-ctx.Done():
					return nil, apperr.NewEnrichment("rating", "search cancelled", ctx.Err())
				}
			}
		}
	}
	return nil, apperr.NewEnrichment("rating", "all search endpoints failed", lastErr)
}

func (p *VivinoProvider) searchOnce(ctx context.Context, endpoint, query string) (*enrich.RawResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", "5")
	req.URL.RawQuery = params.Encode()

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %s status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "json") {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decoding search response: %w", err)
		}
		return &enrich.RawResult{JSON: payload}, nil
	}
	return &enrich.RawResult{HTML: string(body)}, nil
}
