// Package pagesource supplies raw page snapshots to the watch loop and
// tells it when the content actually changed.
package pagesource

import (
	"hash/fnv"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/winedealworker/helpers"
	apperr "sjsage522/winedealworker/pkg/errors"
	"sjsage522/winedealworker/services/cache"
)

// DefaultBlockTime is how long fetching pauses after the site rate-limits
// us.
const DefaultBlockTime = 5 * time.Minute

// Handle is one fetched page: the raw markup plus a lazily parsed
// document. It satisfies the extractor's page-handle contract.
type Handle struct {
	html string
	url  string
	doc  *goquery.Document
}

// Document parses the snapshot markup, once.
func (h *Handle) Document() (*goquery.Document, error) {
	if h.doc != nil {
		return h.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(h.html))
	if err != nil {
		return nil, err
	}
	h.doc = doc
	return doc, nil
}

// HTML returns the raw snapshot markup.
func (h *Handle) HTML() string {
	return h.html
}

// URL returns the address the snapshot came from.
func (h *Handle) URL() string {
	return h.url
}

// Snapshot is one poll result. Changed is false when the page fingerprint
// matches the previous poll, letting the watch loop skip re-extraction.
type Snapshot struct {
	Handle  *Handle
	Changed bool
}

// HTTPPageSource polls a deal page over plain HTTP. A rate-limited answer
// sets a block in the shared cache so restarts and sibling processes also
// back off.
type HTTPPageSource struct {
	url       string
	userAgent string
	cacheSvc  cache.CacheService
	cacheKey  string
	blockTime time.Duration
	lastHash  uint64
	fetch     func(url, userAgent string) (io.Reader, error)
}

// Option configures an HTTPPageSource.
type Option func(*HTTPPageSource)

// WithUserAgent forces a fixed User-Agent instead of the rotating pool.
func WithUserAgent(ua string) Option {
	return func(s *HTTPPageSource) { s.userAgent = ua }
}

// WithCache wires the shared cache used for rate-limit blocks.
func WithCache(svc cache.CacheService, key string) Option {
	return func(s *HTTPPageSource) {
		s.cacheSvc = svc
		s.cacheKey = key
	}
}

// WithBlockTime overrides how long a rate-limit block lasts.
func WithBlockTime(d time.Duration) Option {
	return func(s *HTTPPageSource) {
		if d > 0 {
			s.blockTime = d
		}
	}
}

// withFetcher injects the HTTP fetch for tests.
func withFetcher(fetch func(url, userAgent string) (io.Reader, error)) Option {
	return func(s *HTTPPageSource) { s.fetch = fetch }
}

// New creates an HTTPPageSource for the given deal page.
func New(url string, opts ...Option) *HTTPPageSource {
	s := &HTTPPageSource{
		url:       url,
		blockTime: DefaultBlockTime,
		fetch:     helpers.FetchPage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Poll fetches the page once. It returns a rate-limit error without
// touching the network while a block is active, and sets a fresh block
// when the site answers 429.
func (s *HTTPPageSource) Poll() (*Snapshot, error) {
	if cache.IsBlocked(s.cacheSvc, s.cacheKey) {
		return nil, apperr.NewRateLimit("pagesource", s.blockTime)
	}

	body, err := s.fetch(s.url, s.userAgent)
	if err != nil {
		if helpers.IsRateLimited(err) {
			if cacheErr := cache.Block(s.cacheSvc, s.cacheKey, s.blockTime); cacheErr != nil {
				return nil, apperr.NewCache("pagesource", "failed to record rate-limit block", cacheErr)
			}
			return nil, apperr.NewRateLimit("pagesource", s.blockTime)
		}
		return nil, apperr.NewNetwork("pagesource", "page fetch failed", err)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, apperr.NewNetwork("pagesource", "reading page body failed", err)
	}

	hash := fingerprint(raw)
	changed := hash != s.lastHash
	s.lastHash = hash

	return &Snapshot{
		Handle:  &Handle{html: string(raw), url: s.url},
		Changed: changed,
	}, nil
}

// NewHandle wraps already-fetched markup, for callers that got their page
// some other way (tests, cached payloads).
func NewHandle(html, url string) *Handle {
	return &Handle{html: html, url: url}
}

func fingerprint(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}
