// Package extract turns raw page sources into deal candidates. Three
// strategies share one output shape: FromJSON for structured API payloads,
// FromHTML for fetched documents, and FromPage for a live page handle.
// Every priority list here is first-match-wins, and a miss is always a nil
// candidate, never an error.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Options carries per-site extraction settings threaded in by the caller.
type Options struct {
	// BaseURL resolves relative links and anchors the unknown-deal URL
	// fallback. Example: "https://www.lastbottlewines.com".
	BaseURL string
}

// PageHandle is a live view of a rendered page, supplied by a page source.
type PageHandle interface {
	Document() (*goquery.Document, error)
	URL() string
}

var (
	// Competitor figures shown next to the offer price. An element whose
	// text mentions one of these never yields the offer price.
	competitorRe = regexp.MustCompile(`(?i)\b(?:retail|best\s*web|msrp)\b`)

	moneyRe   = regexp.MustCompile(`[$€£]\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	youSaveRe = regexp.MustCompile(`(?i)you save[^$€£]{0,40}[$€£][0-9.,]+`)

	// A plausible wine name has at least one run of three letters and is
	// longer than an icon caption.
	letterRunRe = regexp.MustCompile(`\p{L}{3,}`)
)

// firstText returns the first non-empty trimmed text among the selectors,
// in order.
func firstText(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		text := strings.TrimSpace(root.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// headingSweep scans heading elements for the first one that looks like a
// real name rather than an icon or an empty decoration.
func headingSweep(root *goquery.Selection) string {
	found := ""
	root.Find("h1, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) > 5 && letterRunRe.MatchString(text) {
			found = text
			return false
		}
		return true
	})
	return found
}

// scrubSavings removes "you save ... $x" fragments so a savings banner can
// never be mistaken for a price.
func scrubSavings(text string) string {
	return youSaveRe.ReplaceAllString(text, "")
}

// resolveURL makes href absolute against base. A bad or empty href yields
// "".
func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	if base == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// fallbackDealURL is the deal link of last resort when the page exposes no
// canonical link at all.
func fallbackDealURL(base string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/wine/unknown"
}
