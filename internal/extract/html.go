package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"sjsage522/winedealworker/internal/deal"
)

// Selector chains for fetched documents, most specific first. The bare h1
// and h2 entries catch pages that drop the class names between site
// redesigns; the heading sweep is the net under all of them.
var (
	htmlTitleSelectors = []string{
		"h1.product-title",
		".product-title",
		".wine-title",
		".deal-title",
		".wine-name",
		".product-name",
		"h1.title",
		"h1.name",
		"h1",
		"h2",
	}

	htmlPriceSelectors = []string{
		".last-bottle-price",
		".deal-price",
		".our-price",
		".sale-price",
		".current-price",
		".price .current",
		".price",
		".cost",
		"[data-price]",
		"[data-lb-price]",
	}

	htmlListPriceSelectors = []string{
		".original-price",
		".list-price",
		".was-price",
		".msrp",
		".retail-price",
		".retail",
	}

	htmlVintageSelectors = []string{".vintage", ".year", ".wine-year"}
	htmlSizeSelectors    = []string{".bottle-size", ".size", ".format", ".volume"}
	htmlRegionSelectors  = []string{".region", ".appellation", ".origin", ".location"}

	listPriceTextRe = regexp.MustCompile(`(?i)\b(?:retail|msrp)\b[^$€£]{0,40}[$€£]\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
)

// FromHTML builds a deal candidate from a raw HTML document. A candidate
// needs a non-generic wine name and a plausible offer price; everything
// else is optional. Malformed markup yields nil, never an error.
func FromHTML(src string, opts Options) *deal.Deal {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil
	}

	root := doc.Selection

	title := firstText(root, htmlTitleSelectors)
	if title == "" {
		title = headingSweep(root)
	}
	if title == "" || deal.IsGenericTitle(title) {
		return nil
	}

	fullText := root.Find("body").Text()
	if strings.TrimSpace(fullText) == "" {
		fullText = root.Text()
	}

	price := deal.ClampPrice(pickHTMLPrice(root, fullText))
	if price == nil {
		return nil
	}

	listPrice := pickListPrice(root, fullText)

	vintage := firstText(root, htmlVintageSelectors)
	if v := deal.ExtractVintage(vintage); v != "" {
		vintage = v
	} else {
		vintage = deal.ExtractVintage(title + " " + fullText)
	}

	sizeText := title
	if label := firstText(root, htmlSizeSelectors); label != "" {
		sizeText = title + " " + label
	}
	size := deal.NormalizeBottleSize(sizeText)
	if size == deal.DefaultBottleSizeML {
		size = deal.NormalizeBottleSize(title + " " + fullText)
	}

	region := firstText(root, htmlRegionSelectors)
	if region == "" {
		region = deal.ExtractRegion(fullText)
	}

	return &deal.Deal{
		Title:        title,
		Price:        price,
		ListPrice:    listPrice,
		Vintage:      vintage,
		Region:       region,
		BottleSizeML: size,
		URL:          documentURL(root, opts),
	}
}

// pickHTMLPrice finds the offer price in a document: the offer keyword over
// the full text first, then price-labeled elements that do not mention a
// competitor figure. A bare dollar amount in an unlabeled element is never
// trusted.
func pickHTMLPrice(root *goquery.Selection, fullText string) *decimal.Decimal {
	if p := deal.PickOfferPrice(fullText); p != nil {
		return p
	}

	var found *decimal.Decimal
	for _, sel := range htmlPriceSelectors {
		root.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := scrubSavings(s.Text())
			if competitorRe.MatchString(text) {
				return true
			}
			if m := moneyRe.FindStringSubmatch(text); m != nil {
				found = deal.ParseAmount(m[1])
			}
			return found == nil
		})
		if found != nil {
			return found
		}
	}
	return nil
}

func pickListPrice(root *goquery.Selection, fullText string) *decimal.Decimal {
	for _, sel := range htmlListPriceSelectors {
		text := root.Find(sel).First().Text()
		if m := moneyRe.FindStringSubmatch(text); m != nil {
			if p := deal.ParseAmount(m[1]); p != nil {
				return p
			}
		}
	}
	if m := listPriceTextRe.FindStringSubmatch(fullText); m != nil {
		return deal.ParseAmount(m[1])
	}
	return nil
}

// documentURL resolves the deal link: canonical link, og:url, the first
// wine/product anchor, then the unknown-deal fallback.
func documentURL(root *goquery.Selection, opts Options) string {
	if href, ok := root.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if u := resolveURL(opts.BaseURL, href); u != "" {
			return u
		}
	}
	if content, ok := root.Find(`meta[property="og:url"]`).Attr("content"); ok {
		if u := resolveURL(opts.BaseURL, content); u != "" {
			return u
		}
	}
	for _, sel := range []string{`a[href*="/wine"]`, `a[href*="/product"]`} {
		if href, ok := root.Find(sel).Attr("href"); ok {
			if u := resolveURL(opts.BaseURL, href); u != "" {
				return u
			}
		}
	}
	return fallbackDealURL(opts.BaseURL)
}
