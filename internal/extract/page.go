package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"sjsage522/winedealworker/internal/deal"
)

// The page carries several promotional blocks; only the one holding the
// active purchase control is the current deal. Extraction is scoped to the
// nearest structural ancestor of that control.
var (
	ctaTextRe       = regexp.MustCompile(`(?i)add to cart|buy|purchase|add to bag`)
	ctaContainerSel = "form, .product, .product-detail, .deal, .product-container, main, #content, .container"
	pageTitleChain  = []string{".product-title", ".deal-title", "h1.product-title", "h1.title", "h1", "h2"}
	pagePriceChain  = []string{".last-bottle-price", ".deal-price", ".price .current", ".our-price", ".price", "[data-price]", "[data-lb-price]"}
)

// FromPage builds a deal candidate by probing a live page handle. Lookup is
// scoped to the call-to-action container when one exists; a generic first
// result triggers one broader whole-document sweep before giving up.
func FromPage(p PageHandle, opts Options) *deal.Deal {
	doc, err := p.Document()
	if err != nil {
		return nil
	}

	scope := ctaScope(doc)

	title := pageTitle(doc, scope)
	if deal.IsGenericTitle(title) {
		// The scoped block may still be a loading placeholder; one pass
		// over the whole document before rejecting.
		scope = doc.Selection
		title = pageTitle(doc, scope)
		if deal.IsGenericTitle(title) {
			return nil
		}
	}

	scopeText := scrubSavings(scope.Text())

	price := deal.PickOfferPrice(scopeText)
	if price == nil {
		price = pagePrice(scope)
	}
	price = deal.ClampPrice(price)
	if price == nil {
		return nil
	}

	dealURL := p.URL()
	if dealURL == "" {
		dealURL = fallbackDealURL(opts.BaseURL)
	}

	sizeText := title + " " + scopeText

	return &deal.Deal{
		Title:        title,
		Price:        price,
		Vintage:      deal.ExtractVintage(title + " " + scopeText),
		Region:       deal.ExtractRegion(scopeText),
		BottleSizeML: deal.NormalizeBottleSize(sizeText),
		URL:          dealURL,
	}
}

// ctaScope finds the buy control and returns its nearest structural
// ancestor, the document itself when no control exists.
func ctaScope(doc *goquery.Document) *goquery.Selection {
	var cta *goquery.Selection
	doc.Find(`button, input[type="submit"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := s.Text()
		if label == "" {
			label, _ = s.Attr("value")
		}
		if ctaTextRe.MatchString(label) {
			cta = s
			return false
		}
		return true
	})
	if cta == nil {
		return doc.Selection
	}
	container := cta.Closest(ctaContainerSel)
	if container.Length() == 0 {
		return doc.Selection
	}
	return container
}

func pageTitle(doc *goquery.Document, scope *goquery.Selection) string {
	if title := firstText(scope, pageTitleChain); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("head title").Text())
}

// pagePrice takes the first money amount from a price-labeled element that
// does not mention a competitor figure. A bare amount in unlabeled text is
// never trusted, even inside the CTA scope: it could just as well be a
// retail figure or a savings banner.
func pagePrice(scope *goquery.Selection) *decimal.Decimal {
	for _, sel := range pagePriceChain {
		var found *decimal.Decimal
		scope.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
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
