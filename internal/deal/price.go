package deal

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// MinPlausiblePrice is the floor below which an extracted price is treated
// as noise (a quantity, a per-ounce figure, a truncated match) rather than
// a real offer.
var MinPlausiblePrice = decimal.NewFromInt(5)

// The deal page shows three competing figures: retail/MSRP, a third-party
// "best web" price, and the site's own offer. Only the offer is a valid
// deal price, and it is always labeled with the site name.
var (
	// Structured payloads nest the offer under a pricing container or
	// carry it as a flat key; both spellings vary across API versions.
	priceContainerKeys = []string{"prices", "pricing", "priceInfo"}
	offerPriceKeys     = []string{"last_bottle", "lastBottle", "lastBottlePrice", "last_bottle_price", "lb"}

	// Free text: the offer keyword followed by a currency amount within a
	// bounded window. No keyword means no offer price; a bare dollar
	// amount is never trusted because it may be a competitor figure.
	offerTextRe = regexp.MustCompile(`(?i)last\s*bottle[^$€£]{0,80}[$€£]\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

	amountRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)`)
	commaRe  = regexp.MustCompile(`,`)
)

// ParseAmount coerces a loosely-typed value (number, "$1,299.99", "45")
// into a positive decimal. Malformed or non-positive values yield nil,
// never an error.
func ParseAmount(v any) *decimal.Decimal {
	var d decimal.Decimal
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		d = decimal.NewFromFloat(t)
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case decimal.Decimal:
		d = t
	case *decimal.Decimal:
		if t == nil {
			return nil
		}
		d = *t
	case string:
		m := amountRe.FindStringSubmatch(commaRe.ReplaceAllString(t, ""))
		if m == nil {
			return nil
		}
		parsed, err := decimal.NewFromString(m[1])
		if err != nil {
			return nil
		}
		d = parsed
	default:
		return nil
	}
	if !d.IsPositive() {
		return nil
	}
	return &d
}

// PickOfferPrice returns only the site's own offer price from a structured
// payload (map) or a text/HTML blob, ignoring retail and "best web"
// figures even when they appear alongside it. Returns nil when no
// offer-labeled price exists.
func PickOfferPrice(v any) *decimal.Decimal {
	switch src := v.(type) {
	case map[string]any:
		for _, ck := range priceContainerKeys {
			sub, ok := src[ck].(map[string]any)
			if !ok {
				continue
			}
			for _, k := range offerPriceKeys {
				if raw, ok := sub[k]; ok {
					if p := ParseAmount(raw); p != nil {
						return p
					}
				}
			}
		}
		for _, k := range offerPriceKeys {
			if raw, ok := src[k]; ok {
				if p := ParseAmount(raw); p != nil {
					return p
				}
			}
		}
		return nil
	case string:
		if m := offerTextRe.FindStringSubmatch(src); m != nil {
			return ParseAmount(m[1])
		}
		return nil
	default:
		return nil
	}
}

// ClampPrice enforces the plausibility floor: prices under 5.00 become
// absent, not zero and not an error.
func ClampPrice(p *decimal.Decimal) *decimal.Decimal {
	if p == nil || p.LessThan(MinPlausiblePrice) {
		return nil
	}
	return p
}
