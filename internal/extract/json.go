package extract

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"sjsage522/winedealworker/internal/deal"
)

// Field priority lists for structured payloads. API revisions disagree on
// naming, so every known spelling is tried in trust order.
var (
	jsonTitleKeys     = []string{"name", "title", "product_name"}
	jsonURLKeys       = []string{"url", "link", "product_url"}
	jsonPriceKeys     = []string{"price", "sale_price", "current_price"}
	jsonListPriceKeys = []string{"list_price", "original_price", "msrp"}
	jsonVintageKeys   = []string{"vintage", "year"}
	jsonRegionKeys    = []string{"region", "appellation", "origin"}
	jsonSizeKeys      = []string{"size", "bottle_size", "format"}
)

// FromJSON builds a deal candidate from a structured API payload. Title, a
// plausible offer price, and a URL are required; anything less rejects the
// whole candidate rather than producing a partial record.
func FromJSON(payload map[string]any, opts Options) *deal.Deal {
	if payload == nil {
		return nil
	}

	title := firstStringField(payload, jsonTitleKeys)
	if title == "" || deal.IsGenericTitle(title) {
		return nil
	}

	rawURL := firstStringField(payload, jsonURLKeys)
	dealURL := resolveURL(opts.BaseURL, rawURL)
	if dealURL == "" {
		return nil
	}

	// The offer-specific price wins; generic price fields are only trusted
	// when no offer-labeled price exists anywhere in the payload.
	price := deal.PickOfferPrice(payload)
	if price == nil {
		for _, k := range jsonPriceKeys {
			if raw, ok := payload[k]; ok {
				if price = deal.ParseAmount(raw); price != nil {
					break
				}
			}
		}
	}
	price = deal.ClampPrice(price)
	if price == nil {
		return nil
	}

	listPrice := firstAmountField(payload, jsonListPriceKeys)

	vintage := ""
	for _, k := range jsonVintageKeys {
		if raw, ok := payload[k]; ok && raw != nil {
			if vintage = deal.ExtractVintage(stringify(raw)); vintage != "" {
				break
			}
		}
	}

	region := firstStringField(payload, jsonRegionKeys)

	sizeText := title
	if label := firstStringField(payload, jsonSizeKeys); label != "" {
		sizeText = title + " " + label
	}

	return &deal.Deal{
		Title:        title,
		Price:        price,
		ListPrice:    listPrice,
		Vintage:      vintage,
		Region:       region,
		BottleSizeML: deal.NormalizeBottleSize(sizeText),
		URL:          dealURL,
	}
}

func firstStringField(payload map[string]any, keys []string) string {
	for _, k := range keys {
		if raw, ok := payload[k]; ok && raw != nil {
			if s := strings.TrimSpace(stringify(raw)); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstAmountField(payload map[string]any, keys []string) *decimal.Decimal {
	for _, k := range keys {
		if raw, ok := payload[k]; ok {
			if p := deal.ParseAmount(raw); p != nil {
				return p
			}
		}
	}
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; years and sizes are integral.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
