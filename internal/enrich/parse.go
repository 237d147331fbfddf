package enrich

import (
	"regexp"
	"strconv"
	"strings"

	"sjsage522/winedealworker/internal/deal"
)

// The provider answers in one of two shapes: a search API JSON object with
// matches[0].wine carrying the stats, or a rendered results page where the
// stats sit in free text. Both normalize into the same summary.
var (
	ratingRe = regexp.MustCompile(`(\d[.,]\d)\s*(?:/5)?`)
	countRe  = regexp.MustCompile(`(\d[\d,.]*)\s*(?:ratings|reviews)`)
	priceRe  = regexp.MustCompile(`\$(\d[\d,]*(?:\.\d{2})?)`)
)

// SummaryFromRaw normalizes a provider result into a rating summary. A nil
// return means the result held no usable rating.
func SummaryFromRaw(r *RawResult) *deal.RatingSummary {
	if r == nil {
		return nil
	}
	if r.JSON != nil {
		return summaryFromJSON(r.JSON)
	}
	if r.HTML != "" {
		return summaryFromText(r.HTML)
	}
	return nil
}

func summaryFromJSON(payload map[string]any) *deal.RatingSummary {
	wine := wineObject(payload)
	if wine == nil {
		return nil
	}

	rating, ok := floatField(wine, "average_rating", "rating")
	if !ok {
		return nil
	}

	summary := &deal.RatingSummary{Rating: clampRating(rating)}

	if count, ok := floatField(wine, "ratings_count", "rating_count", "review_count"); ok && count >= 0 {
		summary.ReviewCount = int(count)
	}

	if priceObj, ok := wine["price"].(map[string]any); ok {
		summary.AvgPrice = deal.ParseAmount(priceObj["amount"])
	} else {
		summary.AvgPrice = deal.ParseAmount(wine["price"])
	}

	return summary
}

// wineObject digs to the wine stats: matches[0].wine in a search response,
// a bare wine object otherwise.
func wineObject(payload map[string]any) map[string]any {
	if matches, ok := payload["matches"].([]any); ok {
		if len(matches) == 0 {
			return nil
		}
		first, ok := matches[0].(map[string]any)
		if !ok {
			return nil
		}
		if wine, ok := first["wine"].(map[string]any); ok {
			return wine
		}
		return first
	}
	if wine, ok := payload["wine"].(map[string]any); ok {
		return wine
	}
	return payload
}

func floatField(obj map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// summaryFromText parses "4.3/5 ... 1,234 ratings ... $89.99" style text.
// The rating is required; count and price ride along when present.
func summaryFromText(text string) *deal.RatingSummary {
	m := ratingRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	rating, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}

	summary := &deal.RatingSummary{Rating: clampRating(rating)}

	if m := countRe.FindStringSubmatch(text); m != nil {
		digits := strings.NewReplacer(",", "", ".", "").Replace(m[1])
		if count, err := strconv.Atoi(digits); err == nil && count >= 0 {
			summary.ReviewCount = count
		}
	}

	if m := priceRe.FindStringSubmatch(text); m != nil {
		summary.AvgPrice = deal.ParseAmount(m[1])
	}

	return summary
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}
