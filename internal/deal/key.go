package deal

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// FoldTitle canonicalizes a wine title for identity comparison: lowercase,
// diacritics stripped, punctuation removed, whitespace runs collapsed.
// "  Château   Margaux  " and "chateau margaux" fold to the same string.
func FoldTitle(title string) string {
	folded := strings.ToLower(strings.TrimSpace(title))
	// The transform chain is stateful; a shared instance is not safe for
	// concurrent use, so build one per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripMarks, folded); err == nil {
		folded = stripped
	}
	folded = nonWordRe.ReplaceAllString(folded, "")
	folded = whitespaceRe.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// Key derives the stable deduplication identity for a deal. Pure and
// total: a missing vintage renders as "unknown", a missing price likewise,
// and a known price always formats with exactly two decimals so float
// precision differences cannot split an identity.
func Key(title, vintage string, price *decimal.Decimal) string {
	vintageStr := vintage
	if vintageStr == "" {
		vintageStr = "unknown"
	}
	priceStr := "unknown"
	if price != nil {
		priceStr = price.StringFixed(2)
	}
	return FoldTitle(title) + "|" + vintageStr + "|" + priceStr
}
