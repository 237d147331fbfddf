package deal

import (
	"regexp"
	"strings"
)

var (
	labeledRegionRe = regexp.MustCompile(`(?i)\b(?:region|appellation)\s*:\s*([\p{L}][\p{L} ]*(?:,\s*[\p{L}][\p{L} ]*)?)`)
	fromRegionRe    = regexp.MustCompile(`\bFrom\s+([A-Z][\p{L}]*(?:\s+[A-Z][\p{L}]*)*(?:,\s*[A-Z][\p{L}]*)?)`)
)

// knownRegions is a last-resort lookup for pages that mention a famous
// region without any label. Multi-word names come first so "Napa Valley"
// wins over a hypothetical bare "Napa".
var knownRegions = []string{
	"Napa Valley",
	"Sonoma Valley",
	"Willamette Valley",
	"Barossa Valley",
	"Russian River",
	"Champagne",
	"Bordeaux",
	"Burgundy",
	"Tuscany",
	"Piedmont",
	"Rioja",
	"Priorat",
	"Mendoza",
	"Margaux",
	"Sauternes",
	"Chianti",
}

// ExtractRegion finds a wine region in free text: a "Region:" or
// "Appellation:" label first, then a "From <Region>" phrase, then a known
// region name anywhere in the text. Returns "" when nothing matches.
func ExtractRegion(text string) string {
	if m := labeledRegionRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fromRegionRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, r := range knownRegions {
		if strings.Contains(text, r) {
			return r
		}
	}
	return ""
}
