package deal

import (
	"regexp"
	"strconv"
)

// Plausible wine-vintage range. Anything outside is assumed to be a street
// number, a volume, or a typo rather than a harvest year.
const (
	minVintageYear = 1950
	maxVintageYear = 2040
)

var (
	labeledVintageRe = regexp.MustCompile(`(?i)\b(?:vintage|year)\s*:?\s*((?:19|20)[0-9]{2})\b`)
	bareVintageRe    = regexp.MustCompile(`\b(?:19|20)[0-9]{2}\b`)
)

// ExtractVintage finds a vintage year in free text: an explicit
// "vintage:"/"year:" label wins, then the first bare 4-digit token within
// the plausible range. Returns "" when nothing qualifies; it never
// aggregates multiple candidates.
func ExtractVintage(text string) string {
	if m := labeledVintageRe.FindStringSubmatch(text); m != nil {
		if vintageInRange(m[1]) {
			return m[1]
		}
	}
	for _, m := range bareVintageRe.FindAllString(text, -1) {
		if vintageInRange(m) {
			return m
		}
	}
	return ""
}

func vintageInRange(s string) bool {
	y, err := strconv.Atoi(s)
	return err == nil && y >= minVintageYear && y <= maxVintageYear
}
