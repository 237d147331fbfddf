package deal

import "strings"

// genericTitles are boilerplate headings the monitored site renders before
// (or instead of) real deal content: the marketing tagline, the bare site
// name, and loading placeholders. A candidate whose title matches one of
// these carries no deal identity and must be dropped by every extraction
// strategy.
var genericTitles = []string{
	"last bottle",
	"lastbottle",
	"one bottle at a time",
	"great wine. insane prices.",
	"today's offer",
	"deal of the day",
	"loading",
}

// IsGenericTitle reports whether a title is site boilerplate rather than a
// wine name. Matching is case-insensitive substring over the
// whitespace-collapsed title, so encoding and spacing variants of the same
// tagline still match.
func IsGenericTitle(title string) bool {
	folded := strings.ToLower(strings.TrimSpace(title))
	folded = whitespaceRe.ReplaceAllString(folded, " ")
	if folded == "" {
		return true
	}
	for _, g := range genericTitles {
		if strings.Contains(folded, g) {
			return true
		}
	}
	return false
}
