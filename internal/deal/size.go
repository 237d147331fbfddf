package deal

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultBottleSizeML is assumed when no size token can be found.
const DefaultBottleSizeML = 750

// sizePattern maps a named bottle format (or an explicit ml token) to its
// nominal volume. Patterns are evaluated in order and the first match wins,
// so longer phrases ("double magnum") must come before their substrings
// ("magnum"), and explicit small formats before the generic fallbacks.
type sizePattern struct {
	re *regexp.Regexp
	ml int
}

var sizePatterns = []sizePattern{
	{regexp.MustCompile(`(?i)\b(?:split|piccolo)\b`), 187},
	{regexp.MustCompile(`(?i)\b187\s*ml\b`), 187},
	{regexp.MustCompile(`(?i)\bhalf[\s-]*bottle\b`), 375},
	{regexp.MustCompile(`(?i)\bdemi\b`), 375},
	{regexp.MustCompile(`(?i)\b375\s*ml\b`), 375},
	{regexp.MustCompile(`(?i)\b500\s*ml\b`), 500},
	{regexp.MustCompile(`(?i)\b620\s*ml\b`), 620},
	{regexp.MustCompile(`(?i)\b720\s*ml\b`), 720},
	{regexp.MustCompile(`(?i)\bdouble[\s-]*magnum\b`), 3000},
	{regexp.MustCompile(`(?i)\bjeroboam\b`), 3000},
	{regexp.MustCompile(`(?i)\b3(?:\.0)?\s*l\b`), 3000},
	{regexp.MustCompile(`(?i)\b(?:imperial|methuselah)\b`), 6000},
	{regexp.MustCompile(`(?i)\b6(?:\.0)?\s*l\b`), 6000},
	{regexp.MustCompile(`(?i)\bmagnum\b`), 1500},
	{regexp.MustCompile(`(?i)\b1\.5\s*l\b`), 1500},
}

var (
	genericLiterRe = regexp.MustCompile(`(?i)\b([0-9]+(?:\.[0-9]+)?)\s*l\b`)
	genericMlRe    = regexp.MustCompile(`(?i)\b([0-9]{3,4})\s*ml\b`)
)

// NormalizeBottleSize converts free text (a title, a size label, a page
// body) into a bottle volume in milliliters. Named formats win over the
// generic "<n> L" / "<n> ml" fallbacks, and the fallbacks only accept sane
// liquid volumes (0.1-6.0 L, 100-6000 ml). Anything else is 750. The
// function never fails; malformed input yields the default silently.
func NormalizeBottleSize(text string) int {
	if strings.TrimSpace(text) == "" {
		return DefaultBottleSizeML
	}

	for _, p := range sizePatterns {
		if p.re.MatchString(text) {
			return p.ml
		}
	}

	if m := genericLiterRe.FindStringSubmatch(text); m != nil {
		liters, err := strconv.ParseFloat(m[1], 64)
		if err == nil && liters >= 0.1 && liters <= 6.0 {
			return int(liters*1000 + 0.5)
		}
	}

	if m := genericMlRe.FindStringSubmatch(text); m != nil {
		ml, err := strconv.Atoi(m[1])
		if err == nil && ml >= 100 && ml <= 6000 {
			return ml
		}
	}

	return DefaultBottleSizeML
}
