package recommend

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// titleMatchCutoff is the minimum similarity ratio for a fuzzy title
// match to be accepted. 0.6 follows the classic close-match default: a
// ratio below it is more often a different movie than a typo.
const titleMatchCutoff = 0.6

// closestTitle finds the catalog id whose title is nearest to the query
// by normalized edit distance, comparing case-insensitively. The best
// candidate wins only if it clears titleMatchCutoff; ties keep the
// earliest catalog row.
func (s *Service) closestTitle(query string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, false
	}

	bestID := 0
	bestRatio := 0.0
	found := false
	for _, r := range s.store.All() {
		ratio := similarityRatio(q, strings.ToLower(r.Title))
		if ratio >= titleMatchCutoff && ratio > bestRatio {
			bestID = r.ID
			bestRatio = ratio
			found = true
		}
	}
	return bestID, found
}

// similarityRatio maps levenshtein distance into [0,1]: 1 for identical
// strings, 0 for nothing in common.
func similarityRatio(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
