package advisor

import (
	"regexp"
)

// mentionMatcher finds catalog family ids named in free text ("is the CMM
// suitable?"). Matching is case-insensitive on word boundaries, so "DMM" does
// not match inside "ADMM".
type mentionMatcher struct {
	ids      []string
	patterns []*regexp.Regexp
}

func newMentionMatcher(ids []string) mentionMatcher {
	m := mentionMatcher{ids: ids, patterns: make([]*regexp.Regexp, len(ids))}
	for i, id := range ids {
		m.patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(id) + `\b`)
	}
	return m
}

// Find returns the mentioned ids in catalog order.
func (m mentionMatcher) Find(text string) []string {
	var found []string
	for i, p := range m.patterns {
		if p.MatchString(text) {
			found = append(found, m.ids[i])
		}
	}
	return found
}
