package advisor

import (
	"regexp"
	"strings"
)

var restartPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\brestart\b`),
	regexp.MustCompile(`\bnew selection\b`),
	regexp.MustCompile(`\bstart over\b`),
	regexp.MustCompile(`\bbegin again\b`),
	regexp.MustCompile(`\breset\b`),
	regexp.MustCompile(`\bstart new\b`),
	regexp.MustCompile(`\bdifferent connector\b`),
}

// IsRestart reports whether a reply asks to begin a new selection.
func IsRestart(text string) bool {
	s := strings.ToLower(text)
	for _, p := range restartPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
