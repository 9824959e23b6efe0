package enhance

import (
	"regexp"
	"strings"
)

var (
	bracketPlaceholderRE = regexp.MustCompile(`\[[^\]\[]*\]`)
	whitespaceRunRE      = regexp.MustCompile(`\s+`)
)

// Normalize strips bracketed placeholders, collapses whitespace, trims
// both ends and guarantees terminal punctuation on non-empty output.
// It is pure and total: empty input yields empty output.
func Normalize(text string) string {
	out := text
	// Nested brackets leave new matches behind, so strip to a fixed point.
	for {
		next := bracketPlaceholderRE.ReplaceAllString(out, " ")
		if next == out {
			break
		}
		out = next
	}
	out = whitespaceRunRE.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	if !strings.HasSuffix(out, ".") && !strings.HasSuffix(out, "!") && !strings.HasSuffix(out, "?") {
		out += "."
	}
	return out
}
