package enhance

import (
	"strings"
	"unicode"
)

// TooSimilar reports whether two texts are close enough to count as
// repetition. It checks exact equality, a character-level similarity
// percentage, then token-set Jaccard overlap, in that order.
func TooSimilar(a, b string, t Thresholds) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" && b == "" {
		return false
	}
	if a == b {
		return true
	}
	if SimilarityPercent(a, b) >= t.TextSimilarity {
		return true
	}

	tokensA := tokenSet(a, t.MinTokenLength)
	tokensB := tokenSet(b, t.MinTokenLength)
	// With no comparable tokens the Jaccard check is meaningless; the
	// equality and character checks above have already run.
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return false
	}
	return jaccard(tokensA, tokensB) >= t.Jaccard
}

// SimilarityPercent returns a symmetric 0-100 character-level similarity
// ratio derived from edit distance.
func SimilarityPercent(a, b string) float64 {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein(ra, rb)
	return (1 - float64(dist)/float64(longest)) * 100
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func tokenSet(s string, minLen int) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	out := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) < minLen {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
