package grammar

import (
	"context"
	"strings"
)

// maxReplacements caps suggestions returned per match.
const maxReplacements = 5

// Service filters checker output down to spelling issues. Grammar and
// style complaints create noise on resume fragments, which are rarely
// full sentences.
type Service struct {
	Checker Checker
}

// NewService constructs a Service.
func NewService(checker Checker) *Service {
	return &Service{Checker: checker}
}

// spellingCategories are the rule categories kept in the output.
var spellingCategories = map[string]bool{
	"TYPOS":    true,
	"SPELLING": true,
}

// CheckSpelling returns only spelling matches, each trimmed to a short
// replacement list.
func (s *Service) CheckSpelling(ctx context.Context, text, language string) ([]Match, error) {
	matches, err := s.Checker.Check(ctx, text, language)
	if err != nil {
		return nil, err
	}

	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !isSpelling(m) {
			continue
		}
		if len(m.Replacements) > maxReplacements {
			m.Replacements = m.Replacements[:maxReplacements]
		}
		out = append(out, m)
	}
	return out, nil
}

func isSpelling(m Match) bool {
	if spellingCategories[strings.ToUpper(m.RuleCategory)] {
		return true
	}
	return strings.Contains(strings.ToUpper(m.RuleID), "SPELL")
}
