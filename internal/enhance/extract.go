package enhance

import (
	"encoding/json"
	"strings"

	"cveezy-backend/internal/llm"
)

// ExtractCandidate pulls the usable text out of a generator result.
// It prefers the expected JSON key, tolerating markdown code fences, and
// falls back to the first paragraph of raw prose with list markers
// stripped. Returns "" when nothing usable is present.
func ExtractCandidate(result llm.GenerateResult, key string) string {
	raw := result.FirstText()
	if raw == "" {
		return ""
	}

	if text := extractJSONKey(raw, key); text != "" {
		return text
	}
	return firstParagraph(raw)
}

func extractJSONKey(raw, key string) string {
	stripped := stripCodeFences(raw)
	var payload map[string]any
	if err := json.Unmarshal([]byte(stripped), &payload); err != nil {
		return ""
	}
	if val, ok := payload[key].(string); ok {
		return strings.TrimSpace(val)
	}
	// A single-key object with a string value is close enough even when
	// the model renamed the key.
	if len(payload) == 1 {
		for _, v := range payload {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (```json).
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func firstParagraph(raw string) string {
	for _, block := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n") {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			line = leadingMarkerRE.ReplaceAllString(line, "")
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "```") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, " ")
		}
	}
	return ""
}
