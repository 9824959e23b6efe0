package enhance

import (
	"regexp"
	"strings"
)

var (
	sentenceEndRE   = regexp.MustCompile(`[.!?]+(\s+|$)`)
	phraseSplitRE   = regexp.MustCompile(`[,;]`)
	repeatPeriodRE  = regexp.MustCompile(`\.{2,}`)
	repeatBangRE    = regexp.MustCompile(`!{2,}`)
	repeatQueryRE   = regexp.MustCompile(`\?{2,}`)
	repeatCommaRE   = regexp.MustCompile(`,{2,}`)
	leadingMarkerRE = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)])\s*`)
)

// Sanitizer cleans raw generated text: normalization, duplicate word,
// phrase and sentence removal, sentence and word caps, and a local
// paraphrase pass when the result stays too close to the original.
type Sanitizer struct {
	Limits     Limits
	Thresholds Thresholds
	Synonyms   []SynonymPair
}

// Sanitize returns the cleaned text. The result is never empty unless
// both inputs are empty.
func (s Sanitizer) Sanitize(rawText, originalText string) string {
	out := Normalize(rawText)
	out = collapseRepeatedWords(out)

	sentences := splitSentences(out)
	var kept []string
	for _, sentence := range sentences {
		cleaned := s.dedupePhrases(sentence)
		if cleaned == "" {
			continue
		}
		dup := false
		for _, prior := range kept {
			if SimilarityPercent(cleaned, prior) > s.Limits.SentenceDuplicateThreshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, cleaned)
		}
	}

	if s.Limits.MaxSentences > 0 && len(kept) > s.Limits.MaxSentences {
		kept = kept[:s.Limits.MaxSentences]
	}

	out = strings.Join(kept, " ")
	out = capWords(out, s.Limits.MaxWords)
	out = collapseRepeatedPunctuation(out)
	out = Normalize(out)

	if out == "" {
		return Normalize(originalText)
	}

	if strings.TrimSpace(originalText) != "" && TooSimilar(out, originalText, s.Thresholds) {
		out = Normalize(applySynonyms(out, s.Synonyms))
	}
	return out
}

// collapseRepeatedWords removes immediately repeated words, compared
// case-insensitively with surrounding punctuation ignored.
func collapseRepeatedWords(text string) string {
	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}
	out := words[:1]
	prev := wordKey(words[0])
	for _, w := range words[1:] {
		key := wordKey(w)
		if key != "" && key == prev {
			// Keep the later token when it carries punctuation the
			// first one lacks, so sentence ends survive the collapse.
			if len(w) > len(out[len(out)-1]) {
				out[len(out)-1] = w
			}
			continue
		}
		out = append(out, w)
		prev = key
	}
	return strings.Join(out, " ")
}

func wordKey(w string) string {
	return strings.ToLower(strings.Trim(w, ".,;:!?\"'()"))
}

// splitSentences breaks text on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with each sentence.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var sentences []string
	last := 0
	for _, loc := range sentenceEndRE.FindAllStringIndex(text, -1) {
		sentence := strings.TrimSpace(text[last:loc[1]])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// dedupePhrases drops comma/semicolon phrases that repeat an earlier
// phrase of the same sentence, then rejoins with ", ".
func (s Sanitizer) dedupePhrases(sentence string) string {
	terminal := "."
	trimmed := strings.TrimRight(sentence, " ")
	if n := len(trimmed); n > 0 {
		switch trimmed[n-1] {
		case '!', '?':
			terminal = string(trimmed[n-1])
		}
	}
	body := strings.TrimRight(trimmed, ".!? ")

	parts := phraseSplitRE.Split(body, -1)
	var kept []string
	for _, part := range parts {
		phrase := strings.TrimSpace(part)
		if phrase == "" {
			continue
		}
		dup := false
		for _, prior := range kept {
			if SimilarityPercent(phrase, prior) > s.Limits.PhraseDuplicateThreshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, phrase)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ", ") + terminal
}

func capWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	words = words[:maxWords]
	last := strings.TrimRight(words[len(words)-1], ",; ")
	words[len(words)-1] = last
	return strings.Join(words, " ") + "."
}

func collapseRepeatedPunctuation(text string) string {
	text = repeatBangRE.ReplaceAllString(text, "!")
	text = repeatQueryRE.ReplaceAllString(text, "?")
	text = repeatPeriodRE.ReplaceAllString(text, ".")
	text = repeatCommaRE.ReplaceAllString(text, ",")
	return whitespaceRunRE.ReplaceAllString(text, " ")
}

// applySynonyms substitutes the paraphrase table case-insensitively,
// longest entry first so multi-word entries win over their parts.
func applySynonyms(text string, table []SynonymPair) string {
	ordered := make([]SynonymPair, len(table))
	copy(ordered, table)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && len(ordered[j].From) > len(ordered[j-1].From); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	for _, pair := range ordered {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(pair.From) + `\b`)
		text = re.ReplaceAllString(text, pair.To)
	}
	return text
}
