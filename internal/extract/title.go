package extract

import (
	"regexp"
	"strings"
)

// leadingDateRE strips a date token opening a line, e.g. "3/16 電影夜".
var leadingDateRE = regexp.MustCompile(`^(?:\d{4}[-/])?\d{1,2}[-/]\d{1,2}\s*`)

// digitsOnlyRE matches leftovers that are no title at all.
var digitsOnlyRE = regexp.MustCompile(`^\d+$`)

// spaceRunRE collapses the gaps token-stripping leaves behind.
var spaceRunRE = regexp.MustCompile(`\s{2,}`)

// sentenceEnders terminate the fallback title taken from running text.
var sentenceEnders = []string{"。", "．", ".", "!", "！", "?", "？"}

// leadingPronouns are stripped from the front of a candidate title; longer
// entries come first so 我們 is removed before 我 is tried.
var leadingPronouns = []string{"我們", "我们", "大家", "想要", "我", "想"}

// leadingEnglishPronouns need a word boundary after them ("went" keeps
// its w-e).
var leadingEnglishPronouns = []string{"we", "i"}

// findTitle picks a short human-readable label from cleaned text.
//
// Lines are scanned top-down: noise lines are skipped, date and clock
// tokens and leading pronouns are stripped, and the first line with real
// text left wins. When no line survives, the text before the first
// sentence-ending punctuation mark is used, then the whole text verbatim.
func findTitle(text string) string {
	for _, line := range splitLines(text) {
		if isNoise(line) {
			continue
		}
		candidate := stripTokens(line)
		if alnumCount(candidate) == 0 || digitsOnlyRE.MatchString(candidate) ||
			bareClockLineRE.MatchString(candidate) {
			continue
		}
		return candidate
	}

	trimmed := strings.TrimSpace(text)
	cut := len(trimmed)
	for _, p := range sentenceEnders {
		if i := strings.Index(trimmed, p); i >= 0 && i < cut {
			cut = i
		}
	}
	if lead := strings.TrimSpace(trimmed[:cut]); lead != "" {
		return lead
	}
	return trimmed
}

// stripTokens removes date/time tokens and leading pronouns from a line.
func stripTokens(line string) string {
	s := leadingDateRE.ReplaceAllString(line, "")
	s = dateTokenRE.ReplaceAllString(s, "")
	s = clockTokenRE.ReplaceAllString(s, "")
	s = spaceRunRE.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	for changed := true; changed; {
		changed = false
		for _, p := range leadingPronouns {
			if strings.HasPrefix(s, p) {
				s = strings.TrimSpace(strings.TrimPrefix(s, p))
				changed = true
			}
		}
		lower := strings.ToLower(s)
		for _, p := range leadingEnglishPronouns {
			if lower == p {
				s = ""
				changed = true
			} else if strings.HasPrefix(lower, p+" ") {
				s = strings.TrimSpace(s[len(p):])
				changed = true
			}
		}
	}
	return s
}
