package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// noisePhrases are dropped as case-insensitive substrings. They cover the
// chrome a chat screenshot drags along: read receipts, recall notices, the
// composer placeholder, canned auto-replies, carrier names and signal
// indicators from the status bar.
var noisePhrases = []string{
	"已讀", "已读", "read",
	"收回了訊息", "收回了讯息",
	"輸入訊息", "输入讯息",
	"自動回覆", "自动回复",
	"中華電信", "台灣大哥大", "遠傳電信",
	"4g", "5g", "lte", "wi-fi",
}

// bulletMarkers disqualify a line when they appear as its first rune.
var bulletMarkers = "-*•‣>＞※|"

// relativeDayWords mark a line as important even without a digit in it.
var relativeDayWords = []string{
	"今天", "今日", "明天", "明日", "後天", "后天",
	"today", "tomorrow",
}

// dateTokenRE matches absolute dates like "2025/3/16", "3-16", "12/25".
var dateTokenRE = regexp.MustCompile(`\b(?:(\d{4})[-/])?(\d{1,2})[-/](\d{1,2})\b`)

// clockTokenRE matches times like "19:30" or the full-width "19：30".
var clockTokenRE = regexp.MustCompile(`\b(\d{1,2})[:：](\d{2})\b`)

// bareClockLineRE matches a line that is nothing but a clock reading.
var bareClockLineRE = regexp.MustCompile(`^\d{1,2}[:：]\d{2}$`)

// currencyMarkRE matches money indicators: "NT$120", "$45", "420元", "三百塊".
var currencyMarkRE = regexp.MustCompile(`(?i)NT\$|NTD|\$|元|塊|块|錢|钱`)

// threeDigitRunRE marks a line as carrying a money-sized number.
var threeDigitRunRE = regexp.MustCompile(`\d{3,}`)

// CleanLines filters OCR/chat noise out of raw multi-line text and returns
// the joined surviving lines. An empty result means nothing in the input
// looked like event content.
//
// Each filter pass only ever removes lines, so iterating until the output
// stops changing terminates and makes cleaning idempotent: running
// CleanLines on its own output returns it unchanged.
func CleanLines(raw string) string {
	lines := splitLines(raw)
	for {
		next := cleanPass(lines)
		if len(next) == len(lines) {
			break
		}
		lines = next
	}
	return strings.Join(lines, "\n")
}

func splitLines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// cleanPass applies one round of the line filters, in order:
//
//  1. denylist phrases
//  2. bullet and quote markers
//  3. single-character lines with no digit
//  4. lines that are neither important nor at least two alphanumerics
//  5. a bare clock within the first three lines (status-bar heuristic)
//  6. letter-heavy digit-free lines (foreign-language auto-replies)
//  7. truncate to the first "strong" line (explicit date or currency)
//  8. keep important lines plus their immediate neighbors; with nothing
//     important, keep everything but collapse bare clocks to one
func cleanPass(lines []string) []string {
	var kept []string
	for _, l := range lines {
		switch {
		case isNoise(l):
		case startsWithBullet(l):
		case utf8.RuneCountInString(l) == 1 && !strings.ContainsFunc(l, unicode.IsDigit):
		case !isImportant(l) && alnumCount(l) < 2:
		default:
			kept = append(kept, l)
		}
	}

	var filtered []string
	for i, l := range kept {
		if i < 3 && bareClockLineRE.MatchString(l) {
			continue
		}
		if looksForeign(l) {
			continue
		}
		filtered = append(filtered, l)
	}

	for i, l := range filtered {
		if isStrong(l) {
			filtered = filtered[i:]
			break
		}
	}

	anyImportant := false
	for _, l := range filtered {
		if isImportant(l) {
			anyImportant = true
			break
		}
	}

	if anyImportant {
		var out []string
		for i, l := range filtered {
			if isImportant(l) ||
				(i > 0 && isImportant(filtered[i-1])) ||
				(i < len(filtered)-1 && isImportant(filtered[i+1])) {
				out = append(out, l)
			}
		}
		return out
	}

	// Nothing important anywhere: keep the text but never more than one
	// bare clock reading.
	var out []string
	seenClock := false
	for _, l := range filtered {
		if bareClockLineRE.MatchString(l) {
			if seenClock {
				continue
			}
			seenClock = true
		}
		out = append(out, l)
	}
	return out
}

func isNoise(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range noisePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func startsWithBullet(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return strings.ContainsRune(bulletMarkers, r)
}

// isImportant reports whether a line carries an event signal: a date or
// clock token, a relative-day word, or a currency marker.
func isImportant(line string) bool {
	if dateTokenRE.MatchString(line) || clockTokenRE.MatchString(line) ||
		currencyMarkRE.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, w := range relativeDayWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// isStrong reports whether a line anchors the real content: an explicit
// date or a money amount, never just a clock or relative-day word.
func isStrong(line string) bool {
	return dateTokenRE.MatchString(line) || currencyMarkRE.MatchString(line)
}

func alnumCount(line string) int {
	n := 0
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// looksForeign flags digit-free lines dominated by ASCII letters. CJK text
// never trips this because ideographs are not ASCII letters; long Latin
// runs with no number in them are almost always auto-reply boilerplate.
func looksForeign(line string) bool {
	letters, total := 0, 0
	for _, r := range line {
		total++
		if unicode.IsDigit(r) {
			return false
		}
		if r < utf8.RuneSelf && unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return false
	}
	return float64(letters)/float64(total) > 0.6
}
