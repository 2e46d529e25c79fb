package extract

import "strconv"

// findClock extracts an event time of day.
//
// A clock co-located with real content — a date token, a currency marker
// or a money-sized number on the same line — is preferred, because lone
// clock readings are usually message timestamps, not the event time.
// Failing that, the last clock in the text wins; failing that there is no
// time and the record stays date-only.
func findClock(text string) (hour, minute int, ok bool) {
	lastH, lastM := 0, 0
	for _, line := range splitLines(text) {
		rich := dateTokenRE.MatchString(line) ||
			currencyMarkRE.MatchString(line) ||
			threeDigitRunRE.MatchString(line)
		for _, m := range clockTokenRE.FindAllStringSubmatch(line, -1) {
			h, _ := strconv.Atoi(m[1])
			min, _ := strconv.Atoi(m[2])
			if h > 23 || min > 59 {
				continue
			}
			if rich {
				return h, min, true
			}
			lastH, lastM = h, min
			ok = true
		}
	}
	return lastH, lastM, ok
}
