package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/jotbook-dev/jotbook/internal/model"
)

// relativeDayOffsets maps relative-day words to day offsets from the
// reference date. Two-character simplified variants are included because
// OCR output mixes scripts freely.
var relativeDayOffsets = []struct {
	word   string
	offset int
}{
	{"今天", 0}, {"今日", 0}, {"today", 0},
	{"明天", 1}, {"明日", 1}, {"tomorrow", 1},
	{"後天", 2}, {"后天", 2},
}

// findDay extracts the calendar day an event happens on.
//
// Absolute dates ("2025/3/16", "3-16") win over everything; when several
// appear, the last one in reading order is taken — later text tends to be
// the correction or the final plan. Without an absolute date, relative-day
// words are resolved against ref. Without either, ref's own day is used.
func findDay(text string, ref time.Time) time.Time {
	var found time.Time
	ok := false
	for _, m := range dateTokenRE.FindAllStringSubmatch(text, -1) {
		year := ref.Year()
		if m[1] != "" {
			year, _ = strconv.Atoi(m[1])
		}
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, valid := makeDay(year, month, day, ref.Location()); valid {
			found = d
			ok = true
		}
	}
	if ok {
		return found
	}

	lower := strings.ToLower(text)
	best := -1
	offset := 0
	for _, rd := range relativeDayOffsets {
		if i := strings.LastIndex(lower, rd.word); i > best {
			best = i
			offset = rd.offset
		}
	}
	if best >= 0 {
		return model.StartOfDay(ref).AddDate(0, 0, offset)
	}

	return model.StartOfDay(ref)
}

// makeDay validates a calendar triple. Rejecting the nonsense OCR produces
// ("13/45", "2/31") here keeps the last-match-wins scan from locking onto
// garbage when a real date appears earlier in the text.
func makeDay(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
