package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical serialized form for due dates.
const DateLayout = "2006-01-02"

var (
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	isoInlineRe  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	localeDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	inDaysRe     = regexp.MustCompile(`^in\s+(\d+)\s+days?\b`)
	inWeeksRe    = regexp.MustCompile(`^in\s+(\d+)\s+weeks?\b`)
	weekdayRe    = regexp.MustCompile(`^(?:on\s+)?(next|this|upcoming|coming)?\s*(sunday|sun|monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat)$`)
	monthDayRe   = regexp.MustCompile(`\b(?:on\s+)?(january|jan|february|feb|march|mar|april|apr|may|june|jun|july|jul|august|aug|september|sept|sep|october|oct|november|nov|december|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?\b`)
)

// Phrases that map to a fixed day offset from the reference date.
var simpleOffsets = map[string]int{
	"today":              0,
	"tonight":            0,
	"tomorrow":           1,
	"tmr":                1,
	"day after tomorrow": 2,
	"in two days":        2,
	"in three days":      3,
	"in a week":          7,
	"in one week":        7,
	"next week":          7,
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tues": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thurs": time.Thursday, "thur": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// anchor returns the reference date pinned to noon. Computing offsets from
// noon keeps the serialized date stable across DST transitions.
func anchor(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// validISODate reports whether the Y/M/D components name a real calendar
// date, rejecting rollovers like 2024-02-30.
func validISODate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// NormalizeDueDate canonicalizes a due date input to YYYY-MM-DD, or returns
// the empty string if the input cannot be resolved to a real calendar date.
// Empty input also yields empty output; callers that must reject
// provided-but-unparseable dates compare against whether input was non-empty.
func NormalizeDueDate(value string, now time.Time) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if m := isoDateRe.FindStringSubmatch(trimmed); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if !validISODate(year, month, day) {
			return ""
		}
		return formatDate(time.Date(year, time.Month(month), day, 12, 0, 0, 0, now.Location()))
	}

	if parsed := ParseDatePhrase(trimmed, now); parsed != "" {
		return parsed
	}

	// Last resort for machine-generated inputs such as enrichment responses.
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return formatDate(t)
	}

	return ""
}

// ParseDatePhrase resolves a natural-language date phrase against the
// reference time and returns the canonical date string, or "" when the
// phrase is not recognized.
func ParseDatePhrase(phrase string, now time.Time) string {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return ""
	}

	base := anchor(now)
	addDays := func(days int) string {
		return formatDate(base.AddDate(0, 0, days))
	}

	if offset, ok := simpleOffsets[p]; ok {
		return addDays(offset)
	}

	if m := inDaysRe.FindStringSubmatch(p); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return addDays(days)
		}
	}

	if m := inWeeksRe.FindStringSubmatch(p); m != nil {
		weeks, err := strconv.Atoi(m[1])
		if err == nil {
			return addDays(weeks * 7)
		}
	}

	// Weekend phrases resolve to Saturday.
	saturdayOffset := (int(time.Saturday) - int(base.Weekday()) + 7) % 7
	switch p {
	case "this weekend", "weekend":
		return addDays(saturdayOffset)
	case "next weekend":
		return addDays(saturdayOffset + 7)
	}

	if m := weekdayRe.FindStringSubmatch(p); m != nil {
		qualifier := m[1]
		target := weekdayNames[m[2]]
		forceNext := qualifier == "next" || qualifier == "upcoming" || qualifier == "coming"
		return formatDate(nextWeekday(base, target, forceNext))
	}

	if m := monthDayRe.FindStringSubmatch(p); m != nil {
		month := monthNames[m[1]]
		day, err := strconv.Atoi(m[2])
		if err != nil {
			return ""
		}

		year := base.Year()
		explicitYear := m[3] != ""
		if explicitYear {
			year, err = strconv.Atoi(m[3])
			if err != nil {
				return ""
			}
		}

		if !validISODate(year, int(month), day) {
			return ""
		}

		candidate := time.Date(year, month, day, 12, 0, 0, 0, now.Location())
		if !explicitYear && candidate.Before(base) {
			if !validISODate(year+1, int(month), day) {
				return ""
			}
			candidate = time.Date(year+1, month, day, 12, 0, 0, 0, now.Location())
		}

		return formatDate(candidate)
	}

	if m := isoInlineRe.FindStringSubmatch(p); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if validISODate(year, month, day) {
			return m[0]
		}
		return ""
	}

	if m := localeDateRe.FindStringSubmatch(p); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if validISODate(year, month, day) {
			return formatDate(time.Date(year, time.Month(month), day, 12, 0, 0, 0, now.Location()))
		}
		return ""
	}

	return ""
}

// nextWeekday returns the next occurrence of target counted from base.
// When base already falls on target, base itself is returned unless
// forceNext is set. forceNext always advances at least a full week.
func nextWeekday(base time.Time, target time.Weekday, forceNext bool) time.Time {
	daysAhead := (int(target) - int(base.Weekday()) + 7) % 7
	if daysAhead == 0 && !forceNext {
		return base
	}
	if forceNext {
		daysAhead += 7
	}
	return base.AddDate(0, 0, daysAhead)
}

// NextWeekdayDate is the exported form used when a weekday recurrence seeds
// its first due date.
func NextWeekdayDate(now time.Time, target time.Weekday) string {
	return formatDate(nextWeekday(anchor(now), target, false))
}
