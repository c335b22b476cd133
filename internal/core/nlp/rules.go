package nlp

import (
	"time"

	"github.com/colonyops/taskwise/internal/core/task"
)

// This file holds the ordered rule tables the parser is driven by. New
// phrases are added here, not as new branches in the parser.

// intentVerbs are leading command verbs and conversational openers stripped
// from the working text before extraction. Longer phrases come first so a
// prefix match consumes the whole opener.
var intentVerbs = []string{
	"can you add", "could you add", "please add",
	"remind me to", "remind me", "i want to", "i need to", "i have to",
	"set up", "add", "create", "make", "new", "schedule", "plan",
	"remind", "book", "arrange",
	"i want", "i need", "can you", "could you", "please",
}

// timeIndicator pairs a literal phrase with its resolver. The table is
// ordered most-specific-first; the first phrase found in the original text
// wins.
type timeIndicator struct {
	phrase  string
	resolve func(now time.Time) string
}

func fixedOffset(days int) func(time.Time) string {
	return func(now time.Time) string {
		return formatDate(anchor(now).AddDate(0, 0, days))
	}
}

func weekdayIndicator(day time.Weekday, forceNext bool) func(time.Time) string {
	return func(now time.Time) string {
		return formatDate(nextWeekday(anchor(now), day, forceNext))
	}
}

var timeIndicators = []timeIndicator{
	{"day after tomorrow", fixedOffset(2)},
	{"next monday", weekdayIndicator(time.Monday, true)},
	{"next tuesday", weekdayIndicator(time.Tuesday, true)},
	{"next wednesday", weekdayIndicator(time.Wednesday, true)},
	{"next thursday", weekdayIndicator(time.Thursday, true)},
	{"next friday", weekdayIndicator(time.Friday, true)},
	{"next saturday", weekdayIndicator(time.Saturday, true)},
	{"next sunday", weekdayIndicator(time.Sunday, true)},
	{"next weekend", func(now time.Time) string { return ParseDatePhrase("next weekend", now) }},
	{"this weekend", func(now time.Time) string { return ParseDatePhrase("this weekend", now) }},
	{"next week", fixedOffset(7)},
	{"next month", func(now time.Time) string {
		base := anchor(now)
		return formatDate(time.Date(base.Year(), base.Month()+1, 1, 12, 0, 0, 0, base.Location()))
	}},
	{"end of month", func(now time.Time) string {
		base := anchor(now)
		return formatDate(time.Date(base.Year(), base.Month()+1, 0, 12, 0, 0, 0, base.Location()))
	}},
	{"this week", fixedOffset(0)},
	{"this month", fixedOffset(0)},
	{"tomorrow", fixedOffset(1)},
	{"tonight", fixedOffset(0)},
	{"today", fixedOffset(0)},
	{"monday", weekdayIndicator(time.Monday, false)},
	{"tuesday", weekdayIndicator(time.Tuesday, false)},
	{"wednesday", weekdayIndicator(time.Wednesday, false)},
	{"thursday", weekdayIndicator(time.Thursday, false)},
	{"friday", weekdayIndicator(time.Friday, false)},
	{"saturday", weekdayIndicator(time.Saturday, false)},
	{"sunday", weekdayIndicator(time.Sunday, false)},
}

// recurrenceMarker maps a literal phrase to its rule. Weekday-specific
// phrases come first so "every monday" is not shadowed by a generic marker.
type recurrenceMarker struct {
	phrase string
	rule   func() *task.Recurrence
}

func weekdayRule(day time.Weekday) func() *task.Recurrence {
	return func() *task.Recurrence { return task.NewWeekdayRecurrence(int(day)) }
}

func simpleRule(t task.RecurType) func() *task.Recurrence {
	return func() *task.Recurrence { return task.NewRecurrence(t, 1) }
}

var recurrenceMarkers = []recurrenceMarker{
	{"every monday", weekdayRule(time.Monday)},
	{"every tuesday", weekdayRule(time.Tuesday)},
	{"every wednesday", weekdayRule(time.Wednesday)},
	{"every thursday", weekdayRule(time.Thursday)},
	{"every friday", weekdayRule(time.Friday)},
	{"every saturday", weekdayRule(time.Saturday)},
	{"every sunday", weekdayRule(time.Sunday)},
	{"every day", simpleRule(task.RecurDaily)},
	{"each day", simpleRule(task.RecurDaily)},
	{"daily", simpleRule(task.RecurDaily)},
	{"every week", simpleRule(task.RecurWeekly)},
	{"each week", simpleRule(task.RecurWeekly)},
	{"weekly", simpleRule(task.RecurWeekly)},
	{"every month", simpleRule(task.RecurMonthly)},
	{"each month", simpleRule(task.RecurMonthly)},
	{"monthly", simpleRule(task.RecurMonthly)},
}

// categoryKeywords is scanned in order against the cleaned task text; the
// first keyword hit assigns the category.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"work", []string{"meeting", "email", "report", "presentation", "deadline", "interview", "standup"}},
	{"shopping", []string{"grocery", "groceries", "buy", "purchase", "shopping", "store", "shop"}},
	{"health", []string{"doctor", "dentist", "workout", "exercise", "gym", "pharmacy", "medication", "appointment"}},
	{"home", []string{"clean", "laundry", "dishes", "vacuum", "organize", "repair"}},
	{"social", []string{"birthday", "party", "dinner", "visit", "call mom", "call dad"}},
	{"personal", []string{"journal", "read", "hobby", "haircut"}},
}

// batchKeywords separate independent task segments in one sentence.
// Matched as case-insensitive whole words. "next" is deliberately absent:
// it would split date phrases like "next friday".
var batchKeywords = []string{
	"and", "also", "plus", "additionally", "then", "after that",
	"first", "second", "third", "finally",
}

// fillerTokens are residual words scrubbed from the description after
// extraction removed the phrases around them.
var fillerTokens = []string{"with", "priority", "task"}
