// Package nlp turns loosely-structured task commands into structured task
// payloads: due dates, priorities, categories, and recurrence rules are
// extracted by ordered rule tables, and multi-task sentences are split into
// independently parseable segments.
package nlp

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/taskwise/internal/core/task"
)

var (
	phraseRes  sync.Map // phrase -> *regexp.Regexp
	leadingTo  = regexp.MustCompile(`^to\s+`)
	batchSplit = buildBatchSplitter()
)

// phraseRe returns a cached case-insensitive whole-word matcher for phrase.
func phraseRe(phrase string) *regexp.Regexp {
	if re, ok := phraseRes.Load(phrase); ok {
		return re.(*regexp.Regexp)
	}
	pattern := `\b` + strings.ReplaceAll(regexp.QuoteMeta(phrase), ` `, `\s+`) + `\b`
	re := regexp.MustCompile(`(?i)` + pattern)
	phraseRes.Store(phrase, re)
	return re
}

func containsPhrase(text, phrase string) bool {
	return phraseRe(phrase).MatchString(text)
}

func removePhrase(text, phrase string) string {
	return phraseRe(phrase).ReplaceAllString(text, " ")
}

// ParseSingleTask extracts one task payload from a sentence. Detection of
// priority, date, and recurrence always scans the original lowercased text
// so that removing one phrase cannot corrupt detection of another occurring
// earlier; removals apply only to the working copy that becomes the task
// description. Returns ok=false when no usable description remains — a
// silent non-match, not an error.
func ParseSingleTask(message string, now time.Time) (task.Payload, bool) {
	original := strings.ToLower(message)
	working := strings.TrimSpace(original)

	// 1. Strip leading intent verbs and conversational openers.
	for _, verb := range intentVerbs {
		if rest, ok := strings.CutPrefix(working, verb+" "); ok {
			working = strings.TrimSpace(rest)
		} else if working == verb {
			working = ""
		}
	}

	payload := task.Payload{Priority: task.PriorityMedium}

	// 2. Priority keywords; first table hit wins, every hit is scrubbed.
	prioritySet := false
	for _, entry := range prioritySynonyms {
		for _, word := range entry.words {
			if containsPhrase(original, word) {
				if !prioritySet {
					payload.Priority = entry.level
					prioritySet = true
				}
				working = removePhrase(working, word)
			}
		}
	}

	// 3. Recurrence markers; weekday-specific phrases take precedence. These
	// run before date extraction so "every monday" is scrubbed whole instead
	// of losing its weekday to the date pass.
	for _, marker := range recurrenceMarkers {
		if containsPhrase(original, marker.phrase) {
			payload.Recurring = marker.rule()
			working = removePhrase(working, marker.phrase)
			break
		}
	}

	// 4. Date phrases; the table is ordered most-specific-first.
	for _, ind := range timeIndicators {
		if containsPhrase(original, ind.phrase) {
			payload.DueDate = ind.resolve(now)
			working = removePhrase(working, ind.phrase)
			break
		}
	}
	// A named-weekday recurrence with no due date starts on its next
	// occurrence.
	if payload.Recurring.HasWeekday() && payload.DueDate == "" {
		payload.DueDate = NextWeekdayDate(now, time.Weekday(payload.Recurring.DayOfWeek))
	}

	// 5. Category keyword table; first hit wins.
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if containsPhrase(working, word) {
				payload.Category = entry.category
				break
			}
		}
		if payload.Category != "" {
			break
		}
	}

	// 6. Scrub leftover filler and collapse whitespace.
	for _, filler := range fillerTokens {
		working = removePhrase(working, filler)
	}
	working = strings.TrimSpace(spaceRe.ReplaceAllString(working, " "))
	working = strings.TrimSpace(leadingTo.ReplaceAllString(working, ""))
	working = SanitizePlainText(working)

	// 7. Too short to be a task description.
	if len([]rune(working)) < 2 {
		return task.Payload{}, false
	}

	payload.Text = working
	return payload, true
}

// ParseTasks parses a command that may describe one task or several joined
// by conjunction/sequence keywords.
func ParseTasks(message string, now time.Time) []task.Payload {
	lower := strings.ToLower(message)
	for _, kw := range batchKeywords {
		if containsPhrase(lower, kw) {
			return ParseBatch(message, now)
		}
	}

	if payload, ok := ParseSingleTask(message, now); ok {
		return []task.Payload{payload}
	}
	return nil
}

// ParseBatch splits a multi-task sentence on conjunction/sequence keywords
// and parses each segment independently, keeping only segments that yield a
// payload.
func ParseBatch(message string, now time.Time) []task.Payload {
	var payloads []task.Payload
	for _, part := range batchSplit.Split(message, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if payload, ok := ParseSingleTask(part, now); ok {
			payloads = append(payloads, payload)
		}
	}
	return payloads
}

func buildBatchSplitter() *regexp.Regexp {
	alts := make([]string, len(batchKeywords))
	for i, kw := range batchKeywords {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(kw), ` `, `\s+`)
	}
	// runs of keywords ("and also", "and then") act as one separator
	group := `(?:` + strings.Join(alts, "|") + `)`
	return regexp.MustCompile(`(?i)\s+` + group + `(?:\s+` + group + `)*\s+`)
}
