package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/task"
)

// Intent keyword sets. Matched as case-insensitive substrings of the whole
// message, mirroring how people actually phrase chat commands.
var (
	addIntentPhrases = []string{
		"add", "create", "make", "new", "remind", "schedule", "plan", "set up", "book", "arrange",
		"i want to", "i need to", "i have to", "can you add", "could you add", "please add",
	}
	dueDateChangeVerbs  = []string{"change", "set", "update", "move", "reschedule", "adjust", "push", "postpone"}
	priorityChangeVerbs = []string{"set", "change", "update", "adjust", "make"}
	queryPhrases        = []string{"what", "show", "list", "display", "view", "tell me", "can you show", "i want to see", "let me see"}
	completePhrases     = []string{"complete", "done", "finished", "mark as complete", "check off"}
	deletePhrases       = []string{"delete", "remove", "cancel"}
)

var searchRe = regexp.MustCompile(`(?i)(?:search|find|look for)\s+(?:tasks?\s+)?(?:for\s+)?(.+)`)

// ProcessCommand routes a raw chat message to the right operation and
// returns the (possibly updated) task list with a structured result.
func (e *Engine) ProcessCommand(ctx context.Context, tasks []task.Task, message string) ([]task.Task, CommandResult) {
	lower := strings.ToLower(message)
	now := e.now()

	// Due-date changes first: they mention dates and verbs that would
	// otherwise look like task creation.
	if containsAny(lower, []string{"due date", "deadline"}) && containsAny(lower, dueDateChangeVerbs) {
		reference, phrase := extractDueDateChange(lower, now)
		return e.UpdateDueDate(tasks, reference, phrase)
	}

	if strings.Contains(lower, "priority") && containsAny(lower, priorityChangeVerbs) &&
		!containsAny(lower, []string{"add ", "add a", "add the", "create", "new task"}) {
		reference, word := extractPriorityChange(lower)
		return e.UpdatePriority(tasks, reference, word)
	}

	if containsAny(lower, []string{"search for", "search ", "find ", "look for"}) {
		keyword := ""
		if m := searchRe.FindStringSubmatch(message); m != nil {
			keyword = strings.TrimRight(strings.TrimSpace(m[1]), ".!?")
		}
		found := Search(tasks, keyword)
		return tasks, queryResult(found, fmt.Sprintf("Found %d task(s) matching %q.", len(found), keyword))
	}

	if containsAny(lower, deletePhrases) && !startsWithAny(lower, addIntentPhrases) {
		return e.Delete(tasks, stripIntentWords(lower, deletePhrases))
	}

	if startsWithAny(lower, addIntentPhrases) ||
		containsAny(lower, []string{"i want to", "i need to", "i have to", "can you add", "could you add", "please add"}) {
		payloads := e.parsePayloads(ctx, message)
		return e.CreateMany(tasks, payloads)
	}

	if containsAny(lower, queryPhrases) {
		return tasks, e.query(tasks, lower, now)
	}

	if containsAny(lower, completePhrases) {
		return e.Complete(tasks, stripIntentWords(lower, append([]string{"mark as complete", "mark as done", "check off", "mark"}, completePhrases...)))
	}

	return tasks, CommandResult{
		Reason:  ReasonInvalid,
		Message: "I'm here to help with your tasks! Try 'add a task', 'show my tasks', or 'what's due today?'",
	}
}

// query answers read-only questions about the list.
func (e *Engine) query(tasks []task.Task, lower string, now time.Time) CommandResult {
	switch {
	case containsAny(lower, []string{"today", "due today"}):
		found := DueToday(tasks, now)
		return queryResult(found, fmt.Sprintf("You have %d task(s) due today.", len(found)))
	case containsAny(lower, []string{"tomorrow", "due tomorrow"}):
		found := DueTomorrow(tasks, now)
		return queryResult(found, fmt.Sprintf("You have %d task(s) due tomorrow.", len(found)))
	case containsAny(lower, []string{"this week", "week", "upcoming"}):
		found := DueThisWeek(tasks, now)
		return queryResult(found, fmt.Sprintf("You have %d task(s) due this week.", len(found)))
	case containsAny(lower, []string{"without due date", "no due date", "no deadline"}):
		found := WithoutDueDate(tasks)
		return queryResult(found, fmt.Sprintf("You have %d task(s) without a due date.", len(found)))
	case containsAny(lower, []string{"overdue", "late"}):
		found := Overdue(tasks, now)
		return queryResult(found, fmt.Sprintf("You have %d overdue task(s).", len(found)))
	case containsAny(lower, []string{"completed", "done", "finished"}):
		found := CompletedTasks(tasks)
		return queryResult(found, fmt.Sprintf("You have completed %d task(s).", len(found)))
	case containsAny(lower, []string{"high priority", "important", "urgent"}):
		found := ByPriority(tasks, task.PriorityHigh)
		return queryResult(found, fmt.Sprintf("You have %d high priority task(s).", len(found)))
	}

	for _, category := range knownCategories(tasks) {
		if containsAny(lower, []string{category + " task", category + " tasks", "show " + category}) {
			found := ByCategory(tasks, category)
			return queryResult(found, fmt.Sprintf("You have %d %s task(s).", len(found), category))
		}
	}

	pending := Pending(tasks)
	return queryResult(pending, fmt.Sprintf("You have %d pending task(s).", len(pending)))
}

func queryResult(found []task.Task, message string) CommandResult {
	return CommandResult{Success: true, Tasks: found, Message: message}
}

func knownCategories(tasks []task.Task) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range tasks {
		c := strings.ToLower(t.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// extractDueDateChange pulls the new date phrase and the task reference out
// of a due-date change message. The longest token window that parses as a
// date wins, longest-first so "next friday" beats "friday".
func extractDueDateChange(lower string, now time.Time) (reference, phrase string) {
	tokens := strings.Fields(lower)

	maxLen := 5
	if len(tokens) < maxLen {
		maxLen = len(tokens)
	}
	for length := maxLen; length >= 1 && phrase == ""; length-- {
		for start := 0; start+length <= len(tokens); start++ {
			candidate := strings.Join(tokens[start:start+length], " ")
			if nlp.ParseDatePhrase(candidate, now) != "" {
				phrase = candidate
				break
			}
		}
	}
	if phrase == "" {
		return "", ""
	}

	rough := strings.Replace(lower, phrase, "", 1)
	rough = dueDateVerbRe.ReplaceAllString(rough, " ")
	rough = trailingPrepRe.ReplaceAllString(rough, " ")
	return collapse(rough), phrase
}

// extractPriorityChange pulls the new priority word and the task reference
// out of a priority change message. Shortest window first: the priority
// table matches single tokens, and a wide window would swallow task words.
func extractPriorityChange(lower string) (reference, word string) {
	tokens := strings.Fields(lower)

	maxLen := 3
	if len(tokens) < maxLen {
		maxLen = len(tokens)
	}
	for length := 1; length <= maxLen && word == ""; length++ {
		for start := 0; start+length <= len(tokens); start++ {
			candidate := strings.Join(tokens[start:start+length], " ")
			if _, ok := nlp.ParsePriorityWord(candidate); ok {
				word = candidate
				break
			}
		}
	}
	if word == "" {
		return "", ""
	}

	rough := strings.Replace(lower, word, "", 1)
	rough = priorityVerbRe.ReplaceAllString(rough, " ")
	rough = priorityMarkerRe.ReplaceAllString(rough, " ")
	rough = trailingPrepRe.ReplaceAllString(rough, " ")
	return collapse(rough), word
}

var (
	dueDateVerbRe    = regexp.MustCompile(`(?i)(?:change|set|update|move|reschedule|adjust|push|postpone)\s+(?:the\s+)?(?:due\s+date|deadline)(?:\s+(?:of|for))?`)
	priorityVerbRe   = regexp.MustCompile(`(?i)(?:set|change|update|adjust|make)\s+(?:the\s+)?priority(?:\s+(?:of|for|on))?`)
	priorityMarkerRe = regexp.MustCompile(`(?i)\bpriority\b`)
	trailingPrepRe   = regexp.MustCompile(`(?i)\b(?:to|for|by|on|as|be|is|become)\b\s*$`)
)

func stripIntentWords(lower string, phrases []string) string {
	out := lower
	for _, phrase := range phrases {
		out = regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(phrase)+`\b`).ReplaceAllString(out, " ")
	}
	return collapse(out)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func startsWithAny(text string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix+" ") || text == prefix {
			return true
		}
	}
	return false
}
