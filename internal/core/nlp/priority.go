package nlp

import (
	"regexp"
	"strings"

	"github.com/colonyops/taskwise/internal/core/task"
)

// prioritySynonyms is evaluated in order; the first table hit wins.
var prioritySynonyms = []struct {
	level task.Priority
	words []string
}{
	{task.PriorityHigh, []string{"high", "urgent", "critical", "important", "asap", "top", "highest", "rush", "immediate"}},
	{task.PriorityMedium, []string{"medium", "normal", "regular", "standard", "default", "moderate", "average"}},
	{task.PriorityLow, []string{"low", "later", "someday", "eventually", "whenever", "optional", "defer", "minor"}},
}

var (
	nonAlphaRe     = regexp.MustCompile(`[^a-z\s]`)
	priorityWordRe = regexp.MustCompile(`\bpriority\b`)
)

// ParsePriorityWord maps a free-text priority phrase to a canonical level.
// It tries the cleaned phrase, the phrase with a trailing "priority" token
// stripped, and each individual token. Returns ok=false when nothing in the
// synonym table matches; defaulting to medium is the caller's decision.
func ParsePriorityWord(word string) (task.Priority, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(word))
	if cleaned == "" {
		return "", false
	}

	cleaned = nonAlphaRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(spaceRe.ReplaceAllString(cleaned, " "))

	candidates := []string{cleaned}
	if stripped := strings.TrimSpace(priorityWordRe.ReplaceAllString(cleaned, "")); stripped != "" && stripped != cleaned {
		candidates = append(candidates, stripped)
	}
	candidates = append(candidates, strings.Fields(cleaned)...)

	for _, candidate := range candidates {
		for _, entry := range prioritySynonyms {
			for _, synonym := range entry.words {
				if candidate == synonym {
					return entry.level, true
				}
			}
		}
	}

	return "", false
}
