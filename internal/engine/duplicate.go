package engine

import (
	"strings"

	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/task"
)

// IsDuplicate reports whether the payload exactly replicates an existing
// task. All four fields must match: normalized text, priority (absent
// defaults to medium), due date, and category (absent defaults to
// "general").
func IsDuplicate(payload task.Payload, tasks []task.Task) bool {
	text := normalizeText(payload.Text)
	priority := payload.EffectivePriority()
	category := normalizeCategory(payload.Category)

	for _, t := range tasks {
		if normalizeText(t.Text) != text {
			continue
		}
		existing := t.Priority
		if !existing.IsValid() {
			existing = task.PriorityMedium
		}
		if existing != priority {
			continue
		}
		if t.DueDate != payload.DueDate {
			continue
		}
		if normalizeCategory(t.Category) == category {
			return true
		}
	}
	return false
}

// hasPendingInstance reports whether a non-completed task already shares
// the normalized text and due date. Recurrence rollover uses this to avoid
// inserting a next instance twice.
func hasPendingInstance(tasks []task.Task, text, dueDate string) bool {
	norm := normalizeText(text)
	for _, t := range tasks {
		if !t.Completed && normalizeText(t.Text) == norm && t.DueDate == dueDate {
			return true
		}
	}
	return false
}

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func normalizeCategory(category string) string {
	cleaned := strings.ToLower(nlp.SanitizePlainText(category))
	if cleaned == "" {
		return task.DefaultCategory
	}
	return cleaned
}
