// Package task defines the task domain model shared by the command engine,
// the stores, and the CLI.
package task

import "time"

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the three known priority levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DefaultCategory is assigned when a task carries no explicit category.
const DefaultCategory = "general"

// RecurType classifies how often a recurring task repeats.
type RecurType string

const (
	RecurDaily   RecurType = "daily"
	RecurWeekly  RecurType = "weekly"
	RecurMonthly RecurType = "monthly"
)

// Recurrence describes how a completed task regenerates its next instance.
// DayOfWeek is only meaningful for weekly rules; -1 means unset.
type Recurrence struct {
	Type      RecurType `json:"type"`
	Interval  int       `json:"interval"`
	DayOfWeek int       `json:"day_of_week"`
}

// NewRecurrence builds a rule with no explicit weekday.
func NewRecurrence(t RecurType, interval int) *Recurrence {
	return &Recurrence{Type: t, Interval: interval, DayOfWeek: -1}
}

// NewWeekdayRecurrence builds a weekly rule anchored to a weekday (0=Sunday).
func NewWeekdayRecurrence(dayOfWeek int) *Recurrence {
	return &Recurrence{Type: RecurWeekly, Interval: 1, DayOfWeek: dayOfWeek}
}

// HasWeekday reports whether the rule names an explicit weekday.
func (r *Recurrence) HasWeekday() bool {
	return r != nil && r.DayOfWeek >= 0 && r.DayOfWeek <= 6
}

// Subtask is a single checklist entry under a task.
type Subtask struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Task is a single tracked item. DueDate, when non-empty, is always a
// validated canonical YYYY-MM-DD string. Invariant: Completed == false
// implies CompletedAt == nil.
type Task struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Priority    Priority    `json:"priority"`
	DueDate     string      `json:"due_date,omitempty"`
	Category    string      `json:"category"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Recurring   *Recurrence `json:"recurring,omitempty"`
	Subtasks    []Subtask   `json:"subtasks,omitempty"`
	CreatedBy   string      `json:"created_by,omitempty"`
}

// Payload is an unsaved candidate task produced by parsing. Empty fields
// mean "unspecified", which callers distinguish from explicitly-invalid
// values they rejected earlier.
type Payload struct {
	Text      string      `json:"text"`
	Priority  Priority    `json:"priority,omitempty"`
	DueDate   string      `json:"due_date,omitempty"`
	Category  string      `json:"category,omitempty"`
	Recurring *Recurrence `json:"recurring,omitempty"`
	Subtasks  []Subtask   `json:"subtasks,omitempty"`
}

// EffectivePriority returns the payload priority, defaulting to medium.
func (p Payload) EffectivePriority() Priority {
	if p.Priority.IsValid() {
		return p.Priority
	}
	return PriorityMedium
}

// EffectiveCategory returns the payload category, defaulting to "general".
func (p Payload) EffectiveCategory() string {
	if p.Category == "" {
		return DefaultCategory
	}
	return p.Category
}

// MatchCandidate pairs a task with its fuzzy-match score. Ephemeral, never
// persisted.
type MatchCandidate struct {
	Task              Task
	Score             float64
	IntersectionCount int
}

// MatchSummary is the compact task snapshot returned alongside ambiguous
// resolution results.
type MatchSummary struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
	DueDate  string   `json:"due_date,omitempty"`
}

// Summary converts a task to its match snapshot.
func (t Task) Summary() MatchSummary {
	return MatchSummary{ID: t.ID, Text: t.Text, Priority: t.Priority, DueDate: t.DueDate}
}

// CloneSubtasksReset deep-copies the subtask list with completion cleared.
// Used when a recurring task spawns its next instance.
func CloneSubtasksReset(subtasks []Subtask) []Subtask {
	if len(subtasks) == 0 {
		return nil
	}
	out := make([]Subtask, len(subtasks))
	for i, st := range subtasks {
		out[i] = Subtask{ID: st.ID, Text: st.Text}
	}
	return out
}
