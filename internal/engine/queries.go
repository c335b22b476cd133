package engine

import (
	"strings"
	"time"

	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/task"
)

// Read-only views over a task list. None of these take the mutation lock;
// they are snapshots that may race with an in-flight mutation.

// DueOn returns pending tasks due exactly on the given canonical date.
func DueOn(tasks []task.Task, date string) []task.Task {
	return filterTasks(tasks, func(t task.Task) bool {
		return !t.Completed && t.DueDate == date
	})
}

// DueToday returns pending tasks due today.
func DueToday(tasks []task.Task, now time.Time) []task.Task {
	return DueOn(tasks, now.Format(nlp.DateLayout))
}

// DueTomorrow returns pending tasks due tomorrow.
func DueTomorrow(tasks []task.Task, now time.Time) []task.Task {
	return DueOn(tasks, now.AddDate(0, 0, 1).Format(nlp.DateLayout))
}

// DueThisWeek returns pending tasks due within the next 7 days, today
// included.
func DueThisWeek(tasks []task.Task, now time.Time) []task.Task {
	start := now.Format(nlp.DateLayout)
	end := now.AddDate(0, 0, 7).Format(nlp.DateLayout)
	return filterTasks(tasks, func(t task.Task) bool {
		return !t.Completed && t.DueDate != "" && t.DueDate >= start && t.DueDate <= end
	})
}

// Overdue returns pending tasks whose due date has passed.
func Overdue(tasks []task.Task, now time.Time) []task.Task {
	today := now.Format(nlp.DateLayout)
	return filterTasks(tasks, func(t task.Task) bool {
		return !t.Completed && t.DueDate != "" && t.DueDate < today
	})
}

// Pending returns tasks not yet completed.
func Pending(tasks []task.Task) []task.Task {
	return filterTasks(tasks, func(t task.Task) bool { return !t.Completed })
}

// CompletedTasks returns all completed tasks.
func CompletedTasks(tasks []task.Task) []task.Task {
	return filterTasks(tasks, func(t task.Task) bool { return t.Completed })
}

// WithoutDueDate returns pending tasks with no due date.
func WithoutDueDate(tasks []task.Task) []task.Task {
	return filterTasks(tasks, func(t task.Task) bool {
		return !t.Completed && t.DueDate == ""
	})
}

// ByCategory returns pending tasks in the given category.
func ByCategory(tasks []task.Task, category string) []task.Task {
	category = strings.ToLower(category)
	return filterTasks(tasks, func(t task.Task) bool {
		return !t.Completed && strings.ToLower(t.Category) == category
	})
}

// ByPriority returns pending tasks with the given priority.
func ByPriority(tasks []task.Task, priority task.Priority) []task.Task {
	return filterTasks(tasks, func(t task.Task) bool {
		return !t.Completed && t.Priority == priority
	})
}

// Search returns tasks whose text contains the keyword, case-insensitive.
func Search(tasks []task.Task, keyword string) []task.Task {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	return filterTasks(tasks, func(t task.Task) bool {
		return strings.Contains(strings.ToLower(t.Text), keyword)
	})
}

func filterTasks(tasks []task.Task, keep func(task.Task) bool) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Stats summarizes a task list.
type Stats struct {
	Total          int                   `json:"total"`
	Completed      int                   `json:"completed"`
	Pending        int                   `json:"pending"`
	Overdue        int                   `json:"overdue"`
	CompletionRate float64               `json:"completion_rate"`
	ByPriority     map[task.Priority]int `json:"by_priority"`
	ByCategory     map[string]int        `json:"by_category"`
}

// Statistics computes summary numbers for the list. Priority and category
// breakdowns count pending tasks only.
func Statistics(tasks []task.Task, now time.Time) Stats {
	stats := Stats{
		Total:      len(tasks),
		ByPriority: map[task.Priority]int{},
		ByCategory: map[string]int{},
	}

	today := now.Format(nlp.DateLayout)
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
			continue
		}
		stats.Pending++
		stats.ByPriority[t.Priority]++
		stats.ByCategory[t.Category]++
		if t.DueDate != "" && t.DueDate < today {
			stats.Overdue++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}

	return stats
}
