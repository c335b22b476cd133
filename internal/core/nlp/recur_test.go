package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/taskwise/internal/core/task"
)

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		prev   string
		rule   *task.Recurrence
		want   string
		wantOK bool
	}{
		{
			name: "daily advances by interval",
			prev: "2025-01-15", rule: task.NewRecurrence(task.RecurDaily, 1),
			want: "2025-01-16", wantOK: true,
		},
		{
			name: "daily with larger interval",
			prev: "2025-01-15", rule: task.NewRecurrence(task.RecurDaily, 3),
			want: "2025-01-18", wantOK: true,
		},
		{
			name: "weekly advances by whole weeks",
			prev: "2025-01-15", rule: task.NewRecurrence(task.RecurWeekly, 2),
			want: "2025-01-29", wantOK: true,
		},
		{
			name: "weekday rule always advances exactly one week",
			prev: "2025-01-13", rule: task.NewWeekdayRecurrence(1),
			want: "2025-01-20", wantOK: true,
		},
		{
			name: "monthly keeps the day of month",
			prev: "2025-01-15", rule: task.NewRecurrence(task.RecurMonthly, 1),
			want: "2025-02-15", wantOK: true,
		},
		{
			name: "monthly rolls past short months",
			prev: "2025-01-31", rule: task.NewRecurrence(task.RecurMonthly, 1),
			want: "2025-03-03", wantOK: true,
		},
		{
			name: "zero interval is treated as one",
			prev: "2025-01-15", rule: task.NewRecurrence(task.RecurDaily, 0),
			want: "2025-01-16", wantOK: true,
		},
		{
			name: "missing previous date",
			prev: "", rule: task.NewRecurrence(task.RecurDaily, 1),
		},
		{
			name: "nil rule",
			prev: "2025-01-15", rule: nil,
		},
		{
			name: "unparseable previous date",
			prev: "sometime", rule: task.NewRecurrence(task.RecurDaily, 1),
		},
		{
			name: "unknown recurrence type",
			prev: "2025-01-15", rule: &task.Recurrence{Type: "yearly", Interval: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(tt.prev, tt.rule)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
