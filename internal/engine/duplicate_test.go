package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/taskwise/internal/core/task"
)

func TestIsDuplicate(t *testing.T) {
	existing := []task.Task{
		{Text: "Pay rent", Priority: task.PriorityHigh, DueDate: "2025-02-01", Category: "finance"},
		{Text: "water plants", Priority: task.PriorityMedium, Category: "home"},
		{Text: "buy milk"},
	}

	tests := []struct {
		name    string
		payload task.Payload
		want    bool
	}{
		{
			name:    "all four fields match",
			payload: task.Payload{Text: "Pay rent", Priority: task.PriorityHigh, DueDate: "2025-02-01", Category: "finance"},
			want:    true,
		},
		{
			name:    "text comparison is case insensitive",
			payload: task.Payload{Text: "  PAY RENT  ", Priority: task.PriorityHigh, DueDate: "2025-02-01", Category: "Finance"},
			want:    true,
		},
		{
			name:    "different priority is a distinct task",
			payload: task.Payload{Text: "Pay rent", Priority: task.PriorityLow, DueDate: "2025-02-01", Category: "finance"},
			want:    false,
		},
		{
			name:    "different due date is a distinct task",
			payload: task.Payload{Text: "Pay rent", Priority: task.PriorityHigh, DueDate: "2025-03-01", Category: "finance"},
			want:    false,
		},
		{
			name:    "different category is a distinct task",
			payload: task.Payload{Text: "Pay rent", Priority: task.PriorityHigh, DueDate: "2025-02-01", Category: "bills"},
			want:    false,
		},
		{
			name:    "absent priority defaults to medium",
			payload: task.Payload{Text: "water plants", Category: "home"},
			want:    true,
		},
		{
			name:    "absent category defaults to general",
			payload: task.Payload{Text: "buy milk", Priority: task.PriorityMedium, Category: "general"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicate(tt.payload, existing))
		})
	}
}

func TestHasPendingInstance(t *testing.T) {
	tasks := []task.Task{
		{Text: "Water plants", DueDate: "2025-01-16"},
		{Text: "standup", DueDate: "2025-01-20", Completed: true},
	}

	assert.True(t, hasPendingInstance(tasks, "water plants", "2025-01-16"))
	assert.False(t, hasPendingInstance(tasks, "water plants", "2025-01-17"))
	// completed instances don't count
	assert.False(t, hasPendingInstance(tasks, "standup", "2025-01-20"))
}
