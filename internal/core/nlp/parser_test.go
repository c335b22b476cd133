package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskwise/internal/core/task"
)

func TestParseSingleTask(t *testing.T) {
	t.Run("extracts date priority and category", func(t *testing.T) {
		payload, ok := ParseSingleTask("Add buy groceries tomorrow with high priority", wednesday)
		require.True(t, ok)
		assert.Equal(t, "buy groceries", payload.Text)
		assert.Equal(t, task.PriorityHigh, payload.Priority)
		assert.Equal(t, "2025-01-16", payload.DueDate)
		assert.Equal(t, "shopping", payload.Category)
	})

	t.Run("strips conversational opener", func(t *testing.T) {
		payload, ok := ParseSingleTask("remind me to call the dentist", wednesday)
		require.True(t, ok)
		assert.Equal(t, "call the dentist", payload.Text)
		assert.Equal(t, "health", payload.Category)
	})

	t.Run("defaults to medium priority and no date", func(t *testing.T) {
		payload, ok := ParseSingleTask("add water plants", wednesday)
		require.True(t, ok)
		assert.Equal(t, task.PriorityMedium, payload.Priority)
		assert.Empty(t, payload.DueDate)
	})

	t.Run("multi token date phrase wins over its suffix", func(t *testing.T) {
		payload, ok := ParseSingleTask("schedule dentist appointment next friday with high priority", wednesday)
		require.True(t, ok)
		assert.Equal(t, "dentist appointment", payload.Text)
		assert.Equal(t, "2025-01-24", payload.DueDate)
		assert.Equal(t, task.PriorityHigh, payload.Priority)
	})

	t.Run("weekday recurrence seeds the first due date", func(t *testing.T) {
		payload, ok := ParseSingleTask("Remind me to water the plants every monday", wednesday)
		require.True(t, ok)
		assert.Equal(t, "water the plants", payload.Text)
		require.NotNil(t, payload.Recurring)
		assert.Equal(t, task.RecurWeekly, payload.Recurring.Type)
		assert.Equal(t, int(1), payload.Recurring.DayOfWeek)
		assert.Equal(t, "2025-01-20", payload.DueDate)
	})

	t.Run("daily recurrence without date stays undated", func(t *testing.T) {
		payload, ok := ParseSingleTask("add stretch daily", wednesday)
		require.True(t, ok)
		require.NotNil(t, payload.Recurring)
		assert.Equal(t, task.RecurDaily, payload.Recurring.Type)
		assert.Empty(t, payload.DueDate)
	})

	t.Run("no usable description", func(t *testing.T) {
		_, ok := ParseSingleTask("add tomorrow", wednesday)
		assert.False(t, ok)

		_, ok = ParseSingleTask("", wednesday)
		assert.False(t, ok)
	})
}

func TestParseTasks(t *testing.T) {
	t.Run("single task message yields one payload", func(t *testing.T) {
		payloads := ParseTasks("add pay rent", wednesday)
		require.Len(t, payloads, 1)
		assert.Equal(t, "pay rent", payloads[0].Text)
	})

	t.Run("conjunctions split into independent tasks", func(t *testing.T) {
		payloads := ParseTasks("add call mom and buy milk and clean the garage", wednesday)
		require.Len(t, payloads, 3)
		assert.Equal(t, "call mom", payloads[0].Text)
		assert.Equal(t, "buy milk", payloads[1].Text)
		assert.Equal(t, "clean the garage", payloads[2].Text)
		assert.Equal(t, "social", payloads[0].Category)
		assert.Equal(t, "shopping", payloads[1].Category)
		assert.Equal(t, "home", payloads[2].Category)
	})

	t.Run("each segment keeps its own attributes", func(t *testing.T) {
		payloads := ParseTasks("add file taxes tomorrow with high priority and also book haircut", wednesday)
		require.Len(t, payloads, 2)
		assert.Equal(t, "2025-01-16", payloads[0].DueDate)
		assert.Equal(t, task.PriorityHigh, payloads[0].Priority)
		assert.Empty(t, payloads[1].DueDate)
		assert.Equal(t, task.PriorityMedium, payloads[1].Priority)
	})

	t.Run("unusable segments are dropped", func(t *testing.T) {
		payloads := ParseTasks("add buy milk and x", wednesday)
		require.Len(t, payloads, 1)
		assert.Equal(t, "buy milk", payloads[0].Text)
	})

	t.Run("nothing parseable yields nil", func(t *testing.T) {
		assert.Nil(t, ParseTasks("add", wednesday))
	})
}
