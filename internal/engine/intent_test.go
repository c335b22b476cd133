package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskwise/internal/core/task"
)

type stubEnricher struct {
	payloads []task.Payload
	err      error
	calls    int
}

func (s *stubEnricher) ExtractTasks(ctx context.Context, message string, now time.Time) ([]task.Payload, error) {
	s.calls++
	return s.payloads, s.err
}

func TestProcessCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("add command creates parsed task", func(t *testing.T) {
		e := newTestEngine(t)

		tasks, result := e.ProcessCommand(ctx, nil, "Add buy groceries tomorrow with high priority")
		require.True(t, result.Success)
		require.Len(t, tasks, 1)
		assert.Equal(t, "buy groceries", tasks[0].Text)
		assert.Equal(t, task.PriorityHigh, tasks[0].Priority)
		assert.Equal(t, "2025-01-16", tasks[0].DueDate)
		assert.Equal(t, "shopping", tasks[0].Category)
	})

	t.Run("batch add creates multiple tasks", func(t *testing.T) {
		e := newTestEngine(t)

		tasks, result := e.ProcessCommand(ctx, nil, "add call mom and buy milk and clean the garage")
		require.True(t, result.Success)
		assert.Len(t, tasks, 3)
	})

	t.Run("complete command", func(t *testing.T) {
		e := newTestEngine(t)
		tasks, _ := e.Create(nil, task.Payload{Text: "call dentist about appointment"})

		tasks, result := e.ProcessCommand(ctx, tasks, "mark the dentist appointment as done")
		require.True(t, result.Success)
		assert.True(t, tasks[0].Completed)
	})

	t.Run("delete command", func(t *testing.T) {
		e := newTestEngine(t)
		tasks, _ := e.Create(nil, task.Payload{Text: "old newsletter draft"})

		tasks, result := e.ProcessCommand(ctx, tasks, "delete the newsletter draft")
		require.True(t, result.Success)
		assert.Empty(t, tasks)
	})

	t.Run("due date change", func(t *testing.T) {
		e := newTestEngine(t)
		tasks, _ := e.Create(nil, task.Payload{Text: "submit expense report", DueDate: "2025-01-17"})

		tasks, result := e.ProcessCommand(ctx, tasks, "move the deadline for the expense report to next friday")
		require.True(t, result.Success)
		assert.Equal(t, "2025-01-24", tasks[0].DueDate)
	})

	t.Run("priority change", func(t *testing.T) {
		e := newTestEngine(t)
		tasks, _ := e.Create(nil, task.Payload{Text: "submit expense report"})

		tasks, result := e.ProcessCommand(ctx, tasks, "make the expense report priority urgent")
		require.True(t, result.Success)
		assert.Equal(t, task.PriorityHigh, tasks[0].Priority)
	})

	t.Run("query due today", func(t *testing.T) {
		e := newTestEngine(t)
		tasks, _ := e.Create(nil, task.Payload{Text: "water plants", DueDate: "2025-01-15"})
		tasks, _ = e.Create(tasks, task.Payload{Text: "pay rent", DueDate: "2025-02-01"})

		_, result := e.ProcessCommand(ctx, tasks, "what is due today?")
		require.True(t, result.Success)
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, "water plants", result.Tasks[0].Text)
	})

	t.Run("search command", func(t *testing.T) {
		e := newTestEngine(t)
		tasks, _ := e.Create(nil, task.Payload{Text: "buy groceries for party"})
		tasks, _ = e.Create(tasks, task.Payload{Text: "call plumber"})

		_, result := e.ProcessCommand(ctx, tasks, "search for groceries")
		require.True(t, result.Success)
		require.Len(t, result.Tasks, 1)
	})

	t.Run("unrecognized message returns help", func(t *testing.T) {
		e := newTestEngine(t)

		_, result := e.ProcessCommand(ctx, nil, "blue skies over the bay")
		assert.False(t, result.Success)
		assert.Equal(t, ReasonInvalid, result.Reason)
		assert.NotEmpty(t, result.Message)
	})
}

func TestProcessCommand_Enrichment(t *testing.T) {
	ctx := context.Background()

	t.Run("enrichment payloads win when available", func(t *testing.T) {
		enricher := &stubEnricher{payloads: []task.Payload{
			{Text: "book flight to denver", Priority: task.PriorityHigh, DueDate: "2025-02-01", Category: "personal"},
		}}
		e := New(Options{Now: func() time.Time { return fixedNow }, Enricher: enricher})

		tasks, result := e.ProcessCommand(ctx, nil, "add that denver trip thing")
		require.True(t, result.Success)
		require.Len(t, tasks, 1)
		assert.Equal(t, "book flight to denver", tasks[0].Text)
		assert.Equal(t, 1, enricher.calls)
	})

	t.Run("falls back to local parsing on enrichment error", func(t *testing.T) {
		enricher := &stubEnricher{err: errors.New("upstream 500")}
		e := New(Options{Now: func() time.Time { return fixedNow }, Enricher: enricher})

		tasks, result := e.ProcessCommand(ctx, nil, "add buy groceries tomorrow")
		require.True(t, result.Success)
		require.Len(t, tasks, 1)
		assert.Equal(t, "buy groceries", tasks[0].Text)
		assert.Equal(t, "2025-01-16", tasks[0].DueDate)
	})
}

func TestExtractDueDateChange(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantRef    string
		wantPhrase string
	}{
		{
			name:       "verb phrase with preposition",
			message:    "change the due date of the expense report to tomorrow",
			wantRef:    "the expense report",
			wantPhrase: "tomorrow",
		},
		{
			name:       "multi token date phrase",
			message:    "move the deadline for groceries to next friday",
			wantRef:    "groceries",
			wantPhrase: "next friday",
		},
		{
			name:       "no date phrase",
			message:    "change the due date of the report",
			wantRef:    "",
			wantPhrase: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, phrase := extractDueDateChange(tt.message, fixedNow)
			assert.Equal(t, tt.wantPhrase, phrase)
			if tt.wantRef != "" {
				assert.Equal(t, tt.wantRef, ref)
			}
		})
	}
}

func TestExtractPriorityChange(t *testing.T) {
	ref, word := extractPriorityChange("set the priority of the expense report to urgent")
	assert.Equal(t, "urgent", word)
	assert.Contains(t, ref, "expense report")

	_, word = extractPriorityChange("set the priority of the report to purple")
	assert.Empty(t, word)
}
