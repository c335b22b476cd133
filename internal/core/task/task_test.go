package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, Payload{Priority: PriorityHigh}.EffectivePriority())
	assert.Equal(t, PriorityMedium, Payload{}.EffectivePriority())
	assert.Equal(t, PriorityMedium, Payload{Priority: "urgent"}.EffectivePriority())
}

func TestEffectiveCategory(t *testing.T) {
	assert.Equal(t, "shopping", Payload{Category: "shopping"}.EffectiveCategory())
	assert.Equal(t, DefaultCategory, Payload{}.EffectiveCategory())
}

func TestHasWeekday(t *testing.T) {
	assert.True(t, NewWeekdayRecurrence(0).HasWeekday())
	assert.True(t, NewWeekdayRecurrence(6).HasWeekday())
	assert.False(t, NewRecurrence(RecurWeekly, 1).HasWeekday())
	assert.False(t, (*Recurrence)(nil).HasWeekday())
}

func TestCloneSubtasksReset(t *testing.T) {
	now := time.Now()
	original := []Subtask{
		{ID: "a", Text: "prep", Completed: true, CompletedAt: &now},
		{ID: "b", Text: "send"},
	}

	clone := CloneSubtasksReset(original)
	require.Len(t, clone, 2)
	for i, st := range clone {
		assert.Equal(t, original[i].ID, st.ID)
		assert.Equal(t, original[i].Text, st.Text)
		assert.False(t, st.Completed)
		assert.Nil(t, st.CompletedAt)
	}

	// original untouched
	assert.True(t, original[0].Completed)
	assert.Nil(t, CloneSubtasksReset(nil))
}
