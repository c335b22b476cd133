package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/task"
)

func fixture() []task.Task {
	return []task.Task{
		{ID: "t1", Text: "Buy groceries for party"},
		{ID: "t2", Text: "Call dentist about appointment"},
		{ID: "t3", Text: "Call mom"},
		{ID: "t4", Text: "Call dad"},
	}
}

func TestExtractID(t *testing.T) {
	id, ok := ExtractID("delete id:abc123 please")
	require.True(t, ok)
	assert.Equal(t, "abc123", id)

	_, ok = ExtractID("delete the groceries task")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	r := New(DefaultConfig())

	t.Run("unique partial reference is exact", func(t *testing.T) {
		res := r.Resolve("groceries", fixture())
		require.Equal(t, KindExact, res.Kind)
		assert.Equal(t, "t1", res.Exact.ID)
	})

	t.Run("exact text outranks partial overlap", func(t *testing.T) {
		res := r.Resolve("call mom", fixture())
		require.Equal(t, KindExact, res.Kind)
		assert.Equal(t, "t3", res.Exact.ID)
	})

	t.Run("tied score is ambiguous", func(t *testing.T) {
		res := r.Resolve("call", fixture())
		require.Equal(t, KindAmbiguous, res.Kind)
		assert.Nil(t, res.Exact)
		assert.Len(t, res.Candidates, 3)
	})

	t.Run("ambiguous candidates are capped", func(t *testing.T) {
		tasks := []task.Task{
			{ID: "a", Text: "review budget"},
			{ID: "b", Text: "review slides"},
			{ID: "c", Text: "review notes"},
			{ID: "d", Text: "review photos"},
		}
		res := New(Config{ScoreThreshold: 0.5, MinIntersection: 2, ShortReferenceTokens: 3, MaxSuggestions: 2}).
			Resolve("review", tasks)
		require.Equal(t, KindAmbiguous, res.Kind)
		assert.Len(t, res.Candidates, 2)
	})

	t.Run("no overlap is none", func(t *testing.T) {
		res := r.Resolve("water plants", fixture())
		assert.Equal(t, KindNone, res.Kind)
	})

	t.Run("stopword-only reference is none", func(t *testing.T) {
		res := r.Resolve("the task", fixture())
		assert.Equal(t, KindNone, res.Kind)
	})

	t.Run("id token short-circuits scoring", func(t *testing.T) {
		res := r.Resolve("complete id:t4", fixture())
		require.Equal(t, KindExact, res.Kind)
		assert.True(t, res.ByID)
		assert.Equal(t, "t4", res.Exact.ID)
	})

	t.Run("unknown id is none with the id recorded", func(t *testing.T) {
		res := r.Resolve("id:nope", fixture())
		assert.Equal(t, KindNone, res.Kind)
		assert.True(t, res.ByID)
		assert.Equal(t, "nope", res.ID)
	})
}

func TestScoreOrdering(t *testing.T) {
	r := New(DefaultConfig())

	// both share tokens with the reference, the fuller overlap must rank first
	tasks := []task.Task{
		{ID: "partial", Text: "dentist visit"},
		{ID: "full", Text: "dentist appointment tuesday"},
	}
	res := r.Resolve("dentist appointment", tasks)
	require.Equal(t, KindExact, res.Kind)
	assert.Equal(t, "full", res.Exact.ID)
}

func TestScoreTokenOverlap(t *testing.T) {
	// Neither text contains the other, so the score is the shared token
	// count, nothing more.
	ref := nlp.NormalizeForMatching("dentist appointment reminder")
	c, ok := score(ref, task.Task{ID: "x", Text: "dentist checkup appointment"})
	require.True(t, ok)
	assert.Equal(t, 2, c.IntersectionCount)
	assert.Equal(t, float64(2), c.Score)
}
