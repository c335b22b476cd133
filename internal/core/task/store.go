package task

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrDuplicate is returned when a create would exactly replicate an
	// existing task.
	ErrDuplicate = errors.New("duplicate task")
)

// ListFilter controls which tasks are returned by List.
type ListFilter struct {
	Completed *bool    // nil means all
	Category  string   // empty means all categories
	Priority  Priority // empty means all priorities
}

// Store defines the interface for task persistence. The command engine
// never touches a Store directly; the host loads the list, runs the
// engine, and writes the returned list back.
type Store interface {
	// Create persists a new task. The store populates ID, CreatedAt, and
	// UpdatedAt if not already set.
	Create(ctx context.Context, t *Task) error

	// Get returns a single task by ID.
	// Returns ErrNotFound if the task does not exist.
	Get(ctx context.Context, id string) (Task, error)

	// List returns tasks matching the filter, ordered by created_at ASC.
	List(ctx context.Context, filter ListFilter) ([]Task, error)

	// Update overwrites a task by ID.
	// Returns ErrNotFound if the task does not exist.
	Update(ctx context.Context, t Task) error

	// Delete removes a task by ID.
	// Returns ErrNotFound if the task does not exist.
	Delete(ctx context.Context, id string) error

	// Replace atomically swaps the full task list for the engine's
	// returned state.
	Replace(ctx context.Context, tasks []Task) error
}
