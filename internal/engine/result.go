// Package engine applies natural-language task commands to a task list.
// Every mutating operation takes the current list and returns the updated
// list plus a structured result; the engine holds no task state between
// calls.
package engine

import "github.com/colonyops/taskwise/internal/core/task"

// Reason classifies why a command did not succeed. All reasons are
// recoverable by the caller; none is a process-level error.
type Reason string

const (
	// ReasonInvalid means parsing produced no usable task text.
	ReasonInvalid Reason = "invalid"
	// ReasonInvalidDate means a date was provided but could not be
	// normalized to a real calendar date.
	ReasonInvalidDate Reason = "invalid-date"
	// ReasonDuplicate means the create would exactly replicate an existing
	// task; the operation is a no-op.
	ReasonDuplicate Reason = "duplicate"
	// ReasonLocked means another mutation holds the task-list lock.
	ReasonLocked Reason = "locked"
	// ReasonNotFound means no task matched the reference.
	ReasonNotFound Reason = "not-found"
	// ReasonAmbiguous means several tasks tied as the best match; no
	// mutation occurred.
	ReasonAmbiguous Reason = "ambiguous"
)

// CommandResult is the structured outcome of a command.
type CommandResult struct {
	Success         bool                `json:"success"`
	Reason          Reason              `json:"reason,omitempty"`
	Task            *task.Task          `json:"task,omitempty"`
	Tasks           []task.Task         `json:"tasks,omitempty"`
	TaskName        string              `json:"task_name,omitempty"`
	Message         string              `json:"message,omitempty"`
	MultipleMatches bool                `json:"multiple_matches,omitempty"`
	Matches         []task.MatchSummary `json:"matches,omitempty"`
}

func lockedResult() CommandResult {
	return CommandResult{
		Reason:  ReasonLocked,
		Message: "Another task update is currently running. Please try again shortly.",
	}
}

func summaries(candidates []task.MatchCandidate) []task.MatchSummary {
	out := make([]task.MatchSummary, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Task.Summary())
	}
	return out
}
