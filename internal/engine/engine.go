package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskwise/internal/core/logging"
	"github.com/colonyops/taskwise/internal/core/match"
	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/oplock"
	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/pkg/randid"
)

// lockName is the single writer lock every task-list mutation passes
// through.
const lockName = "task_mutation"

// Enricher extracts task payloads remotely. Implementations must return an
// error on any failure so the engine can fall back to local parsing.
type Enricher interface {
	ExtractTasks(ctx context.Context, message string, now time.Time) ([]task.Payload, error)
}

// Options configures an Engine. Zero-value fields get working defaults.
type Options struct {
	Lock     *oplock.Guard
	Match    match.Config
	Enricher Enricher // nil disables enrichment
	Now      func() time.Time
	NewID    func() string
}

// Engine turns parsed commands into task-list mutations. It owns the
// mutation lock and the fuzzy resolver but never the task list itself.
type Engine struct {
	lock     *oplock.Guard
	resolver *match.Resolver
	enricher Enricher
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.Lock == nil {
		opts.Lock = oplock.New(oplock.DefaultTimeout)
	}
	if opts.Match == (match.Config{}) {
		opts.Match = match.DefaultConfig()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return randid.Generate(12) }
	}

	return &Engine{
		lock:     opts.Lock,
		resolver: match.New(opts.Match),
		enricher: opts.Enricher,
		log:      logging.Component("engine"),
		now:      opts.Now,
		newID:    opts.NewID,
	}
}

// Create validates a payload and appends the new task. Outcomes: invalid
// (no usable text), invalid-date (date provided but unparseable), duplicate,
// locked, or success.
func (e *Engine) Create(tasks []task.Task, payload task.Payload) ([]task.Task, CommandResult) {
	var result CommandResult
	ok := e.lock.With(lockName, func() {
		tasks, result = e.create(tasks, payload)
	})
	if !ok {
		return tasks, lockedResult()
	}
	return tasks, result
}

func (e *Engine) create(tasks []task.Task, payload task.Payload) ([]task.Task, CommandResult) {
	text := nlp.SanitizePlainText(payload.Text)
	if len([]rune(text)) < 2 {
		return tasks, CommandResult{Reason: ReasonInvalid, Message: "That doesn't look like a task description."}
	}

	now := e.now()
	dueDate := nlp.NormalizeDueDate(payload.DueDate, now)
	if payload.DueDate != "" && dueDate == "" {
		return tasks, CommandResult{Reason: ReasonInvalidDate, Message: fmt.Sprintf("%q is not a date I can understand.", payload.DueDate)}
	}

	clean := task.Payload{
		Text:      text,
		Priority:  payload.EffectivePriority(),
		DueDate:   dueDate,
		Category:  normalizeCategory(payload.Category),
		Recurring: payload.Recurring,
		Subtasks:  payload.Subtasks,
	}

	if IsDuplicate(clean, tasks) {
		return tasks, CommandResult{Reason: ReasonDuplicate, Message: fmt.Sprintf("You already have %q on your list.", text)}
	}

	t := task.Task{
		ID:        e.newID(),
		Text:      clean.Text,
		Priority:  clean.Priority,
		DueDate:   clean.DueDate,
		Category:  clean.Category,
		CreatedAt: now,
		UpdatedAt: now,
		Recurring: clean.Recurring,
		Subtasks:  clean.Subtasks,
	}

	e.log.Debug().Str("task_id", t.ID).Str("text", t.Text).Msg("task created")
	return append(tasks, t), CommandResult{Success: true, Task: &t, TaskName: t.Text}
}

// CreateMany creates every valid, non-duplicate payload under a single lock
// hold. Invalid and duplicate payloads are skipped silently; the result
// reports the tasks actually created.
func (e *Engine) CreateMany(tasks []task.Task, payloads []task.Payload) ([]task.Task, CommandResult) {
	var result CommandResult
	ok := e.lock.With(lockName, func() {
		var created []task.Task
		for _, payload := range payloads {
			var r CommandResult
			tasks, r = e.create(tasks, payload)
			if r.Success && r.Task != nil {
				created = append(created, *r.Task)
			}
		}

		if len(created) == 0 {
			result = CommandResult{Reason: ReasonInvalid, Message: "I couldn't find any tasks to add in that message."}
			return
		}
		result = CommandResult{Success: true, Tasks: created}
	})
	if !ok {
		return tasks, lockedResult()
	}
	return tasks, result
}

// Complete marks the referenced task completed. Only pending tasks are
// candidates. A completed recurring task spawns its next instance unless a
// pending task with the same text and due date already exists.
func (e *Engine) Complete(tasks []task.Task, reference string) ([]task.Task, CommandResult) {
	var result CommandResult
	ok := e.lock.With(lockName, func() {
		pending := make([]task.Task, 0, len(tasks))
		for _, t := range tasks {
			if !t.Completed {
				pending = append(pending, t)
			}
		}

		res := e.resolver.Resolve(reference, pending)
		target, r := e.pickTarget(res, reference, "complete")
		if target == nil {
			result = r
			return
		}

		now := e.now()
		for i := range tasks {
			if tasks[i].ID != target.ID {
				continue
			}
			tasks[i].Completed = true
			tasks[i].CompletedAt = &now
			tasks[i].UpdatedAt = now

			tasks = e.rollover(tasks, tasks[i])

			done := tasks[i]
			result = CommandResult{Success: true, Task: &done, TaskName: done.Text}
			return
		}

		result = CommandResult{Reason: ReasonNotFound, Message: "I couldn't find that task anymore."}
	})
	if !ok {
		return tasks, lockedResult()
	}
	return tasks, result
}

// rollover appends the next instance of a completed recurring task. The
// next instance keeps text, priority, category, and subtask shape (subtasks
// reset), with a fresh id and timestamps.
func (e *Engine) rollover(tasks []task.Task, completed task.Task) []task.Task {
	next, ok := nlp.NextOccurrence(completed.DueDate, completed.Recurring)
	if !ok {
		return tasks
	}
	if hasPendingInstance(tasks, completed.Text, next) {
		e.log.Debug().Str("text", completed.Text).Str("due", next).Msg("recurring instance already pending")
		return tasks
	}

	now := e.now()
	instance := task.Task{
		ID:        e.newID(),
		Text:      completed.Text,
		Priority:  completed.Priority,
		DueDate:   next,
		Category:  completed.Category,
		CreatedAt: now,
		UpdatedAt: now,
		Recurring: completed.Recurring,
		Subtasks:  task.CloneSubtasksReset(completed.Subtasks),
		CreatedBy: completed.CreatedBy,
	}

	e.log.Debug().Str("task_id", instance.ID).Str("due", next).Msg("recurring task rolled over")
	return append(tasks, instance)
}

// Delete removes the referenced task from the list.
func (e *Engine) Delete(tasks []task.Task, reference string) ([]task.Task, CommandResult) {
	var result CommandResult
	ok := e.lock.With(lockName, func() {
		res := e.resolver.Resolve(reference, tasks)
		target, r := e.pickTarget(res, reference, "delete")
		if target == nil {
			result = r
			return
		}

		for i := range tasks {
			if tasks[i].ID == target.ID {
				removed := tasks[i]
				tasks = append(tasks[:i], tasks[i+1:]...)
				result = CommandResult{Success: true, Task: &removed, TaskName: removed.Text}
				return
			}
		}

		result = CommandResult{Reason: ReasonNotFound, Message: "I couldn't find that task anymore."}
	})
	if !ok {
		return tasks, lockedResult()
	}
	return tasks, result
}

// UpdateDueDate moves the referenced task to a new due date given as a raw
// phrase ("tomorrow", "next friday", "2025-03-01").
func (e *Engine) UpdateDueDate(tasks []task.Task, reference, datePhrase string) ([]task.Task, CommandResult) {
	var result CommandResult
	ok := e.lock.With(lockName, func() {
		now := e.now()
		dueDate := nlp.NormalizeDueDate(datePhrase, now)
		if dueDate == "" {
			result = CommandResult{
				Reason:  ReasonInvalidDate,
				Message: "I couldn't understand the new due date. Try phrases like 'tomorrow', 'next friday', or 2025-01-15.",
			}
			return
		}

		res := e.resolver.Resolve(reference, tasks)
		target, r := e.pickTarget(res, reference, "update")
		if target == nil {
			result = r
			return
		}

		for i := range tasks {
			if tasks[i].ID == target.ID {
				tasks[i].DueDate = dueDate
				tasks[i].UpdatedAt = now
				updated := tasks[i]
				result = CommandResult{
					Success:  true,
					Task:     &updated,
					TaskName: updated.Text,
					Message:  fmt.Sprintf("Updated the due date for %q to %s.", updated.Text, dueDate),
				}
				return
			}
		}

		result = CommandResult{Reason: ReasonNotFound, Message: "I couldn't find that task anymore."}
	})
	if !ok {
		return tasks, lockedResult()
	}
	return tasks, result
}

// UpdatePriority sets the referenced task's priority from a free-text word.
func (e *Engine) UpdatePriority(tasks []task.Task, reference, priorityWord string) ([]task.Task, CommandResult) {
	var result CommandResult
	ok := e.lock.With(lockName, func() {
		priority, found := nlp.ParsePriorityWord(priorityWord)
		if !found {
			result = CommandResult{
				Reason:  ReasonInvalid,
				Message: "I couldn't understand the new priority. Try words like high, urgent, normal, or low.",
			}
			return
		}

		res := e.resolver.Resolve(reference, tasks)
		target, r := e.pickTarget(res, reference, "update")
		if target == nil {
			result = r
			return
		}

		for i := range tasks {
			if tasks[i].ID == target.ID {
				tasks[i].Priority = priority
				tasks[i].UpdatedAt = e.now()
				updated := tasks[i]
				result = CommandResult{
					Success:  true,
					Task:     &updated,
					TaskName: updated.Text,
					Message:  fmt.Sprintf("Set %q to %s priority.", updated.Text, priority),
				}
				return
			}
		}

		result = CommandResult{Reason: ReasonNotFound, Message: "I couldn't find that task anymore."}
	})
	if !ok {
		return tasks, lockedResult()
	}
	return tasks, result
}

// pickTarget converts a resolution into either a single target task or a
// failure result. Ambiguity reports ranked candidates and mutates nothing.
func (e *Engine) pickTarget(res match.Resolution, reference, verb string) (*task.Task, CommandResult) {
	switch res.Kind {
	case match.KindExact:
		return res.Exact, CommandResult{}
	case match.KindAmbiguous:
		return nil, CommandResult{
			Reason:          ReasonAmbiguous,
			Message:         fmt.Sprintf("I found %d tasks that could match. Please be more specific or use 'id:TASK_ID'.", len(res.Candidates)),
			MultipleMatches: true,
			Matches:         summaries(res.Candidates),
		}
	default:
		if res.ByID {
			return nil, CommandResult{
				Reason:  ReasonNotFound,
				Message: fmt.Sprintf("No task has the id %q.", res.ID),
			}
		}
		return nil, CommandResult{
			Reason:  ReasonNotFound,
			Message: fmt.Sprintf("I couldn't find a task matching %q to %s.", reference, verb),
		}
	}
}

// parsePayloads extracts payloads from a message, preferring enrichment
// when configured and falling back to local parsing on any failure.
func (e *Engine) parsePayloads(ctx context.Context, message string) []task.Payload {
	now := e.now()
	if e.enricher != nil {
		payloads, err := e.enricher.ExtractTasks(ctx, message, now)
		if err == nil && len(payloads) > 0 {
			return payloads
		}
		if err != nil {
			e.log.Warn().Err(err).Msg("enrichment failed, using local parser")
		}
	}
	return nlp.ParseTasks(message, now)
}
