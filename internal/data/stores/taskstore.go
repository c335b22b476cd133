package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/internal/data/db"
	"github.com/colonyops/taskwise/pkg/randid"
)

// TaskStore implements task.Store using SQLite.
type TaskStore struct {
	db *db.DB
}

var _ task.Store = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = "id, text, priority, due_date, category, completed, completed_at, created_at, updated_at, recurring, subtasks, created_by"

// Create persists a new task. Generates an ID and timestamps if not set.
func (s *TaskStore) Create(ctx context.Context, t *task.Task) error {
	if t.ID == "" {
		t.ID = randid.Generate(8)
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	if !t.Priority.IsValid() {
		t.Priority = task.PriorityMedium
	}
	if t.Category == "" {
		t.Category = task.DefaultCategory
	}

	recurring, subtasks, err := marshalExtras(*t)
	if err != nil {
		return err
	}

	_, err = s.db.Conn().ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID,
		t.Text,
		string(t.Priority),
		toNullString(t.DueDate),
		t.Category,
		boolToInt(t.Completed),
		timeToNullInt(t.CompletedAt),
		t.CreatedAt.UnixNano(),
		t.UpdatedAt.UnixNano(),
		recurring,
		subtasks,
		toNullString(t.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// Get returns a single task by ID.
func (s *TaskStore) Get(ctx context.Context, id string) (task.Task, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)

	t, err := scanTask(row)
	if err != nil {
		if IsNotFoundError(err) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}

	return t, nil
}

// List returns tasks matching the filter, ordered by created_at ASC.
func (s *TaskStore) List(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	var conds []string
	var args []any

	if filter.Completed != nil {
		conds = append(conds, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, string(filter.Priority))
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Update overwrites a task by ID.
func (s *TaskStore) Update(ctx context.Context, t task.Task) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}

	recurring, subtasks, err := marshalExtras(t)
	if err != nil {
		return err
	}

	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE tasks SET text = ?, priority = ?, due_date = ?, category = ?,
			completed = ?, completed_at = ?, updated_at = ?, recurring = ?,
			subtasks = ?, created_by = ? WHERE id = ?`,
		t.Text,
		string(t.Priority),
		toNullString(t.DueDate),
		t.Category,
		boolToInt(t.Completed),
		timeToNullInt(t.CompletedAt),
		t.UpdatedAt.UnixNano(),
		recurring,
		subtasks,
		toNullString(t.CreatedBy),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if n == 0 {
		return task.ErrNotFound
	}

	return nil
}

// Delete removes a task by ID.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if n == 0 {
		return task.ErrNotFound
	}

	return nil
}

// Replace atomically swaps the full task list. The engine returns a complete
// post-command task list; the previous rows are discarded in the same
// transaction.
func (s *TaskStore) Replace(ctx context.Context, tasks []task.Task) error {
	err := s.replace(ctx, tasks)
	if IsBusyError(err) {
		// The busy_timeout pragma does not cover a writer that holds the
		// lock past the timeout; those still surface as SQLITE_BUSY.
		err = s.replace(ctx, tasks)
	}
	return err
}

func (s *TaskStore) replace(ctx context.Context, tasks []task.Task) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}

		for _, t := range tasks {
			recurring, subtasks, err := marshalExtras(t)
			if err != nil {
				return err
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				t.ID,
				t.Text,
				string(t.Priority),
				toNullString(t.DueDate),
				t.Category,
				boolToInt(t.Completed),
				timeToNullInt(t.CompletedAt),
				t.CreatedAt.UnixNano(),
				t.UpdatedAt.UnixNano(),
				recurring,
				subtasks,
				toNullString(t.CreatedBy),
			)
			if err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
		}

		return nil
	})
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t           task.Task
		priority    string
		dueDate     sql.NullString
		completed   int
		completedAt sql.NullInt64
		createdAt   int64
		updatedAt   int64
		recurring   sql.NullString
		subtasks    sql.NullString
		createdBy   sql.NullString
	)

	err := row.Scan(&t.ID, &t.Text, &priority, &dueDate, &t.Category,
		&completed, &completedAt, &createdAt, &updatedAt,
		&recurring, &subtasks, &createdBy)
	if err != nil {
		return task.Task{}, err
	}

	t.Priority = task.Priority(priority)
	t.DueDate = dueDate.String
	t.Completed = completed != 0
	if completedAt.Valid {
		at := time.Unix(0, completedAt.Int64)
		t.CompletedAt = &at
	}
	t.CreatedAt = time.Unix(0, createdAt)
	t.UpdatedAt = time.Unix(0, updatedAt)
	t.CreatedBy = createdBy.String

	if recurring.Valid && recurring.String != "" {
		var r task.Recurrence
		if err := json.Unmarshal([]byte(recurring.String), &r); err != nil {
			return task.Task{}, fmt.Errorf("decode recurrence: %w", err)
		}
		t.Recurring = &r
	}
	if subtasks.Valid && subtasks.String != "" {
		if err := json.Unmarshal([]byte(subtasks.String), &t.Subtasks); err != nil {
			return task.Task{}, fmt.Errorf("decode subtasks: %w", err)
		}
	}

	return t, nil
}

func marshalExtras(t task.Task) (recurring, subtasks sql.NullString, err error) {
	if t.Recurring != nil {
		data, merr := json.Marshal(t.Recurring)
		if merr != nil {
			return recurring, subtasks, fmt.Errorf("encode recurrence: %w", merr)
		}
		recurring = sql.NullString{String: string(data), Valid: true}
	}
	if len(t.Subtasks) > 0 {
		data, merr := json.Marshal(t.Subtasks)
		if merr != nil {
			return recurring, subtasks, fmt.Errorf("encode subtasks: %w", merr)
		}
		subtasks = sql.NullString{String: string(data), Valid: true}
	}
	return recurring, subtasks, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timeToNullInt(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
