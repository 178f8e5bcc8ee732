package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
)

const taskColumns = `id, title, description, deadline, date_of_creation, completed, completed_at, image_path`

// CreateTask inserts a new incomplete task with its tags and returns its id
func (db *DB) CreateTask(in models.TaskInput) (int64, error) {
	in, err := in.Normalize()
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO tasks (title, description, deadline, date_of_creation, completed, image_path)
			VALUES (?, ?, ?, ?, 0, ?)
		`, in.Title, in.Description, formatTime(in.Deadline), formatTime(now()), nullString(in.ImagePath))
		if err != nil {
			return fmt.Errorf("inserting task: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("getting task id: %w", err)
		}
		return addTagsToTask(tx, id, in.Tags)
	})
	if err != nil {
		logger.Error("CreateTask %q: %v", in.Title, err)
		return 0, err
	}

	logger.Info("created task %d %q", id, in.Title)
	return id, nil
}

// GetTask retrieves a task by ID with its tags
func (db *DB) GetTask(id int64) (*models.Task, error) {
	t, err := scanTask(db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if t.Tags, err = tagsForTask(db, id); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns all tasks, incomplete first, then by deadline
func (db *DB) ListTasks() ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY completed ASC, deadline ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags, err := tagsByTask(db)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Tags = tags[tasks[i].ID]
	}
	return tasks, nil
}

// UpdateTask overwrites a task's editable fields and replaces its tags.
// The creation time and completion state are left alone.
func (db *DB) UpdateTask(id int64, in models.TaskInput) error {
	in, err := in.Normalize()
	if err != nil {
		return err
	}

	err = db.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE tasks SET title = ?, description = ?, deadline = ?, image_path = ?
			WHERE id = ?
		`, in.Title, in.Description, formatTime(in.Deadline), nullString(in.ImagePath), id)
		if err != nil {
			return fmt.Errorf("updating task %d: %w", id, err)
		}
		if err := requireAffected(result, id); err != nil {
			return err
		}
		if err := clearTagsForTask(tx, id); err != nil {
			return err
		}
		return addTagsToTask(tx, id, in.Tags)
	})
	if err != nil {
		logger.Error("UpdateTask %d: %v", id, err)
		return err
	}

	logger.Info("updated task %d", id)
	return nil
}

// CompleteTask marks a task completed now
func (db *DB) CompleteTask(id int64) error {
	result, err := db.Exec("UPDATE tasks SET completed = 1, completed_at = ? WHERE id = ?", formatTime(now()), id)
	if err != nil {
		return fmt.Errorf("completing task %d: %w", id, err)
	}
	return requireAffected(result, id)
}

// UncompleteTask clears a task's completion state
func (db *DB) UncompleteTask(id int64) error {
	result, err := db.Exec("UPDATE tasks SET completed = 0, completed_at = NULL WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("uncompleting task %d: %w", id, err)
	}
	return requireAffected(result, id)
}

// DeleteTask deletes a task and its tag associations. Tags are kept.
func (db *DB) DeleteTask(id int64) error {
	err := db.withTx(func(tx *sql.Tx) error {
		if err := clearTagsForTask(tx, id); err != nil {
			return err
		}
		result, err := tx.Exec("DELETE FROM tasks WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting task %d: %w", id, err)
		}
		return requireAffected(result, id)
	})
	if err != nil {
		return err
	}

	logger.Info("deleted task %d", id)
	return nil
}

// ClearCompleted deletes every completed task and returns how many went
func (db *DB) ClearCompleted() (int64, error) {
	var n int64
	err := db.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE completed = 1)")
		if err != nil {
			return fmt.Errorf("clearing completed task tags: %w", err)
		}
		result, err := tx.Exec("DELETE FROM tasks WHERE completed = 1")
		if err != nil {
			return fmt.Errorf("clearing completed tasks: %w", err)
		}
		n, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	logger.Info("cleared %d completed tasks", n)
	return n, nil
}

func requireTask(q querier, id int64) error {
	var exists int
	err := q.QueryRow("SELECT 1 FROM tasks WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("task %d: %w", id, models.ErrNotFound)
	}
	return err
}

func requireAffected(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, models.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
		deadline    string
		createdAt   string
		completed   sql.NullBool
		completedAt sql.NullString
		imagePath   sql.NullString
	)
	err := row.Scan(&t.ID, &t.Title, &description, &deadline, &createdAt, &completed, &completedAt, &imagePath)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.Completed = completed.Bool
	t.ImagePath = imagePath.String

	if t.Deadline, err = parseTime(deadline); err != nil {
		return nil, fmt.Errorf("task %d deadline: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("task %d creation date: %w", t.ID, err)
	}
	if t.Completed {
		at := t.CreatedAt
		if completedAt.Valid && completedAt.String != "" {
			if at, err = parseTime(completedAt.String); err != nil {
				return nil, fmt.Errorf("task %d completion date: %w", t.ID, err)
			}
		}
		t.CompletedAt = &at
	}
	return &t, nil
}
