package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
)

// GetOrCreateTag returns the id of the tag called name, creating it if needed.
// Names match case-insensitively and keep the spelling they were first
// created with. Blank names return 0 and no error.
func (db *DB) GetOrCreateTag(name string) (int64, error) {
	return getOrCreateTag(db, name)
}

func getOrCreateTag(q querier, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}

	var id int64
	err := q.QueryRow("SELECT id FROM tags WHERE name = ? COLLATE NOCASE ORDER BY id LIMIT 1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up tag %q: %w", name, err)
	}

	result, err := q.Exec("INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("creating tag %q: %w", name, err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting id of tag %q: %w", name, err)
	}
	logger.Debug("created tag %d %q", id, name)
	return id, nil
}

// ListTags returns all tags ordered by name
func (db *DB) ListTags() ([]models.Tag, error) {
	rows, err := db.Query("SELECT id, name FROM tags ORDER BY name COLLATE NOCASE, name")
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// DeleteTag deletes a tag; its task associations cascade
func (db *DB) DeleteTag(id int64) error {
	_, err := db.Exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tag %d: %w", id, err)
	}
	return nil
}

// TagsForTask returns the names of a task's tags ordered by name
func (db *DB) TagsForTask(taskID int64) ([]string, error) {
	return tagsForTask(db, taskID)
}

func tagsForTask(q querier, taskID int64) ([]string, error) {
	rows, err := q.Query(`
		SELECT t.name
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY t.name COLLATE NOCASE, t.name
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("querying tags for task %d: %w", taskID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning tag name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// tagsByTask loads every association in one pass, keyed by task id
func tagsByTask(q querier) (map[int64][]string, error) {
	rows, err := q.Query(`
		SELECT tt.task_id, t.name
		FROM task_tags tt
		JOIN tags t ON t.id = tt.tag_id
		ORDER BY t.name COLLATE NOCASE, t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying task tags: %w", err)
	}
	defer rows.Close()

	byTask := make(map[int64][]string)
	for rows.Next() {
		var taskID int64
		var name string
		if err := rows.Scan(&taskID, &name); err != nil {
			return nil, fmt.Errorf("scanning task tag: %w", err)
		}
		byTask[taskID] = append(byTask[taskID], name)
	}
	return byTask, rows.Err()
}

// ClearTagsForTask removes all tag associations of a task
func (db *DB) ClearTagsForTask(taskID int64) error {
	return clearTagsForTask(db, taskID)
}

func clearTagsForTask(q querier, taskID int64) error {
	if _, err := q.Exec("DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clearing tags for task %d: %w", taskID, err)
	}
	return nil
}

// AddTagsToTask associates the named tags with a task, creating tags as
// needed. Associations that already exist are ignored.
func (db *DB) AddTagsToTask(taskID int64, names []string) error {
	return db.withTx(func(tx *sql.Tx) error {
		if err := requireTask(tx, taskID); err != nil {
			return err
		}
		return addTagsToTask(tx, taskID, names)
	})
}

func addTagsToTask(q querier, taskID int64, names []string) error {
	for _, name := range models.NormalizeTags(names) {
		tagID, err := getOrCreateTag(q, name)
		if err != nil {
			return err
		}
		_, err = q.Exec("INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)", taskID, tagID)
		if err != nil {
			return fmt.Errorf("tagging task %d with %q: %w", taskID, name, err)
		}
	}
	return nil
}
