package models

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrMissingDeadline = errors.New("task deadline is required")
	ErrInvalidDeadline = errors.New("task deadline must fall between years 1 and 9999")
	ErrNotFound        = errors.New("task not found")
)

// Tag represents a label that can be applied to any number of tasks
type Tag struct {
	ID   int64
	Name string
}

// Task represents a single to-do item
type Task struct {
	ID          int64
	Title       string
	Description string
	Deadline    time.Time
	CreatedAt   time.Time
	Completed   bool
	CompletedAt *time.Time // nil unless Completed
	ImagePath   string     // attachment filename, "" if none
	Tags        []string   // populated when loading tasks
}

// Overdue reports whether the task is incomplete and its deadline has passed
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.Deadline.Before(now)
}

// TaskInput holds the user-editable fields of a task
type TaskInput struct {
	Title       string
	Description string
	Deadline    time.Time
	Tags        []string
	ImagePath   string
}

// Normalize trims the input, validates it and returns the cleaned copy.
// Tag names are trimmed, blanks are dropped and case-insensitive duplicates
// collapse onto their first spelling.
func (in TaskInput) Normalize() (TaskInput, error) {
	out := TaskInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Deadline:    in.Deadline.Truncate(time.Minute),
		ImagePath:   strings.TrimSpace(in.ImagePath),
	}
	if out.Title == "" {
		return TaskInput{}, ErrEmptyTitle
	}
	if in.Deadline.IsZero() {
		return TaskInput{}, ErrMissingDeadline
	}
	// stored timestamps are local time with a four digit year
	if y := in.Deadline.In(time.Local).Year(); y < 1 || y > 9999 {
		return TaskInput{}, ErrInvalidDeadline
	}
	out.Tags = NormalizeTags(in.Tags)
	return out, nil
}

// NormalizeTags trims names, drops blanks and removes case-insensitive duplicates
func NormalizeTags(names []string) []string {
	var tags []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, name)
	}
	return tags
}

// ParseTagList splits a comma separated list of tag names
func ParseTagList(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
