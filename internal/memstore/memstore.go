// Package memstore keeps tasks and tags in process memory. It mirrors the
// SQLite store method for method and is used for throwaway sessions
// (todo --memory) and tests of callers.
package memstore

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tgienger/todo/internal/models"
)

// Store is an in-memory task store. The zero value is not usable; call New.
type Store struct {
	mu       sync.Mutex
	tasks    []models.Task // insertion order; Tags is not maintained here
	tags     []models.Tag
	links    map[int64][]int64 // task id -> tag ids
	settings map[string]string
	lastTask int64
	lastTag  int64

	// Now returns the current time; replaceable in tests
	Now func() time.Time
}

func New() *Store {
	return &Store{
		links:    make(map[int64][]int64),
		settings: make(map[string]string),
		Now:      time.Now,
	}
}

func (s *Store) stamp() time.Time {
	return s.Now().Truncate(time.Minute)
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func notFound(id int64) error {
	return fmt.Errorf("task %d: %w", id, models.ErrNotFound)
}

// CreateTask inserts a new incomplete task with its tags and returns its id
func (s *Store) CreateTask(in models.TaskInput) (int64, error) {
	in, err := in.Normalize()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTask++
	s.tasks = append(s.tasks, models.Task{
		ID:          s.lastTask,
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		CreatedAt:   s.stamp(),
		ImagePath:   in.ImagePath,
	})
	s.addTags(s.lastTask, in.Tags)
	return s.lastTask, nil
}

// GetTask returns a copy of the task with its tags
func (s *Store) GetTask(id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, notFound(id)
	}
	t := s.withTags(s.tasks[i])
	return &t, nil
}

// ListTasks returns all tasks, incomplete first, then by deadline
func (s *Store) ListTasks() ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, s.withTags(t))
	}
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		if c := a.Deadline.Compare(b.Deadline); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

// UpdateTask overwrites a task's editable fields and replaces its tags
func (s *Store) UpdateTask(id int64, in models.TaskInput) error {
	in, err := in.Normalize()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	t := &s.tasks[i]
	t.Title = in.Title
	t.Description = in.Description
	t.Deadline = in.Deadline
	t.ImagePath = in.ImagePath

	delete(s.links, id)
	s.addTags(id, in.Tags)
	return nil
}

// CompleteTask marks a task completed now
func (s *Store) CompleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	at := s.stamp()
	s.tasks[i].Completed = true
	s.tasks[i].CompletedAt = &at
	return nil
}

// UncompleteTask clears a task's completion state
func (s *Store) UncompleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.tasks[i].Completed = false
	s.tasks[i].CompletedAt = nil
	return nil
}

// DeleteTask removes a task and its tag associations
func (s *Store) DeleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	delete(s.links, id)
	return nil
}

// ClearCompleted removes every completed task and returns how many went
func (s *Store) ClearCompleted() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool {
		if t.Completed {
			delete(s.links, t.ID)
		}
		return t.Completed
	})
	return int64(before - len(s.tasks)), nil
}

// GetSetting returns the stored value, or "" when unset
func (s *Store) GetSetting(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings[key], nil
}

func (s *Store) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

// tagByName looks a tag up case-insensitively
func (s *Store) tagByName(name string) (models.Tag, bool) {
	for _, tag := range s.tags {
		if strings.EqualFold(tag.Name, name) {
			return tag, true
		}
	}
	return models.Tag{}, false
}

func (s *Store) tagName(id int64) string {
	for _, tag := range s.tags {
		if tag.ID == id {
			return tag.Name
		}
	}
	return ""
}

func (s *Store) withTags(t models.Task) models.Task {
	t.Tags = nil
	for _, tagID := range s.links[t.ID] {
		t.Tags = append(t.Tags, s.tagName(tagID))
	}
	sortNames(t.Tags)
	return t
}

func sortNames(names []string) {
	slices.SortFunc(names, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}
