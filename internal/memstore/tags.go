package memstore

import (
	"slices"
	"strings"

	"github.com/tgienger/todo/internal/models"
)

// GetOrCreateTag returns the id of the tag called name, creating it if
// needed. Blank names return 0.
func (s *Store) GetOrCreateTag(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateTag(name), nil
}

func (s *Store) getOrCreateTag(name string) int64 {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0
	}
	if tag, ok := s.tagByName(name); ok {
		return tag.ID
	}
	s.lastTag++
	s.tags = append(s.tags, models.Tag{ID: s.lastTag, Name: name})
	return s.lastTag
}

// ListTags returns all tags ordered by name
func (s *Store) ListTags() ([]models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := slices.Clone(s.tags)
	slices.SortFunc(tags, func(a, b models.Tag) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return tags, nil
}

// DeleteTag removes a tag and every association to it
func (s *Store) DeleteTag(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tags = slices.DeleteFunc(s.tags, func(t models.Tag) bool { return t.ID == id })
	for taskID, tagIDs := range s.links {
		s.links[taskID] = slices.DeleteFunc(tagIDs, func(tagID int64) bool { return tagID == id })
	}
	return nil
}

// TagsForTask returns the names of a task's tags ordered by name
func (s *Store) TagsForTask(taskID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, tagID := range s.links[taskID] {
		names = append(names, s.tagName(tagID))
	}
	sortNames(names)
	return names, nil
}

// ClearTagsForTask removes all tag associations of a task
func (s *Store) ClearTagsForTask(taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, taskID)
	return nil
}

// AddTagsToTask associates the named tags with a task; repeats are ignored
func (s *Store) AddTagsToTask(taskID int64, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(taskID) < 0 {
		return notFound(taskID)
	}
	s.addTags(taskID, names)
	return nil
}

func (s *Store) addTags(taskID int64, names []string) {
	for _, name := range models.NormalizeTags(names) {
		tagID := s.getOrCreateTag(name)
		if !slices.Contains(s.links[taskID], tagID) {
			s.links[taskID] = append(s.links[taskID], tagID)
		}
	}
}
