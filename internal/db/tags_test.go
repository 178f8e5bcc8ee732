package db

import (
	"reflect"
	"testing"
	"time"
)

func TestGetOrCreateTagIsIdempotent(t *testing.T) {
	database := setupTestDB(t)

	first, err := database.GetOrCreateTag("work")
	if err != nil {
		t.Fatalf("GetOrCreateTag: %v", err)
	}
	second, err := database.GetOrCreateTag("work")
	if err != nil {
		t.Fatalf("GetOrCreateTag: %v", err)
	}
	if first != second || first == 0 {
		t.Errorf("Expected same non-zero id twice, got %d and %d", first, second)
	}

	tags, _ := database.ListTags()
	count := 0
	for _, tag := range tags {
		if tag.Name == "work" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one 'work' tag, got %d", count)
	}
}

func TestGetOrCreateTagFoldsCase(t *testing.T) {
	database := setupTestDB(t)

	id, _ := database.GetOrCreateTag("Work")
	for _, name := range []string{"work", "WORK", "  wOrK  "} {
		got, err := database.GetOrCreateTag(name)
		if err != nil {
			t.Fatalf("GetOrCreateTag(%q): %v", name, err)
		}
		if got != id {
			t.Errorf("GetOrCreateTag(%q) = %d, want %d", name, got, id)
		}
	}

	tags, _ := database.ListTags()
	if len(tags) != 1 || tags[0].Name != "Work" {
		t.Errorf("Expected the first spelling to be kept, got %v", tags)
	}
}

func TestGetOrCreateTagBlank(t *testing.T) {
	database := setupTestDB(t)

	for _, name := range []string{"", "   ", "\t"} {
		id, err := database.GetOrCreateTag(name)
		if err != nil || id != 0 {
			t.Errorf("GetOrCreateTag(%q) = %d, %v; want 0, nil", name, id, err)
		}
	}
	if tags, _ := database.ListTags(); len(tags) != 0 {
		t.Errorf("Expected no tags, got %v", tags)
	}
}

func TestListTagsOrderedByName(t *testing.T) {
	database := setupTestDB(t)
	for _, name := range []string{"zeta", "Alpha", "beta"} {
		database.GetOrCreateTag(name)
	}

	tags, err := database.ListTags()
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	var names []string
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	if want := []string{"Alpha", "beta", "zeta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Expected %v, got %v", want, names)
	}
}

func TestAddTagsToTaskIgnoresDuplicates(t *testing.T) {
	database := setupTestDB(t)
	id, _ := database.CreateTask(input("task", time.Now().Add(time.Hour), "a"))

	if err := database.AddTagsToTask(id, []string{"a", "b", "B", " "}); err != nil {
		t.Fatalf("AddTagsToTask: %v", err)
	}
	if err := database.AddTagsToTask(id, []string{"b"}); err != nil {
		t.Fatalf("AddTagsToTask again: %v", err)
	}

	names, _ := database.TagsForTask(id)
	if want := []string{"a", "b"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Expected %v, got %v", want, names)
	}
}

func TestClearTagsForTask(t *testing.T) {
	database := setupTestDB(t)
	keep, _ := database.CreateTask(input("keep", time.Now().Add(time.Hour), "a", "b"))
	cleared, _ := database.CreateTask(input("clear", time.Now().Add(time.Hour), "a", "c"))

	if err := database.ClearTagsForTask(cleared); err != nil {
		t.Fatalf("ClearTagsForTask: %v", err)
	}

	if names, _ := database.TagsForTask(cleared); len(names) != 0 {
		t.Errorf("Expected cleared task to have no tags, got %v", names)
	}
	if names, _ := database.TagsForTask(keep); !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Errorf("Expected other task untouched, got %v", names)
	}
	if tags, _ := database.ListTags(); len(tags) != 3 {
		t.Errorf("Expected tags to stay registered, got %v", tags)
	}
}

func TestDeleteTagCascadesToAssociations(t *testing.T) {
	database := setupTestDB(t)
	id, _ := database.CreateTask(input("task", time.Now().Add(time.Hour), "gone", "stays"))

	tagID, _ := database.GetOrCreateTag("gone")
	if err := database.DeleteTag(tagID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	names, _ := database.TagsForTask(id)
	if !reflect.DeepEqual(names, []string{"stays"}) {
		t.Errorf("Expected association to cascade, got %v", names)
	}
	if _, err := database.GetTask(id); err != nil {
		t.Errorf("Expected task to survive tag deletion: %v", err)
	}
}
