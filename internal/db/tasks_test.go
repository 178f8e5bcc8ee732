package db

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tgienger/todo/internal/models"
)

func input(title string, deadline time.Time, tags ...string) models.TaskInput {
	return models.TaskInput{Title: title, Deadline: deadline, Tags: tags}
}

func TestCreateTask(t *testing.T) {
	database := setupTestDB(t)
	created := time.Date(2026, 5, 1, 9, 30, 42, 0, time.Local)
	freezeTime(t, created)

	deadline := time.Date(2026, 5, 3, 18, 0, 0, 0, time.Local)
	id, err := database.CreateTask(models.TaskInput{
		Title:       "  Write report ",
		Description: "quarterly",
		Deadline:    deadline,
		Tags:        []string{"work", " urgent ", "", "Work"},
		ImagePath:   "chart.png",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	task, err := database.GetTask(id)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Title != "Write report" {
		t.Errorf("Expected trimmed title, got %q", task.Title)
	}
	if task.Description != "quarterly" || task.ImagePath != "chart.png" {
		t.Errorf("Unexpected fields: %+v", task)
	}
	if !task.Deadline.Equal(deadline) {
		t.Errorf("Expected deadline %v, got %v", deadline, task.Deadline)
	}
	if !task.CreatedAt.Equal(created.Truncate(time.Minute)) {
		t.Errorf("Expected created_at %v, got %v", created.Truncate(time.Minute), task.CreatedAt)
	}
	if task.Completed || task.CompletedAt != nil {
		t.Errorf("Expected new task to be incomplete, got %+v", task)
	}
	if want := []string{"urgent", "work"}; !reflect.DeepEqual(task.Tags, want) {
		t.Errorf("Expected tags %v, got %v", want, task.Tags)
	}
}

func TestCreateTaskIDsAreNeverReused(t *testing.T) {
	database := setupTestDB(t)
	deadline := time.Now().Add(time.Hour)

	first, err := database.CreateTask(input("A", deadline))
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := database.DeleteTask(first); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	second, err := database.CreateTask(input("B", deadline))
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if second <= first {
		t.Errorf("Expected id after %d, got %d", first, second)
	}
}

func TestCreateTaskRejectsInvalidInput(t *testing.T) {
	database := setupTestDB(t)

	tests := []struct {
		name string
		in   models.TaskInput
		want error
	}{
		{"blank title", models.TaskInput{Title: "   ", Deadline: time.Now()}, models.ErrEmptyTitle},
		{"empty title", models.TaskInput{Deadline: time.Now()}, models.ErrEmptyTitle},
		{"no deadline", models.TaskInput{Title: "x"}, models.ErrMissingDeadline},
		{"year 10000", models.TaskInput{Title: "far", Deadline: time.Date(10000, 1, 1, 0, 0, 0, 0, time.Local)}, models.ErrInvalidDeadline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := database.CreateTask(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	tasks, err := database.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no rows after rejected creates, got %d", len(tasks))
	}
}

func TestOutOfRangeDeadlineKeepsListReadable(t *testing.T) {
	database := setupTestDB(t)
	okID, err := database.CreateTask(input("ok", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := database.CreateTask(input("far", time.Date(10000, 1, 1, 0, 0, 0, 0, time.Local))); !errors.Is(err, models.ErrInvalidDeadline) {
		t.Errorf("Expected ErrInvalidDeadline on create, got %v", err)
	}
	if err := database.UpdateTask(okID, input("ok", time.Date(-1, 1, 1, 0, 0, 0, 0, time.Local))); !errors.Is(err, models.ErrInvalidDeadline) {
		t.Errorf("Expected ErrInvalidDeadline on update, got %v", err)
	}

	tasks, err := database.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "ok" {
		t.Errorf("Expected only the valid task, got %+v", tasks)
	}
}

func TestListTasksOrdering(t *testing.T) {
	database := setupTestDB(t)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)

	late, _ := database.CreateTask(input("late", base.Add(72*time.Hour)))
	early, _ := database.CreateTask(input("early", base.Add(-24*time.Hour)))
	doneEarly, _ := database.CreateTask(input("done early", base.Add(-48*time.Hour)))
	mid, _ := database.CreateTask(input("mid", base))
	doneLate, _ := database.CreateTask(input("done late", base.Add(96*time.Hour)))

	for _, id := range []int64{doneLate, doneEarly} {
		if err := database.CompleteTask(id); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
	}

	tasks, err := database.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	var got []int64
	for _, task := range tasks {
		got = append(got, task.ID)
	}
	want := []int64{early, mid, late, doneEarly, doneLate}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestCompletionRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	freezeTime(t, time.Date(2026, 2, 2, 8, 0, 0, 0, time.Local))

	id, err := database.CreateTask(models.TaskInput{
		Title:       "Round trip",
		Description: "desc",
		Deadline:    time.Date(2026, 2, 10, 8, 0, 0, 0, time.Local),
		Tags:        []string{"a"},
		ImagePath:   "pic.png",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	before, _ := database.GetTask(id)

	completedAt := time.Date(2026, 2, 3, 17, 45, 0, 0, time.Local)
	freezeTime(t, completedAt)
	if err := database.CompleteTask(id); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	done, _ := database.GetTask(id)
	if !done.Completed || done.CompletedAt == nil || !done.CompletedAt.Equal(completedAt) {
		t.Errorf("Expected completed at %v, got %+v", completedAt, done)
	}

	if err := database.UncompleteTask(id); err != nil {
		t.Fatalf("UncompleteTask: %v", err)
	}
	after, _ := database.GetTask(id)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Expected round trip to restore task\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestUpdateTaskReplacesTags(t *testing.T) {
	database := setupTestDB(t)
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.Local)
	freezeTime(t, created)

	id, err := database.CreateTask(input("Original", created.Add(time.Hour), "a", "b"))
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	freezeTime(t, created.Add(24*time.Hour))
	newDeadline := created.Add(48 * time.Hour)
	err = database.UpdateTask(id, models.TaskInput{
		Title:       "Renamed",
		Description: "now with detail",
		Deadline:    newDeadline,
		Tags:        []string{"c"},
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	task, err := database.GetTask(id)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if !reflect.DeepEqual(task.Tags, []string{"c"}) {
		t.Errorf("Expected tags [c], got %v", task.Tags)
	}
	if task.Title != "Renamed" || task.Description != "now with detail" || !task.Deadline.Equal(newDeadline) {
		t.Errorf("Fields not updated: %+v", task)
	}
	if !task.CreatedAt.Equal(created) {
		t.Errorf("Expected created_at preserved as %v, got %v", created, task.CreatedAt)
	}

	tags, _ := database.ListTags()
	if len(tags) != 3 {
		t.Errorf("Expected a, b and c to remain registered, got %v", tags)
	}
}

func TestUpdateTaskKeepsCompletion(t *testing.T) {
	database := setupTestDB(t)
	id, _ := database.CreateTask(input("x", time.Now().Add(time.Hour)))
	if err := database.CompleteTask(id); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if err := database.UpdateTask(id, input("y", time.Now().Add(2*time.Hour))); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	task, _ := database.GetTask(id)
	if !task.Completed || task.CompletedAt == nil {
		t.Errorf("Expected update to leave completion alone, got %+v", task)
	}
}

func TestUpdateTaskValidationLeavesRowUntouched(t *testing.T) {
	database := setupTestDB(t)
	id, _ := database.CreateTask(input("keep", time.Now().Add(time.Hour), "t"))

	err := database.UpdateTask(id, models.TaskInput{Title: " ", Deadline: time.Now(), Tags: []string{"other"}})
	if !errors.Is(err, models.ErrEmptyTitle) {
		t.Fatalf("Expected ErrEmptyTitle, got %v", err)
	}
	task, _ := database.GetTask(id)
	if task.Title != "keep" || !reflect.DeepEqual(task.Tags, []string{"t"}) {
		t.Errorf("Expected task untouched, got %+v", task)
	}
}

func TestUpdateTaskRollsBackOnTagFailure(t *testing.T) {
	database := setupTestDB(t)
	id, _ := database.CreateTask(input("before", time.Now().Add(time.Hour), "old"))

	// Force the association insert to fail after the field update succeeded.
	if _, err := database.Exec(`CREATE TRIGGER fail_tagging BEFORE INSERT ON task_tags
		BEGIN SELECT RAISE(ABORT, 'boom'); END`); err != nil {
		t.Fatalf("creating trigger: %v", err)
	}

	err := database.UpdateTask(id, input("after", time.Now().Add(time.Hour), "new"))
	if err == nil {
		t.Fatal("Expected UpdateTask to fail")
	}

	task, _ := database.GetTask(id)
	if task.Title != "before" {
		t.Errorf("Expected title rollback, got %q", task.Title)
	}
	if !reflect.DeepEqual(task.Tags, []string{"old"}) {
		t.Errorf("Expected tags rollback to [old], got %v", task.Tags)
	}
}

func TestMutationsOnMissingTask(t *testing.T) {
	database := setupTestDB(t)
	deadline := time.Now().Add(time.Hour)

	checks := map[string]error{
		"update":     database.UpdateTask(42, input("x", deadline)),
		"complete":   database.CompleteTask(42),
		"uncomplete": database.UncompleteTask(42),
		"delete":     database.DeleteTask(42),
		"add tags":   database.AddTagsToTask(42, []string{"x"}),
	}
	for name, err := range checks {
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
	if _, err := database.GetTask(42); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}

	tags, _ := database.ListTags()
	if len(tags) != 0 {
		t.Errorf("Expected failed update not to register tags, got %v", tags)
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	database := setupTestDB(t)
	id, err := database.CreateTask(input("A", time.Now().Add(time.Hour), "x", "y"))
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := database.DeleteTask(id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	names, err := database.TagsForTask(id)
	if err != nil {
		t.Fatalf("TagsForTask: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected no tags for deleted task, got %v", names)
	}

	tags, _ := database.ListTags()
	if len(tags) != 2 || tags[0].Name != "x" || tags[1].Name != "y" {
		t.Errorf("Expected tags x and y to survive, got %v", tags)
	}
}

func TestClearCompleted(t *testing.T) {
	database := setupTestDB(t)
	deadline := time.Now().Add(time.Hour)

	t1, _ := database.CreateTask(input("T1", deadline, "shared", "one"))
	t2, _ := database.CreateTask(input("T2", deadline, "shared"))
	t3, _ := database.CreateTask(input("T3", deadline, "three"))
	database.CompleteTask(t1)
	database.CompleteTask(t3)

	n, err := database.ClearCompleted()
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 tasks cleared, got %d", n)
	}

	tasks, _ := database.ListTasks()
	if len(tasks) != 1 || tasks[0].ID != t2 {
		t.Fatalf("Expected only T2 to remain, got %+v", tasks)
	}
	if !reflect.DeepEqual(tasks[0].Tags, []string{"shared"}) {
		t.Errorf("Expected T2 to keep its tags, got %v", tasks[0].Tags)
	}

	for _, id := range []int64{t1, t3} {
		names, _ := database.TagsForTask(id)
		if len(names) != 0 {
			t.Errorf("Expected no dangling associations for %d, got %v", id, names)
		}
	}
	var dangling int
	database.QueryRow("SELECT COUNT(*) FROM task_tags WHERE task_id NOT IN (SELECT id FROM tasks)").Scan(&dangling)
	if dangling != 0 {
		t.Errorf("Expected no dangling rows, got %d", dangling)
	}

	if n, err := database.ClearCompleted(); err != nil || n != 0 {
		t.Errorf("Expected second clear to remove nothing, got %d (err=%v)", n, err)
	}
}

func TestOverdue(t *testing.T) {
	database := setupTestDB(t)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	past, _ := database.CreateTask(input("past", current.Add(-time.Minute)))
	future, _ := database.CreateTask(input("future", current.Add(time.Minute)))
	donePast, _ := database.CreateTask(input("done", current.Add(-time.Hour)))
	database.CompleteTask(donePast)

	want := map[int64]bool{past: true, future: false, donePast: false}
	tasks, _ := database.ListTasks()
	for _, task := range tasks {
		if got := task.Overdue(current); got != want[task.ID] {
			t.Errorf("task %q: Overdue = %v, want %v", task.Title, got, want[task.ID])
		}
	}
}
