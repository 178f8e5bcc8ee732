package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/models"
)

type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return &harness{t: t, dir: dir}
}

// run executes one invocation against the harness database
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd, e := newRootCmd(&stdout, &stderr, BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	cmd.SetArgs(append([]string{
		"--db", filepath.Join(h.dir, "todo.db"),
		"--attachments", filepath.Join(h.dir, "images"),
	}, args...))
	err := cmd.Execute()
	if cerr := e.shutdown(); cerr != nil {
		h.t.Errorf("shutdown: %v", cerr)
	}
	return stdout.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("todo %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "Pay", "rent", "--due", "01.06.2030 12:00", "--tag", "home,Bills", "--desc", "landlord")
	if strings.TrimSpace(out) != "Created task 1" {
		t.Errorf("Unexpected add output %q", out)
	}
	h.mustRun("add", "Call mom", "--due", "01.05.2030")

	out = h.mustRun("list")
	for _, want := range []string{"Pay rent", "Bills, home", "01.06.2030 12:00", "Call mom", "01.05.2030 23:59"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in list output:\n%s", want, out)
		}
	}
	if strings.Index(out, "Call mom") > strings.Index(out, "Pay rent") {
		t.Errorf("Expected earlier deadline first:\n%s", out)
	}

	out = h.mustRun("list", "--tag", "HOME")
	if !strings.Contains(out, "Pay rent") || strings.Contains(out, "Call mom") {
		t.Errorf("Expected tag filter to match case-insensitively:\n%s", out)
	}
}

func TestAddValidation(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run("add", "no deadline"); err == nil {
		t.Error("Expected error without --due")
	}
	if _, err := h.run("add", "  ", "--due", "01.06.2030"); !errors.Is(err, models.ErrEmptyTitle) {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}
	if _, err := h.run("add", "bad", "--due", "2030-06-01"); err == nil {
		t.Error("Expected error for malformed deadline")
	}

	out := h.mustRun("list")
	if strings.TrimSpace(out) != "No tasks." {
		t.Errorf("Expected nothing stored, got:\n%s", out)
	}
}

func TestCompletionAndClear(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "one", "--due", "01.06.2030")
	h.mustRun("add", "two", "--due", "02.06.2030")
	h.mustRun("add", "three", "--due", "03.06.2030")

	out := h.mustRun("done", "1", "3")
	if !strings.Contains(out, "Completed task 1") || !strings.Contains(out, "Completed task 3") {
		t.Errorf("Unexpected done output %q", out)
	}
	h.mustRun("undone", "3")

	out = h.mustRun("show", "1")
	if !strings.Contains(out, "Status:      completed") {
		t.Errorf("Expected completed status:\n%s", out)
	}

	out = h.mustRun("list", "--open")
	if strings.Contains(out, "one") || !strings.Contains(out, "three") {
		t.Errorf("Expected only open tasks:\n%s", out)
	}

	out = h.mustRun("clear-completed")
	if strings.TrimSpace(out) != "Removed 1 completed task(s)" {
		t.Errorf("Unexpected clear output %q", out)
	}
	if _, err := h.run("show", "1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected cleared task to be gone, got %v", err)
	}
}

func TestMissingTaskErrors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "exists", "--due", "01.06.2030")

	for _, args := range [][]string{
		{"done", "42"},
		{"undone", "42"},
		{"rm", "42"},
		{"edit", "42", "--title", "x"},
		{"tags", "add", "42", "x"},
	} {
		if _, err := h.run(args...); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("todo %v: expected ErrNotFound, got %v", args, err)
		}
	}

	out, err := h.run("rm", "42", "1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for the missing id, got %v", err)
	}
	if !strings.Contains(out, "Deleted task 1") {
		t.Errorf("Expected the existing task to be deleted anyway, got %q", out)
	}

	if _, err := h.run("done", "abc"); err == nil {
		t.Error("Expected error for non-numeric id")
	}
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "draft", "--due", "01.06.2030 10:00", "--tag", "a,b", "--desc", "keep me")

	h.mustRun("edit", "1", "--title", "final", "--due", "02.06.2030 11:30")
	out := h.mustRun("show", "1")
	for _, want := range []string{"Title:       final", "Deadline:    02.06.2030 11:30", "Tags:        a, b", "Description: keep me"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q after edit:\n%s", want, out)
		}
	}

	h.mustRun("edit", "1", "--tag", "")
	out = h.mustRun("show", "1")
	if !strings.Contains(out, "Tags:        \n") {
		t.Errorf("Expected tags cleared:\n%s", out)
	}

	if _, err := h.run("edit", "1", "--title", " "); !errors.Is(err, models.ErrEmptyTitle) {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}
}

func TestImageAttachment(t *testing.T) {
	h := newHarness(t)
	src := filepath.Join(h.dir, "scan.jpg")
	if err := os.WriteFile(src, []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	h.mustRun("add", "first", "--due", "01.06.2030", "--image", src)
	h.mustRun("add", "second", "--due", "01.06.2030", "--image", src)

	out := h.mustRun("show", "2")
	want := filepath.Join(h.dir, "images", "scan_1.jpg")
	if !strings.Contains(out, "Image:       "+want) {
		t.Errorf("Expected resolved attachment %s:\n%s", want, out)
	}

	h.mustRun("edit", "2", "--no-image")
	out = h.mustRun("show", "2")
	if !strings.Contains(out, "Image:       -") {
		t.Errorf("Expected attachment removed:\n%s", out)
	}

	if _, err := h.run("add", "missing", "--due", "01.06.2030", "--image", filepath.Join(h.dir, "nope.png")); err == nil {
		t.Error("Expected error for missing image")
	}
}

func TestFailedAddDiscardsImage(t *testing.T) {
	h := newHarness(t)
	src := filepath.Join(h.dir, "photo.png")
	if err := os.WriteFile(src, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	h.mustRun("list")

	database, err := db.Open(filepath.Join(h.dir, "todo.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	if _, err := database.Exec(`CREATE TRIGGER no_tasks BEFORE INSERT ON tasks
		BEGIN SELECT RAISE(ABORT, 'locked'); END`); err != nil {
		t.Fatalf("creating trigger: %v", err)
	}
	database.Close()

	for i := 0; i < 2; i++ {
		if _, err := h.run("add", "scan", "--due", "01.06.2030", "--image", src); err == nil {
			t.Fatal("Expected add to fail")
		}
	}
	entries, err := os.ReadDir(filepath.Join(h.dir, "images"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no leftover attachments, found %d", len(entries))
	}
}

func TestTags(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "one", "--due", "01.06.2030", "--tag", "Work")
	h.mustRun("add", "two", "--due", "01.06.2030")

	h.mustRun("tags", "add", "2", "work", "home")
	out := h.mustRun("tags")
	if !strings.Contains(out, "home") || !strings.Contains(out, "Work") {
		t.Errorf("Unexpected tags output:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Work") && !strings.HasSuffix(line, " 2") {
			t.Errorf("Expected Work used twice, got %q", line)
		}
	}

	h.mustRun("tags", "rm", "WORK")
	out = h.mustRun("show", "2")
	if !strings.Contains(out, "Tags:        home\n") {
		t.Errorf("Expected Work detached:\n%s", out)
	}

	h.mustRun("tags", "clear", "2")
	out = h.mustRun("show", "2")
	if !strings.Contains(out, "Tags:        \n") {
		t.Errorf("Expected no tags:\n%s", out)
	}

	if _, err := h.run("tags", "rm", "nope"); err == nil {
		t.Error("Expected error for unknown tag")
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run("export", "empty.csv"); err == nil || !strings.Contains(err.Error(), "no tasks") {
		t.Errorf("Expected no tasks error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.dir, "empty.csv")); !os.IsNotExist(err) {
		t.Error("Expected no file for an empty export")
	}

	h.mustRun("add", "report", "--due", "01.06.2030")
	out := h.mustRun("export", "out.csv")
	if !strings.Contains(out, "Exported 1 task(s)") {
		t.Errorf("Unexpected export output %q", out)
	}

	h.mustRun("add", "second", "--due", "02.06.2030")
	h.mustRun("export")
	data, err := os.ReadFile(filepath.Join(h.dir, "out.csv"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "second") {
		t.Errorf("Expected export without args to reuse out.csv, got:\n%s", data)
	}
}

func TestMemoryStore(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("--memory", "add", "scratch", "--due", "01.06.2030")
	if strings.TrimSpace(out) != "Created task 1" {
		t.Errorf("Unexpected output %q", out)
	}
	if _, err := os.Stat(filepath.Join(h.dir, "todo.db")); !os.IsNotExist(err) {
		t.Error("Expected no database file with --memory")
	}
}

func TestOverdueFilter(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "ancient", "--due", "01.01.2020 08:00")
	h.mustRun("add", "future", "--due", "01.01.2099 08:00")

	out := h.mustRun("list", "--overdue")
	if !strings.Contains(out, "ancient") || strings.Contains(out, "future") {
		t.Errorf("Expected only overdue task:\n%s", out)
	}
	out = h.mustRun("show", "1")
	if !strings.Contains(out, "Status:      overdue") {
		t.Errorf("Expected overdue status:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("version")
	if strings.TrimSpace(out) != "todo 1.2.3 (commit: abc123, built: 2026-01-01)" {
		t.Errorf("Unexpected version output %q", out)
	}
}
