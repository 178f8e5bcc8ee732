package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui/styles"
)

type listFilter struct {
	tag     string
	open    bool
	overdue bool
}

func (f listFilter) keep(t models.Task, now time.Time) bool {
	if f.open && t.Completed {
		return false
	}
	if f.overdue && !t.Overdue(now) {
		return false
	}
	if f.tag != "" {
		for _, name := range t.Tags {
			if strings.EqualFold(name, f.tag) {
				return true
			}
		}
		return false
	}
	return true
}

func newListCmd(e *env) *cobra.Command {
	var f listFilter

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, incomplete first then by deadline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := e.store.ListTasks()
			if err != nil {
				return err
			}
			now := time.Now()
			var shown []models.Task
			for _, t := range tasks {
				if f.keep(t, now) {
					shown = append(shown, t)
				}
			}
			if len(shown) == 0 {
				fmt.Fprintln(e.stdout, "No tasks.")
				return nil
			}
			fmt.Fprintln(e.stdout, e.renderTable(shown, now))
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.tag, "tag", "t", "", "only tasks with this tag")
	cmd.Flags().BoolVar(&f.open, "open", false, "hide completed tasks")
	cmd.Flags().BoolVar(&f.overdue, "overdue", false, "only overdue tasks")
	return cmd
}

// renderTable draws tasks with the UI theme; colors are dropped
// automatically when stdout is not a terminal
func (e *env) renderTable(tasks []models.Task, now time.Time) string {
	st := styles.Table(lipgloss.NewRenderer(e.stdout))

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			mark,
			t.Deadline.Format(models.DisplayLayout),
			t.Title,
			strings.Join(t.Tags, ", "),
			t.ImagePath,
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		Headers("ID", "✓", "DEADLINE", "TITLE", "TAGS", "IMAGE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.Header
			case row < 0 || row >= len(tasks):
				return st.Cell
			case tasks[row].Completed:
				return st.Done
			case tasks[row].Overdue(now):
				return st.Overdue
			}
			return st.Cell
		})
	return tbl.Render()
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			t, err := e.store.GetTask(ids[0])
			if err != nil {
				return err
			}

			status := "open"
			if t.Completed {
				status = "completed " + models.FormatTime(t.CompletedAt)
			} else if t.Overdue(time.Now()) {
				status = "overdue"
			}
			image := "-"
			if t.ImagePath != "" {
				if path, ok := e.attach.Resolve(t.ImagePath); ok {
					image = path
				} else {
					image = t.ImagePath + " (file missing)"
				}
			}

			fmt.Fprintf(e.stdout, "ID:          %d\n", t.ID)
			fmt.Fprintf(e.stdout, "Title:       %s\n", t.Title)
			fmt.Fprintf(e.stdout, "Description: %s\n", t.Description)
			fmt.Fprintf(e.stdout, "Deadline:    %s\n", t.Deadline.Format(models.DisplayLayout))
			fmt.Fprintf(e.stdout, "Created:     %s\n", t.CreatedAt.Format(models.DisplayLayout))
			fmt.Fprintf(e.stdout, "Status:      %s\n", status)
			fmt.Fprintf(e.stdout, "Tags:        %s\n", strings.Join(t.Tags, ", "))
			fmt.Fprintf(e.stdout, "Image:       %s\n", image)
			return nil
		},
	}
}
