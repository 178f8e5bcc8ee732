package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/models"
)

func newTagsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags with the number of tasks using each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := e.store.ListTags()
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Fprintln(e.stdout, "No tags.")
				return nil
			}
			tasks, err := e.store.ListTasks()
			if err != nil {
				return err
			}
			counts := make(map[string]int)
			for _, t := range tasks {
				for _, name := range t.Tags {
					counts[strings.ToLower(name)]++
				}
			}
			for _, tag := range tags {
				fmt.Fprintf(e.stdout, "%-20s %d\n", tag.Name, counts[strings.ToLower(tag.Name)])
			}
			return nil
		},
	}

	cmd.AddCommand(newTagsAddCmd(e), newTagsClearCmd(e), newTagsRmCmd(e))
	return cmd
}

func newTagsAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add ID NAME...",
		Short: "Add tags to a task, keeping its existing ones",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[:1])
			if err != nil {
				return err
			}
			names := models.NormalizeTags(args[1:])
			if err := e.store.AddTagsToTask(ids[0], names); err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "Tagged task %d: %s\n", ids[0], strings.Join(names, ", "))
			return nil
		},
	}
}

func newTagsClearCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear ID",
		Short: "Remove every tag from a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			// surfaces a not-found error for unknown ids
			if _, err := e.store.GetTask(ids[0]); err != nil {
				return err
			}
			if err := e.store.ClearTagsForTask(ids[0]); err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "Cleared tags of task %d\n", ids[0])
			return nil
		},
	}
}

func newTagsRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a tag and detach it from every task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := e.store.ListTags()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			for _, tag := range tags {
				if strings.EqualFold(tag.Name, name) {
					if err := e.store.DeleteTag(tag.ID); err != nil {
						return err
					}
					fmt.Fprintf(e.stdout, "Deleted tag %s\n", tag.Name)
					return nil
				}
			}
			return fmt.Errorf("tag %q not found", name)
		},
	}
}
