package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
)

// parseIDs converts task id arguments
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid task id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// attachImage copies src into the attachment directory and returns the
// stored name. discard removes the copy again if the task is not saved; it
// leaves files that were already in the directory alone.
func (e *env) attachImage(src string) (name string, discard func(), err error) {
	managed := e.attach.Managed(src)
	name, err = e.attach.Attach(src)
	if err != nil {
		return "", nil, fmt.Errorf("failed to attach image: %w", err)
	}
	discard = func() {
		if managed {
			return
		}
		if err := e.attach.Remove(name); err != nil {
			logger.Warn("discarding %s: %v", name, err)
		}
	}
	return name, discard, nil
}

func newAddCmd(e *env) *cobra.Command {
	var desc, due, image string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Example: `  todo add Pay rent --due "01.06.2026 12:00" --tag home
  todo add "Renew passport" --due 15.07.2026 --image ~/scans/passport.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline, err := models.ParseDeadline(due)
			if err != nil {
				return err
			}
			in := models.TaskInput{
				Title:       strings.Join(args, " "),
				Description: desc,
				Deadline:    deadline,
				Tags:        models.NormalizeTags(tags),
			}
			// validate before copying any image
			if _, err := in.Normalize(); err != nil {
				return err
			}
			discard := func() {}
			if image != "" {
				if in.ImagePath, discard, err = e.attachImage(image); err != nil {
					return err
				}
			}

			id, err := e.store.CreateTask(in)
			if err != nil {
				discard()
				return err
			}
			fmt.Fprintf(e.stdout, "Created task %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&due, "due", "d", "", "deadline as dd.mm.yyyy [hh:mm] (required)")
	cmd.Flags().StringVar(&desc, "desc", "", "task description")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag name (repeatable or comma-separated)")
	cmd.Flags().StringVar(&image, "image", "", "image file to attach")
	cmd.MarkFlagRequired("due")
	return cmd
}

func newEditCmd(e *env) *cobra.Command {
	var title, desc, due, image string
	var tags []string
	var noImage bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task; only the given flags are applied",
		Example: `  todo edit 3 --due "02.06.2026 09:00"
  todo edit 3 --tag work --tag urgent
  todo edit 3 --tag "" --no-image`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			task, err := e.store.GetTask(ids[0])
			if err != nil {
				return err
			}

			in := models.TaskInput{
				Title:       task.Title,
				Description: task.Description,
				Deadline:    task.Deadline,
				Tags:        task.Tags,
				ImagePath:   task.ImagePath,
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = title
			}
			if flags.Changed("desc") {
				in.Description = desc
			}
			if flags.Changed("due") {
				if in.Deadline, err = models.ParseDeadline(due); err != nil {
					return err
				}
			}
			if flags.Changed("tag") {
				in.Tags = models.NormalizeTags(tags)
			}
			if _, err := in.Normalize(); err != nil {
				return err
			}
			discard := func() {}
			switch {
			case noImage:
				in.ImagePath = ""
			case flags.Changed("image"):
				if in.ImagePath, discard, err = e.attachImage(image); err != nil {
					return err
				}
			}

			if err := e.store.UpdateTask(task.ID, in); err != nil {
				discard()
				return err
			}
			fmt.Fprintf(e.stdout, "Updated task %d\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	cmd.Flags().StringVarP(&due, "due", "d", "", "new deadline as dd.mm.yyyy [hh:mm]")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "replace tags (repeatable or comma-separated)")
	cmd.Flags().StringVar(&image, "image", "", "image file to attach")
	cmd.Flags().BoolVar(&noImage, "no-image", false, "remove the attachment")
	cmd.MarkFlagsMutuallyExclusive("image", "no-image")
	return cmd
}

// eachID runs fn for every id argument, continuing past failures
func eachID(args []string, fn func(id int64) error) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if err := fn(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newDoneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID...",
		Short: "Mark tasks completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachID(args, func(id int64) error {
				if err := e.store.CompleteTask(id); err != nil {
					return err
				}
				fmt.Fprintf(e.stdout, "Completed task %d\n", id)
				return nil
			})
		},
	}
}

func newUndoneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "undone ID...",
		Short: "Reopen completed tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachID(args, func(id int64) error {
				if err := e.store.UncompleteTask(id); err != nil {
					return err
				}
				fmt.Fprintf(e.stdout, "Reopened task %d\n", id)
				return nil
			})
		},
	}
}

func newRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachID(args, func(id int64) error {
				if err := e.store.DeleteTask(id); err != nil {
					return err
				}
				fmt.Fprintf(e.stdout, "Deleted task %d\n", id)
				return nil
			})
		},
	}
}

func newClearCompletedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := e.store.ClearCompleted()
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "Removed %d completed task(s)\n", n)
			return nil
		},
	}
}
