package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/config"
	"github.com/tgienger/todo/internal/export"
	"github.com/tgienger/todo/internal/logger"
)

func newExportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write every task to a CSV file",
		Long: `Write every task to a UTF-8 CSV file readable by spreadsheet programs.
Without FILE the previous export path is reused, falling back to tasks.csv.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "tasks.csv"
			if len(args) == 1 {
				path = args[0]
			} else if last, err := e.store.GetSetting(export.LastPathKey); err == nil && last != "" {
				path = last
			}
			target, err := config.ExpandTilde(path)
			if err != nil {
				return err
			}

			tasks, err := e.store.ListTasks()
			if err != nil {
				return err
			}
			if err := export.ToFile(target, tasks); err != nil {
				if errors.Is(err, export.ErrNoTasks) {
					return errors.New("no tasks to export")
				}
				return err
			}
			if err := e.store.SetSetting(export.LastPathKey, path); err != nil {
				logger.Warn("saving %s: %v", export.LastPathKey, err)
			}
			fmt.Fprintf(e.stdout, "Exported %d task(s) to %s\n", len(tasks), target)
			return nil
		},
	}
}

func newVersionCmd(e *env, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.stdout, "todo %s\n", info)
		},
	}
}
