// Package export writes tasks out as CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
)

// ErrNoTasks is returned when there is nothing to export
var ErrNoTasks = errors.New("no tasks to export")

// LastPathKey is the settings key holding the previous export destination
const LastPathKey = "last_export_path"

// bom lets spreadsheet programs detect UTF-8
const bom = "\ufeff"

var header = []string{
	"id",
	"title",
	"description",
	"deadline",
	"date_of_creation",
	"completed",
	"completed_at",
	"image_path",
	"tags",
}

// WriteCSV writes a byte-order mark, a header row and one row per task
func WriteCSV(w io.Writer, tasks []models.Task) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range tasks {
		deadline, created := t.Deadline, t.CreatedAt
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			models.FormatTime(&deadline),
			models.FormatTime(&created),
			strconv.FormatBool(t.Completed),
			models.FormatTime(t.CompletedAt),
			t.ImagePath,
			strings.Join(t.Tags, ", "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile exports tasks to path, replacing any existing file
func ToFile(path string, tasks []models.Task) error {
	if len(tasks) == 0 {
		return ErrNoTasks
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, tasks); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info("exported %d tasks to %s", len(tasks), path)
	return nil
}
