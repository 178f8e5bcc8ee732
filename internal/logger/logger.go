package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Level is a log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	std     = log.New(io.Discard, "", log.LstdFlags)
	level   = LevelInfo
	logFile *os.File
)

// ParseLevel maps a config string to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Init opens the log file at path and sets the minimum level.
// The terminal is owned by the TUI, so output only ever goes to the file.
func Init(path, lvl string) error {
	Close()
	level = ParseLevel(lvl)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	std = log.New(io.Discard, "", log.LstdFlags)
	f, err := tea.LogToFileWith(path, "todo", std)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	return nil
}

// SetOutput redirects log output, mostly for tests
func SetOutput(w io.Writer, lvl Level) {
	std.SetOutput(w)
	level = lvl
}

// Close flushes and closes the log file if one is open
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	std.SetOutput(io.Discard)
}

func output(l Level, tag, format string, args ...any) {
	if l < level {
		return
	}
	std.Output(3, tag+" "+fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) { output(LevelDebug, "DEBUG", format, args...) }
func Info(format string, args ...any)  { output(LevelInfo, "INFO", format, args...) }
func Warn(format string, args ...any)  { output(LevelWarn, "WARN", format, args...) }
func Error(format string, args ...any) { output(LevelError, "ERROR", format, args...) }
