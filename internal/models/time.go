package models

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is the date format shown to the user and accepted as input
const DisplayLayout = "02.01.2006 15:04"

// ParseDeadline parses a user-entered deadline in DisplayLayout, local time.
// A bare date means the end of that day.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDeadline
	}
	if t, err := time.ParseInLocation(DisplayLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("02.01.2006", s, time.Local); err == nil {
		return t.Add(23*time.Hour + 59*time.Minute), nil
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q (want dd.mm.yyyy hh:mm)", s)
}

// FormatTime renders t in DisplayLayout, or "" for a nil time
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DisplayLayout)
}
