package todo

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Date and clock layouts accepted by ParseDate and ParseClock.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Task is a single to-do item.
type Task struct {
	ID      string     `json:"id"`
	Text    string     `json:"text"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// HasDue reports whether the task has a deadline.
func (t Task) HasDue() bool {
	return t.DueDate != nil
}

// IsOverdue reports whether the deadline is strictly before now.
// A task without a deadline is never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// ShortID returns the first eight characters of the id.
func (t Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// NewID returns a random 128-bit identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseDate parses a YYYY-MM-DD calendar day in loc (time.Local if nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseClock parses a 24-hour time of day, HH:MM or HH:MM:SS.
// An empty string is midnight.
func ParseClock(s string) (hour, minute, second int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, nil
	}
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if c, perr := time.Parse(layout, s); perr == nil {
			return c.Hour(), c.Minute(), c.Second(), nil
		}
	}
	return 0, 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
}

// ComposeDue combines the calendar day of date with the time of day in clock.
// The result is in loc (time.Local if nil).
func ComposeDue(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	h, m, s, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, s, 0, loc), nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
