package models

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM"
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time of day %q (use HH:MM): %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On combines the time of day with the calendar date of day
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Date truncates t to a calendar date in UTC, keeping its wall-clock day.
// Plans carry unzoned local times, so all dates are normalized to UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses "YYYY-MM-DD"
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// DaysBetween returns the absolute number of calendar days between two dates
func DaysBetween(a, b time.Time) int {
	d := int(Date(b).Sub(Date(a)).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
