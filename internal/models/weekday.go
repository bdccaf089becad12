package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekdaySet is a bitmask of weekdays on which reading is allowed
type WeekdaySet uint8

// NewWeekdaySet returns a set containing the given days
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// WeekdaysFromIndexes builds a set from Monday-based indexes (0=Monday, 6=Sunday)
func WeekdaysFromIndexes(indexes ...int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, i := range indexes {
		if i < 0 || i > 6 {
			return 0, fmt.Errorf("weekday index out of range: %d", i)
		}
		s |= 1 << uint((i+1)%7)
	}
	return s, nil
}

// Has reports whether d belongs to the set
func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Empty reports whether no weekday is selected
func (s WeekdaySet) Empty() bool {
	return s&0x7f == 0
}

// Days returns the members of the set starting on Monday
func (s WeekdaySet) Days() []time.Weekday {
	var days []time.Weekday
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, strings.ToLower(d.String()[:3]))
	}
	return strings.Join(names, ",")
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday, "lunes": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "martes": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "miércoles": time.Wednesday, "miercoles": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "jueves": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "viernes": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "sábado": time.Saturday, "sabado": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday, "domingo": time.Sunday,
}

// ParseWeekdays parses a comma-separated list of day names or Monday-based
// indexes, e.g. "mon,wed,fri" or "0,2,4"
func ParseWeekdays(s string) (WeekdaySet, error) {
	var set WeekdaySet
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if i, err := strconv.Atoi(name); err == nil {
			day, err := WeekdaysFromIndexes(i)
			if err != nil {
				return 0, err
			}
			set |= day
			continue
		}
		d, ok := weekdayNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", part)
		}
		set |= NewWeekdaySet(d)
	}
	return set, nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *WeekdaySet) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekdays(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (s WeekdaySet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
