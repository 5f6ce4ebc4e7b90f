package reminder

import (
	"fmt"
	"slices"
	"time"
)

// ParseClock parses "HH:MM" into hour and minute.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reminder time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// NextOccurrence returns the first moment strictly after now that falls on one of weekdays
// at hour:minute in now's location.
func NextOccurrence(now time.Time, hour, minute int, weekdays []time.Weekday) (time.Time, bool) {
	if len(weekdays) == 0 {
		return time.Time{}, false
	}

	for day := 0; day <= 7; day++ {
		d := now.AddDate(0, 0, day)
		at := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, now.Location())
		if !at.After(now) {
			continue
		}
		if slices.Contains(weekdays, at.Weekday()) {
			return at, true
		}
	}
	return time.Time{}, false
}
