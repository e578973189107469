package timeutil

import (
	"fmt"
	"time"
)

// Layouts used by the calendar service and the cache keys.
const (
	DayKeyLayout  = "02-01-2006"
	DayTimeLayout = "02-01-2006 15:04"
)

// DayKey formats t's calendar date as a "dd-mm-yyyy" cache key.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// TodayKey returns the day key for the device's local calendar date.
func TodayKey() string {
	return DayKey(time.Now())
}

// ParseDayKey parses a "dd-mm-yyyy" key into local midnight of that day.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// DayTime combines a day key and an "HH:MM" clock string into a local
// instant.
func DayTime(dayKey, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(DayTimeLayout, dayKey+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q %q: %w", dayKey, clock, err)
	}
	return t, nil
}
