package status

import (
	"fmt"
	"time"

	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
	"github.com/FouadMagdy01/sabeel-sub000/internal/timeutil"
)

// NoCountdown is shown when there is no data to count toward.
const NoCountdown = "--:--"

// Derive computes the prayer states, the current/next prayers and the
// countdown for one day's schedule at the given instant. Pure and
// deterministic; the caller re-invokes it on every minute tick.
//
// After Isha the next prayer wraps to tomorrow's Fajr approximated as
// today's Fajr + 24h. The caller refreshes the day key at midnight, so the
// approximation is only ever displayed for part of an evening.
func Derive(day model.DayPrayerTimes, now time.Time) (model.PrayerStatus, error) {
	entries := make([]model.PrayerEntry, 0, len(model.PrayerOrder))
	instants := make(map[model.PrayerKey]time.Time, len(model.PrayerOrder))

	for _, key := range model.PrayerOrder {
		at, err := timeutil.DayTime(day.Date, day.Time(key))
		if err != nil {
			return model.PrayerStatus{}, err
		}
		instants[key] = at

		state := model.StateUpcoming
		if !at.After(now) {
			state = model.StatePassed
		}
		entries = append(entries, model.PrayerEntry{
			Key:   key,
			Time:  day.Time(key),
			State: state,
		})
	}

	st := model.PrayerStatus{Prayers: entries, Countdown: NoCountdown}

	// Current is the latest passed entry, skipping Sunrise which only
	// marks the end of the Fajr window.
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].State != model.StatePassed {
			continue
		}
		key := entries[i].Key
		if key == model.Sunrise {
			continue
		}
		st.Current = &key
		for j := range st.Prayers {
			if st.Prayers[j].Key == key {
				st.Prayers[j].State = model.StateCurrent
			}
		}
		break
	}

	var nextAt time.Time
	for _, e := range entries {
		if e.State == model.StateUpcoming {
			key := e.Key
			st.Next = &key
			nextAt = instants[key]
			break
		}
	}
	if st.Next == nil {
		// Past Isha: wrap to tomorrow's Fajr.
		key := model.Fajr
		st.Next = &key
		nextAt = instants[model.Fajr].Add(24 * time.Hour)
	}

	st.Countdown = formatCountdown(nextAt.Sub(now))
	return st, nil
}

// formatCountdown renders a duration as two zero-padded fields, floored to
// whole minutes.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	mins := int(d.Minutes())
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
