package model

import "time"

// PrayerKey identifies a row in a day's schedule.
type PrayerKey string

const (
	Fajr    PrayerKey = "Fajr"
	Sunrise PrayerKey = "Sunrise"
	Dhuhr   PrayerKey = "Dhuhr"
	Asr     PrayerKey = "Asr"
	Maghrib PrayerKey = "Maghrib"
	Isha    PrayerKey = "Isha"
)

// PrayerOrder is the canonical chronological order of a day's entries.
var PrayerOrder = []PrayerKey{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// NotifiablePrayers is the subset eligible for notification triggers.
// Sunrise is informational, not a prayer time.
var NotifiablePrayers = []PrayerKey{Fajr, Dhuhr, Asr, Maghrib, Isha}

// DayPrayerTimes is one calendar day's schedule. Times are "HH:MM" 24-hour
// strings with any timezone annotation already stripped. Immutable once
// built by the aladhan mapping step.
type DayPrayerTimes struct {
	Fajr    string     `json:"fajr"`
	Sunrise string     `json:"sunrise"`
	Dhuhr   string     `json:"dhuhr"`
	Asr     string     `json:"asr"`
	Maghrib string     `json:"maghrib"`
	Isha    string     `json:"isha"`
	Date    string     `json:"date"` // dd-mm-yyyy
	Hijri   *HijriDate `json:"hijri,omitempty"`
}

// Time returns the raw time string for a prayer key.
func (d DayPrayerTimes) Time(key PrayerKey) string {
	switch key {
	case Fajr:
		return d.Fajr
	case Sunrise:
		return d.Sunrise
	case Dhuhr:
		return d.Dhuhr
	case Asr:
		return d.Asr
	case Maghrib:
		return d.Maghrib
	case Isha:
		return d.Isha
	}
	return ""
}

// HijriDate is passed through from the calendar service untouched.
type HijriDate struct {
	Day       string `json:"day"`
	MonthNum  int    `json:"month_number"`
	MonthEn   string `json:"month_en"`
	MonthAr   string `json:"month_ar"`
	Year      string `json:"year"`
	WeekdayEn string `json:"weekday_en"`
	WeekdayAr string `json:"weekday_ar"`
}

// Coordinates is a geographic fix.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// YearlyPrayerData is the unit of caching: one entry per solar day of Year,
// keyed by "dd-mm-yyyy". Persisted whole, replace-on-write, never mutated
// in place.
type YearlyPrayerData struct {
	Days      map[string]DayPrayerTimes `json:"days"`
	Location  Coordinates               `json:"location"`
	FetchedAt time.Time                 `json:"fetched_at"`
	Year      int                       `json:"year"`
}

// PrayerState classifies a prayer relative to the current instant.
type PrayerState string

const (
	StatePassed   PrayerState = "passed"
	StateCurrent  PrayerState = "current"
	StateUpcoming PrayerState = "upcoming"
)

// PrayerEntry is one row of a derived status.
type PrayerEntry struct {
	Key   PrayerKey   `json:"key"`
	Time  string      `json:"time"`
	State PrayerState `json:"state"`
}

// PrayerStatus is recomputed on every tick and never stored. Current is nil
// before Fajr; Next wraps to the following day's Fajr after Isha.
type PrayerStatus struct {
	Prayers   []PrayerEntry `json:"prayers"`
	Current   *PrayerKey    `json:"current"`
	Next      *PrayerKey    `json:"next"`
	Countdown string        `json:"countdown"`
}
