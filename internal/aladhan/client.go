package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

const defaultBaseURL = "https://api.aladhan.com"

// calculationMethod 2 is ISNA, the method the mobile clients ship with.
const calculationMethod = 2

// Fetcher is the remote prayer-time computation boundary.
type Fetcher interface {
	FetchYear(ctx context.Context, coords model.Coordinates, year int) (*model.YearlyPrayerData, error)
}

// Client talks to the AlAdhan calendar API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Response shapes for /v1/calendar with annual=true: data is a map from
// month number ("1".."12") to that month's daily entries.
type calendarResponse struct {
	Code   int                   `json:"code"`
	Status string                `json:"status"`
	Data   map[string][]dayEntry `json:"data"`
}

type dayEntry struct {
	Timings map[string]string `json:"timings"`
	Date    struct {
		Gregorian struct {
			Date    string `json:"date"` // dd-mm-yyyy
			Weekday struct {
				En string `json:"en"`
			} `json:"weekday"`
		} `json:"gregorian"`
		Hijri struct {
			Day   string `json:"day"`
			Year  string `json:"year"`
			Month struct {
				Number int    `json:"number"`
				En     string `json:"en"`
				Ar     string `json:"ar"`
			} `json:"month"`
			Weekday struct {
				En string `json:"en"`
				Ar string `json:"ar"`
			} `json:"weekday"`
		} `json:"hijri"`
	} `json:"date"`
}

// FetchYear downloads a full year of daily timings for the given location
// and maps it into the cacheable dataset.
func (c *Client) FetchYear(ctx context.Context, coords model.Coordinates, year int) (*model.YearlyPrayerData, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%f", coords.Latitude))
	query.Set("longitude", fmt.Sprintf("%f", coords.Longitude))
	query.Set("method", fmt.Sprintf("%d", calculationMethod))
	query.Set("annual", "true")
	query.Set("year", fmt.Sprintf("%d", year))

	endpoint := fmt.Sprintf("%s/v1/calendar?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar request returned status %d", resp.StatusCode)
	}

	var body calendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}
	if body.Code != http.StatusOK {
		return nil, fmt.Errorf("calendar service error: %s", body.Status)
	}

	days := make(map[string]model.DayPrayerTimes)
	for _, month := range body.Data {
		for _, entry := range month {
			day := mapDay(entry)
			if day.Date == "" {
				continue
			}
			days[day.Date] = day
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("calendar response contained no days")
	}

	log.Info().
		Int("year", year).
		Int("days", len(days)).
		Float64("lat", coords.Latitude).
		Float64("lng", coords.Longitude).
		Msg("fetched yearly prayer times")

	return &model.YearlyPrayerData{
		Days:      days,
		Location:  coords,
		FetchedAt: time.Now(),
		Year:      year,
	}, nil
}

func mapDay(entry dayEntry) model.DayPrayerTimes {
	hijri := &model.HijriDate{
		Day:       entry.Date.Hijri.Day,
		MonthNum:  entry.Date.Hijri.Month.Number,
		MonthEn:   entry.Date.Hijri.Month.En,
		MonthAr:   entry.Date.Hijri.Month.Ar,
		Year:      entry.Date.Hijri.Year,
		WeekdayEn: entry.Date.Hijri.Weekday.En,
		WeekdayAr: entry.Date.Hijri.Weekday.Ar,
	}
	return model.DayPrayerTimes{
		Fajr:    cleanTime(entry.Timings["Fajr"]),
		Sunrise: cleanTime(entry.Timings["Sunrise"]),
		Dhuhr:   cleanTime(entry.Timings["Dhuhr"]),
		Asr:     cleanTime(entry.Timings["Asr"]),
		Maghrib: cleanTime(entry.Timings["Maghrib"]),
		Isha:    cleanTime(entry.Timings["Isha"]),
		Date:    entry.Date.Gregorian.Date,
		Hijri:   hijri,
	}
}

// cleanTime strips the timezone annotation AlAdhan appends, e.g.
// "05:12 (EET)" -> "05:12".
func cleanTime(raw string) string {
	if idx := strings.Index(raw, " "); idx != -1 {
		return raw[:idx]
	}
	return raw
}
