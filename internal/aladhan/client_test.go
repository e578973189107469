package aladhan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

const calendarPayload = `{
	"code": 200,
	"status": "OK",
	"data": {
		"6": [
			{
				"timings": {
					"Fajr": "04:55 (EET)",
					"Sunrise": "06:20 (EET)",
					"Dhuhr": "12:10 (EET)",
					"Asr": "15:30 (EET)",
					"Maghrib": "18:05 (EET)",
					"Isha": "19:30 (EET)"
				},
				"date": {
					"gregorian": {
						"date": "15-06-2025",
						"weekday": {"en": "Sunday"}
					},
					"hijri": {
						"day": "19",
						"year": "1446",
						"month": {"number": 12, "en": "Dhū al-Ḥijjah", "ar": "ذو الحجة"},
						"weekday": {"en": "Al Ahad", "ar": "الاحد"}
					}
				}
			},
			{
				"timings": {
					"Fajr": "04:55 (EET)",
					"Sunrise": "06:20 (EET)",
					"Dhuhr": "12:10 (EET)",
					"Asr": "15:31 (EET)",
					"Maghrib": "18:06 (EET)",
					"Isha": "19:31 (EET)"
				},
				"date": {
					"gregorian": {
						"date": "16-06-2025",
						"weekday": {"en": "Monday"}
					},
					"hijri": {
						"day": "20",
						"year": "1446",
						"month": {"number": 12, "en": "Dhū al-Ḥijjah", "ar": "ذو الحجة"},
						"weekday": {"en": "Al Ithnayn", "ar": "الاثنين"}
					}
				}
			}
		]
	}
}`

func TestFetchYearMapsCalendar(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(calendarPayload))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	coords := model.Coordinates{Latitude: 30.0444, Longitude: 31.2357}

	data, err := client.FetchYear(context.Background(), coords, 2025)
	assert.NoError(t, err)
	assert.Equal(t, "/v1/calendar", gotPath)
	assert.Equal(t, "true", gotQuery["annual"][0])
	assert.Equal(t, "2025", gotQuery["year"][0])

	assert.Equal(t, 2025, data.Year)
	assert.Equal(t, coords, data.Location)
	assert.Len(t, data.Days, 2)

	day, ok := data.Days["15-06-2025"]
	assert.True(t, ok)
	// Timezone annotations are stripped.
	assert.Equal(t, "04:55", day.Fajr)
	assert.Equal(t, "19:30", day.Isha)
	assert.Equal(t, "15-06-2025", day.Date)

	assert.NotNil(t, day.Hijri)
	assert.Equal(t, "19", day.Hijri.Day)
	assert.Equal(t, 12, day.Hijri.MonthNum)
	assert.Equal(t, "Dhū al-Ḥijjah", day.Hijri.MonthEn)
}

func TestFetchYearServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchYear(context.Background(), model.Coordinates{}, 2025)
	assert.Error(t, err)
}

func TestFetchYearEmptyCalendar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 200, "status": "OK", "data": {}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchYear(context.Background(), model.Coordinates{}, 2025)
	assert.Error(t, err)
}
