package packets

import (
	"github.com/FouadMagdy01/sabeel-sub000/internal/engine"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	Token    string `json:"token"`
}

type TodayResponse struct {
	DayKey  string               `json:"day_key"`
	Timings model.DayPrayerTimes `json:"timings"`
	Hijri   *model.HijriDate     `json:"hijri,omitempty"`
	IsStale bool                 `json:"is_stale"`
}

type StatusResponse struct {
	Snapshot engine.Snapshot `json:"snapshot"`
	DayKey   string          `json:"day_key"`
}

type PreferencesResponse struct {
	AdhanEnabled bool   `json:"adhan_enabled"`
	AdhanSound   string `json:"adhan_sound"`
}

type AckResponse struct {
	Success bool `json:"success"`
}
