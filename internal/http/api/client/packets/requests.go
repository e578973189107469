package packets

type RegisterDeviceRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}

type ReportPermissionRequest struct {
	Granted bool `json:"granted"`
}

type ReportServiceRequest struct {
	Enabled bool `json:"enabled"`
}

// Coordinates are pointers so a legitimate 0.0 (equator, prime meridian)
// still binds; "required" on a plain float64 rejects the zero value.
type ReportFixRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type UpdatePreferencesRequest struct {
	AdhanEnabled *bool   `json:"adhan_enabled"`
	AdhanSound   *string `json:"adhan_sound"`
}

type SetLanguageRequest struct {
	Language string            `json:"language" binding:"required"`
	Names    map[string]string `json:"names"`
}
