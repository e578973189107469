package location

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/kv"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

const lastKnownKey = "location:last_known"

type reportedFix struct {
	Coords     model.Coordinates `json:"coords"`
	ReportedAt time.Time         `json:"reported_at"`
}

// DeviceResolver is fed by the device over the HTTP API: the client reports
// its permission grant, service state and position fixes, and the engine
// reads them back. The latest fix is mirrored into the KV store so a
// restart still has a last-known position.
type DeviceResolver struct {
	store kv.Store

	mu         sync.RWMutex
	granted    bool
	serviceOn  bool
	liveFix    *reportedFix
	liveMaxAge time.Duration
}

func NewDeviceResolver(store kv.Store) *DeviceResolver {
	return &DeviceResolver{
		store:      store,
		serviceOn:  true,
		liveMaxAge: 2 * time.Minute,
	}
}

// ReportPermission records the device-side grant state.
func (d *DeviceResolver) ReportPermission(granted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.granted = granted
}

// ReportServiceEnabled records whether positioning services are on.
func (d *DeviceResolver) ReportServiceEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.serviceOn = enabled
}

// ReportFix records a fresh device fix and persists it as last-known.
func (d *DeviceResolver) ReportFix(ctx context.Context, coords model.Coordinates) {
	fix := reportedFix{Coords: coords, ReportedAt: time.Now()}

	d.mu.Lock()
	d.liveFix = &fix
	d.mu.Unlock()

	raw, err := json.Marshal(fix)
	if err != nil {
		return
	}
	if err := d.store.Set(ctx, lastKnownKey, string(raw)); err != nil {
		log.Error().Err(err).Msg("failed to persist last-known fix")
	}
}

func (d *DeviceResolver) RequestPermission(ctx context.Context) (bool, error) {
	// The server cannot raise a device dialog; the grant the device last
	// reported is the answer the prompt would produce.
	return d.PermissionGranted(ctx), nil
}

func (d *DeviceResolver) PermissionGranted(ctx context.Context) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.granted
}

func (d *DeviceResolver) ServiceEnabled(ctx context.Context) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.serviceOn
}

func (d *DeviceResolver) Current(ctx context.Context, timeout time.Duration) Fix {
	d.mu.RLock()
	fix := d.liveFix
	maxAge := d.liveMaxAge
	d.mu.RUnlock()

	if fix == nil || time.Since(fix.ReportedAt) > maxAge {
		return Fix{Outcome: FixTimedOut}
	}
	return Fix{Outcome: FixSuccess, Coords: fix.Coords}
}

func (d *DeviceResolver) LastKnown(ctx context.Context) Fix {
	raw, err := d.store.Get(ctx, lastKnownKey)
	if err != nil {
		return Fix{Outcome: FixNone}
	}
	var fix reportedFix
	if err := json.Unmarshal([]byte(raw), &fix); err != nil {
		return Fix{Outcome: FixNone}
	}
	return Fix{Outcome: FixSuccess, Coords: fix.Coords}
}
