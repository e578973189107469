package location

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FouadMagdy01/sabeel-sub000/internal/kv"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

func TestDeviceResolverFixLifecycle(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	r := NewDeviceResolver(store)

	assert.Equal(t, FixNone, r.LastKnown(ctx).Outcome)
	assert.Equal(t, FixTimedOut, r.Current(ctx, FixTimeout).Outcome)

	coords := model.Coordinates{Latitude: 30.0444, Longitude: 31.2357}
	r.ReportFix(ctx, coords)

	live := r.Current(ctx, FixTimeout)
	assert.Equal(t, FixSuccess, live.Outcome)
	assert.Equal(t, coords, live.Coords)

	// The fix is mirrored into the store, so a fresh resolver still has a
	// last-known position.
	r2 := NewDeviceResolver(store)
	last := r2.LastKnown(ctx)
	assert.Equal(t, FixSuccess, last.Outcome)
	assert.Equal(t, coords, last.Coords)
}

func TestDeviceResolverStaleLiveFix(t *testing.T) {
	ctx := context.Background()
	r := NewDeviceResolver(kv.NewMemoryStore())
	r.liveMaxAge = time.Millisecond

	r.ReportFix(ctx, model.Coordinates{Latitude: 1, Longitude: 2})
	time.Sleep(5 * time.Millisecond)

	// A live fix older than the freshness window is a timeout; only the
	// persisted last-known copy remains usable.
	assert.Equal(t, FixTimedOut, r.Current(ctx, FixTimeout).Outcome)
	assert.Equal(t, FixSuccess, r.LastKnown(ctx).Outcome)
}

func TestAcquireFallsBackToLastKnown(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	r := NewDeviceResolver(store)
	r.liveMaxAge = time.Millisecond

	coords := model.Coordinates{Latitude: 30.0444, Longitude: 31.2357}
	r.ReportFix(ctx, coords)
	time.Sleep(5 * time.Millisecond)

	fix := Acquire(ctx, r)
	assert.Equal(t, FixSuccess, fix.Outcome)
	assert.Equal(t, coords, fix.Coords)
}

func TestAcquireWithNothing(t *testing.T) {
	r := NewDeviceResolver(kv.NewMemoryStore())
	fix := Acquire(context.Background(), r)
	assert.Equal(t, FixNone, fix.Outcome)
}
