package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FouadMagdy01/sabeel-sub000/internal/cache"
	"github.com/FouadMagdy01/sabeel-sub000/internal/kv"
	"github.com/FouadMagdy01/sabeel-sub000/internal/location"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
	"github.com/FouadMagdy01/sabeel-sub000/internal/notify"
	"github.com/FouadMagdy01/sabeel-sub000/internal/timeutil"
)

type fakeResolver struct {
	promptGranted bool
	granted       bool
	serviceOn     bool
	current       location.Fix
	lastKnown     location.Fix
	prompted      bool
}

func (f *fakeResolver) RequestPermission(ctx context.Context) (bool, error) {
	f.prompted = true
	return f.promptGranted, nil
}

func (f *fakeResolver) PermissionGranted(ctx context.Context) bool { return f.granted }

func (f *fakeResolver) ServiceEnabled(ctx context.Context) bool { return f.serviceOn }

func (f *fakeResolver) Current(ctx context.Context, timeout time.Duration) location.Fix {
	return f.current
}

func (f *fakeResolver) LastKnown(ctx context.Context) location.Fix { return f.lastKnown }

type fakeFetcher struct {
	data  *model.YearlyPrayerData
	err   error
	calls int
}

func (f *fakeFetcher) FetchYear(ctx context.Context, coords model.Coordinates, year int) (*model.YearlyPrayerData, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

var testNow = time.Date(2025, 6, 15, 16, 0, 0, 0, time.Local)

func testYear() *model.YearlyPrayerData {
	key := timeutil.DayKey(testNow)
	return &model.YearlyPrayerData{
		Days: map[string]model.DayPrayerTimes{
			key: {
				Fajr:    "05:00",
				Sunrise: "06:20",
				Dhuhr:   "12:10",
				Asr:     "15:30",
				Maghrib: "18:05",
				Isha:    "19:30",
				Date:    key,
			},
		},
		Location:  model.Coordinates{Latitude: 30.0444, Longitude: 31.2357},
		FetchedAt: testNow,
		Year:      2025,
	}
}

func goodFix() location.Fix {
	return location.Fix{
		Outcome: location.FixSuccess,
		Coords:  model.Coordinates{Latitude: 30.0444, Longitude: 31.2357},
	}
}

func newTestEngine(store kv.Store, resolver location.Resolver, fetcher *fakeFetcher) *Engine {
	e := New(Config{
		Cache:    cache.New(store),
		Fetcher:  fetcher,
		Resolver: resolver,
	})
	e.now = func() time.Time { return testNow }
	return e
}

func TestColdStartNoCachePermissionDenied(t *testing.T) {
	store := kv.NewMemoryStore()
	resolver := &fakeResolver{promptGranted: false}
	fetcher := &fakeFetcher{data: testYear()}
	e := newTestEngine(store, resolver, fetcher)

	e.Bootstrap(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, ErrLocationDenied, snap.Error)
	assert.True(t, resolver.prompted)
	assert.Equal(t, 0, fetcher.calls)

	// No cache write occurred.
	_, err := store.Get(context.Background(), "prayers:yearly_data")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestColdStartNoCacheNoFix(t *testing.T) {
	resolver := &fakeResolver{
		promptGranted: true,
		current:       location.Fix{Outcome: location.FixTimedOut},
		lastKnown:     location.Fix{Outcome: location.FixNone},
	}
	e := newTestEngine(kv.NewMemoryStore(), resolver, &fakeFetcher{data: testYear()})

	e.Bootstrap(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, ErrLocationError, snap.Error)
}

func TestColdStartNoCacheFetchFails(t *testing.T) {
	resolver := &fakeResolver{promptGranted: true, current: goodFix()}
	fetcher := &fakeFetcher{err: errors.New("network down")}
	e := newTestEngine(kv.NewMemoryStore(), resolver, fetcher)

	e.Bootstrap(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, ErrFetchError, snap.Error)
}

func TestColdStartNoCacheSuccess(t *testing.T) {
	store := kv.NewMemoryStore()
	resolver := &fakeResolver{promptGranted: true, current: goodFix()}
	fetcher := &fakeFetcher{data: testYear()}
	e := newTestEngine(store, resolver, fetcher)

	e.Bootstrap(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateReadyFresh, snap.State)
	assert.False(t, snap.IsStale)
	assert.Equal(t, ErrNone, snap.Error)
	assert.NotNil(t, snap.Current)
	assert.Equal(t, model.Asr, *snap.Current)
	assert.NotNil(t, snap.Next)
	assert.Equal(t, model.Maghrib, *snap.Next)
	assert.Equal(t, "02:05", snap.Countdown)

	// Write-through happened.
	assert.NotNil(t, cache.New(store).LoadYear(context.Background()))
}

// seedCache persists a dataset so the engine boots on the silent path.
func seedCache(t *testing.T, store kv.Store) {
	t.Helper()
	cache.New(store).SaveYear(context.Background(), testYear())
}

func TestSilentPathPermissionNotGranted(t *testing.T) {
	store := kv.NewMemoryStore()
	seedCache(t, store)

	resolver := &fakeResolver{granted: false, serviceOn: true}
	fetcher := &fakeFetcher{data: testYear()}
	e := newTestEngine(store, resolver, fetcher)

	e.Bootstrap(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateReadyStale, snap.State)
	assert.True(t, snap.IsStale)
	assert.Equal(t, ErrNone, snap.Error)
	assert.False(t, resolver.prompted, "silent path must never prompt")
	assert.Equal(t, 0, fetcher.calls)

	// Cached data is still rendered.
	assert.NotNil(t, snap.Current)
	assert.Equal(t, model.Asr, *snap.Current)
}

func TestSilentPathServiceDisabled(t *testing.T) {
	store := kv.NewMemoryStore()
	seedCache(t, store)

	resolver := &fakeResolver{granted: true, serviceOn: false}
	e := newTestEngine(store, resolver, &fakeFetcher{data: testYear()})

	e.Bootstrap(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateReadyStale, snap.State)
	assert.Equal(t, ErrNone, snap.Error)
}

func TestSilentPathFetchFails(t *testing.T) {
	store := kv.NewMemoryStore()
	seedCache(t, store)

	resolver := &fakeResolver{granted: true, serviceOn: true, lastKnown: goodFix()}
	fetcher := &fakeFetcher{err: errors.New("service unavailable")}
	e := newTestEngine(store, resolver, fetcher)

	e.Bootstrap(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateReadyStale, snap.State)
	assert.Equal(t, ErrNone, snap.Error)
	assert.Equal(t, 1, fetcher.calls)
}

func TestSilentPathSuccess(t *testing.T) {
	store := kv.NewMemoryStore()
	seedCache(t, store)

	resolver := &fakeResolver{granted: true, serviceOn: true, lastKnown: goodFix()}
	fetcher := &fakeFetcher{data: testYear()}
	e := newTestEngine(store, resolver, fetcher)

	e.Bootstrap(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateReadyFresh, snap.State)
	assert.False(t, snap.IsStale)
	assert.False(t, resolver.prompted)
}

func TestExplicitRefreshRecoversFromError(t *testing.T) {
	store := kv.NewMemoryStore()
	resolver := &fakeResolver{promptGranted: false}
	fetcher := &fakeFetcher{data: testYear()}
	e := newTestEngine(store, resolver, fetcher)

	e.Bootstrap(context.Background())
	assert.Equal(t, StateError, e.Snapshot().State)

	// User grants permission in settings and retries.
	resolver.promptGranted = true
	resolver.current = goodFix()
	e.Refresh(context.Background())

	assert.Equal(t, StateReadyFresh, e.Snapshot().State)
}

func TestRefreshFailureKeepsCachedDataStale(t *testing.T) {
	store := kv.NewMemoryStore()
	seedCache(t, store)

	resolver := &fakeResolver{granted: true, serviceOn: true, lastKnown: goodFix()}
	fetcher := &fakeFetcher{data: testYear()}
	e := newTestEngine(store, resolver, fetcher)
	e.Bootstrap(context.Background())

	// Explicit refresh hits a network failure: the error is surfaced but
	// the cached day keeps rendering.
	resolver.promptGranted = true
	resolver.current = goodFix()
	fetcher.err = errors.New("network down")
	e.Refresh(context.Background())

	snap := e.Snapshot()
	assert.Equal(t, StateReadyStale, snap.State)
	assert.Equal(t, ErrFetchError, snap.Error)
	assert.NotNil(t, snap.Current)
}

// noopNotifier accepts everything; it only exists so the scheduler walks
// the name map on every reschedule.
type noopNotifier struct{}

func (noopNotifier) RequestPermission(ctx context.Context) (bool, error) { return true, nil }

func (noopNotifier) ProvisionChannel(ctx context.Context, sound string) error { return nil }

func (noopNotifier) CancelAll(ctx context.Context) error { return nil }

func (noopNotifier) Schedule(ctx context.Context, tr notify.Trigger) (string, error) {
	return "id", nil
}

func (noopNotifier) ListScheduled(ctx context.Context) ([]notify.Trigger, error) { return nil, nil }

// Meaningful under the race detector: background refreshes read the name
// map while language switches swap it.
func TestConcurrentSilentRefreshAndLanguageSwitch(t *testing.T) {
	store := kv.NewMemoryStore()
	seedCache(t, store)

	resolver := &fakeResolver{granted: true, serviceOn: true, lastKnown: goodFix()}
	e := New(Config{
		Cache:     cache.New(store),
		Fetcher:   &fakeFetcher{data: testYear()},
		Resolver:  resolver,
		Scheduler: notify.NewScheduler(noopNotifier{}),
	})
	e.now = func() time.Time { return testNow }
	e.Bootstrap(context.Background())

	arabicNames := map[model.PrayerKey]string{
		model.Fajr: "الفجر", model.Sunrise: "الشروق", model.Dhuhr: "الظهر",
		model.Asr: "العصر", model.Maghrib: "المغرب", model.Isha: "العشاء",
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			e.SilentRefresh(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				e.SetLanguage(context.Background(), "ar", arabicNames)
			} else {
				e.SetLanguage(context.Background(), "en", DefaultNames)
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, StateReadyFresh, e.Snapshot().State)
}

func TestSnapshotWithoutDataUsesSentinel(t *testing.T) {
	e := newTestEngine(kv.NewMemoryStore(), &fakeResolver{}, &fakeFetcher{})

	snap := e.Snapshot()
	assert.Equal(t, StateNoData, snap.State)
	assert.Nil(t, snap.Current)
	assert.Nil(t, snap.Next)
	assert.Equal(t, "--:--", snap.Countdown)
}
