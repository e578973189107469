package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/aladhan"
	"github.com/FouadMagdy01/sabeel-sub000/internal/cache"
	"github.com/FouadMagdy01/sabeel-sub000/internal/location"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
	"github.com/FouadMagdy01/sabeel-sub000/internal/notify"
	"github.com/FouadMagdy01/sabeel-sub000/internal/status"
	"github.com/FouadMagdy01/sabeel-sub000/internal/timeutil"
)

// State is the engine's sync phase.
type State string

const (
	StateNoData     State = "no_data"
	StateLoading    State = "loading"
	StateReadyFresh State = "ready_fresh"
	StateReadyStale State = "ready_stale"
	StateError      State = "error"
)

// ErrorKind classifies a terminal sync failure.
type ErrorKind string

const (
	ErrNone           ErrorKind = ""
	ErrLocationDenied ErrorKind = "location_denied"
	ErrLocationError  ErrorKind = "location_error"
	ErrFetchError     ErrorKind = "fetch_error"
)

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	State        State               `json:"state"`
	TodayPrayers []model.PrayerEntry `json:"today_prayers"`
	Current      *model.PrayerKey    `json:"current"`
	Next         *model.PrayerKey    `json:"next"`
	Countdown    string              `json:"countdown"`
	Hijri        *model.HijriDate    `json:"hijri,omitempty"`
	IsLoading    bool                `json:"is_loading"`
	IsStale      bool                `json:"is_stale"`
	Error        ErrorKind           `json:"error,omitempty"`
}

// Engine owns the sync state machine: it decides between prompting for
// location access and silently reusing cached data, runs the
// permission -> position -> fetch -> cache-write -> reschedule pipeline, and
// derives the display status from the active day.
//
// One instance is constructed per process and passed to consumers; there is
// no package-level sync state. Overlapping refreshes are collapsed: a call
// arriving while one is in flight returns without starting another.
type Engine struct {
	prayerCache *cache.PrayerCache
	fetcher     aladhan.Fetcher
	resolver    location.Resolver
	scheduler   *notify.Scheduler
	names       map[model.PrayerKey]string
	now         func() time.Time

	mu         sync.RWMutex
	state      State
	errKind    ErrorKind
	data       *model.YearlyPrayerData
	lang       string
	refreshing bool
}

type Config struct {
	Cache     *cache.PrayerCache
	Fetcher   aladhan.Fetcher
	Resolver  location.Resolver
	Scheduler *notify.Scheduler
	Names     map[model.PrayerKey]string
	Language  string
}

// DefaultNames are the built-in English display names.
var DefaultNames = map[model.PrayerKey]string{
	model.Fajr:    "Fajr",
	model.Sunrise: "Sunrise",
	model.Dhuhr:   "Dhuhr",
	model.Asr:     "Asr",
	model.Maghrib: "Maghrib",
	model.Isha:    "Isha",
}

func New(cfg Config) *Engine {
	names := cfg.Names
	if names == nil {
		names = DefaultNames
	}
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	return &Engine{
		prayerCache: cfg.Cache,
		fetcher:     cfg.Fetcher,
		resolver:    cfg.Resolver,
		scheduler:   cfg.Scheduler,
		names:       names,
		lang:        lang,
		now:         time.Now,
		state:       StateNoData,
	}
}

// Bootstrap runs the cold-start decision: with no cache it follows the
// prompting path (there is nothing useful to show yet, so a permission
// dialog is acceptable); with a cache it restores the data immediately and
// attempts a silent refresh that can only improve on what is shown.
func (e *Engine) Bootstrap(ctx context.Context) {
	cached := e.prayerCache.LoadYear(ctx)
	if cached == nil {
		e.Refresh(ctx)
		return
	}

	e.mu.Lock()
	e.data = cached
	e.state = StateReadyStale
	e.mu.Unlock()

	e.SilentRefresh(ctx)
}

// Refresh is the prompting path, used on cold start without a cache and
// whenever the user explicitly asks: the user has opted into a potential
// permission dialog, so failures surface as errors instead of degrading
// silently.
func (e *Engine) Refresh(ctx context.Context) {
	if !e.beginRefresh() {
		return
	}
	defer e.endRefresh()

	granted, err := e.resolver.RequestPermission(ctx)
	if err != nil || !granted {
		e.fail(ErrLocationDenied)
		return
	}

	fix := location.Acquire(ctx, e.resolver)
	if fix.Outcome != location.FixSuccess {
		e.fail(ErrLocationError)
		return
	}

	e.fetchAndCommit(ctx, fix.Coords, true)
}

// SilentRefresh is the background path: it must never show a permission
// dialog, and with cached data on hand every failure degrades to
// Ready(stale) rather than surfacing an error.
func (e *Engine) SilentRefresh(ctx context.Context) {
	if !e.beginRefresh() {
		return
	}
	defer e.endRefresh()

	if !e.resolver.PermissionGranted(ctx) || !e.resolver.ServiceEnabled(ctx) {
		e.degrade("location access unavailable")
		return
	}

	fix := e.resolver.LastKnown(ctx)
	if fix.Outcome != location.FixSuccess {
		e.degrade("no last-known position")
		return
	}

	e.fetchAndCommit(ctx, fix.Coords, false)
}

func (e *Engine) beginRefresh() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.refreshing {
		return false
	}
	e.refreshing = true
	if e.data == nil {
		e.state = StateLoading
	}
	e.errKind = ErrNone
	return true
}

func (e *Engine) endRefresh() {
	e.mu.Lock()
	e.refreshing = false
	e.mu.Unlock()
}

// fetchAndCommit runs fetch -> cache write-through -> state update ->
// notification reschedule. The cache write happens before the in-memory
// update so a crash in between never loses previously cached data.
func (e *Engine) fetchAndCommit(ctx context.Context, coords model.Coordinates, prompting bool) {
	year := e.now().Year()
	data, err := e.fetcher.FetchYear(ctx, coords, year)
	if err != nil {
		log.Error().Err(err).Int("year", year).Msg("yearly prayer fetch failed")
		if prompting {
			e.fail(ErrFetchError)
		} else {
			e.degrade("fetch failed")
		}
		return
	}

	e.prayerCache.SaveYear(ctx, data)

	e.mu.Lock()
	e.data = data
	e.state = StateReadyFresh
	e.errKind = ErrNone
	lang := e.lang
	names := e.names
	e.mu.Unlock()

	e.reschedule(ctx, data, names, lang)
}

// reschedule takes names snapshotted under the engine lock; SetLanguage may
// swap the map concurrently.
func (e *Engine) reschedule(ctx context.Context, data *model.YearlyPrayerData, names map[model.PrayerKey]string, lang string) {
	if e.scheduler == nil {
		return
	}
	if !e.prayerCache.AdhanEnabled(ctx) {
		return
	}
	sound := e.prayerCache.AdhanSound(ctx)
	if err := e.scheduler.ScheduleYear(ctx, data, names, sound, lang); err != nil {
		log.Error().Err(err).Msg("adhan reschedule failed")
	}
}

// fail records a prompting-path failure. With cached data still on hand the
// engine keeps showing it as stale alongside the error; with nothing cached
// the error is terminal until the next refresh.
func (e *Engine) fail(kind ErrorKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errKind = kind
	if e.data != nil {
		e.state = StateReadyStale
	} else {
		e.state = StateError
	}
}

func (e *Engine) degrade(reason string) {
	log.Info().Str("reason", reason).Msg("silent refresh fell back to cached data")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data != nil {
		e.state = StateReadyStale
	} else {
		e.state = StateNoData
	}
}

// Snapshot derives the presentation view for the current instant. Cheap and
// side-effect free; the minute tick and the websocket stream call it freely.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		State:     e.state,
		Countdown: status.NoCountdown,
		IsLoading: e.state == StateLoading,
		IsStale:   e.state == StateReadyStale,
		Error:     e.errKind,
	}
	if e.data == nil {
		return snap
	}

	day, ok := e.data.Days[timeutil.DayKey(e.now())]
	if !ok {
		return snap
	}

	st, err := status.Derive(day, e.now())
	if err != nil {
		log.Error().Err(err).Str("date", day.Date).Msg("status derivation failed")
		return snap
	}
	snap.TodayPrayers = st.Prayers
	snap.Current = st.Current
	snap.Next = st.Next
	snap.Countdown = st.Countdown
	snap.Hijri = day.Hijri
	return snap
}

// TodayKey exposes the active day key the way the presentation layer
// expects it.
func (e *Engine) TodayKey() string {
	return timeutil.DayKey(e.now())
}

// Data returns the dataset the engine currently renders from.
func (e *Engine) Data() *model.YearlyPrayerData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.data
}

// SetLanguage switches the active language and resyncs scheduled triggers
// if their embedded tag no longer matches.
func (e *Engine) SetLanguage(ctx context.Context, lang string, names map[model.PrayerKey]string) {
	e.mu.Lock()
	e.lang = lang
	if names != nil {
		e.names = names
	}
	data := e.data
	activeNames := e.names
	e.mu.Unlock()

	if e.scheduler == nil || data == nil {
		return
	}
	sound := e.prayerCache.AdhanSound(ctx)
	if err := e.scheduler.CheckAndResyncLanguage(ctx, data, activeNames, sound, lang); err != nil {
		log.Error().Err(err).Msg("language resync failed")
	}
}

// ApplyPreferences re-registers triggers after a preference change. When
// adhan is disabled every outstanding trigger is cancelled.
func (e *Engine) ApplyPreferences(ctx context.Context) {
	e.mu.RLock()
	data := e.data
	lang := e.lang
	names := e.names
	e.mu.RUnlock()

	if e.scheduler == nil || data == nil {
		return
	}
	if !e.prayerCache.AdhanEnabled(ctx) {
		if err := e.scheduler.CancelAll(ctx); err != nil {
			log.Error().Err(err).Msg("failed to cancel adhan notifications")
		}
		return
	}
	sound := e.prayerCache.AdhanSound(ctx)
	if err := e.scheduler.ScheduleYear(ctx, data, names, sound, lang); err != nil {
		log.Error().Err(err).Msg("adhan reschedule failed")
	}
}

// RunDailyResync re-runs the silent path once per day so the displayed day
// key rolls over and the trigger window slides forward. Started by the
// caller; the engine itself spawns no goroutines.
func (e *Engine) RunDailyResync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.SilentRefresh(ctx)
		}
	}
}
