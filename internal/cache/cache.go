package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/kv"
	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

// Storage keys. The yearly dataset and the two preferences are independent
// entries so that toggling a preference never re-serializes the dataset.
const (
	yearlyDataKey   = "prayers:yearly_data"
	adhanEnabledKey = "prayers:adhan_enabled"
	adhanSoundKey   = "prayers:adhan_sound"
)

// DefaultAdhanSound is used until the user picks one.
const DefaultAdhanSound = "adhan_makkah"

// PrayerCache persists the yearly dataset and the adhan preferences.
// Caching is best-effort: loads never fail outward and save errors are
// logged and swallowed so they cannot block the display or scheduling path.
type PrayerCache struct {
	store kv.Store
}

func New(store kv.Store) *PrayerCache {
	return &PrayerCache{store: store}
}

// LoadYear returns the cached dataset, or nil when the entry is missing or
// corrupt. A corrupt entry is deleted so the next save starts clean.
func (c *PrayerCache) LoadYear(ctx context.Context) *model.YearlyPrayerData {
	raw, err := c.store.Get(ctx, yearlyDataKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Error().Err(err).Msg("failed to read cached prayer data")
		}
		return nil
	}

	var data model.YearlyPrayerData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Error().Err(err).Msg("cached prayer data is corrupt, discarding")
		if delErr := c.store.Delete(ctx, yearlyDataKey); delErr != nil {
			log.Error().Err(delErr).Msg("failed to discard corrupt prayer data")
		}
		return nil
	}
	if len(data.Days) == 0 {
		return nil
	}
	return &data
}

// SaveYear fully overwrites the cached dataset.
func (c *PrayerCache) SaveYear(ctx context.Context, data *model.YearlyPrayerData) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to serialize prayer data")
		return
	}
	if err := c.store.Set(ctx, yearlyDataKey, string(raw)); err != nil {
		log.Error().Err(err).Msg("failed to cache prayer data")
	}
}

// AdhanEnabled reports whether adhan notifications are on. Defaults to true.
func (c *PrayerCache) AdhanEnabled(ctx context.Context) bool {
	raw, err := c.store.Get(ctx, adhanEnabledKey)
	if err != nil {
		return true
	}
	return raw != "false"
}

func (c *PrayerCache) SetAdhanEnabled(ctx context.Context, enabled bool) {
	value := "true"
	if !enabled {
		value = "false"
	}
	if err := c.store.Set(ctx, adhanEnabledKey, value); err != nil {
		log.Error().Err(err).Msg("failed to save adhan preference")
	}
}

// AdhanSound returns the chosen adhan sound identifier.
func (c *PrayerCache) AdhanSound(ctx context.Context) string {
	raw, err := c.store.Get(ctx, adhanSoundKey)
	if err != nil || raw == "" {
		return DefaultAdhanSound
	}
	return raw
}

func (c *PrayerCache) SetAdhanSound(ctx context.Context, sound string) {
	if err := c.store.Set(ctx, adhanSoundKey, sound); err != nil {
		log.Error().Err(err).Msg("failed to save adhan sound preference")
	}
}
