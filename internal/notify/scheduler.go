package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
	"github.com/FouadMagdy01/sabeel-sub000/internal/timeutil"
)

// MaxScheduledTriggers caps how many triggers one reschedule registers.
// Mobile platforms enforce their own ceiling on outstanding scheduled
// notifications (historically as low as ~64); staying well under it avoids
// silent rejection of the overflow.
const MaxScheduledTriggers = 50

// ChannelName is the notification channel the adhan triggers post to.
const ChannelName = "adhan"

// Scheduler converts a yearly dataset into a bounded, ordered set of
// notification triggers. It retains no dataset between calls; only the last
// provisioned sound is remembered to skip redundant channel recreation.
// Calls are serialized so a background reschedule cannot interleave with a
// preference-driven one.
type Scheduler struct {
	mu        sync.Mutex
	notifier  Notifier
	lastSound string
	now       func() time.Time
}

func NewScheduler(notifier Notifier) *Scheduler {
	return &Scheduler{notifier: notifier, now: time.Now}
}

// ScheduleYear cancels every outstanding trigger and registers up to
// MaxScheduledTriggers future adhan notifications from the dataset, in
// chronological order. names supplies the localized display name per prayer;
// lang is the tag embedded in each trigger for staleness detection.
//
// A denied notification permission is a silent no-op: notifications are an
// enhancement, not a requirement.
func (s *Scheduler) ScheduleYear(ctx context.Context, data *model.YearlyPrayerData, names map[model.PrayerKey]string, sound, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduleYearLocked(ctx, data, names, sound, lang)
}

func (s *Scheduler) scheduleYearLocked(ctx context.Context, data *model.YearlyPrayerData, names map[model.PrayerKey]string, sound, lang string) error {
	if data == nil || len(data.Days) == 0 {
		return nil
	}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("notification permission check failed: %w", err)
	}
	if !granted {
		log.Info().Msg("notification permission not granted, skipping adhan scheduling")
		return nil
	}

	if sound != s.lastSound {
		if err := s.notifier.ProvisionChannel(ctx, sound); err != nil {
			return fmt.Errorf("failed to provision notification channel: %w", err)
		}
		s.lastSound = sound
	}

	// Cancel-all then re-add keeps the trigger store free of duplicates
	// across repeated reschedules.
	if err := s.notifier.CancelAll(ctx); err != nil {
		return fmt.Errorf("failed to cancel scheduled notifications: %w", err)
	}

	// Map iteration order is unspecified; re-sort the day keys.
	keys := make([]string, 0, len(data.Days))
	for key := range data.Days {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := timeutil.ParseDayKey(keys[i])
		b, errB := timeutil.ParseDayKey(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a.Before(b)
	})

	now := s.now()
	scheduled := 0
	for _, dayKey := range keys {
		if scheduled >= MaxScheduledTriggers {
			break
		}
		day := data.Days[dayKey]
		for _, prayer := range model.NotifiablePrayers {
			if scheduled >= MaxScheduledTriggers {
				break
			}
			at, err := timeutil.DayTime(day.Date, day.Time(prayer))
			if err != nil {
				log.Error().Err(err).Str("day", dayKey).Msg("skipping unparseable prayer time")
				continue
			}
			if !at.After(now) {
				continue
			}

			name := names[prayer]
			if name == "" {
				name = string(prayer)
			}
			trigger := Trigger{
				PrayerKey: prayer,
				At:        at,
				Title:     name,
				Body:      fmt.Sprintf("It is now time for %s", name),
				Sound:     sound,
				Channel:   ChannelName,
				Language:  lang,
			}
			if _, err := s.notifier.Schedule(ctx, trigger); err != nil {
				// Once one schedule call fails, later ones are assumed
				// equally likely to fail.
				log.Error().Err(err).
					Int("scheduled", scheduled).
					Time("at", at).
					Msg("trigger scheduling failed, stopping")
				return nil
			}
			scheduled++
		}
	}

	log.Info().Int("triggers", scheduled).Str("lang", lang).Msg("rescheduled adhan notifications")
	return nil
}

// CancelAll drops every outstanding trigger, used when adhan notifications
// are switched off.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifier.CancelAll(ctx)
}

// CheckAndResyncLanguage reschedules the year only when the first
// outstanding trigger was scheduled under a different language tag. This
// avoids a full reschedule on every foreground while still catching a
// locale switch.
func (s *Scheduler) CheckAndResyncLanguage(ctx context.Context, data *model.YearlyPrayerData, names map[model.PrayerKey]string, sound, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	triggers, err := s.notifier.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scheduled notifications: %w", err)
	}
	if len(triggers) == 0 {
		return nil
	}
	if triggers[0].Language == lang {
		return nil
	}

	log.Info().
		Str("scheduled_lang", triggers[0].Language).
		Str("active_lang", lang).
		Msg("language changed, resyncing adhan notifications")
	return s.scheduleYearLocked(ctx, data, names, sound, lang)
}
