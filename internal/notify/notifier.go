package notify

import (
	"context"
	"time"

	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

// Trigger is one scheduled, time-bound local notification request. The
// language tag rides along in the payload solely so a later call can detect
// that the device locale changed since scheduling.
type Trigger struct {
	PrayerKey model.PrayerKey `json:"prayer_key"`
	At        time.Time       `json:"at"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Sound     string          `json:"sound"`
	Channel   string          `json:"channel"`
	Language  string          `json:"language"`
}

// Notifier is the OS-level notification subsystem boundary.
type Notifier interface {
	// RequestPermission reports whether notifications may be posted. A
	// denial is not an error.
	RequestPermission(ctx context.Context) (bool, error)

	// ProvisionChannel (re)creates the notification channel carrying the
	// given sound. Called only when the sound changes, since channel
	// recreation is disruptive on the device.
	ProvisionChannel(ctx context.Context, sound string) error

	// CancelAll removes every outstanding scheduled trigger.
	CancelAll(ctx context.Context) error

	// Schedule registers one trigger and returns its identifier.
	Schedule(ctx context.Context, t Trigger) (string, error)

	// ListScheduled returns the outstanding triggers, soonest first.
	ListScheduled(ctx context.Context) ([]Trigger, error)
}
