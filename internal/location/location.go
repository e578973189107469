package location

import (
	"context"
	"time"

	"github.com/FouadMagdy01/sabeel-sub000/internal/model"
)

// FixTimeout bounds a live position attempt before falling back to the
// last-known fix.
const FixTimeout = 10 * time.Second

// FixOutcome is the typed result of a position acquisition step, so every
// branch of the permission/position chain is handled explicitly.
type FixOutcome int

const (
	FixSuccess FixOutcome = iota
	FixDenied
	FixTimedOut
	FixNone
)

// Fix is the result of one acquisition attempt.
type Fix struct {
	Outcome FixOutcome
	Coords  model.Coordinates
}

// Resolver is the positioning subsystem boundary. Implementations must not
// show any user-visible prompt except from RequestPermission.
type Resolver interface {
	// RequestPermission may show a system dialog; reports whether
	// foreground location access was granted.
	RequestPermission(ctx context.Context) (bool, error)

	// PermissionGranted checks the current grant without prompting.
	PermissionGranted(ctx context.Context) bool

	// ServiceEnabled reports whether positioning services are on.
	ServiceEnabled(ctx context.Context) bool

	// Current attempts a live fix bounded by timeout.
	Current(ctx context.Context, timeout time.Duration) Fix

	// LastKnown returns the most recent stored fix, FixNone if absent.
	LastKnown(ctx context.Context) Fix
}

// Acquire runs the two-step fallback used inside a sync attempt: a live fix
// bounded by FixTimeout, then the last-known fix. Permission handling is the
// caller's concern.
func Acquire(ctx context.Context, r Resolver) Fix {
	fix := r.Current(ctx, FixTimeout)
	if fix.Outcome == FixSuccess {
		return fix
	}
	last := r.LastKnown(ctx)
	if last.Outcome == FixSuccess {
		return last
	}
	return Fix{Outcome: FixNone}
}
