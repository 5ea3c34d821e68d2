package service

import (
	"context"
	"time"

	"binday/internal/application/dto"
	"binday/internal/domain/constant"
	"binday/internal/domain/entity"
)

// ScheduleFetcher is the external fetch collaborator. Implementations map
// every failure (timeout, transport error, non-success status) to
// ErrNetworkUnavailable.
type ScheduleFetcher interface {
	// FetchSchedule retrieves the raw collection events for a location.
	FetchSchedule(ctx context.Context, locationID int) ([]dto.BinDayRaw, error)
}

// ScheduleService owns the authoritative, locally persisted set of bin days
// and reconciles it with freshly fetched data without losing in-flight
// reminder state.
type ScheduleService interface {
	// Load returns the persisted schedule with past collection dates filtered
	// out, sorted. It fails with ErrDataUnavailable when nothing is persisted
	// and with ErrStaleData when fewer future days remain than the freshness
	// threshold; on ErrStaleData the filtered days are still returned so
	// callers can keep displaying them.
	Load(ctx context.Context) ([]entity.BinDay, error)
	// Save persists the given schedule and records the update timestamp. An
	// empty schedule is rejected with ErrEmptyInput, leaving the previously
	// persisted data untouched.
	Save(ctx context.Context, days []entity.BinDay) error
	// Merge reconciles freshly fetched bin days with the current set: items
	// present in both carry their reminder state forward, vanished items are
	// dropped, new items are appended with empty reminder fields. An empty
	// fetched set returns current unchanged.
	Merge(current, fetched []entity.BinDay) []entity.BinDay
	// Refresh runs fetch, merge, trigger computation for new items, and save
	// for the configured address, returning the resulting schedule sorted.
	Refresh(ctx context.Context) ([]entity.BinDay, error)
	// ApplyPreferences recomputes triggers for every stored bin day from the
	// given preferences, discarding per-item snooze overrides, and persists
	// the result.
	ApplyPreferences(ctx context.Context, prefs entity.ReminderPreferences) ([]entity.BinDay, error)
	// MarkAsDone clears the pending flag of the matching item and persists.
	MarkAsDone(ctx context.Context, identity string) error
	// SetPending marks the matching item as delivered-and-unacknowledged.
	SetPending(ctx context.Context, identity string) error
	// Find returns the stored bin day with the given identity.
	Find(ctx context.Context, identity string) (entity.BinDay, error)
	// UpdateTriggerTime overwrites one trigger slot of the matching item and
	// persists, so the override survives later merges. The category applies
	// to the evening slot only.
	UpdateTriggerTime(ctx context.Context, identity string, morning bool, at time.Time, category constant.ReminderCategory) error
	// PendingCount returns how many stored bin days are delivered and not yet
	// acknowledged.
	PendingCount(ctx context.Context) int
	// Clear wipes the persisted schedule (used when the address changes).
	Clear(ctx context.Context) error
}
