package service

import (
	"context"
	"time"

	"binday/internal/application/dto"
	"binday/internal/domain/entity"
)

// DeliveryScheduler is the external delivery collaborator. It guarantees
// at-most-one pending delivery per key and absolute-time triggering; the
// coordinator owns nothing beyond that contract.
type DeliveryScheduler interface {
	// RequestAuthorization asks the delivery channel whether pushes may be
	// sent. Denial is not an error; it is reported through granted.
	RequestAuthorization(ctx context.Context) (granted bool, err error)
	// Schedule registers a delivery at the given instant. Registering an
	// already-registered key replaces the earlier request.
	Schedule(key string, content dto.NotificationContent, at time.Time) error
	// Cancel drops the pending delivery for key, if any.
	Cancel(key string)
	// CancelAll drops every pending delivery.
	CancelAll()
	// CancelDelivered removes already-delivered notifications for the keys.
	CancelDelivered(keys []string)
	// SetBadgeCount sets the delivered-and-unacknowledged badge.
	SetBadgeCount(n int)
}

// DispatchService keeps the delivery scheduler's pending set in sync with
// the desired trigger set and applies the user-initiated reschedule rules.
type DispatchService interface {
	// Resync cancels everything pending and delivered, clears the badge and
	// re-registers every non-past trigger of the given bin days, keyed by
	// identity. Fails with ErrAuthorizationDenied when pushes are not
	// permitted; nothing is registered in that case.
	Resync(ctx context.Context, days []entity.BinDay) error
	// RefreshAndResync fetches and reconciles the schedule, then resyncs. On
	// a fetch failure the locally persisted (possibly stale) schedule is
	// resynced instead and the fetch error is returned alongside it.
	RefreshAndResync(ctx context.Context) ([]entity.BinDay, error)
	// Snooze defers one reminder by the requested duration, re-registers the
	// delivery and persists the new trigger so it survives later merges.
	Snooze(ctx context.Context, req dto.SnoozeRequest) (time.Time, error)
	// RemindTonight defers a day-before reminder to this evening, or falls
	// back to a one-hour snooze after the threshold.
	RemindTonight(ctx context.Context, req dto.RemindTonightRequest) (time.Time, error)
	// MarkDone acknowledges a delivered reminder and refreshes the badge.
	MarkDone(ctx context.Context, req dto.MarkDoneRequest) error
	// HandleDelivered records that the delivery for identity fired: the item
	// becomes pending and the badge is bumped.
	HandleDelivered(ctx context.Context, identity string) error
	// ExpireStale reloads the schedule (dropping entries whose day has
	// passed) and resyncs; wired to the day-change poller.
	ExpireStale(ctx context.Context) error
}
