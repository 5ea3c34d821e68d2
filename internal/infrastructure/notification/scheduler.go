package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"binday/internal/application/dto"
	appErrors "binday/internal/pkg/errors"
	"binday/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Sender is the channel a due notification is pushed through.
type Sender interface {
	// Authorize reports whether the channel may be used. Denial is reported
	// through granted, not as an error.
	Authorize(ctx context.Context) (granted bool, err error)
	// Send delivers the rendered notification.
	Send(content dto.NotificationContent, identity string) error
}

// Scheduler is the delivery scheduler: it accepts "deliver content C at
// absolute time T, identified by key K" requests and guarantees at most one
// pending delivery per key. One-shot deliveries run on a cron instance, one
// entry per key.
type Scheduler struct {
	cron   *cron.Cron
	sender Sender
	loc    *time.Location
	log    logger.Logger

	// onDelivered is invoked after a delivery fires; set during wiring to
	// break the circular dependency with the dispatch coordinator.
	onDelivered func(identity string)

	mu        sync.Mutex
	pending   map[string]cron.EntryID
	delivered map[string]struct{}
	badge     int
}

// NewScheduler creates a new delivery scheduler and starts its cron loop.
func NewScheduler(sender Sender, loc *time.Location, log logger.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))
	c.Start()
	log.Info("Delivery scheduler started.")
	return &Scheduler{
		cron:      c,
		sender:    sender,
		loc:       loc,
		log:       log,
		pending:   make(map[string]cron.EntryID),
		delivered: make(map[string]struct{}),
	}
}

// SetDeliveredHandler sets the function invoked after a delivery fires.
// Called during dependency injection setup.
func (s *Scheduler) SetDeliveredHandler(handler func(identity string)) {
	s.onDelivered = handler
}

// RequestAuthorization asks the underlying channel whether pushes may be
// sent.
func (s *Scheduler) RequestAuthorization(ctx context.Context) (bool, error) {
	return s.sender.Authorize(ctx)
}

// formatCronSpec generates a one-shot cron spec for a specific local time.
func formatCronSpec(t time.Time) string {
	// Seconds Minutes Hours DayOfMonth Month DayOfWeek
	return fmt.Sprintf("%d %d %d %d %d *", t.Second(), t.Minute(), t.Hour(), t.Day(), t.Month())
}

// Schedule registers a delivery for key at the given instant. An existing
// registration for the same key is replaced.
func (s *Scheduler) Schedule(key string, content dto.NotificationContent, at time.Time) error {
	if at.IsZero() || !at.After(time.Now()) {
		return fmt.Errorf("%w: cannot schedule delivery at past or zero time", appErrors.ErrScheduling)
	}

	s.mu.Lock()
	if entryID, exists := s.pending[key]; exists {
		s.cron.Remove(entryID)
		delete(s.pending, key)
	}
	s.mu.Unlock()

	spec := formatCronSpec(at.In(s.loc))
	entryID, err := s.cron.AddFunc(spec, func() {
		s.deliver(key, content)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.mu.Lock()
	s.pending[key] = entryID
	s.mu.Unlock()
	s.log.Info(fmt.Sprintf("Scheduled delivery for %s at %v (Job ID: %d)", key, at, entryID))
	return nil
}

// deliver pushes the content, moves the key from pending to delivered and
// notifies the wired handler.
func (s *Scheduler) deliver(key string, content dto.NotificationContent) {
	s.mu.Lock()
	if entryID, exists := s.pending[key]; exists {
		s.cron.Remove(entryID)
		delete(s.pending, key)
	}
	s.delivered[key] = struct{}{}
	s.mu.Unlock()

	if err := s.sender.Send(content, key); err != nil {
		s.log.Error(fmt.Sprintf("Failed to deliver notification for %s", key), err)
		return
	}
	s.log.Info(fmt.Sprintf("Delivered notification for %s", key))
	if s.onDelivered != nil {
		s.onDelivered(key)
	}
}

// Cancel drops the pending delivery for key, if any.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entryID, exists := s.pending[key]; exists {
		s.cron.Remove(entryID)
		delete(s.pending, key)
		s.log.Info(fmt.Sprintf("Cancelled pending delivery for %s (Job ID: %d)", key, entryID))
	}
}

// CancelAll drops every pending delivery.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entryID := range s.pending {
		s.cron.Remove(entryID)
		delete(s.pending, key)
	}
}

// CancelDelivered removes already-delivered notifications for the keys.
func (s *Scheduler) CancelDelivered(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.delivered, key)
	}
}

// SetBadgeCount sets the delivered-and-unacknowledged badge.
func (s *Scheduler) SetBadgeCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badge = n
}

// BadgeCount returns the current badge value.
func (s *Scheduler) BadgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badge
}

// PendingKeys returns the keys with a pending delivery, for inspection.
func (s *Scheduler) PendingKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.pending))
	for key := range s.pending {
		keys = append(keys, key)
	}
	return keys
}

// Stop stops the cron loop and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Delivery scheduler stopped.")
}
