package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"binday/internal/application/dto"
	"binday/internal/domain/constant"
	"binday/internal/domain/entity"
	"binday/internal/domain/trigger"
	appErrors "binday/internal/pkg/errors"
	"binday/internal/pkg/logger"

	"github.com/jonboulle/clockwork"
)

// DefaultSnoozeDuration is used when a snooze request carries no duration.
const DefaultSnoozeDuration = 30 * time.Minute

type dispatchService struct {
	scheduleSvc ScheduleService
	scheduler   DeliveryScheduler
	clock       clockwork.Clock
	loc         *time.Location
	log         logger.Logger

	mu                 sync.Mutex
	authDeniedReported bool
}

// NewDispatchService creates a new instance of the DispatchService
// implementation.
func NewDispatchService(
	scheduleSvc ScheduleService,
	scheduler DeliveryScheduler,
	clock clockwork.Clock,
	loc *time.Location,
	log logger.Logger,
) DispatchService {
	return &dispatchService{
		scheduleSvc: scheduleSvc,
		scheduler:   scheduler,
		clock:       clock,
		loc:         loc,
		log:         log,
	}
}

// Resync fully cancels, then fully re-registers, so a crash in between is
// recoverable by re-running Resync from the persisted trigger set.
func (s *dispatchService) Resync(ctx context.Context, days []entity.BinDay) error {
	granted, err := s.scheduler.RequestAuthorization(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	if !granted {
		// Denial is surfaced once, not on every periodic resync.
		s.mu.Lock()
		alreadyReported := s.authDeniedReported
		s.authDeniedReported = true
		s.mu.Unlock()
		if !alreadyReported {
			s.log.Warn("Notification authorization denied; no deliveries will be registered")
		}
		return appErrors.ErrAuthorizationDenied
	}
	s.mu.Lock()
	s.authDeniedReported = false
	s.mu.Unlock()

	keys := make([]string, len(days))
	for i, day := range days {
		keys[i] = day.Identity()
	}
	s.scheduler.CancelAll()
	s.scheduler.CancelDelivered(keys)
	s.scheduler.SetBadgeCount(0)

	now := s.clock.Now()
	registered := 0
	for _, day := range days {
		if at := day.NotificationMorning; at != nil && at.After(now) {
			content := s.buildContent(day, constant.CategoryMorning, *at)
			if err := s.scheduler.Schedule(day.Identity(), content, *at); err != nil {
				return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
			}
			registered++
		}
		if at := day.NotificationEvening; at != nil && at.After(now) {
			category := day.EveningCategory
			if category == "" {
				category = constant.CategoryEveningTonight
			}
			content := s.buildContent(day, category, *at)
			// Morning and evening never co-occur in practice (evening is
			// day-before, morning day-of); on a collision the later
			// registration wins, which the key-based scheduler accepts.
			if err := s.scheduler.Schedule(day.Identity(), content, *at); err != nil {
				return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
			}
			registered++
		}
	}
	s.log.Info(fmt.Sprintf("Resynced deliveries: %d registered for %d bin days", registered, len(days)))
	return nil
}

// RefreshAndResync fetches and reconciles, then resyncs. When the fetch
// fails, the locally persisted schedule keeps driving deliveries and the
// fetch error is reported to the caller.
func (s *dispatchService) RefreshAndResync(ctx context.Context) ([]entity.BinDay, error) {
	days, err := s.scheduleSvc.Refresh(ctx)
	if err != nil {
		local, loadErr := s.scheduleSvc.Load(ctx)
		if len(local) > 0 {
			if resyncErr := s.Resync(ctx, local); resyncErr != nil {
				s.log.Error("Resync of local schedule after failed refresh", resyncErr)
			}
			return local, err
		}
		if loadErr != nil && !errors.Is(loadErr, appErrors.ErrDataUnavailable) && !errors.Is(loadErr, appErrors.ErrStaleData) {
			s.log.Error("Loading local schedule after failed refresh", loadErr)
		}
		return nil, err
	}
	if err := s.Resync(ctx, days); err != nil {
		return days, err
	}
	return days, nil
}

// Snooze defers one reminder by the requested duration from now.
func (s *dispatchService) Snooze(ctx context.Context, req dto.SnoozeRequest) (time.Time, error) {
	day, err := s.scheduleSvc.Find(ctx, req.Identity)
	if err != nil {
		return time.Time{}, err
	}

	by := req.By
	if by <= 0 {
		by = DefaultSnoozeDuration
	}
	category := constant.CategoryMorning
	if !req.IsMorning {
		category = day.EveningCategory
		if category == "" {
			category = constant.CategoryEveningTonight
		}
	}

	at, newCategory := trigger.Snooze(s.clock.Now(), by, category, s.loc)
	return s.reschedule(ctx, day, req.IsMorning, at, newCategory)
}

// RemindTonight defers a day-before reminder to this evening.
func (s *dispatchService) RemindTonight(ctx context.Context, req dto.RemindTonightRequest) (time.Time, error) {
	day, err := s.scheduleSvc.Find(ctx, req.Identity)
	if err != nil {
		return time.Time{}, err
	}
	at, category := trigger.RemindTonight(s.clock.Now(), s.loc)
	return s.reschedule(ctx, day, false, at, category)
}

// reschedule cancels the existing delivery for the bin day, registers the
// new one and persists the trigger so it survives the next merge.
func (s *dispatchService) reschedule(ctx context.Context, day entity.BinDay, morning bool, at time.Time, category constant.ReminderCategory) (time.Time, error) {
	identity := day.Identity()
	if err := s.scheduleSvc.UpdateTriggerTime(ctx, identity, morning, at, category); err != nil {
		return time.Time{}, err
	}

	s.scheduler.Cancel(identity)
	s.scheduler.CancelDelivered([]string{identity})
	s.scheduler.SetBadgeCount(0)

	content := s.buildContent(day, category, at)
	if err := s.scheduler.Schedule(identity, content, at); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	s.log.Info(fmt.Sprintf("Rescheduled %s reminder for %s to %v", category, identity, at))
	return at, nil
}

// MarkDone acknowledges a delivered reminder. Trigger times stay untouched.
func (s *dispatchService) MarkDone(ctx context.Context, req dto.MarkDoneRequest) error {
	if err := s.scheduleSvc.MarkAsDone(ctx, req.Identity); err != nil {
		return err
	}
	s.scheduler.CancelDelivered([]string{req.Identity})
	s.scheduler.SetBadgeCount(s.scheduleSvc.PendingCount(ctx))
	return nil
}

// HandleDelivered records a fired delivery: the item becomes pending and the
// badge reflects the number of unacknowledged reminders.
func (s *dispatchService) HandleDelivered(ctx context.Context, identity string) error {
	if err := s.scheduleSvc.SetPending(ctx, identity); err != nil {
		if errors.Is(err, appErrors.ErrBinDayNotFound) {
			s.log.Warn(fmt.Sprintf("Delivery fired for unknown bin day %s, ignoring", identity))
			return nil
		}
		return err
	}
	s.scheduler.SetBadgeCount(s.scheduleSvc.PendingCount(ctx))
	return nil
}

// ExpireStale reloads the schedule, dropping entries whose collection day
// has passed, and resyncs the delivery set.
func (s *dispatchService) ExpireStale(ctx context.Context) error {
	days, err := s.scheduleSvc.Load(ctx)
	if err != nil && !errors.Is(err, appErrors.ErrStaleData) {
		if errors.Is(err, appErrors.ErrDataUnavailable) {
			return nil
		}
		return err
	}
	return s.Resync(ctx, days)
}

// buildContent renders the user-facing notification for one bin day.
func (s *dispatchService) buildContent(day entity.BinDay, category constant.ReminderCategory, at time.Time) dto.NotificationContent {
	when := "tomorrow"
	if entity.DateOf(at, s.loc).Equal(day.CollectionDate) {
		when = "today"
	}
	return dto.NotificationContent{
		Title:    "Bin day",
		Body:     fmt.Sprintf("%s is collected %s.", day.Kind.DisplayName(), when),
		Category: category,
	}
}
