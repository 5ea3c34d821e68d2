package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"binday/internal/domain/constant"
	"binday/internal/domain/entity"
	"binday/internal/domain/repository"
	"binday/internal/domain/trigger"
	appErrors "binday/internal/pkg/errors"
	"binday/internal/pkg/logger"

	"github.com/jonboulle/clockwork"
)

// DefaultMinFreshDays is the minimum number of future-or-today collection
// entries the persisted schedule must cover before it counts as fresh.
const DefaultMinFreshDays = 6

// scheduleArchive is the persisted shape of the schedule store.
type scheduleArchive struct {
	Days       []entity.BinDay `json:"days"`
	LastUpdate time.Time       `json:"last_update"`
}

type scheduleService struct {
	archive      repository.ArchiveRepository
	fetcher      ScheduleFetcher
	addressSvc   AddressService
	prefsSvc     PreferencesService
	clock        clockwork.Clock
	loc          *time.Location
	minFreshDays int
	log          logger.Logger
}

// NewScheduleService creates a new instance of the ScheduleService
// implementation. minFreshDays <= 0 selects DefaultMinFreshDays.
func NewScheduleService(
	archive repository.ArchiveRepository,
	fetcher ScheduleFetcher,
	addressSvc AddressService,
	prefsSvc PreferencesService,
	clock clockwork.Clock,
	loc *time.Location,
	minFreshDays int,
	log logger.Logger,
) ScheduleService {
	if minFreshDays <= 0 {
		minFreshDays = DefaultMinFreshDays
	}
	return &scheduleService{
		archive:      archive,
		fetcher:      fetcher,
		addressSvc:   addressSvc,
		prefsSvc:     prefsSvc,
		clock:        clock,
		loc:          loc,
		minFreshDays: minFreshDays,
		log:          log,
	}
}

// loadArchive reads the raw persisted schedule. A corrupt blob is reported
// as ErrDataUnavailable: corrupt data gets no partial trust.
func (s *scheduleService) loadArchive(ctx context.Context) (scheduleArchive, error) {
	var arch scheduleArchive
	err := s.archive.Load(ctx, repository.ArchiveKey(repository.ArchiveNameSchedule), &arch)
	if err != nil {
		if errors.Is(err, appErrors.ErrDecodingFailure) {
			s.log.Warn(fmt.Sprintf("Persisted schedule could not be decoded, treating as absent: %v", err))
			return scheduleArchive{}, fmt.Errorf("%w: %v", appErrors.ErrDataUnavailable, err)
		}
		return scheduleArchive{}, err
	}
	return arch, nil
}

// Load returns the persisted schedule with past collection dates filtered
// out. On ErrStaleData the filtered days are still returned.
func (s *scheduleService) Load(ctx context.Context) ([]entity.BinDay, error) {
	arch, err := s.loadArchive(ctx)
	if err != nil {
		return nil, err
	}

	today := entity.DateOf(s.clock.Now(), s.loc)
	days := make([]entity.BinDay, 0, len(arch.Days))
	for _, day := range arch.Days {
		if day.CollectionDate.Before(today) {
			continue
		}
		days = append(days, day)
	}
	entity.SortBinDays(days)

	if len(days) < s.minFreshDays {
		return days, fmt.Errorf("%w: %d future entries, need %d", appErrors.ErrStaleData, len(days), s.minFreshDays)
	}
	return days, nil
}

// Save persists the schedule and records the update timestamp.
func (s *scheduleService) Save(ctx context.Context, days []entity.BinDay) error {
	if len(days) == 0 {
		return appErrors.ErrEmptyInput
	}
	arch := scheduleArchive{
		Days:       days,
		LastUpdate: s.clock.Now().Truncate(time.Second).UTC(),
	}
	if err := s.archive.Save(ctx, repository.ArchiveKey(repository.ArchiveNameSchedule), arch); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}

// Merge reconciles freshly fetched bin days with the current set. Fetched
// data never overwrites reminder state for items that still exist; items no
// longer in the fetched set are dropped; newly visible items come in with
// empty reminder fields. An empty fetched set keeps current untouched.
func (s *scheduleService) Merge(current, fetched []entity.BinDay) []entity.BinDay {
	if len(fetched) == 0 {
		return current
	}

	fetchedByID := make(map[string]entity.BinDay, len(fetched))
	order := make([]string, 0, len(fetched))
	for _, day := range fetched {
		id := day.Identity()
		if _, dup := fetchedByID[id]; dup {
			continue
		}
		fetchedByID[id] = day
		order = append(order, id)
	}

	currentIDs := make(map[string]struct{}, len(current))
	result := make([]entity.BinDay, 0, len(fetchedByID))
	for _, day := range current {
		id := day.Identity()
		if _, stillExists := fetchedByID[id]; !stillExists {
			continue
		}
		currentIDs[id] = struct{}{}
		result = append(result, day)
	}
	for _, id := range order {
		if _, carried := currentIDs[id]; carried {
			continue
		}
		day := fetchedByID[id]
		day.NotificationMorning = nil
		day.NotificationEvening = nil
		day.EveningCategory = ""
		day.IsPending = false
		result = append(result, day)
	}
	return result
}

// Refresh fetches the schedule for the configured address, merges it with
// the current set, computes triggers for newly appeared items and persists
// the result.
func (s *scheduleService) Refresh(ctx context.Context) ([]entity.BinDay, error) {
	address, err := s.addressSvc.Get(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.fetcher.FetchSchedule(ctx, address.ID)
	if err != nil {
		return nil, err
	}

	fetched := make([]entity.BinDay, 0, len(raw))
	for _, record := range raw {
		day, err := record.ToBinDay()
		if err != nil {
			// No partial trust of a malformed response.
			return nil, fmt.Errorf("%w: %v", appErrors.ErrNetworkUnavailable, err)
		}
		fetched = append(fetched, day)
	}

	current, err := s.loadArchive(ctx)
	if err != nil && !errors.Is(err, appErrors.ErrDataUnavailable) {
		return nil, err
	}

	if len(fetched) == 0 {
		s.log.Warn("Fetched schedule is empty, keeping current data untouched")
		entity.SortBinDays(current.Days)
		return current.Days, nil
	}

	merged := s.Merge(current.Days, fetched)

	prefs, err := s.prefsSvc.Get(ctx)
	if err != nil {
		return nil, err
	}
	for i, day := range merged {
		if day.HasReminderState() || day.EveningCategory != "" {
			continue
		}
		s.applyTriggers(&merged[i], prefs)
	}

	entity.SortBinDays(merged)
	if err := s.Save(ctx, merged); err != nil {
		return nil, err
	}
	s.log.Info(fmt.Sprintf("Schedule refreshed: %d entries for %q", len(merged), address.Title))
	return merged, nil
}

// ApplyPreferences recomputes triggers for every stored bin day, discarding
// per-item snooze overrides, and persists the result.
func (s *scheduleService) ApplyPreferences(ctx context.Context, prefs entity.ReminderPreferences) ([]entity.BinDay, error) {
	arch, err := s.loadArchive(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrDataUnavailable) {
			return nil, nil
		}
		return nil, err
	}
	if len(arch.Days) == 0 {
		return nil, nil
	}

	for i := range arch.Days {
		s.applyTriggers(&arch.Days[i], prefs)
	}
	entity.SortBinDays(arch.Days)
	if err := s.Save(ctx, arch.Days); err != nil {
		return nil, err
	}
	return arch.Days, nil
}

// applyTriggers overwrites the reminder slots of day with the computed
// triggers, keeping the pending flag.
func (s *scheduleService) applyTriggers(day *entity.BinDay, prefs entity.ReminderPreferences) {
	t := trigger.Compute(*day, prefs, s.loc)
	day.NotificationMorning = t.Morning
	day.NotificationEvening = t.Evening
	day.EveningCategory = t.EveningCategory
}

// MarkAsDone clears the pending flag of the matching item and persists.
func (s *scheduleService) MarkAsDone(ctx context.Context, identity string) error {
	return s.mutate(ctx, identity, func(day *entity.BinDay) {
		*day = trigger.MarkDone(*day)
	})
}

// SetPending marks the matching item as delivered-and-unacknowledged.
func (s *scheduleService) SetPending(ctx context.Context, identity string) error {
	return s.mutate(ctx, identity, func(day *entity.BinDay) {
		day.IsPending = true
	})
}

// Find returns the stored bin day with the given identity.
func (s *scheduleService) Find(ctx context.Context, identity string) (entity.BinDay, error) {
	arch, err := s.loadArchive(ctx)
	if err != nil {
		return entity.BinDay{}, err
	}
	for _, day := range arch.Days {
		if day.Identity() == identity {
			return day, nil
		}
	}
	return entity.BinDay{}, fmt.Errorf("%w: %s", appErrors.ErrBinDayNotFound, identity)
}

// UpdateTriggerTime overwrites one trigger slot of the matching item and
// persists, so the in-flight snooze/tonight state survives later merges.
func (s *scheduleService) UpdateTriggerTime(ctx context.Context, identity string, morning bool, at time.Time, category constant.ReminderCategory) error {
	return s.mutate(ctx, identity, func(day *entity.BinDay) {
		instant := at.Truncate(time.Second).UTC()
		if morning {
			day.NotificationMorning = &instant
			return
		}
		day.NotificationEvening = &instant
		if category != "" {
			day.EveningCategory = category
		}
	})
}

// PendingCount returns how many stored bin days are delivered and not yet
// acknowledged. Missing data counts as zero.
func (s *scheduleService) PendingCount(ctx context.Context) int {
	arch, err := s.loadArchive(ctx)
	if err != nil {
		return 0
	}
	count := 0
	for _, day := range arch.Days {
		if day.IsPending {
			count++
		}
	}
	return count
}

// Clear wipes the persisted schedule.
func (s *scheduleService) Clear(ctx context.Context) error {
	return s.archive.Delete(ctx, repository.ArchiveKey(repository.ArchiveNameSchedule))
}

// mutate loads the archive, applies fn to the item with the given identity
// and saves the archive back unchanged otherwise.
func (s *scheduleService) mutate(ctx context.Context, identity string, fn func(*entity.BinDay)) error {
	arch, err := s.loadArchive(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range arch.Days {
		if arch.Days[i].Identity() == identity {
			fn(&arch.Days[i])
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", appErrors.ErrBinDayNotFound, identity)
	}
	if err := s.archive.Save(ctx, repository.ArchiveKey(repository.ArchiveNameSchedule), arch); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}
