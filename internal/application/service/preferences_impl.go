package service

import (
	"context"
	"errors"
	"fmt"

	"binday/internal/application/dto"
	"binday/internal/domain/constant"
	"binday/internal/domain/entity"
	"binday/internal/domain/repository"
	appErrors "binday/internal/pkg/errors"
	"binday/internal/pkg/logger"
)

// legacyNotificationSettings is the old on-disk preferences shape, kept only
// for the one-time migration read path.
type legacyNotificationSettings struct {
	MorningEnabled bool     `json:"morningEnabled"`
	MorningHour    int      `json:"morningHour"`
	MorningMinute  int      `json:"morningMinute"`
	EveningEnabled bool     `json:"eveningEnabled"`
	EveningHour    int      `json:"eveningHour"`
	EveningMinute  int      `json:"eveningMinute"`
	Types          []string `json:"types"`
}

type preferencesService struct {
	archive repository.ArchiveRepository
	log     logger.Logger
}

// NewPreferencesService creates a new instance of the PreferencesService
// implementation.
func NewPreferencesService(archive repository.ArchiveRepository, log logger.Logger) PreferencesService {
	return &preferencesService{archive: archive, log: log}
}

// Get returns the persisted preferences, trying the current format first,
// then the legacy format (converting and deleting it), then defaults.
func (s *preferencesService) Get(ctx context.Context) (entity.ReminderPreferences, error) {
	var prefs entity.ReminderPreferences
	err := s.archive.Load(ctx, repository.ArchiveKey(repository.ArchiveNamePreferences), &prefs)
	if err == nil {
		prefs.Normalize()
		return prefs, nil
	}
	if !errors.Is(err, appErrors.ErrDataUnavailable) && !errors.Is(err, appErrors.ErrDecodingFailure) {
		return entity.ReminderPreferences{}, err
	}

	if migrated, ok := s.migrateLegacy(ctx); ok {
		return migrated, nil
	}

	prefs = entity.DefaultPreferences()
	if err := s.persist(ctx, prefs); err != nil {
		return entity.ReminderPreferences{}, err
	}
	s.log.Info("Created default reminder preferences")
	return prefs, nil
}

// migrateLegacy attempts the one-time best-effort read of the legacy format.
// On success the converted preferences are persisted under the current key
// and the legacy copy is deleted.
func (s *preferencesService) migrateLegacy(ctx context.Context) (entity.ReminderPreferences, bool) {
	var legacy legacyNotificationSettings
	err := s.archive.Load(ctx, repository.ArchiveKey(repository.ArchiveNamePreferencesLegacy), &legacy)
	if err != nil {
		return entity.ReminderPreferences{}, false
	}

	prefs := entity.ReminderPreferences{}
	if legacy.MorningEnabled {
		prefs.MorningTime = &entity.TimeOfDay{Hour: legacy.MorningHour, Minute: legacy.MorningMinute}
	}
	if legacy.EveningEnabled {
		prefs.EveningTime = &entity.TimeOfDay{Hour: legacy.EveningHour, Minute: legacy.EveningMinute}
	}
	for _, t := range legacy.Types {
		prefs.TrackedKinds = append(prefs.TrackedKinds, constant.Kind(t))
	}
	prefs.Normalize()

	if err := s.persist(ctx, prefs); err != nil {
		s.log.Error("Failed to persist migrated preferences, keeping legacy copy", err)
		return entity.ReminderPreferences{}, false
	}
	if err := s.archive.Delete(ctx, repository.ArchiveKey(repository.ArchiveNamePreferencesLegacy)); err != nil {
		s.log.Warn(fmt.Sprintf("Failed to delete legacy preferences after migration: %v", err))
	}
	s.log.Info("Migrated reminder preferences from legacy format")
	return prefs, true
}

// Update applies the requested changes and persists.
func (s *preferencesService) Update(ctx context.Context, req dto.UpdatePreferencesRequest) (entity.ReminderPreferences, error) {
	prefs := entity.ReminderPreferences{}
	if req.MorningTime != nil {
		tod, err := entity.ParseTimeOfDay(*req.MorningTime)
		if err != nil {
			return entity.ReminderPreferences{}, err
		}
		prefs.MorningTime = &tod
	}
	if req.EveningTime != nil {
		tod, err := entity.ParseTimeOfDay(*req.EveningTime)
		if err != nil {
			return entity.ReminderPreferences{}, err
		}
		prefs.EveningTime = &tod
	}
	for _, kind := range req.TrackedKinds {
		if kind == "" {
			continue
		}
		prefs.TrackedKinds = append(prefs.TrackedKinds, constant.Kind(kind))
	}
	prefs.Normalize()

	if err := s.persist(ctx, prefs); err != nil {
		return entity.ReminderPreferences{}, err
	}
	s.log.Info("Reminder preferences updated")
	return prefs, nil
}

func (s *preferencesService) persist(ctx context.Context, prefs entity.ReminderPreferences) error {
	if err := s.archive.Save(ctx, repository.ArchiveKey(repository.ArchiveNamePreferences), prefs); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}
