package service

import (
	"context"

	"binday/internal/application/dto"
	"binday/internal/domain/entity"
)

// PreferencesService owns the user's reminder configuration.
type PreferencesService interface {
	// Get returns the persisted preferences. On first run it falls back
	// through the legacy on-disk format and finally to defaults, persisting
	// whatever it settled on.
	Get(ctx context.Context) (entity.ReminderPreferences, error)
	// Update applies the requested changes, enforces the tracked-kinds
	// invariant and persists.
	Update(ctx context.Context, req dto.UpdatePreferencesRequest) (entity.ReminderPreferences, error)
}
