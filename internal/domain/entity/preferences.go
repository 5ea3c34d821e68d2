package entity

import "binday/internal/domain/constant"

// ReminderPreferences is the user's notification configuration. Presence of
// a time means the corresponding reminder is enabled.
type ReminderPreferences struct {
	MorningTime  *TimeOfDay      `json:"morning_time,omitempty"`
	EveningTime  *TimeOfDay      `json:"evening_time,omitempty"`
	TrackedKinds []constant.Kind `json:"tracked_kinds"`
}

// DefaultPreferences returns the configuration created on first launch:
// both reminders off, every known kind tracked.
func DefaultPreferences() ReminderPreferences {
	kinds := make([]constant.Kind, len(constant.AllKinds))
	copy(kinds, constant.AllKinds)
	return ReminderPreferences{TrackedKinds: kinds}
}

// Tracks reports whether reminders should be generated for the given kind.
func (p ReminderPreferences) Tracks(kind constant.Kind) bool {
	for _, k := range p.TrackedKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Normalize enforces the invariant that an empty tracked set clears both
// time settings.
func (p *ReminderPreferences) Normalize() {
	if len(p.TrackedKinds) == 0 {
		p.MorningTime = nil
		p.EveningTime = nil
	}
}
