package dto

import "time"

// SnoozeRequest defers a delivered (or still pending) reminder by a fixed
// duration from now.
type SnoozeRequest struct {
	Identity  string        `json:"identity"`
	IsMorning bool          `json:"is_morning"`
	By        time.Duration `json:"by"`
}

// RemindTonightRequest defers a day-before reminder to this evening.
type RemindTonightRequest struct {
	Identity string `json:"identity"`
}

// MarkDoneRequest acknowledges a delivered reminder.
type MarkDoneRequest struct {
	Identity string `json:"identity"`
}

// UpdatePreferencesRequest is the DTO for changing the reminder
// configuration. Nil times disable the corresponding reminder.
type UpdatePreferencesRequest struct {
	MorningTime  *string  `json:"morning_time,omitempty"` // HH:MM
	EveningTime  *string  `json:"evening_time,omitempty"` // HH:MM
	TrackedKinds []string `json:"tracked_kinds"`
}

// SetAddressRequest selects the location schedules are fetched for.
type SetAddressRequest struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
