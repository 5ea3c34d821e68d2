// Package trigger holds the pure reminder-time computations: deriving
// trigger instants from preferences and applying the snooze / remind-tonight
// / done transition rules. All returned instants are whole-second UTC;
// day-boundary math happens in the supplied location first.
package trigger

import (
	"time"

	"binday/internal/domain/constant"
	"binday/internal/domain/entity"
)

// TonightFallbackSnooze is applied when "remind me tonight" is requested
// after the evening threshold has already passed.
const TonightFallbackSnooze = time.Hour

// Triggers is the result of a trigger computation for one bin day.
type Triggers struct {
	Morning *time.Time
	// Evening carries the day-before instant plus the category it should be
	// delivered under.
	Evening         *time.Time
	EveningCategory constant.ReminderCategory
}

// Compute derives the morning and evening trigger instants for a bin day
// from the user's preferences. Nothing is produced for untracked kinds.
// Instants may lie in the past; the dispatch coordinator decides whether a
// past instant is still registered (it is not).
func Compute(day entity.BinDay, prefs entity.ReminderPreferences, loc *time.Location) Triggers {
	if !prefs.Tracks(day.Kind) {
		return Triggers{}
	}

	var out Triggers
	if prefs.MorningTime != nil {
		at := normalize(day.CollectionDate.At(*prefs.MorningTime, loc))
		out.Morning = &at
	}
	if prefs.EveningTime != nil {
		at := normalize(day.CollectionDate.AddDays(-1).At(*prefs.EveningTime, loc))
		out.Evening = &at
		out.EveningCategory = constant.CategoryEveningTonight
	}
	return out
}

// Snooze defers a reminder by the given duration from now. An
// evening-with-tonight reminder whose new instant lands after the evening
// threshold hour is downgraded to the plain evening category; the downgrade
// is one-way, further snoozes never restore the tonight action.
func Snooze(now time.Time, by time.Duration, category constant.ReminderCategory, loc *time.Location) (time.Time, constant.ReminderCategory) {
	at := normalize(now.Add(by))
	if category == constant.CategoryEveningTonight && at.In(loc).Hour() >= constant.EveningThresholdHour {
		category = constant.CategoryEvening
	}
	return at, category
}

// RemindTonight defers a reminder to this evening's reminder hour. When the
// local hour has already reached the evening threshold, tonight has
// effectively passed and the request falls back to a one-hour snooze. Either
// way the result is a plain evening reminder, so repeated "tonight"
// deferrals cannot loop.
func RemindTonight(now time.Time, loc *time.Location) (time.Time, constant.ReminderCategory) {
	local := now.In(loc)
	if local.Hour() >= constant.EveningThresholdHour {
		at, _ := Snooze(now, TonightFallbackSnooze, constant.CategoryEvening, loc)
		return at, constant.CategoryEvening
	}
	today := entity.DateOf(now, loc)
	at := normalize(today.At(entity.TimeOfDay{Hour: constant.TonightReminderHour}, loc))
	return at, constant.CategoryEvening
}

// MarkDone acknowledges a delivered reminder. Trigger times are left
// untouched; a future recurrence is a new bin day from the next fetch, not
// a mutation of this one.
func MarkDone(day entity.BinDay) entity.BinDay {
	day.IsPending = false
	return day
}

// normalize truncates to whole seconds and converts to UTC, the internal
// representation for all instants.
func normalize(t time.Time) time.Time {
	return t.Truncate(time.Second).UTC()
}
