package entity

import (
	"sort"
	"time"

	"binday/internal/domain/constant"
)

// BinDay represents one scheduled waste-collection event and the reminder
// state attached to it.
type BinDay struct {
	Kind           constant.Kind `json:"kind"`
	CollectionDate Date          `json:"collection_date"`
	// NotificationMorning is the absolute instant of the day-of-collection
	// reminder; nil means no morning reminder is scheduled.
	NotificationMorning *time.Time `json:"notification_morning,omitempty"`
	// NotificationEvening is the absolute instant of the day-before reminder;
	// nil means none.
	NotificationEvening *time.Time `json:"notification_evening,omitempty"`
	// EveningCategory records whether the evening reminder still offers the
	// "remind me tonight" action. Downgrades are one-way.
	EveningCategory constant.ReminderCategory `json:"evening_category,omitempty"`
	// IsPending is true once a reminder for this item has been delivered and
	// not yet acknowledged.
	IsPending bool `json:"is_pending"`
}

// Identity derives the stable key for the bin day from its collection date
// and kind. It is used both as the list row key and as the delivery key in
// the notification scheduler, and survives refetches unchanged.
func (b BinDay) Identity() string {
	return b.CollectionDate.String() + "#" + b.Kind.String()
}

// HasReminderState reports whether any reminder field deviates from the
// zero state (used to decide whether a merge must carry the item forward).
func (b BinDay) HasReminderState() bool {
	return b.NotificationMorning != nil || b.NotificationEvening != nil || b.IsPending
}

// SortBinDays orders bin days by collection date ascending, breaking ties by
// the declared kind ordering.
func SortBinDays(days []BinDay) {
	sort.SliceStable(days, func(i, j int) bool {
		if !days[i].CollectionDate.Equal(days[j].CollectionDate) {
			return days[i].CollectionDate.Before(days[j].CollectionDate)
		}
		return days[i].Kind.Less(days[j].Kind)
	})
}
