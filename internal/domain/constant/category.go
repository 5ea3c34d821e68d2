package constant

// ReminderCategory classifies a reminder delivery and decides which actions
// the user is offered on it.
type ReminderCategory string

const (
	// CategoryMorning is the day-of-collection reminder.
	CategoryMorning ReminderCategory = "MORNING"
	// CategoryEveningTonight is the day-before reminder that still offers the
	// "remind me tonight" action.
	CategoryEveningTonight ReminderCategory = "EVENING_TONIGHT"
	// CategoryEvening is the day-before reminder without the tonight action.
	// Once a reminder is downgraded to this category it never regains the
	// tonight option.
	CategoryEvening ReminderCategory = "EVENING"
)

const (
	// EveningThresholdHour is the local hour after which "tonight" has
	// effectively passed.
	EveningThresholdHour = 18
	// TonightReminderHour is the local hour a "remind me tonight" request is
	// deferred to.
	TonightReminderHour = EveningThresholdHour + 1
)

// OffersTonight reports whether the category still carries the
// "remind me tonight" action.
func (c ReminderCategory) OffersTonight() bool {
	return c == CategoryEveningTonight
}

func (c ReminderCategory) String() string {
	return string(c)
}
