package dto

import "binday/internal/domain/constant"

// NotificationContent is what the delivery scheduler eventually shows the
// user. Category decides which actions the delivered reminder offers.
type NotificationContent struct {
	Title    string                    `json:"title"`
	Body     string                    `json:"body"`
	Category constant.ReminderCategory `json:"category"`
}
