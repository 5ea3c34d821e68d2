package dto

import (
	"fmt"
	"time"

	"binday/internal/domain/constant"
	"binday/internal/domain/entity"
)

// BinDayRaw is the shape the remote waste-calendar API returns for one
// collection event. Dates use the yyyy-MM-dd local-calendar format.
type BinDayRaw struct {
	Kind           string `json:"kind"`
	CollectionDate string `json:"collection_date"`
}

// ToBinDay converts a raw fetched record into a domain BinDay with empty
// reminder fields. Fails on an empty kind or an unparseable date.
func (r BinDayRaw) ToBinDay() (entity.BinDay, error) {
	if r.Kind == "" {
		return entity.BinDay{}, fmt.Errorf("raw bin day has empty kind")
	}
	date, err := entity.ParseDate(r.CollectionDate)
	if err != nil {
		return entity.BinDay{}, err
	}
	return entity.BinDay{
		Kind:           constant.Kind(r.Kind),
		CollectionDate: date,
	}, nil
}

// BinDayResponse is the DTO for presenting one bin day (e.g. the upcoming
// collections list).
type BinDayResponse struct {
	Identity            string     `json:"identity"`
	Kind                string     `json:"kind"`
	KindDisplayName     string     `json:"kind_display_name"`
	CollectionDate      string     `json:"collection_date"`
	NotificationMorning *time.Time `json:"notification_morning,omitempty"`
	NotificationEvening *time.Time `json:"notification_evening,omitempty"`
	IsPending           bool       `json:"is_pending"`
}

// ToBinDayResponse converts an entity.BinDay to a BinDayResponse DTO.
func ToBinDayResponse(b entity.BinDay) BinDayResponse {
	return BinDayResponse{
		Identity:            b.Identity(),
		Kind:                b.Kind.String(),
		KindDisplayName:     b.Kind.DisplayName(),
		CollectionDate:      b.CollectionDate.String(),
		NotificationMorning: b.NotificationMorning,
		NotificationEvening: b.NotificationEvening,
		IsPending:           b.IsPending,
	}
}

// ToBinDayResponseList converts a slice of entity.BinDay to response DTOs.
func ToBinDayResponseList(days []entity.BinDay) []BinDayResponse {
	list := make([]BinDayResponse, len(days))
	for i, b := range days {
		list[i] = ToBinDayResponse(b)
	}
	return list
}
