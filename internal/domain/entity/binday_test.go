package entity

import (
	"encoding/json"
	"testing"
	"time"

	"binday/internal/domain/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinDay_Identity(t *testing.T) {
	day := BinDay{
		Kind:           constant.KindRecycling,
		CollectionDate: Date{Year: 2024, Month: time.March, Day: 4},
	}
	assert.Equal(t, "2024-03-04#recycling", day.Identity())

	// Identity is stable: reminder state does not change it.
	at := time.Date(2024, 3, 3, 18, 10, 0, 0, time.UTC)
	day.NotificationEvening = &at
	day.IsPending = true
	assert.Equal(t, "2024-03-04#recycling", day.Identity())
}

func TestSortBinDays_DateThenKindOrder(t *testing.T) {
	d := func(kind constant.Kind, date string) BinDay {
		parsed, err := ParseDate(date)
		require.NoError(t, err)
		return BinDay{Kind: kind, CollectionDate: parsed}
	}

	days := []BinDay{
		d(constant.KindFood, "2024-03-11"),
		d(constant.KindGarden, "2024-03-04"),
		d(constant.KindGeneral, "2024-03-11"),
		d(constant.KindGeneral, "2024-03-04"),
	}
	SortBinDays(days)

	assert.Equal(t, "2024-03-04#general", days[0].Identity())
	assert.Equal(t, "2024-03-04#garden", days[1].Identity())
	assert.Equal(t, "2024-03-11#general", days[2].Identity())
	assert.Equal(t, "2024-03-11#food", days[3].Identity())
}

func TestSortBinDays_UnknownKindsSortLast(t *testing.T) {
	date, err := ParseDate("2024-03-04")
	require.NoError(t, err)
	days := []BinDay{
		{Kind: constant.Kind("textiles"), CollectionDate: date},
		{Kind: constant.KindFood, CollectionDate: date},
	}
	SortBinDays(days)
	assert.Equal(t, constant.KindFood, days[0].Kind)
	assert.Equal(t, constant.Kind("textiles"), days[1].Kind)
}

func TestBinDay_JSONRoundtrip(t *testing.T) {
	at := time.Date(2024, 3, 3, 18, 10, 0, 0, time.UTC)
	original := BinDay{
		Kind:                constant.KindRecycling,
		CollectionDate:      Date{Year: 2024, Month: time.March, Day: 4},
		NotificationEvening: &at,
		EveningCategory:     constant.CategoryEveningTonight,
		IsPending:           true,
	}

	blob, err := json.Marshal(original)
	require.NoError(t, err)

	var restored BinDay
	require.NoError(t, json.Unmarshal(blob, &restored))
	assert.Equal(t, original.Identity(), restored.Identity())
	require.NotNil(t, restored.NotificationEvening)
	assert.True(t, restored.NotificationEvening.Equal(at))
	assert.Nil(t, restored.NotificationMorning)
	assert.True(t, restored.IsPending)
}

func TestDate_ParseAndArithmetic(t *testing.T) {
	date, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", date.AddDays(-1).String()) // leap year

	_, err = ParseDate("01/03/2024")
	assert.Error(t, err)

	assert.True(t, date.AddDays(-1).Before(date))
	assert.False(t, date.Before(date))
}

func TestDate_At_UsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	date := Date{Year: 2024, Month: time.March, Day: 4}
	at := date.At(TimeOfDay{Hour: 7, Minute: 30}, loc)
	assert.Equal(t, 7, at.Hour())
	assert.Equal(t, 30, at.Minute())
	assert.Equal(t, time.Date(2024, 3, 4, 5, 30, 0, 0, time.UTC).Unix(), at.Unix())
}

func TestTimeOfDay_Parse(t *testing.T) {
	tod, err := ParseTimeOfDay("18:10")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 18, Minute: 10}, tod)
	assert.Equal(t, "18:10", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
