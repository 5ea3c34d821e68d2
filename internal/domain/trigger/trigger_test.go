package trigger

import (
	"testing"
	"time"

	"binday/internal/domain/constant"
	"binday/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("UTC+1", 60*60)

func testDay(kind constant.Kind, date string) entity.BinDay {
	parsed, err := entity.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return entity.BinDay{Kind: kind, CollectionDate: parsed}
}

func TestCompute_UntrackedKindProducesNothing(t *testing.T) {
	morning := entity.TimeOfDay{Hour: 7}
	evening := entity.TimeOfDay{Hour: 18, Minute: 10}
	prefs := entity.ReminderPreferences{
		MorningTime:  &morning,
		EveningTime:  &evening,
		TrackedKinds: []constant.Kind{constant.KindGeneral},
	}

	got := Compute(testDay(constant.KindGarden, "2024-03-04"), prefs, testLoc)
	assert.Nil(t, got.Morning)
	assert.Nil(t, got.Evening)
	assert.Empty(t, got.EveningCategory)
}

func TestCompute_MorningIsDayOf(t *testing.T) {
	morning := entity.TimeOfDay{Hour: 7, Minute: 30}
	prefs := entity.ReminderPreferences{
		MorningTime:  &morning,
		TrackedKinds: []constant.Kind{constant.KindRecycling},
	}

	got := Compute(testDay(constant.KindRecycling, "2024-03-04"), prefs, testLoc)
	require.NotNil(t, got.Morning)
	assert.Nil(t, got.Evening)

	local := got.Morning.In(testLoc)
	assert.Equal(t, "2024-03-04", entity.DateOf(*got.Morning, testLoc).String())
	assert.Equal(t, 7, local.Hour())
	assert.Equal(t, 30, local.Minute())
	assert.Equal(t, time.UTC, got.Morning.Location())
}

func TestCompute_EveningIsDayBefore(t *testing.T) {
	evening := entity.TimeOfDay{Hour: 18, Minute: 10}
	prefs := entity.ReminderPreferences{
		EveningTime:  &evening,
		TrackedKinds: []constant.Kind{constant.KindRecycling},
	}

	got := Compute(testDay(constant.KindRecycling, "2024-03-04"), prefs, testLoc)
	require.NotNil(t, got.Evening)
	assert.Nil(t, got.Morning)

	local := got.Evening.In(testLoc)
	assert.Equal(t, "2024-03-03", entity.DateOf(*got.Evening, testLoc).String())
	assert.Equal(t, 18, local.Hour())
	assert.Equal(t, 10, local.Minute())
	assert.Equal(t, constant.CategoryEveningTonight, got.EveningCategory)
}

func TestCompute_DisabledTimesProduceNil(t *testing.T) {
	prefs := entity.ReminderPreferences{TrackedKinds: []constant.Kind{constant.KindGeneral}}
	got := Compute(testDay(constant.KindGeneral, "2024-03-04"), prefs, testLoc)
	assert.Nil(t, got.Morning)
	assert.Nil(t, got.Evening)
}

func TestCompute_PastInstantsAreStillReturned(t *testing.T) {
	// The dispatch coordinator decides what to do with past instants; the
	// computation itself does not filter them.
	morning := entity.TimeOfDay{Hour: 7}
	prefs := entity.ReminderPreferences{
		MorningTime:  &morning,
		TrackedKinds: []constant.Kind{constant.KindGeneral},
	}
	got := Compute(testDay(constant.KindGeneral, "1999-01-01"), prefs, testLoc)
	require.NotNil(t, got.Morning)
}

func TestSnooze_BeforeThresholdKeepsTonight(t *testing.T) {
	now := time.Date(2024, 3, 3, 15, 0, 0, 0, testLoc)
	at, category := Snooze(now, 30*time.Minute, constant.CategoryEveningTonight, testLoc)

	assert.Equal(t, now.Add(30*time.Minute).UTC(), at)
	assert.Equal(t, constant.CategoryEveningTonight, category)
}

func TestSnooze_PastThresholdDowngrades(t *testing.T) {
	now := time.Date(2024, 3, 3, 17, 45, 0, 0, testLoc)
	at, category := Snooze(now, 30*time.Minute, constant.CategoryEveningTonight, testLoc)

	assert.Equal(t, 18, at.In(testLoc).Hour())
	assert.Equal(t, constant.CategoryEvening, category)
}

func TestSnooze_DowngradeIsOneWay(t *testing.T) {
	// A plain evening reminder snoozed back to before the threshold never
	// regains the tonight option.
	now := time.Date(2024, 3, 3, 10, 0, 0, 0, testLoc)
	_, category := Snooze(now, 30*time.Minute, constant.CategoryEvening, testLoc)
	assert.Equal(t, constant.CategoryEvening, category)
}

func TestSnooze_MorningCategoryUnaffected(t *testing.T) {
	now := time.Date(2024, 3, 4, 17, 45, 0, 0, testLoc)
	_, category := Snooze(now, time.Hour, constant.CategoryMorning, testLoc)
	assert.Equal(t, constant.CategoryMorning, category)
}

func TestSnooze_TruncatesToWholeSeconds(t *testing.T) {
	now := time.Date(2024, 3, 3, 10, 0, 0, 123456789, testLoc)
	at, _ := Snooze(now, time.Minute, constant.CategoryEvening, testLoc)
	assert.Zero(t, at.Nanosecond())
}

func TestRemindTonight_BeforeThreshold(t *testing.T) {
	now := time.Date(2024, 3, 3, 10, 0, 0, 0, testLoc)
	at, category := RemindTonight(now, testLoc)

	local := at.In(testLoc)
	assert.Equal(t, "2024-03-03", entity.DateOf(at, testLoc).String())
	assert.Equal(t, constant.TonightReminderHour, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.Equal(t, constant.CategoryEvening, category)
}

func TestRemindTonight_AfterThresholdFallsBackToSnooze(t *testing.T) {
	now := time.Date(2024, 3, 3, 20, 0, 0, 0, testLoc)
	at, category := RemindTonight(now, testLoc)

	assert.Equal(t, now.Add(time.Hour).UTC(), at)
	assert.Equal(t, constant.CategoryEvening, category)
}

func TestRemindTonight_AtExactThresholdFallsBack(t *testing.T) {
	now := time.Date(2024, 3, 3, 18, 0, 0, 0, testLoc)
	at, _ := RemindTonight(now, testLoc)
	assert.Equal(t, now.Add(time.Hour).UTC(), at)
}

func TestMarkDone_ClearsPendingOnly(t *testing.T) {
	at := time.Date(2024, 3, 3, 18, 10, 0, 0, time.UTC)
	day := testDay(constant.KindRecycling, "2024-03-04")
	day.NotificationEvening = &at
	day.IsPending = true

	done := MarkDone(day)
	assert.False(t, done.IsPending)
	require.NotNil(t, done.NotificationEvening)
	assert.True(t, done.NotificationEvening.Equal(at))
}
