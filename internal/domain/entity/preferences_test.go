package entity

import (
	"testing"

	"binday/internal/domain/constant"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	assert.Nil(t, prefs.MorningTime)
	assert.Nil(t, prefs.EveningTime)
	assert.ElementsMatch(t, constant.AllKinds, prefs.TrackedKinds)
}

func TestPreferences_Tracks(t *testing.T) {
	prefs := ReminderPreferences{TrackedKinds: []constant.Kind{constant.KindFood}}
	assert.True(t, prefs.Tracks(constant.KindFood))
	assert.False(t, prefs.Tracks(constant.KindGarden))
}

func TestPreferences_Normalize_EmptyTrackedClearsTimes(t *testing.T) {
	morning := TimeOfDay{Hour: 7}
	evening := TimeOfDay{Hour: 18, Minute: 30}
	prefs := ReminderPreferences{MorningTime: &morning, EveningTime: &evening}

	prefs.Normalize()
	assert.Nil(t, prefs.MorningTime)
	assert.Nil(t, prefs.EveningTime)

	// A non-empty tracked set leaves the times alone.
	prefs = ReminderPreferences{
		MorningTime:  &morning,
		TrackedKinds: []constant.Kind{constant.KindGeneral},
	}
	prefs.Normalize()
	assert.NotNil(t, prefs.MorningTime)
}
