package service

import (
	"context"
	"testing"

	"binday/internal/application/dto"
	"binday/internal/domain/constant"
	"binday/internal/domain/entity"
	"binday/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences_Get_PersistsDefaults(t *testing.T) {
	archive := testutil.NewMemoryArchive()
	svc := NewPreferencesService(archive, testutil.NopLogger{})

	prefs, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, prefs.MorningTime)
	assert.Nil(t, prefs.EveningTime)
	assert.ElementsMatch(t, constant.AllKinds, prefs.TrackedKinds)

	// The defaults were written, not just returned.
	assert.True(t, archive.Has("archive.reminderPreferences"))
}

func TestPreferences_Get_MigratesLegacyFormat(t *testing.T) {
	archive := testutil.NewMemoryArchive()
	archive.PutRaw("archive.notificationSettings", []byte(`{
		"morningEnabled": true,
		"morningHour": 7,
		"morningMinute": 15,
		"eveningEnabled": false,
		"eveningHour": 18,
		"eveningMinute": 0,
		"types": ["general", "recycling"]
	}`))
	svc := NewPreferencesService(archive, testutil.NopLogger{})

	prefs, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, prefs.MorningTime)
	assert.Equal(t, entity.TimeOfDay{Hour: 7, Minute: 15}, *prefs.MorningTime)
	assert.Nil(t, prefs.EveningTime)
	assert.Equal(t, []constant.Kind{constant.KindGeneral, constant.KindRecycling}, prefs.TrackedKinds)

	// Converted copy is persisted under the current key, legacy copy is gone.
	assert.True(t, archive.Has("archive.reminderPreferences"))
	assert.False(t, archive.Has("archive.notificationSettings"))
}

func TestPreferences_Get_CorruptCurrentFallsThrough(t *testing.T) {
	archive := testutil.NewMemoryArchive()
	archive.PutRaw("archive.reminderPreferences", []byte("{broken"))
	svc := NewPreferencesService(archive, testutil.NopLogger{})

	prefs, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, constant.AllKinds, prefs.TrackedKinds)
}

func TestPreferences_Update_ParsesAndPersists(t *testing.T) {
	archive := testutil.NewMemoryArchive()
	svc := NewPreferencesService(archive, testutil.NopLogger{})
	ctx := context.Background()

	evening := "18:10"
	prefs, err := svc.Update(ctx, dto.UpdatePreferencesRequest{
		EveningTime:  &evening,
		TrackedKinds: []string{"recycling"},
	})
	require.NoError(t, err)
	assert.Nil(t, prefs.MorningTime)
	require.NotNil(t, prefs.EveningTime)
	assert.Equal(t, entity.TimeOfDay{Hour: 18, Minute: 10}, *prefs.EveningTime)

	reloaded, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, prefs, reloaded)
}

func TestPreferences_Update_RejectsBadTime(t *testing.T) {
	svc := NewPreferencesService(testutil.NewMemoryArchive(), testutil.NopLogger{})
	bad := "24:60"
	_, err := svc.Update(context.Background(), dto.UpdatePreferencesRequest{MorningTime: &bad})
	assert.Error(t, err)
}

func TestPreferences_Update_EmptyTrackedDisablesTimes(t *testing.T) {
	svc := NewPreferencesService(testutil.NewMemoryArchive(), testutil.NopLogger{})
	morning := "07:00"
	prefs, err := svc.Update(context.Background(), dto.UpdatePreferencesRequest{
		MorningTime:  &morning,
		TrackedKinds: nil,
	})
	require.NoError(t, err)
	assert.Nil(t, prefs.MorningTime)
	assert.Empty(t, prefs.TrackedKinds)
}
