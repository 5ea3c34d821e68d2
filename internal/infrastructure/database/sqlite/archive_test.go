package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	appErrors "binday/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *archiveRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&archiveRecord{}))
	return &archiveRepository{db: db}
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestArchive_SaveAndLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "archive.binDays", payload{Name: "first", Count: 2}))

	var got payload
	require.NoError(t, repo.Load(ctx, "archive.binDays", &got))
	assert.Equal(t, payload{Name: "first", Count: 2}, got)
}

func TestArchive_SaveOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "archive.binDays", payload{Name: "first"}))
	require.NoError(t, repo.Save(ctx, "archive.binDays", payload{Name: "second", Count: 7}))

	var got payload
	require.NoError(t, repo.Load(ctx, "archive.binDays", &got))
	assert.Equal(t, "second", got.Name)
	assert.Equal(t, 7, got.Count)
}

func TestArchive_LoadMissingKey(t *testing.T) {
	repo := newTestRepo(t)

	var got payload
	err := repo.Load(context.Background(), "archive.absent", &got)
	assert.ErrorIs(t, err, appErrors.ErrDataUnavailable)
}

func TestArchive_LoadCorruptValue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.db.Create(&archiveRecord{Key: "archive.binDays", Value: []byte("{broken")}).Error)

	var got payload
	err := repo.Load(ctx, "archive.binDays", &got)
	assert.ErrorIs(t, err, appErrors.ErrDecodingFailure)
}

func TestArchive_DeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "archive.binDays", payload{Name: "first"}))
	require.NoError(t, repo.Delete(ctx, "archive.binDays"))
	require.NoError(t, repo.Delete(ctx, "archive.binDays"))

	var got payload
	err := repo.Load(ctx, "archive.binDays", &got)
	assert.ErrorIs(t, err, appErrors.ErrDataUnavailable)
}
