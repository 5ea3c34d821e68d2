package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"binday/internal/domain/repository"
	appErrors "binday/internal/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// archiveRecord is one persisted key/value blob. Values are JSON-encoded
// structs; the upsert below replaces the whole row in a single statement, so
// a partially written value is never visible.
type archiveRecord struct {
	Key       string    `gorm:"column:archive_key;primaryKey"`
	Value     []byte    `gorm:"column:value;type:blob"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for the archive store.
func (archiveRecord) TableName() string {
	return "archive"
}

type archiveRepository struct {
	db *gorm.DB
}

// NewArchiveRepository creates a new instance of ArchiveRepository backed by
// the shared SQLite database.
func NewArchiveRepository(db *gorm.DB) repository.ArchiveRepository {
	return &archiveRepository{db: db}
}

// Save persists value under key with overwrite semantics.
func (r *archiveRepository) Save(ctx context.Context, key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to encode archive value for %s: %w", key, err)
	}
	record := archiveRecord{Key: key, Value: blob, UpdatedAt: time.Now().UTC()}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "archive_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to save archive value for %s: %w", key, err)
	}
	return nil
}

// Load reads the value stored under key into out.
func (r *archiveRepository) Load(ctx context.Context, key string, out any) error {
	var record archiveRecord
	if err := r.db.WithContext(ctx).First(&record, "archive_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no archive value for %s", appErrors.ErrDataUnavailable, key)
		}
		return fmt.Errorf("🔴 ERROR: failed to load archive value for %s: %w", key, err)
	}
	if err := json.Unmarshal(record.Value, out); err != nil {
		return fmt.Errorf("%w: archive value for %s: %v", appErrors.ErrDecodingFailure, key, err)
	}
	return nil
}

// Delete removes the value stored under key. Missing keys are not an error.
func (r *archiveRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Delete(&archiveRecord{}, "archive_key = ?", key).Error; err != nil {
		return fmt.Errorf("🔴 ERROR: failed to delete archive value for %s: %w", key, err)
	}
	return nil
}
