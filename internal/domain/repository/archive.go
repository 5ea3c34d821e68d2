package repository

import "context"

// Archive key names for the logical stores. ArchiveKey keeps them from
// colliding in the shared blob table.
const (
	ArchiveNameSchedule          = "binDays"
	ArchiveNamePreferences       = "reminderPreferences"
	ArchiveNamePreferencesLegacy = "notificationSettings"
	ArchiveNameAddress           = "address"
)

// ArchiveKey maps a logical store name to the key it is persisted under.
func ArchiveKey(name string) string {
	return "archive." + name
}

// ArchiveRepository is the opaque key/value persistence collaborator. Values
// are serialized structs; Save has overwrite semantics and must never leave
// a partially written value visible.
type ArchiveRepository interface {
	// Save persists value under key, replacing any previous value atomically.
	Save(ctx context.Context, key string, value any) error
	// Load reads the value stored under key into out. Returns
	// ErrDataUnavailable when no value exists and ErrDecodingFailure when the
	// stored blob cannot be decoded.
	Load(ctx context.Context, key string, out any) error
	// Delete removes the value stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
