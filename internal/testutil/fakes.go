// Package testutil holds hand-written fakes shared by the service tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"binday/internal/application/dto"
	appErrors "binday/internal/pkg/errors"
)

// NopLogger implements logger.Logger and discards everything.
type NopLogger struct{}

func (NopLogger) Error(msg string, err error) {}
func (NopLogger) Warn(msg string)             {}
func (NopLogger) Info(msg string)             {}
func (NopLogger) Debug(msg string)            {}

// MemoryArchive implements repository.ArchiveRepository in memory via a JSON
// round trip, matching the overwrite semantics of the SQLite-backed store.
type MemoryArchive struct {
	mu      sync.Mutex
	values  map[string][]byte
	SaveErr error
	LoadErr error
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{values: map[string][]byte{}}
}

func (m *MemoryArchive) Save(ctx context.Context, key string, value any) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	blob, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = blob
	return nil
}

func (m *MemoryArchive) Load(ctx context.Context, key string, out any) error {
	if m.LoadErr != nil {
		return m.LoadErr
	}
	m.mu.Lock()
	blob, ok := m.values[key]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: no archive value for %s", appErrors.ErrDataUnavailable, key)
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return fmt.Errorf("%w: archive value for %s: %v", appErrors.ErrDecodingFailure, key, err)
	}
	return nil
}

func (m *MemoryArchive) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// PutRaw stores a raw blob, used to simulate corrupt or legacy data.
func (m *MemoryArchive) PutRaw(key string, blob []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = blob
}

// Has reports whether a value is stored under key.
func (m *MemoryArchive) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

// FakeFetcher implements service.ScheduleFetcher.
type FakeFetcher struct {
	Raw   []dto.BinDayRaw
	Err   error
	Calls int
}

func (f *FakeFetcher) FetchSchedule(ctx context.Context, locationID int) ([]dto.BinDayRaw, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Raw, nil
}

// ScheduledDelivery records one Schedule call on the fake scheduler.
type ScheduledDelivery struct {
	Content dto.NotificationContent
	At      time.Time
}

// FakeDeliveryScheduler implements service.DeliveryScheduler and records
// calls for inspection.
type FakeDeliveryScheduler struct {
	mu             sync.Mutex
	Granted        bool
	AuthErr        error
	ScheduleErr    error
	Pending        map[string]ScheduledDelivery
	Delivered      map[string]struct{}
	Badge          int
	CancelAllCalls int
	AuthCalls      int
}

func NewFakeDeliveryScheduler() *FakeDeliveryScheduler {
	return &FakeDeliveryScheduler{
		Granted:   true,
		Pending:   map[string]ScheduledDelivery{},
		Delivered: map[string]struct{}{},
	}
}

func (f *FakeDeliveryScheduler) RequestAuthorization(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AuthCalls++
	return f.Granted, f.AuthErr
}

func (f *FakeDeliveryScheduler) Schedule(key string, content dto.NotificationContent, at time.Time) error {
	if f.ScheduleErr != nil {
		return f.ScheduleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Pending[key] = ScheduledDelivery{Content: content, At: at}
	return nil
}

func (f *FakeDeliveryScheduler) Cancel(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Pending, key)
}

func (f *FakeDeliveryScheduler) CancelAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Pending = map[string]ScheduledDelivery{}
	f.CancelAllCalls++
}

func (f *FakeDeliveryScheduler) CancelDelivered(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.Delivered, key)
	}
}

func (f *FakeDeliveryScheduler) SetBadgeCount(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Badge = n
}
