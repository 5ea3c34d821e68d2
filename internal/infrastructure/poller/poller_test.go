package poller

import (
	"testing"
	"time"

	"binday/internal/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func awaitFiring(t *testing.T, fired <-chan struct{}) {
	t.Helper()
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not fire in time")
	}
}

func requireNoFiring(t *testing.T, fired <-chan struct{}) {
	t.Helper()
	select {
	case <-fired:
		t.Fatal("poller fired unexpectedly")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStart_AlignsToNextMinuteBoundary(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 30, 0, time.UTC))
	p := New(clock, testutil.NopLogger{})
	defer p.Cancel()

	fired := make(chan struct{}, 8)
	p.Start(true, func() { fired <- struct{}{} })

	clock.BlockUntil(1)
	clock.Advance(29 * time.Second)
	requireNoFiring(t, fired)

	// Crossing the boundary fires once.
	clock.Advance(time.Second)
	awaitFiring(t, fired)

	// Then once per minute.
	clock.BlockUntil(1)
	clock.Advance(time.Minute)
	awaitFiring(t, fired)
}

func TestStart_UnalignedFiresImmediately(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 30, 0, time.UTC))
	p := New(clock, testutil.NopLogger{})
	defer p.Cancel()

	fired := make(chan struct{}, 8)
	p.Start(false, func() { fired <- struct{}{} })
	awaitFiring(t, fired)
}

func TestCancel_StopsFirings(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	p := New(clock, testutil.NopLogger{})

	fired := make(chan struct{}, 8)
	p.Start(false, func() { fired <- struct{}{} })
	awaitFiring(t, fired)

	clock.BlockUntil(1)
	p.Cancel()
	// Let the goroutine observe the stop before moving time.
	time.Sleep(20 * time.Millisecond)
	clock.Advance(5 * time.Minute)
	requireNoFiring(t, fired)

	// Cancel is idempotent.
	require.NotPanics(t, func() { p.Cancel() })
}

func TestStart_ReplacesPreviousSchedule(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	p := New(clock, testutil.NopLogger{})
	defer p.Cancel()

	first := make(chan struct{}, 8)
	p.Start(false, func() { first <- struct{}{} })
	awaitFiring(t, first)

	second := make(chan struct{}, 8)
	clock.BlockUntil(1)
	p.Start(false, func() { second <- struct{}{} })
	awaitFiring(t, second)

	// Only the second callback keeps firing.
	clock.BlockUntil(1)
	clock.Advance(time.Minute)
	awaitFiring(t, second)
	requireNoFiring(t, first)
}
