// Package poller provides the in-process day-change wake-up signal. It is
// not involved in notification delivery; it only gives dependent state a
// once-a-minute chance to notice that a new day has started.
package poller

import (
	"sync"
	"time"

	"binday/internal/pkg/logger"

	"github.com/jonboulle/clockwork"
)

// interval is the firing cadence once the poller is running.
const interval = time.Minute

// DayChangePoller fires a callback every minute, optionally aligned to the
// top of the minute. Start replaces any previous schedule, so the poller is
// never double-scheduled; firings do not overlap because they run on a
// single goroutine.
type DayChangePoller struct {
	clock clockwork.Clock
	log   logger.Logger

	mu   sync.Mutex
	stop chan struct{}
}

// New creates a day-change poller driven by the given clock.
func New(clock clockwork.Clock, log logger.Logger) *DayChangePoller {
	return &DayChangePoller{clock: clock, log: log}
}

// Start begins firing fn. With alignToNextMinuteBoundary set, the first
// firing is delayed to the next exact minute boundary; afterwards fn runs
// every 60 seconds until Cancel. A previous Start is cancelled first.
func (p *DayChangePoller) Start(alignToNextMinuteBoundary bool, fn func()) {
	p.Cancel()

	var delay time.Duration
	if alignToNextMinuteBoundary {
		now := p.clock.Now()
		delay = now.Truncate(interval).Add(interval).Sub(now)
	}

	p.mu.Lock()
	stop := make(chan struct{})
	p.stop = stop
	p.mu.Unlock()

	go p.run(delay, fn, stop)
	p.log.Debug("Day-change poller started.")
}

func (p *DayChangePoller) run(delay time.Duration, fn func(), stop chan struct{}) {
	timer := p.clock.NewTimer(delay)
	select {
	case <-stop:
		timer.Stop()
		return
	case <-timer.Chan():
	}
	fn()

	ticker := p.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			fn()
		}
	}
}

// Cancel stops all future firings. It is idempotent.
func (p *DayChangePoller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}
