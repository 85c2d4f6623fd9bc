package checkout

import (
	"sync"
	"time"

	"seatly/pkg/clock"
)

// Countdown drives the once-per-second hold timer for one checkout session.
// It only derives and reports the remaining time; releasing the hold when
// the timer hits zero is the service's job via the onExpire callback.
type Countdown struct {
	clock    clock.Clock
	interval time.Duration

	// tickc, when set, replaces the internal ticker so tests can drive
	// ticks by hand together with a manual clock.
	tickc <-chan time.Time

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

// NewCountdown creates a countdown ticking once per second.
func NewCountdown(c clock.Clock) *Countdown {
	if c == nil {
		c = clock.NewSystem()
	}
	return &Countdown{
		clock:    c,
		interval: time.Second,
	}
}

// Start begins ticking toward expiresAt. onTick receives the clamped seconds
// remaining after every tick; onExpire fires once when the countdown reaches
// zero, after which the loop exits. Start returns immediately.
func (cd *Countdown) Start(expiresAt time.Time, onTick func(remaining int64), onExpire func()) {
	cd.mu.Lock()
	cd.stopLocked()
	stop := make(chan struct{})
	cd.stop = stop
	cd.stopped = false
	tickc := cd.tickc
	cd.mu.Unlock()

	go cd.run(expiresAt, stop, tickc, onTick, onExpire)
}

// Stop cancels the countdown. Safe to call more than once, and a no-op when
// nothing is running. There are no partial-tick side effects to unwind.
func (cd *Countdown) Stop() {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	cd.stopLocked()
}

func (cd *Countdown) stopLocked() {
	if cd.stop != nil && !cd.stopped {
		close(cd.stop)
		cd.stopped = true
	}
}

func (cd *Countdown) run(expiresAt time.Time, stop chan struct{}, tickc <-chan time.Time, onTick func(int64), onExpire func()) {
	if tickc == nil {
		ticker := time.NewTicker(cd.interval)
		defer ticker.Stop()
		tickc = ticker.C
	}

	for {
		select {
		case <-stop:
			return
		case <-tickc:
			remaining := secondsUntil(expiresAt, cd.clock.Now())
			if onTick != nil {
				onTick(remaining)
			}
			if remaining == 0 {
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}

// secondsUntil is the countdown value: whole seconds until deadline, never
// negative.
func secondsUntil(deadline, now time.Time) int64 {
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int64(remaining / time.Second)
}
