package checkout

import (
	"testing"
	"time"

	"seatly/pkg/clock"
)

// driveTick advances the manual clock one second, fires a tick, and returns
// the value the countdown reported.
func driveTick(t *testing.T, manual *clock.Manual, tickc chan time.Time, values chan int64) int64 {
	t.Helper()
	manual.Advance(time.Second)
	tickc <- time.Time{}
	select {
	case v := <-values:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not report a tick")
		return 0
	}
}

func TestCountdownDecreasesBySecondAndClampsAtZero(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manual := clock.NewManual(start)
	tickc := make(chan time.Time)
	values := make(chan int64, 1)
	expired := make(chan struct{})

	cd := NewCountdown(manual)
	cd.tickc = tickc
	defer cd.Stop()

	cd.Start(start.Add(5*time.Second),
		func(remaining int64) { values <- remaining },
		func() { close(expired) })

	for want := int64(4); want >= 1; want-- {
		if got := driveTick(t, manual, tickc, values); got != want {
			t.Fatalf("remaining = %d, want %d", got, want)
		}
	}

	// The final tick reaches zero, never a negative value, and fires the
	// expiry callback exactly once before the loop exits.
	if got := driveTick(t, manual, tickc, values); got != 0 {
		t.Fatalf("remaining at expiry = %d, want 0", got)
	}
	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("expiry callback did not fire")
	}
}

func TestCountdownStopPreventsFurtherTicks(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manual := clock.NewManual(start)
	tickc := make(chan time.Time)
	values := make(chan int64, 1)

	cd := NewCountdown(manual)
	cd.tickc = tickc

	cd.Start(start.Add(10*time.Second),
		func(remaining int64) { values <- remaining },
		nil)

	if got := driveTick(t, manual, tickc, values); got != 9 {
		t.Fatalf("remaining = %d, want 9", got)
	}

	cd.Stop()

	// After Stop the loop has exited; a tick must not be consumed.
	manual.Advance(time.Second)
	select {
	case tickc <- time.Time{}:
		t.Fatal("stopped countdown consumed a tick")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCountdownRestartReplacesPreviousRun(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manual := clock.NewManual(start)
	tickc := make(chan time.Time)
	values := make(chan int64, 1)

	cd := NewCountdown(manual)
	cd.tickc = tickc
	defer cd.Stop()

	cd.Start(start.Add(30*time.Second), func(remaining int64) { values <- remaining }, nil)
	if got := driveTick(t, manual, tickc, values); got != 29 {
		t.Fatalf("remaining = %d, want 29", got)
	}

	// Restarting with a later deadline stops the old loop and counts
	// against the new expiry. A fresh tick channel keeps the old loop,
	// which may still be winding down, from stealing a tick.
	tickc2 := make(chan time.Time)
	cd.mu.Lock()
	cd.tickc = tickc2
	cd.mu.Unlock()
	cd.Start(manual.Now().Add(60*time.Second), func(remaining int64) { values <- remaining }, nil)
	if got := driveTick(t, manual, tickc2, values); got != 59 {
		t.Fatalf("remaining after restart = %d, want 59", got)
	}
}

func TestSecondsUntilNeverNegative(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := secondsUntil(now.Add(90*time.Second), now); got != 90 {
		t.Errorf("secondsUntil = %d, want 90", got)
	}
	if got := secondsUntil(now.Add(1500*time.Millisecond), now); got != 1 {
		t.Errorf("secondsUntil rounds down, got %d, want 1", got)
	}
	if got := secondsUntil(now.Add(-time.Hour), now); got != 0 {
		t.Errorf("secondsUntil past deadline = %d, want 0", got)
	}
}
