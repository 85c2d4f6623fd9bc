package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"seatly/internal/inventory"
	"seatly/internal/shared/constants"
	"seatly/pkg/cache"
	"seatly/pkg/clock"
)

// fakeLedger is an in-memory Repository. A mutex serializes transactions the
// way row locks serialize overlapping attempts in Postgres.
type fakeLedger struct {
	mu   sync.Mutex
	rows []Reservation
}

func (f *fakeLedger) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make([]Reservation, len(f.rows))
	copy(snapshot, f.rows)
	if err := fn(ctx); err != nil {
		f.rows = snapshot
		return err
	}
	return nil
}

func (f *fakeLedger) Insert(ctx context.Context, rows []Reservation) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeLedger) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteWhere(func(r Reservation) bool { return r.SessionID == sessionID }), nil
}

func (f *fakeLedger) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteWhere(func(r Reservation) bool { return !r.ExpiresAt.After(cutoff) }), nil
}

func (f *fakeLedger) deleteWhere(match func(Reservation) bool) int64 {
	var kept []Reservation
	var removed int64
	for _, r := range f.rows {
		if match(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return removed
}

func (f *fakeLedger) FindActiveBySeatIDs(ctx context.Context, seatIDs []uuid.UUID, now time.Time) ([]Reservation, error) {
	want := make(map[uuid.UUID]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		want[id] = struct{}{}
	}
	var out []Reservation
	for _, r := range f.rows {
		if _, ok := want[r.SeatID]; ok && r.ExpiresAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) FindActiveBySession(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Reservation
	for _, r := range f.rows {
		if r.SessionID == sessionID && r.ExpiresAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) FindActiveBySessionForUpdate(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]Reservation, error) {
	var out []Reservation
	for _, r := range f.rows {
		if r.SessionID == sessionID && r.ExpiresAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) FindActiveSeatIDsByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for _, r := range f.rows {
		if r.EventID == eventID && r.ExpiresAt.After(now) {
			out = append(out, r.SeatID)
		}
	}
	return out, nil
}

type fakeSeatStore struct {
	seats map[uuid.UUID]inventory.Seat
}

func (f *fakeSeatStore) FindSeatsByIDsForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]inventory.Seat, error) {
	var out []inventory.Seat
	for _, id := range seatIDs {
		if seat, ok := f.seats[id]; ok {
			out = append(out, seat)
		}
	}
	return out, nil
}

func newTestFixture(t *testing.T, seatCount int) (*fakeLedger, *fakeSeatStore, uuid.UUID, []uuid.UUID) {
	t.Helper()
	eventID := uuid.New()
	store := &fakeSeatStore{seats: make(map[uuid.UUID]inventory.Seat)}
	seatIDs := make([]uuid.UUID, 0, seatCount)
	for i := 0; i < seatCount; i++ {
		id := uuid.New()
		store.seats[id] = inventory.Seat{ID: id, EventID: eventID, Status: inventory.StatusAvailable}
		seatIDs = append(seatIDs, id)
	}
	return &fakeLedger{}, store, eventID, seatIDs
}

func TestCreateReservationHoldsAllSeats(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 3)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(ledger, store, nil, nil, WithClock(clock.NewFixed(now)))

	view, err := svc.CreateReservation(context.Background(), eventID, seatIDs)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if len(view.SeatIDs) != 3 {
		t.Fatalf("expected 3 held seats, got %d", len(view.SeatIDs))
	}
	if want := now.Add(LeaseDuration); !view.ExpiresAt.Equal(want) {
		t.Errorf("expires_at = %v, want %v", view.ExpiresAt, want)
	}
	if len(ledger.rows) != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", len(ledger.rows))
	}
	for _, r := range ledger.rows {
		if r.SessionID != view.SessionID {
			t.Errorf("ledger row session %v, want %v", r.SessionID, view.SessionID)
		}
	}
}

func TestCreateReservationConflictIsAllOrNothing(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 3)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(ledger, store, nil, nil, WithClock(clock.NewFixed(now)))

	first, err := svc.CreateReservation(context.Background(), eventID, seatIDs[:1])
	if err != nil {
		t.Fatalf("first CreateReservation: %v", err)
	}

	// Second attempt overlaps on seatIDs[0]; the free seats must not be held.
	_, err = svc.CreateReservation(context.Background(), eventID, seatIDs)
	var held *SeatsAlreadyHeldError
	if !errors.As(err, &held) {
		t.Fatalf("expected SeatsAlreadyHeldError, got %v", err)
	}
	if len(held.SeatIDs) != 1 || held.SeatIDs[0] != seatIDs[0] {
		t.Errorf("conflict seats = %v, want [%v]", held.SeatIDs, seatIDs[0])
	}
	if len(ledger.rows) != 1 {
		t.Fatalf("expected only the first hold in the ledger, got %d rows", len(ledger.rows))
	}
	if ledger.rows[0].SessionID != first.SessionID {
		t.Errorf("surviving row belongs to %v, want %v", ledger.rows[0].SessionID, first.SessionID)
	}
}

func TestCreateReservationRejectsSoldSeats(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 2)
	sold := store.seats[seatIDs[1]]
	sold.Status = inventory.StatusSold
	store.seats[seatIDs[1]] = sold

	svc := NewService(ledger, store, nil, nil)
	_, err := svc.CreateReservation(context.Background(), eventID, seatIDs)

	var soldErr *SeatsAlreadySoldError
	if !errors.As(err, &soldErr) {
		t.Fatalf("expected SeatsAlreadySoldError, got %v", err)
	}
	if len(soldErr.SeatIDs) != 1 || soldErr.SeatIDs[0] != seatIDs[1] {
		t.Errorf("sold seats = %v, want [%v]", soldErr.SeatIDs, seatIDs[1])
	}
	if len(ledger.rows) != 0 {
		t.Errorf("expected empty ledger after rejected attempt, got %d rows", len(ledger.rows))
	}
}

func TestCreateReservationRejectsUnknownSeats(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 1)
	phantom := uuid.New()

	svc := NewService(ledger, store, nil, nil)
	_, err := svc.CreateReservation(context.Background(), eventID, append(seatIDs, phantom))

	var unknown *UnknownSeatsError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSeatsError, got %v", err)
	}
	if len(unknown.SeatIDs) != 1 || unknown.SeatIDs[0] != phantom {
		t.Errorf("unknown seats = %v, want [%v]", unknown.SeatIDs, phantom)
	}
}

func TestCreateReservationRejectsSeatsOfOtherEvents(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 1)

	// A real seat, but belonging to a different event. Holding it under
	// eventID would hide the hold from the other event's ledger reads.
	foreign := uuid.New()
	store.seats[foreign] = inventory.Seat{ID: foreign, EventID: uuid.New(), Status: inventory.StatusAvailable}

	svc := NewService(ledger, store, nil, nil)
	_, err := svc.CreateReservation(context.Background(), eventID, append(seatIDs, foreign))

	var unknown *UnknownSeatsError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSeatsError, got %v", err)
	}
	if len(unknown.SeatIDs) != 1 || unknown.SeatIDs[0] != foreign {
		t.Errorf("unknown seats = %v, want [%v]", unknown.SeatIDs, foreign)
	}
	if len(ledger.rows) != 0 {
		t.Errorf("ledger has %d rows, want none", len(ledger.rows))
	}
}

func TestCreateReservationRejectsEmptySelection(t *testing.T) {
	ledger, store, eventID, _ := newTestFixture(t, 1)
	svc := NewService(ledger, store, nil, nil)

	if _, err := svc.CreateReservation(context.Background(), eventID, nil); !errors.Is(err, ErrNoSeats) {
		t.Fatalf("expected ErrNoSeats, got %v", err)
	}
}

// Concurrent overlapping attempts on the same seat: exactly one must win.
func TestCreateReservationMutualExclusion(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 1)
	svc := NewService(ledger, store, nil, nil)

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CreateReservation(context.Background(), eventID, seatIDs)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		default:
			var held *SeatsAlreadyHeldError
			if !errors.As(err, &held) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			conflicts++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d (conflicts %d)", wins, conflicts)
	}
	if len(ledger.rows) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(ledger.rows))
	}
}

func TestExpiredHoldFreesSeatWithoutSweep(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 1)
	manual := clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(ledger, store, nil, nil, WithClock(manual))

	first, err := svc.CreateReservation(context.Background(), eventID, seatIDs)
	if err != nil {
		t.Fatalf("first CreateReservation: %v", err)
	}

	// Just before expiry the seat is still blocked.
	manual.Advance(LeaseDuration - time.Second)
	if _, err := svc.CreateReservation(context.Background(), eventID, seatIDs); err == nil {
		t.Fatal("expected conflict before lease expiry")
	}

	// Past expiry the stale row still sits in the ledger, but it no longer
	// blocks anyone. No sweep has run.
	manual.Advance(2 * time.Second)
	second, err := svc.CreateReservation(context.Background(), eventID, seatIDs)
	if err != nil {
		t.Fatalf("CreateReservation after expiry: %v", err)
	}
	if second.SessionID == first.SessionID {
		t.Error("new hold reused the old session id")
	}

	if _, err := svc.GetSessionReservations(context.Background(), first.SessionID); !errors.Is(err, ErrNoActiveReservation) {
		t.Errorf("expired session lookup = %v, want ErrNoActiveReservation", err)
	}
}

func TestReleaseReservationIsIdempotent(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 2)
	svc := NewService(ledger, store, nil, nil)

	view, err := svc.CreateReservation(context.Background(), eventID, seatIDs)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	if err := svc.ReleaseReservation(context.Background(), view.SessionID); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if len(ledger.rows) != 0 {
		t.Fatalf("expected empty ledger after release, got %d rows", len(ledger.rows))
	}
	if err := svc.ReleaseReservation(context.Background(), view.SessionID); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
	if err := svc.ReleaseReservation(context.Background(), uuid.New()); err != nil {
		t.Fatalf("releasing an unknown session should be a no-op, got %v", err)
	}
}

func TestCleanupExpiredReservations(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 2)
	manual := clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(ledger, store, nil, nil, WithClock(manual))

	if _, err := svc.CreateReservation(context.Background(), eventID, seatIDs[:1]); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	manual.Advance(LeaseDuration / 2)
	if _, err := svc.CreateReservation(context.Background(), eventID, seatIDs[1:]); err != nil {
		t.Fatalf("second CreateReservation: %v", err)
	}

	// First hold is past its lease, second is still live.
	manual.Advance(LeaseDuration/2 + time.Second)
	removed, err := svc.CleanupExpiredReservations(context.Background())
	if err != nil {
		t.Fatalf("CleanupExpiredReservations: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(ledger.rows) != 1 {
		t.Errorf("ledger rows = %d, want 1", len(ledger.rows))
	}
}

func TestGetReservedSeatsFiltersByEvent(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 2)
	otherEvent := uuid.New()
	otherSeat := uuid.New()
	store.seats[otherSeat] = inventory.Seat{ID: otherSeat, EventID: otherEvent, Status: inventory.StatusAvailable}

	svc := NewService(ledger, store, nil, nil)
	if _, err := svc.CreateReservation(context.Background(), eventID, seatIDs); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, err := svc.CreateReservation(context.Background(), otherEvent, []uuid.UUID{otherSeat}); err != nil {
		t.Fatalf("CreateReservation other event: %v", err)
	}

	reserved, err := svc.GetReservedSeats(context.Background(), eventID)
	if err != nil {
		t.Fatalf("GetReservedSeats: %v", err)
	}
	if len(reserved) != 2 {
		t.Errorf("reserved seats = %d, want 2", len(reserved))
	}
}

func TestWithLeaseDurationOverride(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(ledger, store, nil, nil,
		WithClock(clock.NewFixed(now)),
		WithLeaseDuration(90*time.Second))

	view, err := svc.CreateReservation(context.Background(), eventID, seatIDs)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if want := now.Add(90 * time.Second); !view.ExpiresAt.Equal(want) {
		t.Errorf("expires_at = %v, want %v", view.ExpiresAt, want)
	}
}

// memoryCache is an in-memory cache.Service backed by JSON blobs, matching
// the Redis implementation's serialization.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := m.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := m.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := m.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return m.Get(ctx, key, dest)
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

func TestGetReservedSeatsCachesAndEvictsOnCreate(t *testing.T) {
	ledger, store, eventID, seatIDs := newTestFixture(t, 3)
	mem := newMemoryCache()
	svc := NewService(ledger, store, nil, nil, WithCache(mem))

	if _, err := svc.CreateReservation(context.Background(), eventID, seatIDs[:1]); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	reserved, err := svc.GetReservedSeats(context.Background(), eventID)
	if err != nil {
		t.Fatalf("GetReservedSeats: %v", err)
	}
	if len(reserved) != 1 {
		t.Fatalf("reserved seats = %d, want 1", len(reserved))
	}
	cacheKey := constants.BuildReservedSeatsKey(eventID.String())
	if _, ok := mem.entries[cacheKey]; !ok {
		t.Fatal("reserved seats were not cached")
	}

	// Bypass the service to prove the next read is served from the cache.
	ledger.mu.Lock()
	ledger.rows = nil
	ledger.mu.Unlock()
	reserved, err = svc.GetReservedSeats(context.Background(), eventID)
	if err != nil {
		t.Fatalf("GetReservedSeats (cached): %v", err)
	}
	if len(reserved) != 1 {
		t.Errorf("cached reserved seats = %d, want 1", len(reserved))
	}

	// A fresh hold evicts the entry so the next read sees it.
	if _, err := svc.CreateReservation(context.Background(), eventID, seatIDs[1:2]); err != nil {
		t.Fatalf("CreateReservation (second hold): %v", err)
	}
	reserved, err = svc.GetReservedSeats(context.Background(), eventID)
	if err != nil {
		t.Fatalf("GetReservedSeats (after evict): %v", err)
	}
	if len(reserved) != 1 {
		t.Errorf("reserved seats after evict = %d, want 1", len(reserved))
	}
}
