package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seatly/internal/inventory"
	"seatly/internal/notifications"
	"seatly/internal/shared/constants"
	"seatly/pkg/cache"
	"seatly/pkg/clock"
	"seatly/pkg/logger"
)

// SeatStore is the slice of the inventory the reservation ledger needs.
type SeatStore interface {
	FindSeatsByIDsForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]inventory.Seat, error)
}

// Service manages temporary seat holds. A hold is a set of ledger rows keyed
// by a session id; rows past their expires_at are dead no matter whether the
// sweeper has removed them yet.
type Service interface {
	CreateReservation(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (*ReservationView, error)
	ReleaseReservation(ctx context.Context, sessionID uuid.UUID) error
	AreSeatsAvailable(ctx context.Context, seatIDs []uuid.UUID) (bool, error)
	GetSessionReservations(ctx context.Context, sessionID uuid.UUID) (*ReservationView, error)
	GetReservedSeats(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	CleanupExpiredReservations(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	seats    SeatStore
	producer notifications.Producer
	cache    cache.Service
	clock    clock.Clock
	leaseTTL time.Duration
	logger   *logger.Logger
}

// Option configures the reservation service.
type Option func(*service)

// WithLeaseDuration overrides the default hold lifetime. A non-positive
// value keeps the default.
func WithLeaseDuration(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.leaseTTL = d
		}
	}
}

// WithCache enables the short-lived reserved-seat cache. The ledger stays
// the source of truth; cached reads only serve the seat-map surface.
func WithCache(c cache.Service) Option {
	return func(s *service) {
		s.cache = c
	}
}

// WithClock injects the time source, mostly for tests.
func WithClock(c clock.Clock) Option {
	return func(s *service) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewService creates a reservation service. The producer may be nil when
// lifecycle events are disabled.
func NewService(repo Repository, seats SeatStore, producer notifications.Producer, log *logger.Logger, opts ...Option) Service {
	s := &service{
		repo:     repo,
		seats:    seats,
		producer: producer,
		clock:    clock.NewSystem(),
		leaseTTL: LeaseDuration,
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReservation atomically places a hold on every requested seat. Either
// all seats get ledger rows under a fresh session id, or none do and the
// caller learns which seats blocked the attempt.
func (s *service) CreateReservation(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (*ReservationView, error) {
	if len(seatIDs) == 0 {
		return nil, ErrNoSeats
	}
	seatIDs = dedupeSeatIDs(seatIDs)

	now := s.clock.Now()
	sessionID := uuid.New()
	expiresAt := now.Add(s.leaseTTL)

	err := s.repo.InTransaction(ctx, func(ctx context.Context) error {
		// Locking the seat rows serializes concurrent attempts that
		// overlap on any seat. Whoever commits first wins; the loser
		// re-runs the checks below against the committed ledger.
		seats, err := s.seats.FindSeatsByIDsForUpdate(ctx, seatIDs)
		if err != nil {
			return fmt.Errorf("failed to lock seats: %w", err)
		}

		if unknown := missingSeatIDs(eventID, seatIDs, seats); len(unknown) > 0 {
			return &UnknownSeatsError{SeatIDs: unknown}
		}
		var sold []uuid.UUID
		for _, seat := range seats {
			if seat.IsSold() {
				sold = append(sold, seat.ID)
			}
		}
		if len(sold) > 0 {
			return &SeatsAlreadySoldError{SeatIDs: sold}
		}

		active, err := s.repo.FindActiveBySeatIDs(ctx, seatIDs, now)
		if err != nil {
			return fmt.Errorf("failed to check active holds: %w", err)
		}
		if len(active) > 0 {
			held := make([]uuid.UUID, 0, len(active))
			for _, r := range active {
				held = append(held, r.SeatID)
			}
			return &SeatsAlreadyHeldError{SeatIDs: held}
		}

		rows := make([]Reservation, 0, len(seatIDs))
		for _, seatID := range seatIDs {
			rows = append(rows, Reservation{
				ID:        uuid.New(),
				SessionID: sessionID,
				EventID:   eventID,
				SeatID:    seatID,
				ExpiresAt: expiresAt,
				CreatedAt: now,
			})
		}
		if err := s.repo.Insert(ctx, rows); err != nil {
			return fmt.Errorf("failed to insert reservations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dropReservedSeatsCache(ctx, eventID)

	if s.logger != nil {
		s.logger.LogReservationCreated(ctx, sessionID.String(), eventID.String(), len(seatIDs))
	}
	s.publish(ctx, notifications.LifecycleEvent{
		Type:      notifications.EventReservationCreated,
		SessionID: sessionID.String(),
		EventID:   eventID.String(),
		SeatIDs:   seatIDStrings(seatIDs),
	})

	return &ReservationView{
		SessionID: sessionID,
		EventID:   eventID,
		SeatIDs:   seatIDs,
		ExpiresAt: expiresAt,
	}, nil
}

// ReleaseReservation removes every ledger row for the session. Releasing a
// session that holds nothing is a no-op, not an error.
func (s *service) ReleaseReservation(ctx context.Context, sessionID uuid.UUID) error {
	rows, err := s.repo.DeleteBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to release reservation: %w", err)
	}
	if rows == 0 {
		return nil
	}

	if s.logger != nil {
		s.logger.LogReservationReleased(ctx, sessionID.String(), rows)
	}
	s.publish(ctx, notifications.LifecycleEvent{
		Type:      notifications.EventReservationReleased,
		SessionID: sessionID.String(),
	})
	return nil
}

// AreSeatsAvailable reports whether none of the seats carry a live hold.
// Sold seats are the inventory's concern, not the ledger's.
func (s *service) AreSeatsAvailable(ctx context.Context, seatIDs []uuid.UUID) (bool, error) {
	if len(seatIDs) == 0 {
		return true, nil
	}
	active, err := s.repo.FindActiveBySeatIDs(ctx, seatIDs, s.clock.Now())
	if err != nil {
		return false, fmt.Errorf("failed to check seat availability: %w", err)
	}
	return len(active) == 0, nil
}

// GetSessionReservations returns the live hold for the session, or
// ErrNoActiveReservation when the session holds nothing or its rows have
// expired.
func (s *service) GetSessionReservations(ctx context.Context, sessionID uuid.UUID) (*ReservationView, error) {
	rows, err := s.repo.FindActiveBySession(ctx, sessionID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load session reservations: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoActiveReservation
	}

	view := &ReservationView{
		SessionID: sessionID,
		EventID:   rows[0].EventID,
		SeatIDs:   make([]uuid.UUID, 0, len(rows)),
		ExpiresAt: rows[0].ExpiresAt,
	}
	for _, r := range rows {
		view.SeatIDs = append(view.SeatIDs, r.SeatID)
	}
	return view, nil
}

// GetReservedSeats returns the seat ids with a live hold for the event.
func (s *service) GetReservedSeats(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	cacheKey := constants.BuildReservedSeatsKey(eventID.String())
	if s.cache != nil {
		var cached []uuid.UUID
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	ids, err := s.repo.FindActiveSeatIDsByEvent(ctx, eventID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load reserved seats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, ids, constants.TTLReservedSeats); err != nil && s.logger != nil {
			s.logger.Warn("failed to cache reserved seats", "event_id", eventID.String(), "error", err)
		}
	}
	return ids, nil
}

// CleanupExpiredReservations deletes rows whose expiry has passed. Purely
// hygiene; reads already ignore expired rows.
func (s *service) CleanupExpiredReservations(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired reservations: %w", err)
	}
	return removed, nil
}

func (s *service) publish(ctx context.Context, event notifications.LifecycleEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish lifecycle event", "type", event.Type, "error", err)
	}
}

func dedupeSeatIDs(seatIDs []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(seatIDs))
	out := make([]uuid.UUID, 0, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missingSeatIDs reports the requested ids that do not name a seat of the
// given event. A seat belonging to a different event is as unknown as one
// that does not exist.
func missingSeatIDs(eventID uuid.UUID, requested []uuid.UUID, found []inventory.Seat) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, seat := range found {
		if seat.EventID == eventID {
			have[seat.ID] = struct{}{}
		}
	}
	var missing []uuid.UUID
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// dropReservedSeatsCache evicts the event's cached reserved-seat list so a
// fresh hold shows up on the next seat-map read. Releases rely on the short
// TTL instead; the ledger row is already gone by then.
func (s *service) dropReservedSeatsCache(ctx context.Context, eventID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.BuildReservedSeatsKey(eventID.String())); err != nil && s.logger != nil {
		s.logger.Warn("failed to evict reserved seats cache", "event_id", eventID.String(), "error", err)
	}
}

func seatIDStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
