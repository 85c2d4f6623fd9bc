package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"seatly/internal/inventory"
	"seatly/internal/reservations"
	"seatly/pkg/clock"
	"seatly/pkg/logger"
)

// Service orchestrates the checkout flow: it owns the session lifecycle and
// wires the reservation ledger and the countdown together. The state machine
// itself lives in Session; this layer adds persistence and the release-on-
// expiry behavior the machine deliberately leaves out.
type Service interface {
	Begin(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (*Session, error)
	Get(ctx context.Context, checkoutID string) (*Session, error)
	UpdateSeats(ctx context.Context, checkoutID string, seatIDs []uuid.UUID) (*Session, error)
	UpdateTicketDetails(ctx context.Context, checkoutID string, category string) (*Session, error)
	UpdateBuyerInfo(ctx context.Context, checkoutID string, info BuyerInfo) (*Session, error)
	NextStep(ctx context.Context, checkoutID string) (*Session, error)
	PreviousStep(ctx context.Context, checkoutID string) (*Session, error)
	GoToStep(ctx context.Context, checkoutID string, step Step) (*Session, error)
	Cancel(ctx context.Context, checkoutID string) error
	Complete(ctx context.Context, checkoutID string) error
}

type service struct {
	store        Store
	reservations reservations.Service
	inventory    inventory.Service
	clock        clock.Clock
	logger       *logger.Logger

	mu         sync.Mutex
	countdowns map[string]*Countdown
}

// Option configures the checkout service.
type Option func(*service)

// WithClock injects the time source.
func WithClock(c clock.Clock) Option {
	return func(s *service) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewService creates the checkout orchestrator.
func NewService(store Store, reservationSvc reservations.Service, inventorySvc inventory.Service, log *logger.Logger, opts ...Option) Service {
	s := &service{
		store:        store,
		reservations: reservationSvc,
		inventory:    inventorySvc,
		clock:        clock.NewSystem(),
		logger:       log,
		countdowns:   make(map[string]*Countdown),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin starts a new checkout: it places a hold on the seats, builds a
// session carrying the selection, and starts the hold countdown.
func (s *service) Begin(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (*Session, error) {
	selection, err := s.loadSelection(ctx, seatIDs)
	if err != nil {
		return nil, err
	}

	hold, err := s.reservations.CreateReservation(ctx, eventID, seatIDs)
	if err != nil {
		return nil, err
	}

	session := NewSession(eventID, s.clock.Now())
	session.UpdateSeats(selection)
	session.SetReservation(hold.SessionID, hold.ExpiresAt)

	if err := s.store.Save(ctx, session); err != nil {
		// The hold would otherwise dangle until its lease runs out.
		if relErr := s.reservations.ReleaseReservation(ctx, hold.SessionID); relErr != nil && s.logger != nil {
			s.logger.Warn("failed to release hold after save failure", "reservation_id", hold.SessionID, "error", relErr)
		}
		return nil, err
	}

	s.startCountdown(session)
	return session, nil
}

// Get loads the session and reconciles it with the ledger: a session whose
// hold has expired comes back reset to step 1 with no seats.
func (s *service) Get(ctx context.Context, checkoutID string) (*Session, error) {
	session, err := s.store.Load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	if session.HasReservation() {
		_, err := s.reservations.GetSessionReservations(ctx, session.ReservationID)
		if errors.Is(err, reservations.ErrNoActiveReservation) {
			s.stopCountdown(session.ID.String())
			session.Reset()
			if err := s.store.Save(ctx, session); err != nil {
				return nil, err
			}
			return session, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return session, nil
}

// UpdateSeats changes the selection mid-flow. The old hold is released and a
// fresh one created, so the lease window restarts.
func (s *service) UpdateSeats(ctx context.Context, checkoutID string, seatIDs []uuid.UUID) (*Session, error) {
	session, err := s.Get(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	selection, err := s.loadSelection(ctx, seatIDs)
	if err != nil {
		return nil, err
	}

	if session.HasReservation() {
		s.stopCountdown(session.ID.String())
		if err := s.reservations.ReleaseReservation(ctx, session.ReservationID); err != nil {
			return nil, err
		}
		session.ClearReservation()
	}

	hold, err := s.reservations.CreateReservation(ctx, session.EventID, seatIDs)
	if err != nil {
		// Old hold is gone; persist the seatless state rather than lie
		// about a hold that no longer exists.
		session.UpdateSeats(nil)
		if saveErr := s.store.Save(ctx, session); saveErr != nil && s.logger != nil {
			s.logger.Warn("failed to persist session after reservation conflict", "checkout_id", checkoutID, "error", saveErr)
		}
		return nil, err
	}

	session.UpdateSeats(selection)
	session.SetReservation(hold.SessionID, hold.ExpiresAt)
	session.UpdatedAt = s.clock.Now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.startCountdown(session)
	return session, nil
}

func (s *service) UpdateTicketDetails(ctx context.Context, checkoutID string, category string) (*Session, error) {
	return s.mutate(ctx, checkoutID, func(session *Session) error {
		session.UpdateTicketDetails(category)
		return nil
	})
}

func (s *service) UpdateBuyerInfo(ctx context.Context, checkoutID string, info BuyerInfo) (*Session, error) {
	return s.mutate(ctx, checkoutID, func(session *Session) error {
		session.UpdateBuyerInfo(info)
		return nil
	})
}

// ErrStepBlocked is returned when the current step's gate rejects a forward
// move.
var ErrStepBlocked = errors.New("current step is incomplete")

// ErrInvalidStep is returned for a jump outside steps 1 through 4.
var ErrInvalidStep = errors.New("step out of range")

func (s *service) NextStep(ctx context.Context, checkoutID string) (*Session, error) {
	return s.mutate(ctx, checkoutID, func(session *Session) error {
		if !session.GoToNextStep() {
			return ErrStepBlocked
		}
		return nil
	})
}

func (s *service) PreviousStep(ctx context.Context, checkoutID string) (*Session, error) {
	return s.mutate(ctx, checkoutID, func(session *Session) error {
		session.GoToPreviousStep()
		return nil
	})
}

func (s *service) GoToStep(ctx context.Context, checkoutID string, step Step) (*Session, error) {
	return s.mutate(ctx, checkoutID, func(session *Session) error {
		if !session.GoToStep(step) {
			return ErrInvalidStep
		}
		return nil
	})
}

// Cancel releases the hold and discards the session.
func (s *service) Cancel(ctx context.Context, checkoutID string) error {
	session, err := s.store.Load(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}

	s.stopCountdown(checkoutID)
	if session.HasReservation() {
		if err := s.reservations.ReleaseReservation(ctx, session.ReservationID); err != nil {
			return fmt.Errorf("failed to release hold on cancel: %w", err)
		}
	}
	return s.store.Delete(ctx, checkoutID)
}

// Complete tears the session down after a successful purchase. The ledger
// rows are already consumed by then, so nothing is released.
func (s *service) Complete(ctx context.Context, checkoutID string) error {
	s.stopCountdown(checkoutID)
	if err := s.store.Delete(ctx, checkoutID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

func (s *service) mutate(ctx context.Context, checkoutID string, fn func(*Session) error) (*Session, error) {
	session, err := s.Get(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.clock.Now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) loadSelection(ctx context.Context, seatIDs []uuid.UUID) ([]SelectedSeat, error) {
	seats, err := s.inventory.GetSeatsByIDs(ctx, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	selection := make([]SelectedSeat, 0, len(seats))
	for _, seat := range seats {
		selection = append(selection, SelectedSeat{
			SeatID: seat.ID,
			Label:  seat.Label(),
			Price:  seat.Price,
		})
	}
	return selection, nil
}

// startCountdown runs the hold timer for the session. On expiry the hold is
// released and the persisted session reset to step 1, mirroring what Get
// would discover lazily on the next read.
func (s *service) startCountdown(session *Session) {
	checkoutID := session.ID.String()
	reservationID := session.ReservationID

	s.mu.Lock()
	if old, ok := s.countdowns[checkoutID]; ok {
		old.Stop()
	}
	cd := NewCountdown(s.clock)
	s.countdowns[checkoutID] = cd
	s.mu.Unlock()

	cd.Start(session.ExpiresAt, nil, func() {
		ctx := context.Background()
		if err := s.reservations.ReleaseReservation(ctx, reservationID); err != nil && s.logger != nil {
			s.logger.Warn("failed to release expired hold", "reservation_id", reservationID, "error", err)
		}
		if stored, err := s.store.Load(ctx, checkoutID); err == nil && stored.ReservationID == reservationID {
			stored.Reset()
			if err := s.store.Save(ctx, stored); err != nil && s.logger != nil {
				s.logger.Warn("failed to reset expired session", "checkout_id", checkoutID, "error", err)
			}
		}
		s.stopCountdown(checkoutID)
	})
}

func (s *service) stopCountdown(checkoutID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cd, ok := s.countdowns[checkoutID]; ok {
		cd.Stop()
		delete(s.countdowns, checkoutID)
	}
}
