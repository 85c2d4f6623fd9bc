package orders

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"seatly/internal/inventory"
	"seatly/internal/notifications"
	"seatly/internal/reservations"
	"seatly/pkg/clock"
	"seatly/pkg/logger"
)

// ErrReservationExpired is returned when finalization finds no live hold for
// the session: the lease ran out (or was released) before the buyer finished.
var ErrReservationExpired = errors.New("reservation expired or not found")

// ReservationLedger is the slice of the reservation store finalization
// needs: lock the session's rows, then consume them.
type ReservationLedger interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	FindActiveBySessionForUpdate(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]reservations.Reservation, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

// SeatInventory is the slice of the seat store finalization needs.
type SeatInventory interface {
	FindSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]inventory.Seat, error)
	MarkSold(ctx context.Context, seatIDs []uuid.UUID) error
}

// ConfirmRequest carries everything finalization needs beyond the ledger:
// who bought, and how they pay.
type ConfirmRequest struct {
	SessionID     uuid.UUID
	BuyerName     string
	BuyerEmail    string
	BuyerPhone    string
	PaymentMethod string
}

// Service finalizes purchases. Finalization is verify-then-consume: inside
// one transaction the session's hold is re-checked under lock, the seats flip
// to SOLD, the ledger rows are deleted, and the order is written. If any step
// fails the whole transaction rolls back and the hold stays intact.
type Service interface {
	ConfirmPurchase(ctx context.Context, req ConfirmRequest) (*Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	GetOrderByRef(ctx context.Context, orderRef string) (*Order, error)
}

type service struct {
	repo     Repository
	ledger   ReservationLedger
	seats    SeatInventory
	producer notifications.Producer
	clock    clock.Clock
	logger   *logger.Logger
}

// Option configures the order service.
type Option func(*service)

// WithClock injects the time source.
func WithClock(c clock.Clock) Option {
	return func(s *service) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewService creates the purchase finalizer. The producer may be nil when
// lifecycle events are disabled.
func NewService(repo Repository, ledger ReservationLedger, seats SeatInventory, producer notifications.Producer, log *logger.Logger, opts ...Option) Service {
	s := &service{
		repo:     repo,
		ledger:   ledger,
		seats:    seats,
		producer: producer,
		clock:    clock.NewSystem(),
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ConfirmPurchase(ctx context.Context, req ConfirmRequest) (*Order, error) {
	now := s.clock.Now()

	orderRef, err := generateOrderRef(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order reference: %w", err)
	}

	var order *Order
	err = s.ledger.InTransaction(ctx, func(ctx context.Context) error {
		// Lock the hold rows so a concurrent sweep or release cannot
		// pull them out from under the finalization.
		rows, err := s.ledger.FindActiveBySessionForUpdate(ctx, req.SessionID, now)
		if err != nil {
			return fmt.Errorf("failed to verify hold: %w", err)
		}
		if len(rows) == 0 {
			return ErrReservationExpired
		}

		seatIDs := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			seatIDs = append(seatIDs, r.SeatID)
		}
		seats, err := s.seats.FindSeatsByIDs(ctx, seatIDs)
		if err != nil {
			return fmt.Errorf("failed to load seats: %w", err)
		}

		if err := s.seats.MarkSold(ctx, seatIDs); err != nil {
			return fmt.Errorf("failed to mark seats sold: %w", err)
		}
		if _, err := s.ledger.DeleteBySession(ctx, req.SessionID); err != nil {
			return fmt.Errorf("failed to consume hold: %w", err)
		}

		var totalAmount float64
		orderSeats := make([]OrderSeat, 0, len(seats))
		for _, seat := range seats {
			totalAmount += seat.Price
			orderSeats = append(orderSeats, OrderSeat{
				ID:        uuid.New(),
				SeatID:    seat.ID,
				SeatLabel: seat.Label(),
				SeatPrice: seat.Price,
				CreatedAt: now,
			})
		}

		order = &Order{
			ID:          uuid.New(),
			OrderRef:    orderRef,
			EventID:     rows[0].EventID,
			SessionID:   req.SessionID,
			BuyerName:   req.BuyerName,
			BuyerEmail:  req.BuyerEmail,
			BuyerPhone:  req.BuyerPhone,
			TotalSeats:  len(seats),
			TotalAmount: totalAmount,
			Status:      OrderStatusConfirmed,
			CreatedAt:   now,
			UpdatedAt:   now,
			Seats:       orderSeats,
			Payments: []Payment{{
				ID:            uuid.New(),
				Amount:        totalAmount,
				Status:        PaymentStatusPending,
				PaymentMethod: req.PaymentMethod,
				TransactionID: generateTransactionID(now),
				CreatedAt:     now,
				UpdatedAt:     now,
			}},
		}
		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.processPayment(ctx, order); err != nil {
		// The seats are already sold and the order exists; payment
		// settlement failures are surfaced but do not undo the sale.
		if s.logger != nil {
			s.logger.Error("payment processing failed", "order_id", order.ID.String(), "error", err)
		}
	}

	if s.logger != nil {
		s.logger.LogOrderConfirmed(ctx, order.ID.String(), order.OrderRef, order.EventID.String(), order.TotalSeats)
	}
	s.publishConfirmed(ctx, order)

	return order, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) GetOrderByRef(ctx context.Context, orderRef string) (*Order, error) {
	return s.repo.GetByRef(ctx, orderRef)
}

// processPayment settles the pending payment. Mock gateway: every payment
// succeeds immediately.
func (s *service) processPayment(ctx context.Context, order *Order) error {
	if len(order.Payments) == 0 {
		return errors.New("order has no payment record")
	}
	payment := &order.Payments[0]
	now := s.clock.Now()
	payment.Status = PaymentStatusCompleted
	payment.ProcessedAt = &now
	payment.UpdatedAt = now
	return s.repo.UpdatePayment(ctx, payment)
}

func (s *service) publishConfirmed(ctx context.Context, order *Order) {
	if s.producer == nil {
		return
	}
	seatIDs := make([]string, 0, len(order.Seats))
	for _, seat := range order.Seats {
		seatIDs = append(seatIDs, seat.SeatID.String())
	}
	event := notifications.LifecycleEvent{
		Type:      notifications.EventOrderConfirmed,
		SessionID: order.SessionID.String(),
		EventID:   order.EventID.String(),
		OrderID:   order.ID.String(),
		OrderRef:  order.OrderRef,
		SeatIDs:   seatIDs,
	}
	if err := s.producer.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish order confirmation", "order_id", order.ID.String(), "error", err)
	}
}

// generateOrderRef builds a human-readable unique order reference like
// SLY-20260301-KXQWPM.
func generateOrderRef(now time.Time) (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}
	return fmt.Sprintf("SLY-%s-%s", now.Format("20060102"), string(randomPart)), nil
}

func generateTransactionID(now time.Time) string {
	shortUUID := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("TXN_%d_%s", now.Unix(), strings.ToUpper(shortUUID))
}
