package checkout

import (
	"time"

	"github.com/google/uuid"
)

// Step numbers the checkout flow. The flow is forward-biased: moving forward
// is gated per step, moving backward never is.
type Step int

const (
	StepSeatSelection Step = 1
	StepTicketDetails Step = 2
	StepBuyerInfo     Step = 3
	StepPaymentReview Step = 4
)

func (s Step) String() string {
	switch s {
	case StepSeatSelection:
		return "SEAT_SELECTION"
	case StepTicketDetails:
		return "TICKET_DETAILS"
	case StepBuyerInfo:
		return "BUYER_INFO"
	case StepPaymentReview:
		return "PAYMENT_REVIEW"
	default:
		return "UNKNOWN"
	}
}

// SelectedSeat is one seat in the buyer's current selection, carrying the
// final price so totals can be derived without another inventory read.
type SelectedSeat struct {
	SeatID uuid.UUID `json:"seat_id"`
	Label  string    `json:"label"`
	Price  float64   `json:"price"`
}

// TicketDetails is the step-2 payload. Quantity always mirrors the seat
// count; it is derived, never edited on its own.
type TicketDetails struct {
	Quantity int    `json:"quantity"`
	Category string `json:"category,omitempty"`
}

// BuyerInfo is the step-3 payload.
type BuyerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Session is the full state of one checkout flow. It is a value object: the
// store persists it, the service mutates it, nothing in here touches I/O.
// ReservationID and ExpiresAt mirror the hold in the reservation ledger; a
// zero ReservationID means no hold is attached yet.
type Session struct {
	ID            uuid.UUID      `json:"id"`
	EventID       uuid.UUID      `json:"event_id"`
	Step          Step           `json:"step"`
	Seats         []SelectedSeat `json:"seats"`
	TicketDetails TicketDetails  `json:"ticket_details"`
	BuyerInfo     BuyerInfo      `json:"buyer_info"`
	ReservationID uuid.UUID      `json:"reservation_id"`
	ExpiresAt     time.Time      `json:"expires_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewSession starts a fresh flow at step 1.
func NewSession(eventID uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		EventID:   eventID,
		Step:      StepSeatSelection,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanProceed reports whether the current step's gate is satisfied.
func (s *Session) CanProceed() bool {
	switch s.Step {
	case StepSeatSelection:
		return len(s.Seats) > 0
	case StepTicketDetails:
		return s.TicketDetails.Quantity > 0
	case StepBuyerInfo:
		return s.BuyerInfo.FirstName != "" &&
			s.BuyerInfo.LastName != "" &&
			s.BuyerInfo.Email != "" &&
			s.BuyerInfo.Phone != ""
	case StepPaymentReview:
		return true
	default:
		return false
	}
}

// GoToNextStep advances one step when the gate holds. It reports whether the
// step changed; a blocked advance leaves the session untouched.
func (s *Session) GoToNextStep() bool {
	if s.Step >= StepPaymentReview || !s.CanProceed() {
		return false
	}
	s.Step++
	return true
}

// GoToPreviousStep moves one step back. Backward motion is never gated.
func (s *Session) GoToPreviousStep() bool {
	if s.Step <= StepSeatSelection {
		return false
	}
	s.Step--
	return true
}

// GoToStep jumps directly to a step. Only the bounds are checked; direct
// jumps skip per-step validation so a buyer can revisit any completed step.
func (s *Session) GoToStep(step Step) bool {
	if step < StepSeatSelection || step > StepPaymentReview {
		return false
	}
	s.Step = step
	return true
}

// UpdateSeats replaces the selection and re-derives the ticket quantity.
func (s *Session) UpdateSeats(seats []SelectedSeat) {
	s.Seats = seats
	s.TicketDetails.Quantity = len(seats)
}

// UpdateTicketDetails replaces the category; quantity stays derived from the
// seat selection.
func (s *Session) UpdateTicketDetails(category string) {
	s.TicketDetails.Category = category
	s.TicketDetails.Quantity = len(s.Seats)
}

// UpdateBuyerInfo replaces the buyer contact details.
func (s *Session) UpdateBuyerInfo(info BuyerInfo) {
	s.BuyerInfo = info
}

// SetReservation attaches a ledger hold to the session.
func (s *Session) SetReservation(reservationID uuid.UUID, expiresAt time.Time) {
	s.ReservationID = reservationID
	s.ExpiresAt = expiresAt
}

// ClearReservation detaches the hold, keeping the rest of the state.
func (s *Session) ClearReservation() {
	s.ReservationID = uuid.Nil
	s.ExpiresAt = time.Time{}
}

// Reset returns the session to its initial defaults at step 1. Called after
// a completed purchase, an explicit cancel, or hold expiry.
func (s *Session) Reset() {
	s.Step = StepSeatSelection
	s.Seats = nil
	s.TicketDetails = TicketDetails{}
	s.BuyerInfo = BuyerInfo{}
	s.ClearReservation()
}

// TotalAmount sums the selected seats' final prices. Recomputed on every
// read, never cached.
func (s *Session) TotalAmount() float64 {
	var total float64
	for _, seat := range s.Seats {
		total += seat.Price
	}
	return total
}

// TotalSeats counts the selected seats.
func (s *Session) TotalSeats() int {
	return len(s.Seats)
}

// HasReservation reports whether a ledger hold is attached.
func (s *Session) HasReservation() bool {
	return s.ReservationID != uuid.Nil
}

// TimeRemaining returns the whole seconds left on the hold, clamped at 0.
func (s *Session) TimeRemaining(now time.Time) int64 {
	if !s.HasReservation() {
		return 0
	}
	remaining := s.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int64(remaining / time.Second)
}
