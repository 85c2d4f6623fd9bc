package checkout

import "time"

// SessionResponse is the API view of a checkout session. Totals and the
// countdown are derived at response time, never stored.
type SessionResponse struct {
	CheckoutID    string         `json:"checkout_id"`
	EventID       string         `json:"event_id"`
	Step          int            `json:"step"`
	StepName      string         `json:"step_name"`
	CanProceed    bool           `json:"can_proceed"`
	Seats         []SelectedSeat `json:"seats"`
	TicketDetails TicketDetails  `json:"ticket_details"`
	BuyerInfo     BuyerInfo      `json:"buyer_info"`
	TotalAmount   float64        `json:"total_amount"`
	TotalSeats    int            `json:"total_seats"`
	TimeRemaining int64          `json:"time_remaining"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	ReservationID string         `json:"reservation_id,omitempty"`
}

// NewSessionResponse builds the API view of a session at the given instant.
func NewSessionResponse(session *Session, now time.Time) SessionResponse {
	resp := SessionResponse{
		CheckoutID:    session.ID.String(),
		EventID:       session.EventID.String(),
		Step:          int(session.Step),
		StepName:      session.Step.String(),
		CanProceed:    session.CanProceed(),
		Seats:         session.Seats,
		TicketDetails: session.TicketDetails,
		BuyerInfo:     session.BuyerInfo,
		TotalAmount:   session.TotalAmount(),
		TotalSeats:    session.TotalSeats(),
		TimeRemaining: session.TimeRemaining(now),
	}
	if session.HasReservation() {
		expiresAt := session.ExpiresAt
		resp.ExpiresAt = &expiresAt
		resp.ReservationID = session.ReservationID.String()
	}
	return resp
}
