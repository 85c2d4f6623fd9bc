package reservations

import (
	"time"

	"github.com/google/uuid"
)

// ReservationResponse describes a live hold to API callers.
type ReservationResponse struct {
	SessionID  string    `json:"session_id"`
	EventID    string    `json:"event_id"`
	SeatIDs    []string  `json:"seat_ids"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
}

// AvailabilityResponse reports whether the requested seats are hold-free.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// NewReservationResponse builds the API view of a hold; the remaining TTL is
// computed against now and never reported negative.
func NewReservationResponse(view *ReservationView, now time.Time) ReservationResponse {
	ttl := view.ExpiresAt.Sub(now)
	if ttl < 0 {
		ttl = 0
	}
	seatIDs := make([]string, 0, len(view.SeatIDs))
	for _, id := range view.SeatIDs {
		seatIDs = append(seatIDs, id.String())
	}
	return ReservationResponse{
		SessionID:  view.SessionID.String(),
		EventID:    view.EventID.String(),
		SeatIDs:    seatIDs,
		ExpiresAt:  view.ExpiresAt,
		TTLSeconds: int64(ttl.Seconds()),
	}
}

func parseSeatIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
