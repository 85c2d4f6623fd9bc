package reservations

// CreateReservationRequest is the payload for placing a hold on seats.
type CreateReservationRequest struct {
	EventID string   `json:"event_id" binding:"required,uuid"`
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

// AvailabilityRequest asks whether a set of seats is free of live holds.
type AvailabilityRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}
