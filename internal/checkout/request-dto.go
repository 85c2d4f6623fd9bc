package checkout

// BeginCheckoutRequest starts a flow with an initial seat selection.
type BeginCheckoutRequest struct {
	EventID string   `json:"event_id" binding:"required,uuid"`
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

// UpdateSeatsRequest replaces the selection mid-flow.
type UpdateSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

// UpdateTicketDetailsRequest carries the step-2 payload.
type UpdateTicketDetailsRequest struct {
	Category string `json:"category" binding:"omitempty,max=64"`
}

// UpdateBuyerInfoRequest carries the step-3 payload.
type UpdateBuyerInfoRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,max=32"`
}

// GoToStepRequest jumps directly to a step.
type GoToStepRequest struct {
	Step int `json:"step" binding:"required,min=1,max=4"`
}
