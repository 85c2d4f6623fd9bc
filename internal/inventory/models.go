package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Seat statuses. SOLD is permanent and only ever written by the purchase
// finalizer; the reservation manager never mutates a seat row.
const (
	StatusAvailable = "AVAILABLE"
	StatusSold      = "SOLD"
)

// Seat defines the structure for individual seats
type Seat struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID      uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_event_seat" json:"event_id"`
	Section      string    `gorm:"not null;uniqueIndex:idx_event_seat" json:"section"`
	Row          string    `gorm:"not null;uniqueIndex:idx_event_seat" json:"row"`
	SeatNumber   string    `gorm:"not null;uniqueIndex:idx_event_seat" json:"seat_number"`
	Price        float64   `gorm:"not null" json:"price"`
	IsAccessible bool      `gorm:"default:false" json:"is_accessible"`
	Status       string    `gorm:"type:varchar(20);check:status IN ('AVAILABLE', 'SOLD');default:'AVAILABLE'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

func (s *Seat) IsSold() bool {
	return s.Status == StatusSold
}

// EffectiveStatus merges the permanent sale state with the ledger view.
// Reserved seats stay AVAILABLE in the seats table; the ledger decides
// whether they are temporarily unavailable.
func (s *Seat) EffectiveStatus(isReserved bool) string {
	if s.IsSold() {
		return StatusSold
	}
	if isReserved {
		return "RESERVED"
	}
	return StatusAvailable
}

// ToResponse converts a Seat into its API shape for the seat map
func (s *Seat) ToResponse(isReserved bool) SeatResponse {
	return SeatResponse{
		ID:           s.ID.String(),
		Section:      s.Section,
		Row:          s.Row,
		SeatNumber:   s.SeatNumber,
		Price:        s.Price,
		IsAccessible: s.IsAccessible,
		Status:       s.EffectiveStatus(isReserved),
	}
}

// SeatResponse for API responses
type SeatResponse struct {
	ID           string  `json:"id"`
	Section      string  `json:"section"`
	Row          string  `json:"row"`
	SeatNumber   string  `json:"seat_number"`
	Price        float64 `json:"price"`
	IsAccessible bool    `json:"is_accessible"`
	Status       string  `json:"status"` // AVAILABLE, RESERVED, SOLD
}

// Label renders the human-readable seat identity used in conflict messages
// ("12A" style: row then seat number).
func (s *Seat) Label() string {
	return s.Row + s.SeatNumber
}
