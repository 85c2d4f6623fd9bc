package reservations

import (
	"time"

	"github.com/google/uuid"
)

// LeaseDuration is how long a seat hold stays valid. It is the single source
// of truth for the lease window; the checkout countdown derives its deadline
// from the expiry returned here rather than carrying its own constant.
const LeaseDuration = 5 * time.Minute

// Reservation is one ledger row: a temporary claim on a single seat by a
// checkout session. All rows of a batch share session_id and expires_at.
// Expiry is data-driven; a row past its expires_at is dead even if no sweep
// ever deletes it.
type Reservation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_session_seat" json:"session_id"`
	EventID   uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	SeatID    uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_session_seat" json:"seat_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// IsExpired reports whether the row is dead at the given instant.
func (r *Reservation) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// ReservationView is the live state of one session's hold: the denormalized
// answer to "what does this session currently reserve".
type ReservationView struct {
	SessionID uuid.UUID   `json:"session_id"`
	EventID   uuid.UUID   `json:"event_id"`
	SeatIDs   []uuid.UUID `json:"seat_ids"`
	ExpiresAt time.Time   `json:"expires_at"`
}
