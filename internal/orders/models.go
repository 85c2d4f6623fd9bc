package orders

import (
	"time"

	"github.com/google/uuid"
)

// Order is a finalized purchase. An order only ever comes into existence in
// the same transaction that consumes the reservation ledger rows backing it.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderRef    string    `gorm:"unique;not null" json:"order_ref"`
	EventID     uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	SessionID   uuid.UUID `gorm:"type:uuid;index;not null" json:"session_id"`
	BuyerName   string    `gorm:"type:varchar(200);not null" json:"buyer_name"`
	BuyerEmail  string    `gorm:"type:varchar(255);not null" json:"buyer_email"`
	BuyerPhone  string    `gorm:"type:varchar(32)" json:"buyer_phone"`
	TotalSeats  int       `gorm:"not null" json:"total_seats"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"`
	Status      string    `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Seats    []OrderSeat `json:"seats,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;"`
	Payments []Payment   `json:"payments,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT;"`
}

// OrderSeat records one sold seat within an order, with the price it was
// sold at.
type OrderSeat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	SeatID    uuid.UUID `gorm:"type:uuid;index;not null" json:"seat_id"`
	SeatLabel string    `gorm:"type:varchar(20)" json:"seat_label"`
	SeatPrice float64   `gorm:"not null" json:"seat_price"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;"`
}

// Payment tracks the payment attached to an order.
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"order_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status        string     `gorm:"type:varchar(20);check:status IN ('PENDING', 'COMPLETED', 'FAILED', 'REFUNDED');default:'PENDING'" json:"status"`
	PaymentMethod string     `gorm:"type:varchar(50)" json:"payment_method"`
	TransactionID string     `gorm:"unique" json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relationships
	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;"`
}
