package inventory

import (
	"context"

	"seatly/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Seat lookups
	FindSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error)
	// FindSeatsByIDsForUpdate locks the seat rows for the remainder of the
	// surrounding transaction. Concurrent reservation attempts for
	// overlapping seats serialize on these locks.
	FindSeatsByIDsForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Seat, error)

	// MarkSold flips the permanent status to SOLD. Idempotent: seats that
	// are already sold are left untouched.
	MarkSold(ctx context.Context, seatIDs []uuid.UUID) error

	// Seeding/admin
	CreateSeats(ctx context.Context, seats []Seat) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := database.Conn(ctx, r.db).
		Where("id IN ?", seatIDs).
		Find(&seats).Error
	return seats, err
}

func (r *repository) FindSeatsByIDsForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", seatIDs).
		Order("id ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := database.Conn(ctx, r.db).
		Where("event_id = ?", eventID).
		Order("section ASC, row ASC, seat_number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) MarkSold(ctx context.Context, seatIDs []uuid.UUID) error {
	return database.Conn(ctx, r.db).
		Model(&Seat{}).
		Where("id IN ? AND status <> ?", seatIDs, StatusSold).
		Update("status", StatusSold).Error
}

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	return database.Conn(ctx, r.db).Create(&seats).Error
}
