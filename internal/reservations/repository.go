package reservations

import (
	"context"
	"time"

	"seatly/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides row-level access to the reservation ledger. No business
// logic lives here; the service layer owns conflict detection and lease
// semantics. Every query that answers "is this hold live" filters on
// expires_at > now, so correctness never depends on a sweep having run.
type Repository interface {
	// InTransaction runs fn inside one database transaction; repository
	// calls made with the inner context join it.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	Insert(ctx context.Context, rows []Reservation) error
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)

	FindActiveBySeatIDs(ctx context.Context, seatIDs []uuid.UUID, now time.Time) ([]Reservation, error)
	FindActiveBySession(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]Reservation, error)
	FindActiveBySessionForUpdate(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]Reservation, error)
	FindActiveSeatIDsByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.InTransaction(ctx, r.db, fn)
}

func (r *repository) Insert(ctx context.Context, rows []Reservation) error {
	if len(rows) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Create(&rows).Error
}

func (r *repository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	result := database.Conn(ctx, r.db).
		Where("session_id = ?", sessionID).
		Delete(&Reservation{})
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := database.Conn(ctx, r.db).
		Where("expires_at <= ?", cutoff).
		Delete(&Reservation{})
	return result.RowsAffected, result.Error
}

func (r *repository) FindActiveBySeatIDs(ctx context.Context, seatIDs []uuid.UUID, now time.Time) ([]Reservation, error) {
	var rows []Reservation
	err := database.Conn(ctx, r.db).
		Where("seat_id IN ? AND expires_at > ?", seatIDs, now).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveBySession(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]Reservation, error) {
	var rows []Reservation
	err := database.Conn(ctx, r.db).
		Where("session_id = ? AND expires_at > ?", sessionID, now).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveBySessionForUpdate(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]Reservation, error) {
	var rows []Reservation
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ? AND expires_at > ?", sessionID, now).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveSeatIDsByEvent(ctx context.Context, eventID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	var seatIDs []uuid.UUID
	err := database.Conn(ctx, r.db).
		Model(&Reservation{}).
		Where("event_id = ? AND expires_at > ?", eventID, now).
		Pluck("seat_id", &seatIDs).Error
	return seatIDs, err
}
