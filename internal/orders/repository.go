package orders

import (
	"context"
	"errors"

	"seatly/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when no order matches the lookup.
var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)
	GetByRef(ctx context.Context, orderRef string) (*Order, error)
	UpdatePayment(ctx context.Context, payment *Payment) error
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

func (r *repository) Create(ctx context.Context, order *Order) error {
	return database.Conn(ctx, r.db).Create(order).Error
}

func (r *repository) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	var order Order
	err := database.Conn(ctx, r.db).
		Preload("Seats").
		Preload("Payments").
		First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) GetByRef(ctx context.Context, orderRef string) (*Order, error) {
	var order Order
	err := database.Conn(ctx, r.db).
		Preload("Seats").
		Preload("Payments").
		First(&order, "order_ref = ?", orderRef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdatePayment(ctx context.Context, payment *Payment) error {
	return database.Conn(ctx, r.db).Save(payment).Error
}
