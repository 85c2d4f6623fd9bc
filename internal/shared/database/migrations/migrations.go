// Package migrations runs the schema migrations. It lives outside package
// database so the feature repositories can depend on the tx helpers without
// pulling their own models back in through AutoMigrate.
package migrations

import (
	"seatly/internal/inventory"
	"seatly/internal/orders"
	"seatly/internal/reservations"

	"gorm.io/gorm"
)

func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&inventory.Seat{},
		&reservations.Reservation{},
		&orders.Order{},
		&orders.OrderSeat{},
		&orders.Payment{},
	)
}
