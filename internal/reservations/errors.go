package reservations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNoSeats             = errors.New("no seats specified")
	ErrNoActiveReservation = errors.New("no active reservation")
)

// SeatsAlreadyHeldError reports that another session holds at least one of
// the requested seats. Recoverable: the buyer should refresh the seat map
// and re-select.
type SeatsAlreadyHeldError struct {
	SeatIDs []uuid.UUID
}

func (e *SeatsAlreadyHeldError) Error() string {
	return fmt.Sprintf("seats already held: %s", joinSeatIDs(e.SeatIDs))
}

// SeatsAlreadySoldError reports that at least one requested seat has been
// permanently sold. Same recovery path as SeatsAlreadyHeldError.
type SeatsAlreadySoldError struct {
	SeatIDs []uuid.UUID
}

func (e *SeatsAlreadySoldError) Error() string {
	return fmt.Sprintf("seats already sold: %s", joinSeatIDs(e.SeatIDs))
}

// UnknownSeatsError reports seat ids that do not exist for the requested
// event.
type UnknownSeatsError struct {
	SeatIDs []uuid.UUID
}

func (e *UnknownSeatsError) Error() string {
	return fmt.Sprintf("unknown seats for event: %s", joinSeatIDs(e.SeatIDs))
}

func joinSeatIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ", ")
}
