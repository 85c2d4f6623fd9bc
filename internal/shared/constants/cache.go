package constants

import "time"

// Redis key layout for the seatly service.
// Pattern: seatly:{module}:{operation}:{identifier}

const CachePrefix = "seatly"

// Seat map and availability keys
const (
	CacheKeySeatMap       = CachePrefix + ":seats:map:event:"      // + event-id
	CacheKeyReservedSeats = CachePrefix + ":seats:reserved:event:" // + event-id
)

// Checkout session keys
const (
	CacheKeyCheckoutSession = CachePrefix + ":checkout:session:" // + checkout-id
)

// Cache TTLs. Seat availability is real-time sensitive, so TTLs stay short;
// the reservation ledger remains the source of truth.
const (
	TTLSeatMap       = 30 * time.Second
	TTLReservedSeats = 10 * time.Second
)

func BuildSeatMapKey(eventID string) string {
	return CacheKeySeatMap + eventID
}

func BuildReservedSeatsKey(eventID string) string {
	return CacheKeyReservedSeats + eventID
}

func BuildCheckoutSessionKey(checkoutID string) string {
	return CacheKeyCheckoutSession + checkoutID
}
