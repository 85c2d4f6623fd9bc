package inventory

import (
	"context"
	"fmt"

	"seatly/internal/shared/constants"
	"seatly/pkg/cache"
	"seatly/pkg/logger"

	"github.com/google/uuid"
)

// ReservedSeatSource reports which seats currently carry a live reservation
// (interface kept local to avoid a circular dependency on the reservations
// package).
type ReservedSeatSource interface {
	GetReservedSeats(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

type Service interface {
	// GetSeatMap returns every seat for an event with its effective status
	// (AVAILABLE / RESERVED / SOLD).
	GetSeatMap(ctx context.Context, eventID string) ([]SeatResponse, error)
	GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error)
}

type service struct {
	repo         Repository
	reserved     ReservedSeatSource
	cacheService cache.Service
}

// NewService builds the inventory service. cacheService may be nil; the seat
// map then skips the cache and always reads the store.
func NewService(repo Repository, reserved ReservedSeatSource, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		reserved:     reserved,
		cacheService: cacheService,
	}
}

func (s *service) GetSeatMap(ctx context.Context, eventID string) ([]SeatResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	if s.cacheService == nil {
		return s.buildSeatMap(ctx, eventUUID)
	}

	var response []SeatResponse
	cacheKey := constants.BuildSeatMapKey(eventID)
	err = s.cacheService.GetOrSet(ctx, cacheKey, constants.TTLSeatMap, func() (interface{}, error) {
		logger.GetDefault().Debug("cache miss for seat map", "key", cacheKey)
		return s.buildSeatMap(ctx, eventUUID)
	}, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *service) buildSeatMap(ctx context.Context, eventID uuid.UUID) ([]SeatResponse, error) {
	seats, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}

	reservedIDs, err := s.reserved.GetReservedSeats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reserved seats: %w", err)
	}
	reservedSet := make(map[uuid.UUID]bool, len(reservedIDs))
	for _, id := range reservedIDs {
		reservedSet[id] = true
	}

	response := make([]SeatResponse, 0, len(seats))
	for _, seat := range seats {
		response = append(response, seat.ToResponse(reservedSet[seat.ID]))
	}
	return response, nil
}

func (s *service) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	return s.repo.FindSeatsByIDs(ctx, seatIDs)
}
