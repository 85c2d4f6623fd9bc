package reservations

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"seatly/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateReservation handles POST /api/v1/reservations
func (c *Controller) CreateReservation(ctx *gin.Context) {
	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid event ID", err.Error())
		return
	}
	seatIDs, err := parseSeatIDs(req.SeatIDs)
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid seat ID", err.Error())
		return
	}

	view, err := c.service.CreateReservation(ctx.Request.Context(), eventID, seatIDs)
	if err != nil {
		respondReservationError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Seats reserved successfully", NewReservationResponse(view, time.Now()))
}

// GetReservation handles GET /api/v1/reservations/:sessionId
func (c *Controller) GetReservation(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("sessionId"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid session ID", err.Error())
		return
	}

	view, err := c.service.GetSessionReservations(ctx.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrNoActiveReservation) {
			response.RespondError(ctx, http.StatusNotFound, "No active reservation for session", nil)
			return
		}
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to load reservation", err.Error())
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Reservation retrieved successfully", NewReservationResponse(view, time.Now()))
}

// ReleaseReservation handles DELETE /api/v1/reservations/:sessionId
func (c *Controller) ReleaseReservation(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("sessionId"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid session ID", err.Error())
		return
	}

	if err := c.service.ReleaseReservation(ctx.Request.Context(), sessionID); err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to release reservation", err.Error())
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Reservation released", nil)
}

// GetReservedSeats handles GET /api/v1/events/:eventId/reserved-seats
func (c *Controller) GetReservedSeats(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("eventId"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid event ID", err.Error())
		return
	}

	seatIDs, err := c.service.GetReservedSeats(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to load reserved seats", err.Error())
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Reserved seats retrieved successfully", gin.H{
		"event_id": eventID.String(),
		"seat_ids": seatIDStrings(seatIDs),
	})
}

// CheckAvailability handles POST /api/v1/reservations/availability
func (c *Controller) CheckAvailability(ctx *gin.Context) {
	var req AvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	seatIDs, err := parseSeatIDs(req.SeatIDs)
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid seat ID", err.Error())
		return
	}

	available, err := c.service.AreSeatsAvailable(ctx.Request.Context(), seatIDs)
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to check availability", err.Error())
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Availability checked", AvailabilityResponse{Available: available})
}

// respondReservationError maps reservation failures to HTTP statuses. Conflict
// responses carry the seat ids that blocked the attempt so clients can refresh
// just those seats.
func respondReservationError(ctx *gin.Context, err error) {
	var held *SeatsAlreadyHeldError
	if errors.As(err, &held) {
		response.RespondError(ctx, http.StatusConflict, "Some seats are already reserved", gin.H{
			"conflicting_seat_ids": seatIDStrings(held.SeatIDs),
		})
		return
	}
	var sold *SeatsAlreadySoldError
	if errors.As(err, &sold) {
		response.RespondError(ctx, http.StatusConflict, "Some seats are already sold", gin.H{
			"conflicting_seat_ids": seatIDStrings(sold.SeatIDs),
		})
		return
	}
	var unknown *UnknownSeatsError
	if errors.As(err, &unknown) {
		response.RespondError(ctx, http.StatusNotFound, "Some seats do not exist", gin.H{
			"unknown_seat_ids": seatIDStrings(unknown.SeatIDs),
		})
		return
	}
	if errors.Is(err, ErrNoSeats) {
		response.RespondError(ctx, http.StatusBadRequest, "At least one seat is required", nil)
		return
	}
	response.RespondError(ctx, http.StatusInternalServerError, "Failed to create reservation", err.Error())
}
