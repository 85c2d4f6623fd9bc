package checkout

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"seatly/internal/reservations"
	"seatly/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Begin handles POST /api/v1/checkout
func (c *Controller) Begin(ctx *gin.Context) {
	var req BeginCheckoutRequest
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

	session, err := c.service.Begin(ctx.Request.Context(), eventID, seatIDs)
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Checkout started", NewSessionResponse(session, time.Now()))
}

// Get handles GET /api/v1/checkout/:checkoutId
func (c *Controller) Get(ctx *gin.Context) {
	session, err := c.service.Get(ctx.Request.Context(), ctx.Param("checkoutId"))
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Checkout session retrieved", NewSessionResponse(session, time.Now()))
}

// UpdateSeats handles PUT /api/v1/checkout/:checkoutId/seats
func (c *Controller) UpdateSeats(ctx *gin.Context) {
	var req UpdateSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	seatIDs, err := parseSeatIDs(req.SeatIDs)
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid seat ID", err.Error())
		return
	}

	session, err := c.service.UpdateSeats(ctx.Request.Context(), ctx.Param("checkoutId"), seatIDs)
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Seat selection updated", NewSessionResponse(session, time.Now()))
}

// UpdateTicketDetails handles PUT /api/v1/checkout/:checkoutId/tickets
func (c *Controller) UpdateTicketDetails(ctx *gin.Context) {
	var req UpdateTicketDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	session, err := c.service.UpdateTicketDetails(ctx.Request.Context(), ctx.Param("checkoutId"), req.Category)
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Ticket details updated", NewSessionResponse(session, time.Now()))
}

// UpdateBuyerInfo handles PUT /api/v1/checkout/:checkoutId/buyer
func (c *Controller) UpdateBuyerInfo(ctx *gin.Context) {
	var req UpdateBuyerInfoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	session, err := c.service.UpdateBuyerInfo(ctx.Request.Context(), ctx.Param("checkoutId"), BuyerInfo{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Buyer info updated", NewSessionResponse(session, time.Now()))
}

// NextStep handles POST /api/v1/checkout/:checkoutId/next
func (c *Controller) NextStep(ctx *gin.Context) {
	session, err := c.service.NextStep(ctx.Request.Context(), ctx.Param("checkoutId"))
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Moved to next step", NewSessionResponse(session, time.Now()))
}

// PreviousStep handles POST /api/v1/checkout/:checkoutId/previous
func (c *Controller) PreviousStep(ctx *gin.Context) {
	session, err := c.service.PreviousStep(ctx.Request.Context(), ctx.Param("checkoutId"))
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Moved to previous step", NewSessionResponse(session, time.Now()))
}

// GoToStep handles POST /api/v1/checkout/:checkoutId/step
func (c *Controller) GoToStep(ctx *gin.Context) {
	var req GoToStepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	session, err := c.service.GoToStep(ctx.Request.Context(), ctx.Param("checkoutId"), Step(req.Step))
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Moved to step", NewSessionResponse(session, time.Now()))
}

// Cancel handles DELETE /api/v1/checkout/:checkoutId
func (c *Controller) Cancel(ctx *gin.Context) {
	if err := c.service.Cancel(ctx.Request.Context(), ctx.Param("checkoutId")); err != nil {
		respondCheckoutError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Checkout cancelled", nil)
}

func respondCheckoutError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Checkout session not found", nil)
	case errors.Is(err, ErrStepBlocked):
		response.RespondError(ctx, http.StatusUnprocessableEntity, "Current step is incomplete", nil)
	case errors.Is(err, ErrInvalidStep):
		response.RespondError(ctx, http.StatusBadRequest, "Step out of range", nil)
	default:
		respondReservationError(ctx, err)
	}
}

// respondReservationError surfaces ledger conflicts from Begin/UpdateSeats
// with the offending seat ids.
func respondReservationError(ctx *gin.Context, err error) {
	var held *reservations.SeatsAlreadyHeldError
	if errors.As(err, &held) {
		response.RespondError(ctx, http.StatusConflict, "Some seats are already reserved", gin.H{
			"conflicting_seat_ids": uuidStrings(held.SeatIDs),
		})
		return
	}
	var sold *reservations.SeatsAlreadySoldError
	if errors.As(err, &sold) {
		response.RespondError(ctx, http.StatusConflict, "Some seats are already sold", gin.H{
			"conflicting_seat_ids": uuidStrings(sold.SeatIDs),
		})
		return
	}
	var unknown *reservations.UnknownSeatsError
	if errors.As(err, &unknown) {
		response.RespondError(ctx, http.StatusNotFound, "Some seats do not exist", gin.H{
			"unknown_seat_ids": uuidStrings(unknown.SeatIDs),
		})
		return
	}
	response.RespondError(ctx, http.StatusInternalServerError, "Checkout operation failed", err.Error())
}

func parseSeatIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
