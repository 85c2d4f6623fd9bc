package inventory

import (
	"net/http"

	"seatly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) GetSeatMap(ctx *gin.Context) {
	eventID := ctx.Param("eventId")
	if eventID == "" {
		response.RespondError(ctx, http.StatusBadRequest, "Event ID is required", "missing event ID")
		return
	}

	seats, err := c.service.GetSeatMap(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to get seat map", err.Error())
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Seat map retrieved successfully", seats)
}
