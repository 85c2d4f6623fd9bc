package inventory

import (
	"github.com/gin-gonic/gin"
)

func SetupInventoryRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		events.GET("/:eventId/seats", controller.GetSeatMap) // GET /api/v1/events/:eventId/seats
	}
}
