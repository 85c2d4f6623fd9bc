package reservations

import (
	"github.com/gin-gonic/gin"
)

// SetupReservationRoutes configures all reservation-related routes
func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	reservations := rg.Group("/reservations")
	{
		reservations.POST("", controller.CreateReservation)                // POST   /api/v1/reservations
		reservations.POST("/availability", controller.CheckAvailability)  // POST   /api/v1/reservations/availability
		reservations.GET("/:sessionId", controller.GetReservation)        // GET    /api/v1/reservations/:sessionId
		reservations.DELETE("/:sessionId", controller.ReleaseReservation) // DELETE /api/v1/reservations/:sessionId
	}

	events := rg.Group("/events")
	{
		events.GET("/:eventId/reserved-seats", controller.GetReservedSeats) // GET /api/v1/events/:eventId/reserved-seats
	}
}
