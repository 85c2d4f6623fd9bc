package checkout

import (
	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes configures all checkout-related routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, controller *Controller) {
	checkout := rg.Group("/checkout")
	{
		checkout.POST("", controller.Begin)                                // POST   /api/v1/checkout
		checkout.GET("/:checkoutId", controller.Get)                       // GET    /api/v1/checkout/:checkoutId
		checkout.DELETE("/:checkoutId", controller.Cancel)                 // DELETE /api/v1/checkout/:checkoutId
		checkout.PUT("/:checkoutId/seats", controller.UpdateSeats)         // PUT    /api/v1/checkout/:checkoutId/seats
		checkout.PUT("/:checkoutId/tickets", controller.UpdateTicketDetails)
		checkout.PUT("/:checkoutId/buyer", controller.UpdateBuyerInfo)
		checkout.POST("/:checkoutId/next", controller.NextStep)
		checkout.POST("/:checkoutId/previous", controller.PreviousStep)
		checkout.POST("/:checkoutId/step", controller.GoToStep)
	}
}
