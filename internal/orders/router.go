package orders

import (
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes configures all order-related routes
func SetupOrderRoutes(rg *gin.RouterGroup, controller *Controller) {
	orders := rg.Group("/orders")
	{
		orders.POST("/confirm", controller.ConfirmPurchase)   // POST /api/v1/orders/confirm
		orders.GET("/:orderId", controller.GetOrder)          // GET  /api/v1/orders/:orderId
		orders.GET("/ref/:orderRef", controller.GetOrderByRef)
	}
}
