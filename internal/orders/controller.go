package orders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"seatly/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// ConfirmPurchase handles POST /api/v1/orders/confirm
func (c *Controller) ConfirmPurchase(ctx *gin.Context) {
	var req ConfirmPurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid session ID", err.Error())
		return
	}

	order, err := c.service.ConfirmPurchase(ctx.Request.Context(), ConfirmRequest{
		SessionID:     sessionID,
		BuyerName:     req.BuyerName,
		BuyerEmail:    req.BuyerEmail,
		BuyerPhone:    req.BuyerPhone,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, ErrReservationExpired) {
			response.RespondError(ctx, http.StatusGone, "Reservation expired, please select seats again", nil)
			return
		}
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to confirm purchase", err.Error())
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Purchase confirmed", NewOrderResponse(order))
}

// GetOrder handles GET /api/v1/orders/:orderId
func (c *Controller) GetOrder(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("orderId"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	order, err := c.service.GetOrder(ctx.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.RespondError(ctx, http.StatusNotFound, "Order not found", nil)
			return
		}
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to load order", err.Error())
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Order retrieved successfully", NewOrderResponse(order))
}

// GetOrderByRef handles GET /api/v1/orders/ref/:orderRef
func (c *Controller) GetOrderByRef(ctx *gin.Context) {
	orderRef := ctx.Param("orderRef")
	if orderRef == "" {
		response.RespondError(ctx, http.StatusBadRequest, "Order reference is required", nil)
		return
	}

	order, err := c.service.GetOrderByRef(ctx.Request.Context(), orderRef)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.RespondError(ctx, http.StatusNotFound, "Order not found", nil)
			return
		}
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to load order", err.Error())
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Order retrieved successfully", NewOrderResponse(order))
}
