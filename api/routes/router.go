// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seatly/internal/checkout"
	"seatly/internal/inventory"
	"seatly/internal/notifications"
	"seatly/internal/orders"
	"seatly/internal/reservations"
	"seatly/internal/shared/config"
	"seatly/internal/shared/database"
	"seatly/pkg/cache"
	"seatly/pkg/logger"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer
	logger   *logger.Logger

	// ReservationService is exposed so main can hang the expiry sweeper
	// off the same instance the HTTP handlers use.
	ReservationService reservations.Service
}

// NewRouter creates a new router instance. The producer may be nil when
// lifecycle notifications are disabled.
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
		logger:   log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	var cacheService cache.Service
	if r.db.Redis != nil {
		cacheService = cache.NewService(r.db.GetRedisClient())
	}

	// Repositories share the transaction helper, so the reservation
	// manager and the purchase finalizer can take seat locks and mutate
	// the ledger atomically.
	seatRepo := inventory.NewRepository(r.db.GetPostgreSQL())
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	orderRepo := orders.NewRepository(r.db.GetPostgreSQL())

	reservationOpts := []reservations.Option{}
	if r.config.Reservation.LeaseTTL > 0 {
		reservationOpts = append(reservationOpts, reservations.WithLeaseDuration(r.config.Reservation.LeaseTTL))
	}
	if cacheService != nil {
		reservationOpts = append(reservationOpts, reservations.WithCache(cacheService))
	}
	reservationService := reservations.NewService(reservationRepo, seatRepo, r.producer, r.logger, reservationOpts...)
	r.ReservationService = reservationService

	inventoryService := inventory.NewService(seatRepo, reservationService, cacheService)
	orderService := orders.NewService(orderRepo, reservationRepo, seatRepo, r.producer, r.logger)

	checkoutStore := checkout.NewRedisStore(cacheService, r.config.Redis.CheckoutSessionTTL)
	checkoutService := checkout.NewService(checkoutStore, reservationService, inventoryService, r.logger)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		inventory.SetupInventoryRoutes(api, inventory.NewController(inventoryService))
		reservations.SetupReservationRoutes(api, reservations.NewController(reservationService))
		checkout.SetupCheckoutRoutes(api, checkout.NewController(checkoutService))
		orders.SetupOrderRoutes(api, orders.NewController(orderService))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "seatly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "seatly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
