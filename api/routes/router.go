// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"venueflow/internal/availability"
	"venueflow/internal/payments"
	"venueflow/internal/reservations"
	"venueflow/internal/shared/config"
	"venueflow/internal/shared/database"
	"venueflow/internal/spaces"
	"venueflow/pkg/logger"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	logger   *logger.Logger
	notifier reservations.Notifier

	// Held after SetupRoutes so main can start background jobs
	reservationService reservations.Service
}

// NewRouter creates a new router instance. The notifier may be nil when
// Kafka is disabled.
func NewRouter(cfg *config.Config, db *database.DB, notifier reservations.Notifier, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		logger:   log,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Reservations depend on spaces, spaces depend on the
		// reservation repository for overlap reads, so the graph is
		// wired bottom-up in one place.
		reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
		spaceRepo := spaces.NewRepository(r.db.GetPostgreSQL())

		resolver := availability.NewResolver(r.config.Booking.SlotGranularity)
		spaceService := spaces.NewService(spaceRepo, reservationRepo, resolver, r.logger)

		paymentClient := payments.NewClient(r.config.Payment)
		reservationService := reservations.NewService(
			reservationRepo,
			spaceService,
			spaceRepo,
			paymentClient,
			r.notifier,
			r.db.GetRedis(),
			reservations.ServiceConfig{
				CheckInTolerance:  r.config.Booking.CheckInTolerance,
				SlotLockTTL:       r.config.Redis.SlotLockTTL,
				PendingPaymentTTL: r.config.Booking.PendingPaymentTTL,
				SweepInterval:     r.config.Booking.SweepInterval,
			},
			r.logger,
		)
		r.reservationService = reservationService

		reconciler := payments.NewReconciler(r.config.Payment.WebhookSecret, reservationService, r.logger)

		spaces.SetupSpaceRoutes(api, spaces.NewController(spaceService))
		reservations.SetupReservationRoutes(api, reservations.NewController(reservationService))
		payments.SetupPaymentRoutes(api, payments.NewController(reconciler, r.logger))
	}
}

// ReservationService exposes the wired service for background jobs
func (r *Router) ReservationService() reservations.Service {
	return r.reservationService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "venueflow-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "venueflow-backend",
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
