package reservations

import (
	"github.com/gin-gonic/gin"

	"venueflow/internal/shared/middleware"
)

func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	consumer := rg.Group("/reservations")
	consumer.Use(middleware.JWTAuth())
	{
		consumer.POST("", controller.CreateReservation)           // POST /api/v1/reservations
		consumer.GET("/:id", controller.GetReservation)           // GET /api/v1/reservations/:id
		consumer.POST("/:id/cancel", controller.CancelReservation) // POST /api/v1/reservations/:id/cancel
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuth())
	{
		users.GET("/reservations", controller.ListMyReservations) // GET /api/v1/users/reservations
	}

	owner := rg.Group("/reservations")
	owner.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleOwner, middleware.RoleAdmin))
	{
		owner.POST("/:id/approve", controller.ApproveReservation) // POST /api/v1/reservations/:id/approve
		owner.POST("/:id/reject", controller.RejectReservation)   // POST /api/v1/reservations/:id/reject
	}

	staff := rg.Group("/reservations")
	staff.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleStaff, middleware.RoleAdmin))
	{
		staff.POST("/:id/check-in", controller.CheckIn)   // POST /api/v1/reservations/:id/check-in
		staff.POST("/:id/check-out", controller.CheckOut) // POST /api/v1/reservations/:id/check-out
		staff.POST("/:id/no-show", controller.MarkNoShow) // POST /api/v1/reservations/:id/no-show
	}
}
