package spaces

import (
	"github.com/gin-gonic/gin"

	"venueflow/internal/shared/middleware"
)

func SetupSpaceRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public reads: browsing spaces needs no account
	public := rg.Group("/spaces")
	{
		public.GET("", controller.ListSpaces)                   // GET /api/v1/spaces
		public.GET("/:id", controller.GetSpace)                 // GET /api/v1/spaces/:id
		public.GET("/:id/quote", controller.Quote)              // GET /api/v1/spaces/:id/quote
		public.POST("/:id/quote", controller.QuoteJSON)         // POST /api/v1/spaces/:id/quote
		public.GET("/:id/availability", controller.Availability) // GET /api/v1/spaces/:id/availability
	}

	// Owner management routes
	owner := rg.Group("/spaces")
	owner.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleOwner, middleware.RoleAdmin))
	{
		owner.POST("", controller.CreateSpace)                 // POST /api/v1/spaces
		owner.PUT("/:id", controller.UpdateSpace)              // PUT /api/v1/spaces/:id
		owner.POST("/:id/promo-codes", controller.CreatePromoCode) // POST /api/v1/spaces/:id/promo-codes
	}
}
