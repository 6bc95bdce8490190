package payments

import (
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes registers the webhook endpoint. Authentication is
// the HMAC signature, not JWT; the gateway is the only caller.
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	payments := rg.Group("/payments")
	{
		payments.POST("/webhook", controller.HandleWebhook) // POST /api/v1/payments/webhook
	}
}
