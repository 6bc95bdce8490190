package payments

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"venueflow/internal/shared/utils/response"
	"venueflow/pkg/logger"
)

const maxWebhookBody = 1 << 20 // 1 MiB

type Controller struct {
	reconciler *Reconciler
	logger     *logger.Logger
}

func NewController(reconciler *Reconciler, log *logger.Logger) *Controller {
	return &Controller{reconciler: reconciler, logger: log}
}

// HandleWebhook reads the exact raw body (the signature covers the
// bytes, not any re-serialization) and hands it to the reconciler.
// Responses stay generic to avoid leaking verification internals.
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	rawBody, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Unable to read request body", nil, nil)
		return
	}

	signature := ctx.GetHeader(SignatureHeader)
	if signature == "" {
		c.logger.LogSignatureFailure(ctx.Request.Context(), ctx.ClientIP())
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Webhook rejected", nil, nil)
		return
	}

	err = c.reconciler.HandleWebhook(ctx.Request.Context(), rawBody, signature)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			c.logger.LogSignatureFailure(ctx.Request.Context(), ctx.ClientIP())
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Webhook rejected", nil, nil)
			return
		}
		// Unparseable body with a valid signature: let the gateway retry
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Webhook rejected", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Webhook processed", gin.H{"received": true}, nil)
}
