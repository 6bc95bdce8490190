package spaces

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"venueflow/internal/pricing"
	"venueflow/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateSpace(ctx *gin.Context) {
	var req CreateSpaceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, response.BindingErrors(err))
		return
	}

	ownerID := ctx.GetString("user_id")
	space, err := c.service.CreateSpace(ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create space", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Space created successfully", space, nil)
}

func (c *Controller) GetSpace(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Space ID is required", nil, "missing space ID")
		return
	}

	space, err := c.service.GetSpaceByID(ctx.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSpaceNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get space", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Space retrieved successfully", space, nil)
}

func (c *Controller) ListSpaces(ctx *gin.Context) {
	var filters SpaceFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.BindingErrors(err))
		return
	}

	result, err := c.service.ListSpaces(ctx.Request.Context(), filters)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list spaces", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Spaces retrieved successfully", result, nil)
}

func (c *Controller) UpdateSpace(ctx *gin.Context) {
	id := ctx.Param("id")
	var req UpdateSpaceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, response.BindingErrors(err))
		return
	}

	ownerID := ctx.GetString("user_id")
	space, err := c.service.UpdateSpace(ctx.Request.Context(), ownerID, id, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrSpaceNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update space", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Space updated successfully", space, nil)
}

func (c *Controller) CreatePromoCode(ctx *gin.Context) {
	id := ctx.Param("id")
	var req CreatePromoCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, response.BindingErrors(err))
		return
	}

	ownerID := ctx.GetString("user_id")
	promo, err := c.service.CreatePromoCode(ctx.Request.Context(), ownerID, id, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrSpaceNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to create promo code", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Promo code created successfully", promo, nil)
}

// Quote prices an interval without reserving anything
func (c *Controller) Quote(ctx *gin.Context) {
	id := ctx.Param("id")
	var req QuoteRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.BindingErrors(err))
		return
	}

	c.respondQuote(ctx, id, req)
}

// QuoteJSON is the POST variant of Quote for clients that send the
// interval as a JSON body
func (c *Controller) QuoteJSON(ctx *gin.Context) {
	id := ctx.Param("id")
	var req QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, response.BindingErrors(err))
		return
	}
	c.respondQuote(ctx, id, req)
}

func (c *Controller) respondQuote(ctx *gin.Context, id string, req QuoteRequest) {
	quote, err := c.service.Quote(ctx.Request.Context(), id, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrSpaceNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, ErrSpaceInactive),
			errors.Is(err, pricing.ErrValidation),
			errors.Is(err, pricing.ErrPromoInvalid):
			statusCode = http.StatusBadRequest
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to compute quote", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Quote computed successfully", quote, nil)
}

func (c *Controller) Availability(ctx *gin.Context) {
	id := ctx.Param("id")
	dateStr := ctx.Query("date")
	if dateStr == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "date query parameter is required", nil, "missing date")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, err.Error())
		return
	}

	result, err := c.service.Availability(ctx.Request.Context(), id, date)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrSpaceNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, ErrSpaceInactive):
			statusCode = http.StatusBadRequest
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to resolve availability", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability resolved successfully", result, nil)
}
