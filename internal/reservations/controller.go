package reservations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"venueflow/internal/pricing"
	"venueflow/internal/shared/utils/response"
	"venueflow/internal/spaces"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateReservation(ctx *gin.Context) {
	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, response.BindingErrors(err))
		return
	}

	userID := ctx.GetString("user_id")
	result, err := c.service.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation created successfully", result, nil)
}

func (c *Controller) GetReservation(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	role := ctx.GetString("role")

	reservation, err := c.service.GetByID(ctx.Request.Context(), userID, role, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved successfully", reservation, nil)
}

func (c *Controller) ListMyReservations(ctx *gin.Context) {
	var filters ListFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.BindingErrors(err))
		return
	}

	userID := ctx.GetString("user_id")
	result, err := c.service.ListMine(ctx.Request.Context(), userID, filters)
	if err != nil {
		c.respondError(ctx, err, "Failed to list reservations")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", result, nil)
}

func (c *Controller) CancelReservation(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	reservation, err := c.service.Cancel(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to cancel reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation cancelled successfully", reservation, nil)
}

func (c *Controller) ApproveReservation(ctx *gin.Context) {
	ownerID := ctx.GetString("user_id")
	reservation, err := c.service.Approve(ctx.Request.Context(), ownerID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to approve reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation approved successfully", reservation, nil)
}

func (c *Controller) RejectReservation(ctx *gin.Context) {
	ownerID := ctx.GetString("user_id")
	reservation, err := c.service.Reject(ctx.Request.Context(), ownerID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to reject reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation rejected successfully", reservation, nil)
}

func (c *Controller) CheckIn(ctx *gin.Context) {
	reservation, err := c.service.CheckIn(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to check in")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Checked in successfully", reservation, nil)
}

func (c *Controller) CheckOut(ctx *gin.Context) {
	reservation, err := c.service.CheckOut(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to check out")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Checked out successfully", reservation, nil)
}

func (c *Controller) MarkNoShow(ctx *gin.Context) {
	reservation, err := c.service.MarkNoShow(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to mark no-show")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Marked as no-show", reservation, nil)
}

// respondError maps domain errors onto HTTP codes
func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		statusCode = http.StatusConflict
	case errors.Is(err, ErrInvalidStateTransition),
		errors.Is(err, ErrCheckInWindow),
		errors.Is(err, ErrNoShowTooEarly):
		statusCode = http.StatusUnprocessableEntity
	case errors.Is(err, ErrValidation),
		errors.Is(err, pricing.ErrValidation),
		errors.Is(err, pricing.ErrPromoInvalid):
		statusCode = http.StatusBadRequest
	case errors.Is(err, ErrReservationNotFound), errors.Is(err, spaces.ErrSpaceNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, ErrNotOwned):
		statusCode = http.StatusForbidden
	case errors.Is(err, ErrConflict):
		statusCode = http.StatusConflict
	}

	response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
}
