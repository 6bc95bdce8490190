package spaces

import (
	"venueflow/internal/availability"
	"venueflow/internal/pricing"
)

type CreateSpaceRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"max=2000"`

	PricingType         string   `json:"pricing_type" binding:"required,oneof=free hourly daily monthly package"`
	BasePrice           float64  `json:"base_price" binding:"min=0"`
	Currency            string   `json:"currency" binding:"omitempty,len=3"`
	MonthlyPrice        *float64 `json:"monthly_price" binding:"omitempty,min=0"`
	MinimumBookingHours int      `json:"minimum_booking_hours" binding:"min=0"`
	PeakMultiplier      float64  `json:"peak_multiplier" binding:"omitempty,min=0"`
	OffPeakMultiplier   float64  `json:"off_peak_multiplier" binding:"omitempty,min=0"`

	PeakHours      []pricing.PeakHour        `json:"peak_hours"`
	TimeBlocks     []pricing.TimeBlock       `json:"time_blocks"`
	SpecialEvents  []pricing.SpecialEvent    `json:"special_events"`
	OperatingHours availability.WeekSchedule `json:"operating_hours"`
}

type UpdateSpaceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`

	BasePrice           *float64 `json:"base_price" binding:"omitempty,min=0"`
	MonthlyPrice        *float64 `json:"monthly_price" binding:"omitempty,min=0"`
	MinimumBookingHours *int     `json:"minimum_booking_hours" binding:"omitempty,min=0"`
	PeakMultiplier      *float64 `json:"peak_multiplier" binding:"omitempty,min=0"`
	OffPeakMultiplier   *float64 `json:"off_peak_multiplier" binding:"omitempty,min=0"`

	PeakHours      *[]pricing.PeakHour        `json:"peak_hours"`
	TimeBlocks     *[]pricing.TimeBlock       `json:"time_blocks"`
	SpecialEvents  *[]pricing.SpecialEvent    `json:"special_events"`
	OperatingHours *availability.WeekSchedule `json:"operating_hours"`
}

type CreatePromoCodeRequest struct {
	Code               string  `json:"code" binding:"required,min=3,max=50"`
	DiscountPercentage float64 `json:"discount_percentage" binding:"required,gt=0,lte=100"`
	ValidFrom          string  `json:"valid_from" binding:"required"`
	ValidUntil         string  `json:"valid_until" binding:"required"`
	MaxUses            int     `json:"max_uses" binding:"min=0"`
}

type QuoteRequest struct {
	StartTime string `json:"start_time" binding:"required" form:"start_time"`
	EndTime   string `json:"end_time" binding:"required" form:"end_time"`
	PromoCode string `json:"promo_code" form:"promo_code"`
}

type SpaceFilters struct {
	OwnerID     string `form:"owner_id"`
	PricingType string `form:"pricing_type"`
	ActiveOnly  bool   `form:"active_only"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}
