package spaces

import (
	"time"

	"venueflow/internal/availability"
	"venueflow/internal/pricing"
)

type QuoteResponse struct {
	SpaceID       string         `json:"space_id"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time"`
	TotalPrice    float64        `json:"total_price"`
	OriginalPrice float64        `json:"original_price"`
	DurationHours int            `json:"duration_hours"`
	Currency      string         `json:"currency"`
	Breakdown     []pricing.Line `json:"breakdown"`
}

type AvailabilityResponse struct {
	SpaceID        string              `json:"space_id"`
	Date           string              `json:"date"`
	PricingType    pricing.PricingType `json:"pricing_type"`
	TimeBlocks     []pricing.TimeBlock `json:"time_blocks"`
	AvailableSlots []availability.Slot `json:"available_slots"`
}

type PaginatedSpaces struct {
	Spaces     []Space `json:"spaces"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}
