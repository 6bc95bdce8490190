package spaces

import (
	"time"

	"github.com/google/uuid"

	"venueflow/internal/availability"
	"venueflow/internal/pricing"
)

// Space is a bookable venue owned by a brand owner. The pricing
// configuration is read-only to the booking core.
type Space struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	PricingType         pricing.PricingType `gorm:"type:varchar(20);not null;default:'hourly'" json:"pricing_type"`
	BasePrice           float64             `gorm:"not null;check:base_price >= 0" json:"base_price"`
	Currency            string              `gorm:"type:varchar(3);default:'INR'" json:"currency"`
	MonthlyPrice        *float64            `json:"monthly_price,omitempty"`
	MinimumBookingHours int                 `gorm:"default:0" json:"minimum_booking_hours"`
	PeakMultiplier      float64             `gorm:"default:1" json:"peak_multiplier"`
	OffPeakMultiplier   float64             `gorm:"default:1" json:"off_peak_multiplier"`

	PeakHours      []pricing.PeakHour        `gorm:"type:jsonb;serializer:json" json:"peak_hours"`
	TimeBlocks     []pricing.TimeBlock       `gorm:"type:jsonb;serializer:json" json:"time_blocks"`
	SpecialEvents  []pricing.SpecialEvent    `gorm:"type:jsonb;serializer:json" json:"special_events"`
	OperatingHours availability.WeekSchedule `gorm:"type:jsonb;serializer:json" json:"operating_hours"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	PromoCodes []SpacePromoCode `gorm:"foreignKey:SpaceID;constraint:OnDelete:CASCADE;" json:"promo_codes,omitempty"`
}

// SpacePromoCode lives in its own table so redemption counting can be a
// guarded UPDATE instead of a read-modify-write on the space document
type SpacePromoCode struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SpaceID            uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:uniq_space_promo_code,priority:1" json:"space_id"`
	Code               string    `gorm:"not null;size:50;uniqueIndex:uniq_space_promo_code,priority:2" json:"code"`
	DiscountPercentage float64   `gorm:"not null;check:discount_percentage >= 0" json:"discount_percentage"`
	ValidFrom          time.Time `json:"valid_from"`
	ValidUntil         time.Time `json:"valid_until"`
	MaxUses            int       `gorm:"default:0" json:"max_uses"`
	UsedCount          int       `gorm:"default:0;check:used_count >= 0" json:"used_count"`
	IsActive           bool      `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName sets the table name for Space
func (Space) TableName() string {
	return "spaces"
}

// TableName sets the table name for SpacePromoCode
func (SpacePromoCode) TableName() string {
	return "space_promo_codes"
}

// PricingConfig assembles the calculator's view of this space
func (s *Space) PricingConfig() *pricing.Config {
	promos := make([]pricing.PromoCode, 0, len(s.PromoCodes))
	for _, p := range s.PromoCodes {
		promos = append(promos, pricing.PromoCode{
			Code:               p.Code,
			DiscountPercentage: p.DiscountPercentage,
			ValidFrom:          p.ValidFrom,
			ValidUntil:         p.ValidUntil,
			MaxUses:            p.MaxUses,
			UsedCount:          p.UsedCount,
			IsActive:           p.IsActive,
		})
	}

	return &pricing.Config{
		Type:                s.PricingType,
		BasePrice:           s.BasePrice,
		Currency:            s.Currency,
		MonthlyPrice:        s.MonthlyPrice,
		PeakMultiplier:      s.PeakMultiplier,
		OffPeakMultiplier:   s.OffPeakMultiplier,
		PeakHours:           s.PeakHours,
		TimeBlocks:          s.TimeBlocks,
		PromoCodes:          promos,
		SpecialEvents:       s.SpecialEvents,
		MinimumBookingHours: s.MinimumBookingHours,
	}
}

// IsFree reports whether bookings on this space skip payment entirely
func (s *Space) IsFree() bool {
	return s.PricingType == pricing.TypeFree
}
