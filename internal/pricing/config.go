package pricing

import "time"

// PricingType determines how a space bills a booking
type PricingType string

const (
	TypeFree    PricingType = "free"
	TypeHourly  PricingType = "hourly"
	TypeDaily   PricingType = "daily"
	TypeMonthly PricingType = "monthly"
	TypePackage PricingType = "package"
)

// IsValid checks if the pricing type is a known value
func (t PricingType) IsValid() bool {
	switch t {
	case TypeFree, TypeHourly, TypeDaily, TypeMonthly, TypePackage:
		return true
	}
	return false
}

func (t PricingType) String() string {
	return string(t)
}

// PeakHour is an owner-configured day/time window with a price multiplier
type PeakHour struct {
	DayOfWeek  time.Weekday `json:"day_of_week"`
	StartTime  string       `json:"start_time"` // "18:00"
	EndTime    string       `json:"end_time"`   // "22:00"
	Multiplier float64      `json:"multiplier"`
}

// TimeBlock is a fixed-duration package, e.g. "4 hours for 1800"
type TimeBlock struct {
	Hours       int     `json:"hours"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// PromoCode is an owner-configured discount code
type PromoCode struct {
	Code               string    `json:"code"`
	DiscountPercentage float64   `json:"discount_percentage"`
	ValidFrom          time.Time `json:"valid_from"`
	ValidUntil         time.Time `json:"valid_until"`
	MaxUses            int       `json:"max_uses"`
	UsedCount          int       `json:"used_count"`
	IsActive           bool      `json:"is_active"`
}

// SpecialEvent overrides base pricing for a date range with a fixed price
type SpecialEvent struct {
	EventName   string    `json:"event_name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
}

// Config is the pricing configuration of a space. Owned by the spaces
// package, read-only to the calculator.
type Config struct {
	Type                PricingType    `json:"pricing_type"`
	BasePrice           float64        `json:"base_price"`
	Currency            string         `json:"currency"`
	MonthlyPrice        *float64       `json:"monthly_price,omitempty"`
	PeakMultiplier      float64        `json:"peak_multiplier"`
	OffPeakMultiplier   float64        `json:"off_peak_multiplier"`
	PeakHours           []PeakHour     `json:"peak_hours"`
	TimeBlocks          []TimeBlock    `json:"time_blocks"`
	PromoCodes          []PromoCode    `json:"promo_codes"`
	SpecialEvents       []SpecialEvent `json:"special_events"`
	MinimumBookingHours int            `json:"minimum_booking_hours"`
}

// MatchTimeBlock returns the configured block whose duration exactly matches
// the interval, or nil when no exact match exists
func (c *Config) MatchTimeBlock(start, end time.Time) *TimeBlock {
	duration := end.Sub(start)
	for i := range c.TimeBlocks {
		if time.Duration(c.TimeBlocks[i].Hours)*time.Hour == duration {
			return &c.TimeBlocks[i]
		}
	}
	return nil
}

// ActiveSpecialEvent returns the special event whose date range contains the
// given date, or nil
func (c *Config) ActiveSpecialEvent(date time.Time) *SpecialEvent {
	day := date.Truncate(24 * time.Hour)
	for i := range c.SpecialEvents {
		ev := &c.SpecialEvents[i]
		from := ev.StartDate.Truncate(24 * time.Hour)
		until := ev.EndDate.Truncate(24 * time.Hour)
		if !day.Before(from) && !day.After(until) {
			return ev
		}
	}
	return nil
}

// FindPromo looks up a promo code by its code, case-sensitive
func (c *Config) FindPromo(code string) *PromoCode {
	for i := range c.PromoCodes {
		if c.PromoCodes[i].Code == code {
			return &c.PromoCodes[i]
		}
	}
	return nil
}

// IsRedeemable reports whether the promo can currently be applied
func (p *PromoCode) IsRedeemable(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.ValidFrom) || now.After(p.ValidUntil) {
		return false
	}
	// MaxUses of zero means unlimited, matching the redemption counter
	return p.MaxUses == 0 || p.UsedCount < p.MaxUses
}
