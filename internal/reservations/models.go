package reservations

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"venueflow/internal/pricing"
)

// Reservation is the core mutable entity. Status and PaymentStatus are
// mutated only through the state machine's guarded transitions, never by
// direct field writes.
type Reservation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingCode string    `gorm:"uniqueIndex;not null;size:20" json:"booking_code"`

	SpaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"space_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status        Status        `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`

	TotalAmount      float64        `gorm:"not null;check:total_amount >= 0" json:"total_amount"`
	OriginalAmount   float64        `gorm:"not null" json:"original_amount"`
	Currency         string         `gorm:"type:varchar(3);not null" json:"currency"`
	PricingBreakdown []pricing.Line `gorm:"type:jsonb;serializer:json" json:"pricing_breakdown"`

	// BreakdownFrozen is set when payment succeeds; the breakdown is the
	// binding record of what was charged from that point on
	BreakdownFrozen bool   `gorm:"default:false" json:"breakdown_frozen"`
	PromoCode       string `gorm:"size:50" json:"promo_code,omitempty"`

	PaymentOrderID *string `gorm:"uniqueIndex;size:64" json:"payment_order_id,omitempty"`
	PaymentID      string  `gorm:"size:64" json:"payment_id,omitempty"`

	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

const bookingCodeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateBookingCode produces a short human-presentable reference,
// format BK-YYYYMMDD-XXXXXX
func GenerateBookingCode(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(bookingCodeLetters)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate booking code: %w", err)
		}
		suffix[i] = bookingCodeLetters[n.Int64()]
	}
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"), suffix), nil
}
