package notifications

import (
	"time"

	"github.com/google/uuid"

	"venueflow/internal/reservations"
)

// ReservationEvent is the lifecycle message published after every
// committed transition, keyed by reservation ID so per-reservation
// ordering is preserved within a partition
type ReservationEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	EventType     string    `json:"event_type"` // reservation.created, reservation.confirmed, ...
	ReservationID uuid.UUID `json:"reservation_id"`
	BookingCode   string    `json:"booking_code"`
	SpaceID       uuid.UUID `json:"space_id"`
	UserID        uuid.UUID `json:"user_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   float64   `json:"total_amount"`
	Currency      string    `json:"currency"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewReservationEvent builds the message for a reservation snapshot
func NewReservationEvent(eventType string, r *reservations.Reservation) *ReservationEvent {
	return &ReservationEvent{
		EventID:       uuid.New(),
		EventType:     eventType,
		ReservationID: r.ID,
		BookingCode:   r.BookingCode,
		SpaceID:       r.SpaceID,
		UserID:        r.UserID,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		OccurredAt:    time.Now().UTC(),
	}
}
