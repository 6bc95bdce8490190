package reservations

type PaginatedReservations struct {
	Reservations []Reservation `json:"reservations"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"total_pages"`
}

// CreateReservationResponse carries the gateway order reference the
// client needs to complete checkout
type CreateReservationResponse struct {
	Reservation    *Reservation `json:"reservation"`
	PaymentOrderID string       `json:"payment_order_id,omitempty"`
}
