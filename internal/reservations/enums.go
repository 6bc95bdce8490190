package reservations

// Status is the reservation lifecycle state. Values are closed by
// construction; anything outside this set never enters storage.
type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusPendingPayment  Status = "pending_payment"
	StatusConfirmed       Status = "confirmed"
	StatusCheckedIn       Status = "checked_in"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusRejected        Status = "rejected"
	StatusNoShow          Status = "no_show"
)

// IsValid checks if the status is a known lifecycle state
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingApproval, StatusPendingPayment, StatusConfirmed,
		StatusCheckedIn, StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow:
		return true
	}
	return false
}

// IsBlocking reports whether a reservation in this status reserves the
// space's time against other bookings
func (s Status) IsBlocking() bool {
	switch s {
	case StatusPendingApproval, StatusPendingPayment, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// BlockingStatuses is the status set that constrains availability
func BlockingStatuses() []Status {
	return []Status{StatusPendingApproval, StatusPendingPayment, StatusConfirmed, StatusCheckedIn}
}

// PaymentStatus tracks the gateway-side outcome independently of the
// lifecycle state
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentSuccess     PaymentStatus = "success"
	PaymentFailed      PaymentStatus = "failed"
	PaymentRefunded    PaymentStatus = "refunded"
	PaymentNotRequired PaymentStatus = "not_required"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentSuccess, PaymentFailed, PaymentRefunded, PaymentNotRequired:
		return true
	}
	return false
}
