package reservations

// transitions is the single source of truth for legal lifecycle moves.
// Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusPendingApproval: {StatusConfirmed, StatusCancelled, StatusRejected},
	StatusPendingPayment:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:       {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:       {StatusCompleted},
}

// CanTransition reports whether from → to is a legal lifecycle move
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStates returns the legal targets from a given state
func NextStates(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// InitialStatus selects the creation state: free spaces wait for owner
// approval, paid spaces wait for payment
func InitialStatus(isFree bool) Status {
	if isFree {
		return StatusPendingApproval
	}
	return StatusPendingPayment
}

// InitialPaymentStatus pairs with InitialStatus
func InitialPaymentStatus(isFree bool) PaymentStatus {
	if isFree {
		return PaymentNotRequired
	}
	return PaymentPending
}
