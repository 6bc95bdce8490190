package reservations

import (
	"fmt"
	"time"
)

// Machine applies lifecycle transitions against the transition table.
// It mutates the in-memory entity only; persisting the change with the
// matching CAS guard is the repository's job.
type Machine struct {
	// CheckInTolerance bounds check-in to startTime ± tolerance and
	// delays no-show marking until startTime + tolerance
	CheckInTolerance time.Duration
}

func NewMachine(checkInTolerance time.Duration) *Machine {
	if checkInTolerance <= 0 {
		checkInTolerance = 30 * time.Minute
	}
	return &Machine{CheckInTolerance: checkInTolerance}
}

// Transition validates and applies a lifecycle move. On an illegal move
// the entity is left unchanged and ErrInvalidStateTransition is returned
// wrapped with both states.
func (m *Machine) Transition(r *Reservation, to Status, now time.Time) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown target status %q", ErrInvalidStateTransition, to)
	}
	if !CanTransition(r.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, r.Status, to)
	}

	switch to {
	case StatusCheckedIn:
		if !m.withinCheckInWindow(r.StartTime, now) {
			return ErrCheckInWindow
		}
		r.CheckInTime = &now
	case StatusCompleted:
		r.CheckOutTime = &now
	case StatusNoShow:
		if now.Before(r.StartTime.Add(m.CheckInTolerance)) {
			return ErrNoShowTooEarly
		}
	}

	r.Status = to
	r.UpdatedAt = now
	return nil
}

// Confirm moves a pending reservation to confirmed and settles the
// payment status for its path
func (m *Machine) Confirm(r *Reservation, now time.Time) error {
	from := r.Status
	if err := m.Transition(r, StatusConfirmed, now); err != nil {
		return err
	}
	if from == StatusPendingPayment {
		r.PaymentStatus = PaymentSuccess
		r.BreakdownFrozen = true
	}
	return nil
}

func (m *Machine) withinCheckInWindow(startTime, now time.Time) bool {
	earliest := startTime.Add(-m.CheckInTolerance)
	latest := startTime.Add(m.CheckInTolerance)
	return !now.Before(earliest) && !now.After(latest)
}
