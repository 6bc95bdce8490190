package reservations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allStatuses() []Status {
	return []Status{
		StatusPendingApproval, StatusPendingPayment, StatusConfirmed,
		StatusCheckedIn, StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow,
	}
}

func TestCanTransition_FullMatrix(t *testing.T) {
	legal := map[Status]map[Status]bool{
		StatusPendingApproval: {StatusConfirmed: true, StatusCancelled: true, StatusRejected: true},
		StatusPendingPayment:  {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:       {StatusCheckedIn: true, StatusCancelled: true, StatusNoShow: true},
		StatusCheckedIn:       {StatusCompleted: true},
	}

	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			expected := legal[from][to]
			assert.Equal(t, expected, CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, s := range allStatuses() {
		if s.IsTerminal() {
			assert.Empty(t, NextStates(s), "terminal state %s must accept no transitions", s)
		} else {
			assert.NotEmpty(t, NextStates(s))
		}
	}
}

func TestBlockingStatuses(t *testing.T) {
	blocking := map[Status]bool{
		StatusPendingApproval: true,
		StatusPendingPayment:  true,
		StatusConfirmed:       true,
		StatusCheckedIn:       true,
	}
	for _, s := range allStatuses() {
		assert.Equal(t, blocking[s], s.IsBlocking(), "status %s", s)
	}
	assert.Len(t, BlockingStatuses(), 4)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPendingApproval, InitialStatus(true))
	assert.Equal(t, StatusPendingPayment, InitialStatus(false))
	assert.Equal(t, PaymentNotRequired, InitialPaymentStatus(true))
	assert.Equal(t, PaymentPending, InitialPaymentStatus(false))
}

func TestStatusValidity(t *testing.T) {
	for _, s := range allStatuses() {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("deleted").IsValid())
	assert.False(t, Status("").IsValid())
}
