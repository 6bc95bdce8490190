package reservations

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datetime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func testReservation(status Status) *Reservation {
	return &Reservation{
		ID:            uuid.New(),
		BookingCode:   "BK-20260310-ABCDEF",
		SpaceID:       uuid.New(),
		UserID:        uuid.New(),
		StartTime:     datetime(2026, 3, 10, 10, 0),
		EndTime:       datetime(2026, 3, 10, 12, 0),
		Status:        status,
		PaymentStatus: PaymentPending,
	}
}

func TestMachine_IllegalTransitionLeavesEntityUnchanged(t *testing.T) {
	m := NewMachine(30 * time.Minute)
	r := testReservation(StatusCompleted)
	before := *r

	err := m.Transition(r, StatusConfirmed, datetime(2026, 3, 10, 9, 0))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, before, *r)
}

func TestMachine_UnknownTargetRejected(t *testing.T) {
	m := NewMachine(30 * time.Minute)
	r := testReservation(StatusConfirmed)

	err := m.Transition(r, Status("archived"), datetime(2026, 3, 10, 9, 0))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestMachine_CheckInWindow(t *testing.T) {
	m := NewMachine(30 * time.Minute)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"too early", datetime(2026, 3, 10, 9, 15), ErrCheckInWindow},
		{"window opens", datetime(2026, 3, 10, 9, 30), nil},
		{"on time", datetime(2026, 3, 10, 10, 0), nil},
		{"late but tolerated", datetime(2026, 3, 10, 10, 30), nil},
		{"too late", datetime(2026, 3, 10, 10, 45), ErrCheckInWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testReservation(StatusConfirmed)
			err := m.Transition(r, StatusCheckedIn, tt.now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, StatusConfirmed, r.Status)
				assert.Nil(t, r.CheckInTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusCheckedIn, r.Status)
			require.NotNil(t, r.CheckInTime)
			assert.Equal(t, tt.now, *r.CheckInTime)
			assert.Equal(t, tt.now, r.UpdatedAt)
		})
	}
}

func TestMachine_CheckOutSetsTimestamp(t *testing.T) {
	m := NewMachine(30 * time.Minute)
	r := testReservation(StatusCheckedIn)
	now := datetime(2026, 3, 10, 12, 5)

	require.NoError(t, m.Transition(r, StatusCompleted, now))
	assert.Equal(t, StatusCompleted, r.Status)
	require.NotNil(t, r.CheckOutTime)
	assert.Equal(t, now, *r.CheckOutTime)
}

func TestMachine_NoShowRequiresGracePeriod(t *testing.T) {
	m := NewMachine(30 * time.Minute)

	r := testReservation(StatusConfirmed)
	err := m.Transition(r, StatusNoShow, datetime(2026, 3, 10, 10, 15))
	assert.ErrorIs(t, err, ErrNoShowTooEarly)
	assert.Equal(t, StatusConfirmed, r.Status)

	require.NoError(t, m.Transition(r, StatusNoShow, datetime(2026, 3, 10, 10, 31)))
	assert.Equal(t, StatusNoShow, r.Status)
}

func TestMachine_NoShowIllegalFromCheckedIn(t *testing.T) {
	m := NewMachine(30 * time.Minute)
	r := testReservation(StatusCheckedIn)

	err := m.Transition(r, StatusNoShow, datetime(2026, 3, 10, 11, 0))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestMachine_ConfirmFromPendingPayment(t *testing.T) {
	m := NewMachine(30 * time.Minute)
	r := testReservation(StatusPendingPayment)

	require.NoError(t, m.Confirm(r, datetime(2026, 3, 10, 9, 0)))
	assert.Equal(t, StatusConfirmed, r.Status)
	assert.Equal(t, PaymentSuccess, r.PaymentStatus)
	assert.True(t, r.BreakdownFrozen)
}

func TestMachine_ConfirmFromPendingApprovalKeepsPaymentStatus(t *testing.T) {
	m := NewMachine(30 * time.Minute)
	r := testReservation(StatusPendingApproval)
	r.PaymentStatus = PaymentNotRequired

	require.NoError(t, m.Confirm(r, datetime(2026, 3, 10, 9, 0)))
	assert.Equal(t, StatusConfirmed, r.Status)
	assert.Equal(t, PaymentNotRequired, r.PaymentStatus)
	assert.False(t, r.BreakdownFrozen)
}

func TestGenerateBookingCode(t *testing.T) {
	now := datetime(2026, 3, 10, 9, 0)

	code, err := GenerateBookingCode(now)
	require.NoError(t, err)
	assert.Regexp(t, `^BK-20260310-[A-Z2-9]{6}$`, code)

	other, err := GenerateBookingCode(now)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}
