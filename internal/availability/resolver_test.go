package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venueflow/internal/pricing"
)

func datetime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// 2026-03-10 is a Tuesday
var testDate = datetime(2026, 3, 10, 0, 0)

func weekdaySchedule(open, close string) WeekSchedule {
	ws := WeekSchedule{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		ws[d] = DayWindow{Open: open, Close: close}
	}
	return ws
}

func TestWindowFor(t *testing.T) {
	ws := WeekSchedule{
		time.Tuesday: {Open: "09:00", Close: "18:00"},
		time.Sunday:  {Closed: true},
	}

	start, end, ok := ws.WindowFor(testDate)
	require.True(t, ok)
	assert.Equal(t, datetime(2026, 3, 10, 9, 0), start)
	assert.Equal(t, datetime(2026, 3, 10, 18, 0), end)

	_, _, ok = ws.WindowFor(datetime(2026, 3, 8, 0, 0)) // Sunday, closed
	assert.False(t, ok)

	_, _, ok = ws.WindowFor(datetime(2026, 3, 11, 0, 0)) // Wednesday, unconfigured
	assert.False(t, ok)
}

func TestResolve_OpenWindowNoReservations(t *testing.T) {
	r := NewResolver(30 * time.Minute)
	cfg := &pricing.Config{Type: pricing.TypeHourly, BasePrice: 500}

	result := r.Resolve(cfg, weekdaySchedule("09:00", "18:00"), testDate, nil, time.Time{})

	require.Len(t, result.AvailableSlots, 1)
	assert.Equal(t, datetime(2026, 3, 10, 9, 0), result.AvailableSlots[0].StartTime)
	assert.Equal(t, datetime(2026, 3, 10, 18, 0), result.AvailableSlots[0].EndTime)
}

func TestResolve_IntervalSubtraction(t *testing.T) {
	r := NewResolver(30 * time.Minute)
	cfg := &pricing.Config{Type: pricing.TypeHourly, BasePrice: 500}
	blocked := []Interval{
		{Start: datetime(2026, 3, 10, 12, 0), End: datetime(2026, 3, 10, 14, 0)},
		{Start: datetime(2026, 3, 10, 10, 0), End: datetime(2026, 3, 10, 11, 0)},
	}

	result := r.Resolve(cfg, weekdaySchedule("09:00", "18:00"), testDate, blocked, time.Time{})

	require.Len(t, result.AvailableSlots, 3)
	assert.Equal(t, datetime(2026, 3, 10, 9, 0), result.AvailableSlots[0].StartTime)
	assert.Equal(t, datetime(2026, 3, 10, 10, 0), result.AvailableSlots[0].EndTime)
	assert.Equal(t, datetime(2026, 3, 10, 11, 0), result.AvailableSlots[1].StartTime)
	assert.Equal(t, datetime(2026, 3, 10, 12, 0), result.AvailableSlots[1].EndTime)
	assert.Equal(t, datetime(2026, 3, 10, 14, 0), result.AvailableSlots[2].StartTime)
	assert.Equal(t, datetime(2026, 3, 10, 18, 0), result.AvailableSlots[2].EndTime)
}

func TestResolve_SubtractionClampsToWindow(t *testing.T) {
	r := NewResolver(30 * time.Minute)
	cfg := &pricing.Config{Type: pricing.TypeHourly, BasePrice: 500}
	blocked := []Interval{
		{Start: datetime(2026, 3, 10, 8, 0), End: datetime(2026, 3, 10, 10, 0)},
		{Start: datetime(2026, 3, 10, 17, 0), End: datetime(2026, 3, 10, 19, 0)},
	}

	result := r.Resolve(cfg, weekdaySchedule("09:00", "18:00"), testDate, blocked, time.Time{})

	require.Len(t, result.AvailableSlots, 1)
	assert.Equal(t, datetime(2026, 3, 10, 10, 0), result.AvailableSlots[0].StartTime)
	assert.Equal(t, datetime(2026, 3, 10, 17, 0), result.AvailableSlots[0].EndTime)
}

func TestResolve_PackageSlots(t *testing.T) {
	r := NewResolver(time.Hour)
	cfg := &pricing.Config{
		Type:       pricing.TypePackage,
		TimeBlocks: []pricing.TimeBlock{{Hours: 4, Price: 1800}},
	}

	result := r.Resolve(cfg, weekdaySchedule("09:00", "14:00"), testDate, nil, time.Time{})

	// 4h blocks fit starting 09:00 and 10:00 only
	require.Len(t, result.AvailableSlots, 2)
	assert.Equal(t, datetime(2026, 3, 10, 9, 0), result.AvailableSlots[0].StartTime)
	assert.Equal(t, datetime(2026, 3, 10, 13, 0), result.AvailableSlots[0].EndTime)
	assert.Equal(t, datetime(2026, 3, 10, 10, 0), result.AvailableSlots[1].StartTime)
	require.NotNil(t, result.AvailableSlots[0].TimeBlock)
	assert.Equal(t, 4, result.AvailableSlots[0].TimeBlock.Hours)
}

func TestResolve_PackageSlotsSkipBlocked(t *testing.T) {
	r := NewResolver(time.Hour)
	cfg := &pricing.Config{
		Type:       pricing.TypePackage,
		TimeBlocks: []pricing.TimeBlock{{Hours: 2, Price: 900}},
	}
	blocked := []Interval{
		{Start: datetime(2026, 3, 10, 10, 0), End: datetime(2026, 3, 10, 12, 0)},
	}

	result := r.Resolve(cfg, weekdaySchedule("09:00", "14:00"), testDate, blocked, time.Time{})

	// 09:00 overlaps 10:00-12:00; 10:00 and 11:00 are blocked; 12:00 fits
	require.Len(t, result.AvailableSlots, 1)
	assert.Equal(t, datetime(2026, 3, 10, 12, 0), result.AvailableSlots[0].StartTime)
}

func TestResolve_OrderingTieBreak(t *testing.T) {
	r := NewResolver(time.Hour)
	cfg := &pricing.Config{
		Type: pricing.TypePackage,
		TimeBlocks: []pricing.TimeBlock{
			{Hours: 4, Price: 1800},
			{Hours: 2, Price: 1000},
		},
	}

	result := r.Resolve(cfg, weekdaySchedule("09:00", "13:00"), testDate, nil, time.Time{})

	require.NotEmpty(t, result.AvailableSlots)
	// Ascending start time; shorter block first on equal starts
	prev := result.AvailableSlots[0]
	for _, slot := range result.AvailableSlots[1:] {
		if slot.StartTime.Equal(prev.StartTime) {
			assert.LessOrEqual(t, prev.TimeBlock.Hours, slot.TimeBlock.Hours)
		} else {
			assert.True(t, prev.StartTime.Before(slot.StartTime))
		}
		prev = slot
	}
	assert.Equal(t, 2, result.AvailableSlots[0].TimeBlock.Hours)
	assert.Equal(t, 4, result.AvailableSlots[1].TimeBlock.Hours)
}

func TestResolve_PastSlotsFiltered(t *testing.T) {
	r := NewResolver(time.Hour)
	cfg := &pricing.Config{
		Type:       pricing.TypePackage,
		TimeBlocks: []pricing.TimeBlock{{Hours: 2, Price: 900}},
	}
	now := datetime(2026, 3, 10, 11, 30)

	result := r.Resolve(cfg, weekdaySchedule("09:00", "14:00"), testDate, nil, now)

	require.Len(t, result.AvailableSlots, 1)
	assert.Equal(t, datetime(2026, 3, 10, 12, 0), result.AvailableSlots[0].StartTime)
}

func TestResolve_ClosedDay(t *testing.T) {
	r := NewResolver(30 * time.Minute)
	cfg := &pricing.Config{Type: pricing.TypeHourly, BasePrice: 500}
	ws := WeekSchedule{time.Tuesday: {Closed: true}}

	result := r.Resolve(cfg, ws, testDate, nil, time.Time{})
	assert.Empty(t, result.AvailableSlots)
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: datetime(2026, 3, 10, 10, 0), End: datetime(2026, 3, 10, 12, 0)}

	// Half-open: touching endpoints do not overlap
	assert.False(t, base.Overlaps(Interval{Start: datetime(2026, 3, 10, 12, 0), End: datetime(2026, 3, 10, 14, 0)}))
	assert.False(t, base.Overlaps(Interval{Start: datetime(2026, 3, 10, 8, 0), End: datetime(2026, 3, 10, 10, 0)}))
	assert.True(t, base.Overlaps(Interval{Start: datetime(2026, 3, 10, 11, 0), End: datetime(2026, 3, 10, 13, 0)}))
	assert.True(t, base.Overlaps(Interval{Start: datetime(2026, 3, 10, 9, 0), End: datetime(2026, 3, 10, 13, 0)}))
}
