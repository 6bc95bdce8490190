package availability

import (
	"fmt"
	"time"
)

// DayWindow is the operating window of a space for one weekday
type DayWindow struct {
	Open   string `json:"open"`  // "09:00"
	Close  string `json:"close"` // "21:00"
	Closed bool   `json:"closed"`
}

// WeekSchedule maps weekdays to operating windows. Missing days are closed.
type WeekSchedule map[time.Weekday]DayWindow

// WindowFor resolves the operating window for a calendar date, or ok=false
// when the space is closed that day
func (ws WeekSchedule) WindowFor(date time.Time) (start, end time.Time, ok bool) {
	day, exists := ws[date.Weekday()]
	if !exists || day.Closed {
		return time.Time{}, time.Time{}, false
	}

	start, err := clockOnDate(date, day.Open)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = clockOnDate(date, day.Close)
	if err != nil || !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// clockOnDate parses "HH:MM" onto the given date
func clockOnDate(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}
