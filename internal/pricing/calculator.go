package pricing

import (
	"fmt"
	"math"
	"time"
)

// Breakdown line types. Callers rely on these to tell a package rate from an
// hourly fallback and to identify the discount line.
const (
	LineBase         = "base"
	LinePeak         = "peak"
	LineOffPeak      = "off_peak"
	LinePackage      = "package"
	LineSpecialEvent = "special_event"
	LineDiscount     = "discount"
)

// Line is one itemized entry of a price breakdown
type Line struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Quote is the result of a price computation
type Quote struct {
	TotalPrice    float64 `json:"total_price"`
	OriginalPrice float64 `json:"original_price"`
	DurationHours int     `json:"duration_hours"`
	Currency      string  `json:"currency"`
	Breakdown     []Line  `json:"breakdown"`
}

// Compute prices a booking interval against a space's pricing configuration.
// Pure and deterministic: the same inputs always yield the same quote.
// now is only consulted for promo validity windows.
func Compute(cfg *Config, start, end time.Time, promoCode string, now time.Time) (*Quote, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown pricing type %q", ErrValidation, cfg.Type)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}

	durationHours := int(math.Ceil(end.Sub(start).Hours()))

	var breakdown []Line
	if ev := cfg.ActiveSpecialEvent(start); ev != nil && cfg.Type != TypeFree {
		// Special events replace the base computation entirely; peak
		// multipliers do not stack on top.
		breakdown = []Line{{
			Type:        LineSpecialEvent,
			Description: fmt.Sprintf("%s special pricing", ev.EventName),
			Amount:      ev.Price,
		}}
	} else {
		var err error
		breakdown, err = baseBreakdown(cfg, start, end, durationHours)
		if err != nil {
			return nil, err
		}
	}

	if cfg.MinimumBookingHours > 0 && durationHours < cfg.MinimumBookingHours {
		return nil, fmt.Errorf("%w: booking is %dh, minimum is %dh",
			ErrValidation, durationHours, cfg.MinimumBookingHours)
	}

	subtotal := sumAmounts(breakdown)

	if promoCode != "" {
		promo := cfg.FindPromo(promoCode)
		if promo == nil {
			return nil, fmt.Errorf("%w: code %q not found", ErrPromoInvalid, promoCode)
		}
		if !promo.IsRedeemable(now) {
			return nil, fmt.Errorf("%w: code %q is inactive, expired or exhausted", ErrPromoInvalid, promoCode)
		}
		discount := round2(subtotal * promo.DiscountPercentage / 100)
		if discount > 0 {
			breakdown = append(breakdown, Line{
				Type:        LineDiscount,
				Description: fmt.Sprintf("Promo %s (%.0f%% off)", promo.Code, promo.DiscountPercentage),
				Amount:      -discount,
			})
		}
	}

	total := round2(sumAmounts(breakdown))
	if total < 0 {
		total = 0
	}

	return &Quote{
		TotalPrice:    total,
		OriginalPrice: round2(subtotal),
		DurationHours: durationHours,
		Currency:      cfg.Currency,
		Breakdown:     breakdown,
	}, nil
}

// baseBreakdown computes the pre-promo line items for the interval
func baseBreakdown(cfg *Config, start, end time.Time, durationHours int) ([]Line, error) {
	switch cfg.Type {
	case TypeFree:
		return []Line{{Type: LineBase, Description: "Free space", Amount: 0}}, nil

	case TypeHourly:
		return hourlyBreakdown(cfg, start, durationHours), nil

	case TypeDaily:
		days := calendarDaysSpanned(start, end)
		return []Line{{
			Type:        LineBase,
			Description: fmt.Sprintf("%d day(s) at %.2f/day", days, cfg.BasePrice),
			Amount:      cfg.BasePrice * float64(days),
		}}, nil

	case TypeMonthly:
		price := cfg.BasePrice * 30
		if cfg.MonthlyPrice != nil {
			price = *cfg.MonthlyPrice
		}
		return []Line{{
			Type:        LineBase,
			Description: "Monthly rate",
			Amount:      price,
		}}, nil

	case TypePackage:
		if block := cfg.MatchTimeBlock(start, end); block != nil {
			desc := block.Description
			if desc == "" {
				desc = fmt.Sprintf("%d hour package", block.Hours)
			}
			return []Line{{Type: LinePackage, Description: desc, Amount: block.Price}}, nil
		}
		// No exact package match: bill hourly. The line types make the
		// fallback detectable by callers.
		return hourlyBreakdown(cfg, start, durationHours), nil
	}

	return nil, fmt.Errorf("%w: unknown pricing type %q", ErrValidation, cfg.Type)
}

// hourlyBreakdown bills each started hour at its own rate, merging
// consecutive same-rate hours into one line item per segment
func hourlyBreakdown(cfg *Config, start time.Time, durationHours int) []Line {
	type segment struct {
		start time.Time
		hours int
		rate  float64
		peak  bool
	}

	var segments []segment
	for i := 0; i < durationHours; i++ {
		hourStart := start.Add(time.Duration(i) * time.Hour)
		rate, peak := hourRate(cfg, hourStart)
		if n := len(segments); n > 0 && segments[n-1].rate == rate && segments[n-1].peak == peak {
			segments[n-1].hours++
			continue
		}
		segments = append(segments, segment{start: hourStart, hours: 1, rate: rate, peak: peak})
	}

	multiRate := len(segments) > 1 || (len(segments) == 1 && segments[0].peak)

	lines := make([]Line, 0, len(segments))
	for _, seg := range segments {
		segEnd := seg.start.Add(time.Duration(seg.hours) * time.Hour)
		lineType := LineBase
		if multiRate {
			if seg.peak {
				lineType = LinePeak
			} else {
				lineType = LineOffPeak
			}
		}
		lines = append(lines, Line{
			Type: lineType,
			Description: fmt.Sprintf("%s-%s (%dh @ %.2f/h)",
				seg.start.Format("15:04"), segEnd.Format("15:04"), seg.hours, seg.rate),
			Amount: round2(seg.rate * float64(seg.hours)),
		})
	}
	return lines
}

// hourRate returns the per-hour rate for the hour starting at t
func hourRate(cfg *Config, t time.Time) (rate float64, peak bool) {
	for _, ph := range cfg.PeakHours {
		if ph.DayOfWeek != t.Weekday() {
			continue
		}
		winStart, okStart := clockOnDate(t, ph.StartTime)
		winEnd, okEnd := clockOnDate(t, ph.EndTime)
		if !okStart || !okEnd {
			continue
		}
		if !t.Before(winStart) && t.Before(winEnd) {
			mult := ph.Multiplier
			if mult <= 0 {
				mult = cfg.PeakMultiplier
			}
			if mult <= 0 {
				mult = 1
			}
			return cfg.BasePrice * mult, true
		}
	}

	mult := cfg.OffPeakMultiplier
	if mult <= 0 {
		mult = 1
	}
	return cfg.BasePrice * mult, false
}

// calendarDaysSpanned counts the distinct calendar dates an interval touches
func calendarDaysSpanned(start, end time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	lastInstant := end.Add(-time.Nanosecond)
	endDay := time.Date(lastInstant.Year(), lastInstant.Month(), lastInstant.Day(), 0, 0, 0, 0, lastInstant.Location())
	return int(endDay.Sub(startDay).Hours()/24) + 1
}

// clockOnDate parses "HH:MM" onto t's date
func clockOnDate(t time.Time, clock string) (time.Time, bool) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), parsed.Hour(), parsed.Minute(), 0, 0, t.Location()), true
}

func sumAmounts(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Amount
	}
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
