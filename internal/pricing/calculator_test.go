package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datetime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func hourlyConfig(basePrice float64) *Config {
	return &Config{
		Type:      TypeHourly,
		BasePrice: basePrice,
		Currency:  "INR",
	}
}

func TestCompute_HourlyBase(t *testing.T) {
	cfg := hourlyConfig(500)
	start := datetime(2026, 3, 10, 10, 0)
	end := datetime(2026, 3, 10, 12, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, quote.TotalPrice)
	assert.Equal(t, 1000.0, quote.OriginalPrice)
	assert.Equal(t, 2, quote.DurationHours)
	require.Len(t, quote.Breakdown, 1)
	assert.Equal(t, LineBase, quote.Breakdown[0].Type)
	assert.Equal(t, 1000.0, quote.Breakdown[0].Amount)
}

func TestCompute_HourlyCeilsPartialHours(t *testing.T) {
	cfg := hourlyConfig(500)
	start := datetime(2026, 3, 10, 10, 0)
	end := datetime(2026, 3, 10, 11, 30)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)

	assert.Equal(t, 2, quote.DurationHours)
	assert.Equal(t, 1000.0, quote.TotalPrice)
}

func TestCompute_PeakSplitting(t *testing.T) {
	// 2026-03-10 is a Tuesday
	cfg := &Config{
		Type:      TypeHourly,
		BasePrice: 100,
		Currency:  "INR",
		PeakHours: []PeakHour{
			{DayOfWeek: time.Tuesday, StartTime: "18:00", EndTime: "22:00", Multiplier: 2},
		},
	}
	start := datetime(2026, 3, 10, 16, 0)
	end := datetime(2026, 3, 10, 20, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)

	// 16:00-18:00 off-peak at 100/h, 18:00-20:00 peak at 200/h
	require.Len(t, quote.Breakdown, 2)
	assert.Equal(t, LineOffPeak, quote.Breakdown[0].Type)
	assert.Equal(t, 200.0, quote.Breakdown[0].Amount)
	assert.Equal(t, LinePeak, quote.Breakdown[1].Type)
	assert.Equal(t, 400.0, quote.Breakdown[1].Amount)
	assert.Equal(t, 600.0, quote.TotalPrice)
}

func TestCompute_OffPeakMultiplier(t *testing.T) {
	cfg := &Config{
		Type:              TypeHourly,
		BasePrice:         100,
		Currency:          "INR",
		OffPeakMultiplier: 0.5,
	}
	start := datetime(2026, 3, 10, 8, 0)
	end := datetime(2026, 3, 10, 10, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.TotalPrice)
}

func TestCompute_PackageExactMatch(t *testing.T) {
	cfg := &Config{
		Type:       TypePackage,
		BasePrice:  500,
		Currency:   "INR",
		TimeBlocks: []TimeBlock{{Hours: 4, Price: 1800, Description: "Half day"}},
	}
	start := datetime(2026, 3, 10, 10, 0)
	end := datetime(2026, 3, 10, 14, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)

	require.Len(t, quote.Breakdown, 1)
	assert.Equal(t, LinePackage, quote.Breakdown[0].Type)
	assert.Equal(t, 1800.0, quote.TotalPrice)
}

func TestCompute_PackageFallbackToHourly(t *testing.T) {
	cfg := &Config{
		Type:       TypePackage,
		BasePrice:  500,
		Currency:   "INR",
		TimeBlocks: []TimeBlock{{Hours: 4, Price: 1800}},
	}
	start := datetime(2026, 3, 10, 10, 0)
	end := datetime(2026, 3, 10, 13, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, quote.TotalPrice)
	for _, line := range quote.Breakdown {
		assert.NotEqual(t, LinePackage, line.Type, "fallback billing must not be tagged as a package")
	}
}

func TestCompute_DailySpansCalendarDays(t *testing.T) {
	cfg := &Config{Type: TypeDaily, BasePrice: 2000, Currency: "INR"}
	start := datetime(2026, 3, 10, 22, 0)
	end := datetime(2026, 3, 11, 2, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, quote.TotalPrice)
}

func TestCompute_MonthlyFallback(t *testing.T) {
	cfg := &Config{Type: TypeMonthly, BasePrice: 100, Currency: "INR"}
	start := datetime(2026, 3, 1, 0, 0)
	end := datetime(2026, 3, 31, 0, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, quote.TotalPrice)

	monthly := 2500.0
	cfg.MonthlyPrice = &monthly
	quote, err = Compute(cfg, start, end, "", start)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, quote.TotalPrice)
}

func TestCompute_FreeIsZero(t *testing.T) {
	cfg := &Config{Type: TypeFree, Currency: "INR"}
	start := datetime(2026, 3, 10, 10, 0)
	end := datetime(2026, 3, 10, 12, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.TotalPrice)
}

func TestCompute_SpecialEventOverride(t *testing.T) {
	cfg := &Config{
		Type:      TypeHourly,
		BasePrice: 500,
		Currency:  "INR",
		PeakHours: []PeakHour{
			{DayOfWeek: time.Tuesday, StartTime: "00:00", EndTime: "23:59", Multiplier: 3},
		},
		SpecialEvents: []SpecialEvent{{
			EventName: "Festival",
			StartDate: datetime(2026, 3, 9, 0, 0),
			EndDate:   datetime(2026, 3, 11, 0, 0),
			Price:     5000,
		}},
	}
	start := datetime(2026, 3, 10, 10, 0)
	end := datetime(2026, 3, 10, 12, 0)

	quote, err := Compute(cfg, start, end, "", start)
	require.NoError(t, err)

	// Fixed event price, peak multipliers do not stack
	require.Len(t, quote.Breakdown, 1)
	assert.Equal(t, LineSpecialEvent, quote.Breakdown[0].Type)
	assert.Equal(t, 5000.0, quote.TotalPrice)
}

func TestCompute_MinimumBookingHours(t *testing.T) {
	cfg := hourlyConfig(500)
	cfg.MinimumBookingHours = 3
	start := datetime(2026, 3, 10, 10, 0)
	end := datetime(2026, 3, 10, 12, 0)

	_, err := Compute(cfg, start, end, "", start)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompute_ZeroDurationRejected(t *testing.T) {
	cfg := hourlyConfig(500)
	start := datetime(2026, 3, 10, 10, 0)

	_, err := Compute(cfg, start, start, "", start)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Compute(cfg, start, start.Add(-time.Hour), "", start)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompute_PromoCode(t *testing.T) {
	now := datetime(2026, 3, 10, 9, 0)
	promo := PromoCode{
		Code:               "SAVE10",
		DiscountPercentage: 10,
		ValidFrom:          now.AddDate(0, -1, 0),
		ValidUntil:         now.AddDate(0, 1, 0),
		MaxUses:            100,
		UsedCount:          5,
		IsActive:           true,
	}
	cfg := hourlyConfig(500)
	cfg.PromoCodes = []PromoCode{promo}

	start := datetime(2026, 3, 10, 10, 0)
	end := datetime(2026, 3, 10, 12, 0)

	quote, err := Compute(cfg, start, end, "SAVE10", now)
	require.NoError(t, err)

	assert.Equal(t, 900.0, quote.TotalPrice)
	assert.Equal(t, 1000.0, quote.OriginalPrice)
	last := quote.Breakdown[len(quote.Breakdown)-1]
	assert.Equal(t, LineDiscount, last.Type)
	assert.Equal(t, -100.0, last.Amount)
}

func TestCompute_PromoValidity(t *testing.T) {
	now := datetime(2026, 3, 10, 9, 0)
	base := PromoCode{
		Code:               "SAVE10",
		DiscountPercentage: 10,
		ValidFrom:          now.AddDate(0, -1, 0),
		ValidUntil:         now.AddDate(0, 1, 0),
		MaxUses:            10,
		IsActive:           true,
	}

	tests := []struct {
		name   string
		mutate func(*PromoCode)
		code   string
	}{
		{"unknown code", func(p *PromoCode) {}, "NOPE"},
		{"inactive", func(p *PromoCode) { p.IsActive = false }, "SAVE10"},
		{"not yet valid", func(p *PromoCode) { p.ValidFrom = now.AddDate(0, 0, 1) }, "SAVE10"},
		{"expired", func(p *PromoCode) { p.ValidUntil = now.AddDate(0, 0, -1) }, "SAVE10"},
		{"exhausted", func(p *PromoCode) { p.UsedCount = p.MaxUses }, "SAVE10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := base
			tt.mutate(&promo)
			cfg := hourlyConfig(500)
			cfg.PromoCodes = []PromoCode{promo}

			_, err := Compute(cfg, datetime(2026, 3, 10, 10, 0), datetime(2026, 3, 10, 12, 0), tt.code, now)
			assert.ErrorIs(t, err, ErrPromoInvalid)
		})
	}
}

func TestCompute_PromoUnlimitedUses(t *testing.T) {
	// MaxUses of zero is the unlimited sentinel the owner API and the
	// redemption counter both use; the calculator must honor it too
	now := datetime(2026, 3, 10, 9, 0)
	cfg := hourlyConfig(500)
	cfg.PromoCodes = []PromoCode{{
		Code:               "FOREVER10",
		DiscountPercentage: 10,
		ValidFrom:          now.AddDate(0, -1, 0),
		ValidUntil:         now.AddDate(0, 1, 0),
		MaxUses:            0,
		UsedCount:          9999,
		IsActive:           true,
	}}

	quote, err := Compute(cfg, datetime(2026, 3, 10, 10, 0), datetime(2026, 3, 10, 12, 0), "FOREVER10", now)
	require.NoError(t, err)
	assert.Equal(t, 900.0, quote.TotalPrice)
}

func TestCompute_TotalNeverNegative(t *testing.T) {
	now := datetime(2026, 3, 10, 9, 0)
	cfg := hourlyConfig(500)
	cfg.PromoCodes = []PromoCode{{
		Code:               "ALLOFF",
		DiscountPercentage: 150,
		ValidFrom:          now.AddDate(0, -1, 0),
		ValidUntil:         now.AddDate(0, 1, 0),
		MaxUses:            10,
		IsActive:           true,
	}}

	quote, err := Compute(cfg, datetime(2026, 3, 10, 10, 0), datetime(2026, 3, 10, 12, 0), "ALLOFF", now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.TotalPrice)
}

func TestCompute_BreakdownSumsToTotal(t *testing.T) {
	now := datetime(2026, 3, 10, 9, 0)
	cfg := &Config{
		Type:      TypeHourly,
		BasePrice: 333.33,
		Currency:  "INR",
		PeakHours: []PeakHour{
			{DayOfWeek: time.Tuesday, StartTime: "11:00", EndTime: "13:00", Multiplier: 1.5},
		},
		PromoCodes: []PromoCode{{
			Code:               "SAVE7",
			DiscountPercentage: 7,
			ValidFrom:          now.AddDate(0, -1, 0),
			ValidUntil:         now.AddDate(0, 1, 0),
			MaxUses:            10,
			IsActive:           true,
		}},
	}

	quote, err := Compute(cfg, datetime(2026, 3, 10, 10, 0), datetime(2026, 3, 10, 14, 0), "SAVE7", now)
	require.NoError(t, err)

	var sum float64
	for _, line := range quote.Breakdown {
		sum += line.Amount
	}
	assert.InDelta(t, quote.TotalPrice, sum, 0.011)
	assert.GreaterOrEqual(t, quote.TotalPrice, 0.0)
}
