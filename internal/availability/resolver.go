package availability

import (
	"sort"
	"time"

	"venueflow/internal/pricing"
)

// Interval is a half-open [Start, End) time range
type Interval struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// Overlaps reports whether two half-open intervals intersect
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Slot is a candidate bookable interval. TimeBlock is set for package
// pricing, nil for open-window slots.
type Slot struct {
	StartTime time.Time          `json:"start_time"`
	EndTime   time.Time          `json:"end_time"`
	TimeBlock *pricing.TimeBlock `json:"time_block,omitempty"`
}

// Result is the bookable surface of a space for one date
type Result struct {
	TimeBlocks     []pricing.TimeBlock `json:"time_blocks"`
	AvailableSlots []Slot              `json:"available_slots"`
}

// Resolver computes bookable slots. Stateless: every call is a fresh
// computation over the inputs; caching belongs to the caller.
type Resolver struct {
	// Step between candidate package-slot start times
	Granularity time.Duration
}

// NewResolver creates a resolver with the given slot granularity
func NewResolver(granularity time.Duration) *Resolver {
	if granularity <= 0 {
		granularity = 30 * time.Minute
	}
	return &Resolver{Granularity: granularity}
}

// Resolve produces the bookable slots for a date given the space's pricing
// configuration, its operating schedule and the reservations already
// blocking time on that date. now filters out already-started slots.
func (r *Resolver) Resolve(cfg *pricing.Config, schedule WeekSchedule, date time.Time, blocked []Interval, now time.Time) *Result {
	open, close, ok := schedule.WindowFor(date)
	if !ok {
		return &Result{TimeBlocks: cfg.TimeBlocks, AvailableSlots: []Slot{}}
	}

	sorted := make([]Interval, len(blocked))
	copy(sorted, blocked)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var slots []Slot
	if cfg.Type == pricing.TypePackage && len(cfg.TimeBlocks) > 0 {
		slots = r.packageSlots(cfg.TimeBlocks, open, close, sorted, now)
	} else {
		slots = openWindowSlots(open, close, sorted, now)
	}

	return &Result{TimeBlocks: cfg.TimeBlocks, AvailableSlots: slots}
}

// packageSlots generates one candidate per time block per eligible start
// time, stepping by the configured granularity
func (r *Resolver) packageSlots(blocks []pricing.TimeBlock, open, close time.Time, blocked []Interval, now time.Time) []Slot {
	// Ascending hours makes the same-start tie-break fall out of generation
	// order.
	ordered := make([]pricing.TimeBlock, len(blocks))
	copy(ordered, blocks)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Hours < ordered[j].Hours })

	slots := []Slot{}
	for cursor := open; cursor.Before(close); cursor = cursor.Add(r.Granularity) {
		if cursor.Before(now) {
			continue
		}
		for i := range ordered {
			block := ordered[i]
			candidate := Interval{Start: cursor, End: cursor.Add(time.Duration(block.Hours) * time.Hour)}
			if candidate.End.After(close) {
				continue
			}
			if overlapsAny(candidate, blocked) {
				continue
			}
			slots = append(slots, Slot{StartTime: candidate.Start, EndTime: candidate.End, TimeBlock: &block})
		}
	}
	return slots
}

// openWindowSlots subtracts the blocked intervals from the operating window
// and returns the remaining free ranges
func openWindowSlots(open, close time.Time, blocked []Interval, now time.Time) []Slot {
	free := []Slot{}
	cursor := open
	if cursor.Before(now) {
		cursor = now
	}

	for _, b := range blocked {
		if !b.End.After(cursor) || !b.Start.Before(close) {
			continue
		}
		if b.Start.After(cursor) {
			free = append(free, Slot{StartTime: cursor, EndTime: minTime(b.Start, close)})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(close) {
			return free
		}
	}

	if cursor.Before(close) {
		free = append(free, Slot{StartTime: cursor, EndTime: close})
	}
	return free
}

func overlapsAny(candidate Interval, blocked []Interval) bool {
	for _, b := range blocked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
