package calendar

import (
	"fmt"
	"time"
)

// Range is a UTC instant interval covering one local day. Both ends are
// inclusive: End is the last instant before the next local midnight.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// LocalDayRange localizes midnight of date in loc and converts the day's
// bounds to UTC. Offsets come from the zone database, so DST days are 23 or 25
// hours long.
func LocalDayRange(date string, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return Range{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	next := time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
	return Range{
		Start: start.UTC(),
		End:   next.Add(-time.Nanosecond).UTC(),
	}, nil
}

// AddDays shifts a calendar date string by n days.
func AddDays(date string, n int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d.AddDate(0, 0, n).Format(DateLayout), nil
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
