package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LocalLayout is the zone-naive wall-clock format shown to users and the model.
const LocalLayout = "2006-01-02T15:04:05"

var ErrMalformedDeadline = errors.New("malformed deadline")

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04:05-0700",
}

var naiveLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// Deadline is a normalized deadline. Degraded marks a literal that could not
// be parsed properly and was stored as a UTC wall clock without conversion.
type Deadline struct {
	UTC      time.Time
	Degraded bool
}

// LocalizeDeadline converts a deadline literal to a UTC instant. Literals with
// an explicit offset are converted directly; zone-naive literals are read as
// wall-clock time in loc.
func LocalizeDeadline(literal string, loc *time.Location) (Deadline, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(literal)
	if s == "" {
		return Deadline{}, fmt.Errorf("%w: empty", ErrMalformedDeadline)
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Deadline{UTC: t.UTC().Truncate(time.Second)}, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Deadline{UTC: t.UTC().Truncate(time.Second)}, nil
		}
	}

	// Lossy fallback: drop a trailing zone marker, keep the first 19 chars and
	// take the wall clock as UTC.
	if i := strings.Index(s, "["); i > 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "Z"), "z")
	if len(s) > len(LocalLayout) {
		s = s[:len(LocalLayout)]
	}
	s = strings.Replace(s, " ", "T", 1)
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Deadline{UTC: t.UTC(), Degraded: true}, nil
		}
	}
	return Deadline{}, fmt.Errorf("%w: %q", ErrMalformedDeadline, literal)
}

// ToLocal formats an instant as wall-clock time in loc.
func ToLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LocalLayout)
}
