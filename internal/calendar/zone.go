// Package calendar holds the timezone and local-day arithmetic the assistant
// relies on: resolving a user's zone, mapping a local calendar day onto a UTC
// instant range, normalizing deadlines and computing habit streaks.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnsetTimezone is stored for users who never configured a zone.
const UnsetTimezone = "UTC"

// DateLayout is the calendar-date format used throughout the store and tools.
const DateLayout = "2006-01-02"

var ErrInvalidTimezone = errors.New("invalid timezone")

var aliases = map[string]string{
	"IST":  "Asia/Kolkata",
	"EST":  "America/New_York",
	"PST":  "America/Los_Angeles",
	"CST":  "America/Chicago",
	"GMT":  "Europe/London",
	"AEST": "Australia/Sydney",
}

// ResolveZone expands an alias and validates the result against the zone
// database. Unknown aliases pass through unchanged before validation.
func ResolveZone(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: timezone cannot be empty", ErrInvalidTimezone)
	}
	resolved := name
	if alias, ok := aliases[strings.ToUpper(name)]; ok {
		resolved = alias
	}
	// LoadLocation accepts "" and "Local", neither of which is a zone a user can mean.
	if strings.EqualFold(resolved, "local") {
		return "", fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	if _, err := time.LoadLocation(resolved); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	return resolved, nil
}

// Zone is a resolved timezone. Configured is false when the user never set a
// zone and UTC is only a default; callers interpreting local times should ask
// the user to confirm in that case.
type Zone struct {
	Name       string
	Location   *time.Location
	Configured bool
}

// SettingsReader returns a user's stored timezone, or "" when none is stored.
type SettingsReader interface {
	UserTimezone(userID string) (string, error)
}

// Resolver computes effective zones and local days for users.
type Resolver struct {
	settings SettingsReader
	Now      func() time.Time
}

func NewResolver(settings SettingsReader) *Resolver {
	return &Resolver{settings: settings, Now: time.Now}
}

// Effective returns the zone to use for a user. An override wins and must be
// valid; otherwise the stored setting is used, defaulting to an unconfigured UTC.
func (r *Resolver) Effective(userID, override string) (Zone, error) {
	if strings.TrimSpace(override) != "" {
		name, err := ResolveZone(override)
		if err != nil {
			return Zone{}, err
		}
		loc, _ := time.LoadLocation(name) // validated by ResolveZone
		return Zone{Name: name, Location: loc, Configured: true}, nil
	}

	stored, err := r.settings.UserTimezone(userID)
	if err != nil {
		return Zone{}, fmt.Errorf("reading timezone for %s: %w", userID, err)
	}
	if stored == "" || stored == UnsetTimezone {
		return Zone{Name: UnsetTimezone, Location: time.UTC}, nil
	}
	loc, err := time.LoadLocation(stored)
	if err != nil {
		// A stored zone that no longer loads is treated as unset rather than fatal.
		return Zone{Name: UnsetTimezone, Location: time.UTC}, nil
	}
	return Zone{Name: stored, Location: loc, Configured: true}, nil
}

// Today returns the user's current local date and its UTC range.
func (r *Resolver) Today(userID string) (string, Range, error) {
	zone, err := r.Effective(userID, "")
	if err != nil {
		return "", Range{}, err
	}
	date := r.Now().In(zone.Location).Format(DateLayout)
	rng, err := LocalDayRange(date, zone.Location)
	if err != nil {
		return "", Range{}, err
	}
	return date, rng, nil
}

// LocalDayRange returns the UTC range of a calendar date in the user's zone.
func (r *Resolver) LocalDayRange(userID, date string) (Range, error) {
	zone, err := r.Effective(userID, "")
	if err != nil {
		return Range{}, err
	}
	return LocalDayRange(date, zone.Location)
}
