package tools

import (
	"strings"

	"github.com/chris/aide/internal/calendar"
)

// Category is the closed set of expense categories.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryBills         Category = "bills"
	CategoryOther         Category = "other"
)

var categories = []Category{
	CategoryFood, CategoryTransport, CategoryEntertainment,
	CategoryShopping, CategoryBills, CategoryOther,
}

// ParseCategory normalizes case and whitespace. Values outside the set map to
// CategoryOther and report known=false.
func ParseCategory(s string) (c Category, known bool) {
	norm := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range categories {
		if c == norm {
			return c, true
		}
	}
	return CategoryOther, false
}

func categoryNames() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

// Period is a reporting window ending on the user's local today.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod defaults an empty value to PeriodWeek and rejects anything
// outside the set.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodWeek, nil
	case PeriodToday, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", malformed("period must be one of today, week, month (got %q)", s)
	}
}

// Window returns the inclusive calendar-date bounds of the period ending on today.
func (p Period) Window(today string) (from, to string, err error) {
	days := 0
	switch p {
	case PeriodWeek:
		days = 7
	case PeriodMonth:
		days = 30
	}
	from, err = calendar.AddDays(today, -days)
	return from, today, err
}

// Frequency is informational; no scheduling depends on it.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FrequencyDaily, nil
	case FrequencyDaily, FrequencyWeekly:
		return f, nil
	default:
		return "", malformed("frequency must be daily or weekly (got %q)", s)
	}
}
