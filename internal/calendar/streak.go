package calendar

import (
	"sort"
	"time"
)

// CurrentStreak counts consecutive days ending at the most recent day in
// days. Duplicates are collapsed and unparsable entries ignored.
func CurrentStreak(days []string) int {
	parsed := distinctDays(days)
	if len(parsed) == 0 {
		return 0
	}
	// Most recent first.
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].After(parsed[j]) })

	streak := 1
	prev := parsed[0]
	for _, cur := range parsed[1:] {
		if !prev.AddDate(0, 0, -1).Equal(cur) {
			break
		}
		streak++
		prev = cur
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days anywhere in days.
func LongestStreak(days []string) int {
	parsed := distinctDays(days)
	if len(parsed) == 0 {
		return 0
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	longest, current := 1, 1
	for i := 1; i < len(parsed); i++ {
		if parsed[i-1].AddDate(0, 0, 1).Equal(parsed[i]) {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

// LocalDays buckets instants into distinct local calendar dates in loc.
func LocalDays(instants []time.Time, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[string]bool, len(instants))
	var out []string
	for _, t := range instants {
		d := t.In(loc).Format(DateLayout)
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func distinctDays(days []string) []time.Time {
	seen := make(map[string]bool, len(days))
	var out []time.Time
	for _, d := range days {
		if seen[d] {
			continue
		}
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			continue
		}
		seen[d] = true
		out = append(out, t)
	}
	return out
}
