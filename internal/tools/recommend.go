package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chris/aide/internal/calendar"
)

// spendIncreaseRatio is how much a category must grow week over week to be flagged.
const spendIncreaseRatio = 1.2

type habitSummary struct {
	Name   string `json:"name"`
	Streak int    `json:"streak"`
}

// recommendations compares the last 7 days of spending with the 7 before,
// flags habits without an active streak and links slipping habits with the
// biggest spending category.
func (h *handlers) recommendations(_ context.Context, userID string, _ Args) (any, error) {
	zone, err := h.zone(userID)
	if err != nil {
		return nil, err
	}
	today, _, err := h.zones.Today(userID)
	if err != nil {
		return nil, internal("could not determine today", err)
	}
	cutoff7, _ := calendar.AddDays(today, -7)
	cutoff14, _ := calendar.AddDays(today, -14)

	expenses, err := h.store.ListExpenses(userID, cutoff14, today)
	if err != nil {
		return nil, internal("could not list expenses", err)
	}
	recent := make(map[string]float64)
	previous := make(map[string]float64)
	for _, e := range expenses {
		c, _ := ParseCategory(e.Category)
		if e.ExpenseDate >= cutoff7 {
			recent[string(c)] += e.Amount
		} else {
			previous[string(c)] += e.Amount
		}
	}

	var recs []string
	for _, cat := range sortedKeys(recent, previous) {
		r, p := recent[cat], previous[cat]
		if p > 0 && r > p*spendIncreaseRatio {
			pct := int((r/p - 1) * 100)
			recs = append(recs, fmt.Sprintf("Spending on '%s' increased %d%% in the last 7 days (vs previous 7). Consider cutting back.", cat, pct))
		}
	}

	habits, err := h.store.ListHabits(userID)
	if err != nil {
		return nil, internal("could not list habits", err)
	}
	summaries := make([]habitSummary, 0, len(habits))
	var slipping []string
	for _, habit := range habits {
		st, err := h.streaks(habit.ID, zone.Location)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, habitSummary{Name: habit.Name, Streak: st.current})
		if st.current == 0 {
			recs = append(recs, fmt.Sprintf("Your habit '%s' has no active streak. Try completing it today to get back on track.", habit.Name))
		}
		if st.current <= 1 {
			slipping = append(slipping, habit.Name)
		}
	}

	if top := topCategory(recent); len(slipping) > 0 && top != "" {
		if len(slipping) > 2 {
			slipping = slipping[:2]
		}
		recs = append(recs, fmt.Sprintf("While %s slipped, you spent most on '%s'. Reducing that could help free up time and money for your habits.",
			strings.Join(slipping, ", "), top))
	}

	var total7 float64
	for cat, v := range recent {
		recent[cat] = round2(v)
		total7 += v
	}
	if len(recs) == 0 {
		if total7 > 0 {
			recs = append(recs, "Spending looks steady. Keep tracking to spot trends.")
		} else {
			recs = append(recs, "Add some expenses to get personalized savings recommendations.")
		}
	}

	return map[string]any{
		"recommendations": recs,
		"spending_summary": map[string]any{
			"last_7_days": recent,
			"total_7d":    round2(total7),
		},
		"habit_summary": summaries,
	}, nil
}

func sortedKeys(maps ...map[string]float64) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

// topCategory returns the category with the most spend, ties broken by name.
func topCategory(byCategory map[string]float64) string {
	var top string
	var max float64
	for _, cat := range sortedKeys(byCategory) {
		if v := byCategory[cat]; v > max {
			top, max = cat, v
		}
	}
	return top
}
