package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/chris/aide/internal/calendar"
	"github.com/chris/aide/internal/db"
)

func (h *handlers) registerMoney(r *Registry) {
	r.Register(&Tool{
		Domain:      "money",
		Name:        "add_expense",
		Description: "Log an expense. Use when the user says they spent money (e.g. 'Spent 50 on food', 'Bought lunch for 20').",
		Parameters: objReq(map[string]any{
			"amount":       prop("number", "Amount spent"),
			"category":     enumProp("Expense category", categoryNames()...),
			"description":  prop("string", "Optional note (e.g. 'lunch', 'groceries')"),
			"expense_date": prop("string", "Optional date in YYYY-MM-DD. Default today."),
		}, "amount", "category"),
		Handler: h.addExpense,
	})
	r.Register(&Tool{
		Domain:      "money",
		Name:        "list_expenses",
		Description: "List expenses for a period. Use when the user asks what they spent, or for expenses today, this week or this month.",
		Parameters: obj(map[string]any{
			"period": enumProp("Time period. Default week.", string(PeriodToday), string(PeriodWeek), string(PeriodMonth)),
		}),
		Handler: h.listExpenses,
	})
	r.Register(&Tool{
		Domain:      "money",
		Name:        "get_spending_summary",
		Description: "Get spending broken down by category. Use when the user asks for a summary or breakdown of spending.",
		Parameters: obj(map[string]any{
			"period": enumProp("Time period. Default week.", string(PeriodToday), string(PeriodWeek), string(PeriodMonth)),
		}),
		Handler: h.spendingSummary,
	})
	r.Register(&Tool{
		Domain:      "money",
		Name:        "get_recommendations",
		Description: "Get personalized savings and habit recommendations. Use when the user asks how to save money, what to cut, or how to improve habits.",
		Parameters:  obj(nil),
		Handler:     h.recommendations,
	})
}

func (h *handlers) addExpense(_ context.Context, userID string, args Args) (any, error) {
	amount, err := args.requireFloat("amount")
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, malformed("amount must not be negative")
	}
	rawCategory, err := args.requireString("category")
	if err != nil {
		return nil, err
	}
	category, known := ParseCategory(rawCategory)
	description, _ := args.String("description")
	if !known && description == "" {
		description = rawCategory
	}

	date, ok := args.String("expense_date")
	if ok {
		if !calendar.ValidDate(date) {
			return nil, malformed("expense_date must be YYYY-MM-DD (got %q)", date)
		}
	} else {
		date, _, err = h.zones.Today(userID)
		if err != nil {
			return nil, internal("could not determine today", err)
		}
	}

	e, err := h.store.AddExpense(userID, amount, string(category), description, date)
	if err != nil {
		return nil, internal("could not save expense", err)
	}
	return map[string]any{
		"success": true,
		"expense": e,
		"message": fmt.Sprintf("Logged %.2f for %s on %s", e.Amount, e.Category, e.ExpenseDate),
	}, nil
}

// periodExpenses loads the user's expenses for the period ending on their local today.
func (h *handlers) periodExpenses(userID string, args Args) (Period, []db.Expense, error) {
	raw, _ := args.String("period")
	period, err := ParsePeriod(raw)
	if err != nil {
		return "", nil, err
	}
	today, _, err := h.zones.Today(userID)
	if err != nil {
		return "", nil, internal("could not determine today", err)
	}
	from, to, err := period.Window(today)
	if err != nil {
		return "", nil, internal("could not compute period", err)
	}
	expenses, err := h.store.ListExpenses(userID, from, to)
	if err != nil {
		return "", nil, internal("could not list expenses", err)
	}
	return period, expenses, nil
}

func (h *handlers) listExpenses(_ context.Context, userID string, args Args) (any, error) {
	period, expenses, err := h.periodExpenses(userID, args)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	if expenses == nil {
		expenses = []db.Expense{}
	}
	return map[string]any{
		"expenses": expenses,
		"period":   period,
		"count":    len(expenses),
		"total":    round2(total),
	}, nil
}

func (h *handlers) spendingSummary(_ context.Context, userID string, args Args) (any, error) {
	period, expenses, err := h.periodExpenses(userID, args)
	if err != nil {
		return nil, err
	}
	byCategory := sumByCategory(expenses)
	var total float64
	for cat, v := range byCategory {
		byCategory[cat] = round2(v)
		total += v
	}
	return map[string]any{
		"by_category": byCategory,
		"period":      period,
		"total":       round2(total),
	}, nil
}

func sumByCategory(expenses []db.Expense) map[string]float64 {
	out := make(map[string]float64)
	for _, e := range expenses {
		c, _ := ParseCategory(e.Category)
		out[string(c)] += e.Amount
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
