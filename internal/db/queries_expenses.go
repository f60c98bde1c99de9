package db

import (
	"fmt"
)

// AddExpense stores an expense. expenseDate is a calendar date (YYYY-MM-DD).
func (d *DB) AddExpense(userID string, amount float64, category, description, expenseDate string) (*Expense, error) {
	e := &Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: description,
		ExpenseDate: expenseDate,
	}
	created := d.now()
	err := d.conn.QueryRow(
		d.rebind(`INSERT INTO expenses (user_id, amount, category, description, expense_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		userID, amount, category, description, expenseDate, created,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("adding expense: %w", err)
	}
	e.CreatedAt = parseTime(created)
	return e, nil
}

// ListExpenses returns a user's expenses dated within [from, to], newest first.
func (d *DB) ListExpenses(userID, from, to string) ([]Expense, error) {
	rows, err := d.conn.Query(
		d.rebind(`SELECT id, user_id, amount, category, description, expense_date, created_at
		 FROM expenses
		 WHERE user_id = ? AND expense_date >= ? AND expense_date <= ?
		 ORDER BY expense_date DESC, id DESC`),
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		var created string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.ExpenseDate, &created); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
