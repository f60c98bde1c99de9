package db

import "time"

type Task struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Deadline     time.Time `json:"deadline"`
	ReminderSent bool      `json:"reminder_sent"`
	CreatedAt    time.Time `json:"created_at"`
}

type Habit struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Frequency string    `json:"frequency"`
	CreatedAt time.Time `json:"created_at"`
}

type Expense struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	ExpenseDate string    `json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserSettings struct {
	UserID                string    `json:"user_id"`
	Timezone              string    `json:"timezone"`
	LastHabitReminderDate string    `json:"last_habit_reminder_date,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}
