package db

import (
	"database/sql"
	"fmt"
	"time"
)

const taskColumns = "id, user_id, title, deadline, reminder_sent, created_at"

// AddTask stores a task whose deadline is already normalized to UTC.
func (d *DB) AddTask(userID, title string, deadline time.Time) (*Task, error) {
	t := &Task{UserID: userID, Title: title, Deadline: deadline.UTC().Truncate(time.Second)}
	created := d.now()
	err := d.conn.QueryRow(
		d.rebind("INSERT INTO tasks (user_id, title, deadline, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		userID, title, formatTime(deadline), created,
	).Scan(&t.ID)
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	t.CreatedAt = parseTime(created)
	return t, nil
}

// ListUpcomingTasks returns a user's tasks with deadlines at or after from.
func (d *DB) ListUpcomingTasks(userID string, from time.Time) ([]Task, error) {
	rows, err := d.conn.Query(
		d.rebind("SELECT "+taskColumns+" FROM tasks WHERE user_id = ? AND deadline >= ? ORDER BY deadline ASC"),
		userID, formatTime(from),
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// DeleteTask removes a task owned by userID. It reports whether a row was deleted.
func (d *DB) DeleteTask(userID string, id int64) (bool, error) {
	res, err := d.conn.Exec(d.rebind("DELETE FROM tasks WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting task %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanTasks(rows *sql.Rows) ([]Task, error) {
	var out []Task
	for rows.Next() {
		var t Task
		var deadline, created string
		var sent int
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &deadline, &sent, &created); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t.Deadline = parseTime(deadline)
		t.CreatedAt = parseTime(created)
		t.ReminderSent = sent == 1
		out = append(out, t)
	}
	return out, rows.Err()
}
