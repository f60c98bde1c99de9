package db

import (
	"fmt"
	"time"
)

// TasksDueBetween returns unreminded tasks with deadlines in [from, to].
func (d *DB) TasksDueBetween(from, to time.Time) ([]Task, error) {
	rows, err := d.conn.Query(
		d.rebind(`SELECT `+taskColumns+` FROM tasks
		 WHERE deadline >= ? AND deadline <= ? AND reminder_sent = 0
		 ORDER BY deadline ASC`),
		formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("listing due tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// MarkTaskReminderSent flags a task so it is not reminded again.
func (d *DB) MarkTaskReminderSent(id int64) error {
	_, err := d.conn.Exec(d.rebind("UPDATE tasks SET reminder_sent = 1 WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("marking task %d reminded: %w", id, err)
	}
	return nil
}

// HabitOwners returns every user that tracks at least one habit.
func (d *DB) HabitOwners() ([]string, error) {
	rows, err := d.conn.Query("SELECT DISTINCT user_id FROM habits ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("listing habit owners: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning habit owner: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// HabitsWithoutCompletionBetween returns a user's habits with no completion
// inside [start, end].
func (d *DB) HabitsWithoutCompletionBetween(userID string, start, end time.Time) ([]Habit, error) {
	rows, err := d.conn.Query(
		d.rebind(`SELECT `+habitColumns+` FROM habits h
		 WHERE h.user_id = ?
		   AND NOT EXISTS (
		     SELECT 1 FROM habit_completions c
		     WHERE c.habit_id = h.id AND c.completed_at >= ? AND c.completed_at <= ?
		   )
		 ORDER BY h.name`),
		userID, formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("listing incomplete habits: %w", err)
	}
	defer rows.Close()
	return scanHabits(rows)
}
