package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const habitColumns = "id, user_id, name, frequency, created_at"

// AddHabit creates a habit for a user.
func (d *DB) AddHabit(userID, name, frequency string) (*Habit, error) {
	h := &Habit{UserID: userID, Name: name, Frequency: frequency}
	created := d.now()
	err := d.conn.QueryRow(
		d.rebind("INSERT INTO habits (user_id, name, frequency, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		userID, name, frequency, created,
	).Scan(&h.ID)
	if err != nil {
		return nil, fmt.Errorf("adding habit: %w", err)
	}
	h.CreatedAt = parseTime(created)
	return h, nil
}

// ListHabits returns a user's habits ordered by name.
func (d *DB) ListHabits(userID string) ([]Habit, error) {
	rows, err := d.conn.Query(
		d.rebind("SELECT "+habitColumns+" FROM habits WHERE user_id = ? ORDER BY name"),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()
	return scanHabits(rows)
}

// GetHabit returns the habit if it exists and belongs to userID, or nil.
func (d *DB) GetHabit(userID string, id int64) (*Habit, error) {
	row := d.conn.QueryRow(
		d.rebind("SELECT "+habitColumns+" FROM habits WHERE id = ? AND user_id = ?"),
		id, userID,
	)
	return scanHabit(row)
}

// FindHabitByName looks a habit up case-insensitively, or returns nil.
func (d *DB) FindHabitByName(userID, name string) (*Habit, error) {
	row := d.conn.QueryRow(
		d.rebind("SELECT "+habitColumns+" FROM habits WHERE LOWER(name) = LOWER(?) AND user_id = ? ORDER BY id LIMIT 1"),
		strings.TrimSpace(name), userID,
	)
	return scanHabit(row)
}

// AddCompletion records a completion at the given instant unless the habit
// already has one in [start, end], the owner's current local day. The check
// and the insert run in one transaction, serialized per habit on Postgres, so
// racing calls record exactly one row. localDay is stored for reference only.
func (d *DB) AddCompletion(habitID int64, at time.Time, localDay string, start, end time.Time) (bool, error) {
	ctx := context.Background()
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting completion for habit %d: %w", habitID, err)
	}
	defer tx.Rollback()

	if d.dialect == dialectPostgres {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", habitID); err != nil {
			return false, fmt.Errorf("locking habit %d: %w", habitID, err)
		}
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		d.rebind(`INSERT INTO habit_completions (habit_id, completed_at, local_day)
		 SELECT CAST(? AS BIGINT), ?, ?
		 WHERE NOT EXISTS (
		   SELECT 1 FROM habit_completions
		    WHERE habit_id = ? AND completed_at >= ? AND completed_at <= ?
		 ) RETURNING id`),
		habitID, formatTime(at), localDay,
		habitID, formatTime(start), formatTime(end),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("recording completion for habit %d: %w", habitID, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing completion for habit %d: %w", habitID, err)
	}
	return true, nil
}

// CompletionTimes returns every completion instant of a habit, newest first.
func (d *DB) CompletionTimes(habitID int64) ([]time.Time, error) {
	rows, err := d.conn.Query(
		d.rebind("SELECT completed_at FROM habit_completions WHERE habit_id = ? ORDER BY completed_at DESC"),
		habitID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying completions for habit %d: %w", habitID, err)
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		out = append(out, parseTime(s))
	}
	return out, rows.Err()
}

func scanHabit(row *sql.Row) (*Habit, error) {
	var h Habit
	var created string
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Frequency, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning habit: %w", err)
	}
	h.CreatedAt = parseTime(created)
	return &h, nil
}

func scanHabits(rows *sql.Rows) ([]Habit, error) {
	var out []Habit
	for rows.Next() {
		var h Habit
		var created string
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Frequency, &created); err != nil {
			return nil, fmt.Errorf("scanning habit: %w", err)
		}
		h.CreatedAt = parseTime(created)
		out = append(out, h)
	}
	return out, rows.Err()
}
