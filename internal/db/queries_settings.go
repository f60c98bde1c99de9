package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSettings returns a user's settings row, or nil if none was ever written.
func (d *DB) GetSettings(userID string) (*UserSettings, error) {
	var s UserSettings
	var lastReminder sql.NullString
	var updated string
	err := d.conn.QueryRow(
		d.rebind("SELECT user_id, timezone, last_habit_reminder_date, updated_at FROM user_settings WHERE user_id = ?"),
		userID,
	).Scan(&s.UserID, &s.Timezone, &lastReminder, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting settings for %s: %w", userID, err)
	}
	s.LastHabitReminderDate = lastReminder.String
	s.UpdatedAt = parseTime(updated)
	return &s, nil
}

// UserTimezone returns the stored zone name, or "" when the user has none.
func (d *DB) UserTimezone(userID string) (string, error) {
	s, err := d.GetSettings(userID)
	if err != nil || s == nil {
		return "", err
	}
	return s.Timezone, nil
}

// SetTimezone upserts the user's timezone. The name must already be validated.
func (d *DB) SetTimezone(userID, timezone string) error {
	_, err := d.conn.Exec(
		d.rebind(`INSERT INTO user_settings (user_id, timezone, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET timezone = excluded.timezone, updated_at = excluded.updated_at`),
		userID, timezone, d.now(),
	)
	if err != nil {
		return fmt.Errorf("setting timezone for %s: %w", userID, err)
	}
	return nil
}

// SetLastHabitReminderDate records the local date of the last habit nudge.
func (d *DB) SetLastHabitReminderDate(userID, date string) error {
	_, err := d.conn.Exec(
		d.rebind(`INSERT INTO user_settings (user_id, last_habit_reminder_date, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET last_habit_reminder_date = excluded.last_habit_reminder_date, updated_at = excluded.updated_at`),
		userID, date, d.now(),
	)
	if err != nil {
		return fmt.Errorf("recording habit reminder for %s: %w", userID, err)
	}
	return nil
}
