package db

import (
	"os"
	"testing"
	"time"
)

// Set AIDE_TEST_POSTGRES to a disposable database URL to run these.
func openPostgresTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("AIDE_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("AIDE_TEST_POSTGRES not set")
	}
	d, err := Open(dsn)
	if err != nil {
		t.Fatalf("opening postgres: %v", err)
	}
	for _, table := range []string{"habit_completions", "habits", "tasks", "expenses", "user_settings"} {
		if _, err := d.conn.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("clearing %s: %v", table, err)
		}
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestPostgresRoundTrip(t *testing.T) {
	d := openPostgresTestDB(t)

	due := time.Date(2024, 6, 2, 11, 30, 0, 0, time.UTC)
	task, err := d.AddTask("u1", "report", due)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	tasks, err := d.ListUpcomingTasks("u1", due.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListUpcomingTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("unexpected tasks %+v", tasks)
	}

	h, err := d.AddHabit("u1", "run", "daily")
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	dayStart := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	added, err := d.AddCompletion(h.ID, due, "2024-06-02", dayStart, dayEnd)
	if err != nil || !added {
		t.Fatalf("AddCompletion = %v, %v", added, err)
	}
	added, err = d.AddCompletion(h.ID, due.Add(time.Minute), "2024-06-02", dayStart, dayEnd)
	if err != nil || added {
		t.Fatalf("duplicate AddCompletion = %v, %v", added, err)
	}

	if err := d.SetTimezone("u1", "Asia/Kolkata"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	tz, _ := d.UserTimezone("u1")
	if tz != "Asia/Kolkata" {
		t.Errorf("timezone = %q", tz)
	}
}
