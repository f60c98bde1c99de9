package tools

import (
	"time"

	"github.com/chris/aide/internal/calendar"
	"github.com/chris/aide/internal/db"
)

// Store is the persistence the tool handlers need. *db.DB implements it.
type Store interface {
	calendar.SettingsReader
	SetTimezone(userID, timezone string) error

	AddTask(userID, title string, deadline time.Time) (*db.Task, error)
	ListUpcomingTasks(userID string, from time.Time) ([]db.Task, error)
	DeleteTask(userID string, id int64) (bool, error)

	AddHabit(userID, name, frequency string) (*db.Habit, error)
	ListHabits(userID string) ([]db.Habit, error)
	GetHabit(userID string, id int64) (*db.Habit, error)
	FindHabitByName(userID, name string) (*db.Habit, error)
	AddCompletion(habitID int64, at time.Time, localDay string, start, end time.Time) (bool, error)
	CompletionTimes(habitID int64) ([]time.Time, error)

	AddExpense(userID string, amount float64, category, description, expenseDate string) (*db.Expense, error)
	ListExpenses(userID, from, to string) ([]db.Expense, error)
}

type handlers struct {
	store Store
	zones *calendar.Resolver
	now   func() time.Time
}

// New returns a registry holding the full assistant catalog backed by store.
// now may be nil, meaning time.Now.
func New(store Store, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	zones := calendar.NewResolver(store)
	zones.Now = now
	h := &handlers{store: store, zones: zones, now: now}

	r := NewRegistry()
	h.registerTasks(r)
	h.registerHabits(r)
	h.registerMoney(r)
	h.registerSettings(r)
	return r
}

// zone resolves the user's effective zone, surfacing setting failures as
// internal errors.
func (h *handlers) zone(userID string) (calendar.Zone, error) {
	z, err := h.zones.Effective(userID, "")
	if err != nil {
		return calendar.Zone{}, &Error{Kind: KindInternal, Msg: "could not read timezone", Err: err}
	}
	return z, nil
}

func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

const unsetZoneNote = "Timezone not set; times are in UTC. Ask the user for their timezone and call set_timezone."
