// Package reminders finds tasks coming due and habits not yet done today and
// nudges their owners through a Notifier.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chris/aide/internal/calendar"
	"github.com/chris/aide/internal/db"
	"github.com/chris/aide/internal/logger"
)

const (
	// DefaultLookahead is how far ahead a task deadline triggers a reminder.
	DefaultLookahead = time.Hour

	maxHabitNames = 5
)

// Store is what the reminder scans read and write. *db.DB implements it.
type Store interface {
	calendar.SettingsReader
	TasksDueBetween(from, to time.Time) ([]db.Task, error)
	MarkTaskReminderSent(id int64) error
	HabitOwners() ([]string, error)
	HabitsWithoutCompletionBetween(userID string, start, end time.Time) ([]db.Habit, error)
	GetSettings(userID string) (*db.UserSettings, error)
	SetLastHabitReminderDate(userID, date string) error
}

type Service struct {
	store     Store
	notifier  Notifier
	zones     *calendar.Resolver
	Lookahead time.Duration
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{
		store:     store,
		notifier:  notifier,
		zones:     calendar.NewResolver(store),
		Lookahead: DefaultLookahead,
	}
}

// SetClock replaces the time source, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.zones.Now = now
}

// ScanTasks reminds owners of tasks due within the lookahead window. A task
// is marked reminded only after its reminder was delivered, so failed
// deliveries are retried on the next scan while the task is still due.
func (s *Service) ScanTasks(ctx context.Context) (int, error) {
	now := s.zones.Now().UTC()
	tasks, err := s.store.TasksDueBetween(now, now.Add(s.Lookahead))
	if err != nil {
		return 0, fmt.Errorf("listing due tasks: %w", err)
	}
	if len(tasks) > 0 {
		logger.Info("reminders: sending task reminders", "count", len(tasks))
	}

	sent := 0
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		zone, err := s.zones.Effective(t.UserID, "")
		if err != nil {
			logger.Warn("reminders: resolving zone", "user", t.UserID, "err", err)
			zone = calendar.Zone{Name: calendar.UnsetTimezone, Location: time.UTC}
		}
		text := TaskReminderText(t.Title, calendar.ToLocal(t.Deadline, zone.Location), zone.Name)
		if err := s.notifier.Notify(ctx, t.UserID, text); err != nil {
			logger.Warn("reminders: task delivery failed", "task", t.ID, "user", t.UserID, "err", err)
			continue
		}
		if err := s.store.MarkTaskReminderSent(t.ID); err != nil {
			logger.Error("reminders: marking task reminded", "task", t.ID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// ScanHabits nudges each user about habits with no completion in their
// current local day, at most once per local day.
func (s *Service) ScanHabits(ctx context.Context) (int, error) {
	users, err := s.store.HabitOwners()
	if err != nil {
		return 0, fmt.Errorf("listing habit owners: %w", err)
	}

	sent := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		ok, err := s.nudgeHabits(ctx, userID)
		if err != nil {
			logger.Warn("reminders: habit nudge failed", "user", userID, "err", err)
			continue
		}
		if ok {
			sent++
		}
	}
	if sent > 0 {
		logger.Info("reminders: sent habit reminders", "users", sent)
	}
	return sent, nil
}

func (s *Service) nudgeHabits(ctx context.Context, userID string) (bool, error) {
	today, rng, err := s.zones.Today(userID)
	if err != nil {
		return false, err
	}
	settings, err := s.store.GetSettings(userID)
	if err != nil {
		return false, err
	}
	if settings != nil && settings.LastHabitReminderDate == today {
		return false, nil
	}

	habits, err := s.store.HabitsWithoutCompletionBetween(userID, rng.Start, rng.End)
	if err != nil {
		return false, err
	}
	if len(habits) == 0 {
		return false, nil
	}
	names := make([]string, len(habits))
	for i, h := range habits {
		names[i] = h.Name
	}
	if err := s.notifier.Notify(ctx, userID, HabitReminderText(names)); err != nil {
		return false, err
	}
	if err := s.store.SetLastHabitReminderDate(userID, today); err != nil {
		return true, fmt.Errorf("recording reminder date: %w", err)
	}
	return true, nil
}

func TaskReminderText(title, localDeadline, zone string) string {
	return fmt.Sprintf("Reminder: %s is due at %s (%s)", title, strings.Replace(localDeadline, "T", " ", 1), zone)
}

// HabitReminderText lists up to five habit names, summarizing the rest.
func HabitReminderText(names []string) string {
	list := names
	if len(list) > maxHabitNames {
		list = list[:maxHabitNames]
	}
	joined := strings.Join(list, ", ")
	if extra := len(names) - len(list); extra > 0 {
		joined += fmt.Sprintf(" and %d more", extra)
	}
	return fmt.Sprintf("Habit check-in: Did you complete %s today?", joined)
}
