package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/aide/internal/calendar"
	"github.com/chris/aide/internal/db"
)

type habitView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Frequency     string `json:"frequency"`
	Streak        int    `json:"streak"`
	LastCompleted string `json:"last_completed,omitempty"`
}

func (h *handlers) registerHabits(r *Registry) {
	r.Register(&Tool{
		Domain:      "habit",
		Name:        "add_habit",
		Description: "Create a new habit to track. Use when the user wants to start or track a new habit.",
		Parameters: objReq(map[string]any{
			"name":      prop("string", "Name of the habit (e.g. 'meditation', 'running')"),
			"frequency": enumProp("How often: daily or weekly. Default daily.", string(FrequencyDaily), string(FrequencyWeekly)),
		}, "name"),
		Handler: h.addHabit,
	})
	r.Register(&Tool{
		Domain:      "habit",
		Name:        "list_habits",
		Description: "List the user's habits with their current streak. Use when they ask about their habits.",
		Parameters:  obj(nil),
		Handler:     h.listHabits,
	})
	r.Register(&Tool{
		Domain:      "habit",
		Name:        "complete_habit",
		Description: "Mark a habit as done for today. Use when the user says they did it (e.g. 'I ran today', 'did meditation').",
		Parameters: obj(map[string]any{
			"habit_id": prop("integer", "ID from list_habits. Prefer this if known."),
			"name":     prop("string", "Habit name if habit_id is not available."),
		}),
		Handler: h.completeHabit,
	})
	r.Register(&Tool{
		Domain:      "habit",
		Name:        "get_habit_streak",
		Description: "Get the current streak for a habit. Use when the user asks how long their streak is.",
		Parameters: objReq(map[string]any{
			"habit_id": prop("integer", "The habit ID from list_habits"),
		}, "habit_id"),
		Handler: h.habitStreak,
	})
}

func (h *handlers) addHabit(_ context.Context, userID string, args Args) (any, error) {
	name, err := args.requireString("name")
	if err != nil {
		return nil, err
	}
	raw, _ := args.String("frequency")
	freq, err := ParseFrequency(raw)
	if err != nil {
		return nil, err
	}
	habit, err := h.store.AddHabit(userID, name, string(freq))
	if err != nil {
		return nil, internal("could not save habit", err)
	}
	return map[string]any{
		"success": true,
		"habit":   habitView{ID: habit.ID, Name: habit.Name, Frequency: habit.Frequency},
		"message": fmt.Sprintf("Added habit: %s", habit.Name),
	}, nil
}

func (h *handlers) listHabits(_ context.Context, userID string, _ Args) (any, error) {
	zone, err := h.zone(userID)
	if err != nil {
		return nil, err
	}
	habits, err := h.store.ListHabits(userID)
	if err != nil {
		return nil, internal("could not list habits", err)
	}
	views := make([]habitView, 0, len(habits))
	for _, habit := range habits {
		st, err := h.streaks(habit.ID, zone.Location)
		if err != nil {
			return nil, err
		}
		views = append(views, habitView{
			ID:            habit.ID,
			Name:          habit.Name,
			Frequency:     habit.Frequency,
			Streak:        st.current,
			LastCompleted: st.last,
		})
	}
	return map[string]any{"habits": views, "count": len(views)}, nil
}

func (h *handlers) completeHabit(_ context.Context, userID string, args Args) (any, error) {
	habit, err := h.lookupHabit(userID, args)
	if err != nil {
		return nil, err
	}
	recorded, today, err := h.complete(userID, habit)
	if err != nil {
		return nil, err
	}
	res := map[string]any{
		"success":  true,
		"habit":    habit.Name,
		"habit_id": habit.ID,
		"date":     today,
		"recorded": recorded,
	}
	if recorded {
		res["message"] = fmt.Sprintf("Marked %s as done for today", habit.Name)
	} else {
		res["already_done"] = true
		res["message"] = fmt.Sprintf("%s was already done today", habit.Name)
	}
	return res, nil
}

func (h *handlers) habitStreak(_ context.Context, userID string, args Args) (any, error) {
	id, err := args.requireInt("habit_id")
	if err != nil {
		return nil, err
	}
	habit, err := h.store.GetHabit(userID, id)
	if err != nil {
		return nil, internal("could not load habit", err)
	}
	if habit == nil {
		return nil, notFound("habit %d not found", id)
	}
	zone, err := h.zone(userID)
	if err != nil {
		return nil, err
	}
	st, err := h.streaks(habit.ID, zone.Location)
	if err != nil {
		return nil, err
	}
	res := map[string]any{
		"habit":          habit.Name,
		"habit_id":       habit.ID,
		"streak":         st.current,
		"longest_streak": st.longest,
	}
	if st.last != "" {
		res["last_completed"] = st.last
	}
	return res, nil
}

// lookupHabit resolves a habit by a positive habit_id, falling back to name.
// A null, zero or unreadable habit_id next to a usable name is ignored.
func (h *handlers) lookupHabit(userID string, args Args) (*db.Habit, error) {
	if id, ok := args.Int("habit_id"); ok && id > 0 {
		habit, err := h.store.GetHabit(userID, id)
		if err != nil {
			return nil, internal("could not load habit", err)
		}
		if habit == nil {
			return nil, notFound("habit %d not found", id)
		}
		return habit, nil
	}
	name, ok := args.String("name")
	if !ok {
		if v, present := args["habit_id"]; present && v != nil {
			return nil, malformed("habit_id must be a positive integer")
		}
		return nil, malformed("habit_id or name is required")
	}
	habit, err := h.store.FindHabitByName(userID, name)
	if err != nil {
		return nil, internal("could not load habit", err)
	}
	if habit == nil {
		return nil, notFound("no habit named %q", name)
	}
	return habit, nil
}

// complete records today's completion for the habit's owner. It reports
// false, without error, when today already has one.
func (h *handlers) complete(userID string, habit *db.Habit) (recorded bool, today string, err error) {
	if habit.UserID != userID {
		return false, "", notFound("habit %d not found", habit.ID)
	}
	today, rng, err := h.zones.Today(userID)
	if err != nil {
		return false, "", internal("could not determine today", err)
	}
	recorded, err = h.store.AddCompletion(habit.ID, h.now().UTC(), today, rng.Start, rng.End)
	if err != nil {
		return false, "", internal("could not record completion", err)
	}
	return recorded, today, nil
}

type streakInfo struct {
	current int
	longest int
	last    string
}

func (h *handlers) streaks(habitID int64, loc *time.Location) (streakInfo, error) {
	times, err := h.store.CompletionTimes(habitID)
	if err != nil {
		return streakInfo{}, internal("could not load completions", err)
	}
	days := calendar.LocalDays(times, loc)
	st := streakInfo{
		current: calendar.CurrentStreak(days),
		longest: calendar.LongestStreak(days),
	}
	for _, d := range days {
		if d > st.last {
			st.last = d
		}
	}
	return st, nil
}
