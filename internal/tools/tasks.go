package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/aide/internal/calendar"
	"github.com/chris/aide/internal/db"
)

type taskView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Deadline    string `json:"deadline"`     // local wall clock
	DeadlineUTC string `json:"deadline_utc"` // RFC 3339
}

func newTaskView(t db.Task, loc *time.Location) taskView {
	return taskView{
		ID:          t.ID,
		Title:       t.Title,
		Deadline:    calendar.ToLocal(t.Deadline, loc),
		DeadlineUTC: t.Deadline.UTC().Format(time.RFC3339),
	}
}

func (h *handlers) registerTasks(r *Registry) {
	r.Register(&Tool{
		Domain:      "task",
		Name:        "add_task",
		Description: "Add a new task with a deadline. Use when the user wants to record, add, or get a reminder for a task.",
		Parameters: objReq(map[string]any{
			"title":    prop("string", "Short description of the task"),
			"deadline": prop("string", "Deadline in ISO 8601 local time (e.g. 2025-02-13T17:00:00). Parse natural language like 'tomorrow 5pm' into ISO."),
		}, "title", "deadline"),
		Handler: h.addTask,
	})
	r.Register(&Tool{
		Domain:      "task",
		Name:        "list_tasks",
		Description: "List the user's upcoming tasks. Use when they ask what tasks they have, what's due, or what's coming up.",
		Parameters:  obj(nil),
		Handler:     h.listTasks,
	})
	r.Register(&Tool{
		Domain:      "task",
		Name:        "delete_task",
		Description: "Delete or remove a task. Use when the user wants to cancel or remove a task.",
		Parameters: objReq(map[string]any{
			"task_id": prop("integer", "The ID of the task to delete (from list_tasks)"),
		}, "task_id"),
		Handler: h.deleteTask,
	})
}

func (h *handlers) addTask(_ context.Context, userID string, args Args) (any, error) {
	title, err := args.requireString("title")
	if err != nil {
		return nil, err
	}
	literal, err := args.requireString("deadline")
	if err != nil {
		return nil, err
	}
	zone, err := h.zone(userID)
	if err != nil {
		return nil, err
	}

	deadline, err := calendar.LocalizeDeadline(literal, zone.Location)
	if err != nil {
		if errors.Is(err, calendar.ErrMalformedDeadline) {
			return nil, malformed("deadline %q is not an ISO 8601 date or time", literal)
		}
		return nil, internal("could not read deadline", err)
	}

	task, err := h.store.AddTask(userID, title, deadline.UTC)
	if err != nil {
		return nil, internal("could not save task", err)
	}
	view := newTaskView(*task, zone.Location)

	res := map[string]any{
		"success":  true,
		"task":     view,
		"timezone": zone.Name,
		"message":  fmt.Sprintf("Added task: %s (due %s)", view.Title, view.Deadline),
	}
	if deadline.Degraded {
		res["degraded"] = true
		res["warning"] = "The deadline could not be fully parsed; it was stored as written in UTC and may be off. Confirm it with the user."
	}
	if !zone.Configured {
		res["timezone_configured"] = false
		res["note"] = unsetZoneNote
	}
	return res, nil
}

func (h *handlers) listTasks(_ context.Context, userID string, _ Args) (any, error) {
	zone, err := h.zone(userID)
	if err != nil {
		return nil, err
	}
	tasks, err := h.store.ListUpcomingTasks(userID, h.now())
	if err != nil {
		return nil, internal("could not list tasks", err)
	}
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t, zone.Location))
	}
	return map[string]any{
		"tasks":    views,
		"count":    len(views),
		"timezone": zone.Name,
	}, nil
}

func (h *handlers) deleteTask(_ context.Context, userID string, args Args) (any, error) {
	id, err := args.requireInt("task_id")
	if err != nil {
		return nil, err
	}
	deleted, err := h.store.DeleteTask(userID, id)
	if err != nil {
		return nil, internal("could not delete task", err)
	}
	if !deleted {
		return nil, notFound("task %d not found", id)
	}
	return map[string]any{"success": true, "task_id": id, "message": "Task deleted"}, nil
}
