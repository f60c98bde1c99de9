package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/aide/internal/calendar"
)

func (h *handlers) registerSettings(r *Registry) {
	r.Register(&Tool{
		Domain:      "settings",
		Name:        "set_timezone",
		Description: "Save the user's timezone. Use when they mention their timezone or location ('I'm in India', 'set timezone to X'). Accepts IANA names (Asia/Kolkata, America/New_York) or common aliases (IST, EST).",
		Parameters: objReq(map[string]any{
			"timezone": prop("string", "IANA timezone (e.g. Asia/Kolkata) or alias (IST, EST, PST)"),
		}, "timezone"),
		Handler: h.setTimezone,
	})
	r.Register(&Tool{
		Domain:      "settings",
		Name:        "get_timezone",
		Description: "Get the user's saved timezone. Call before adding tasks to interpret 'tomorrow 5pm' correctly.",
		Parameters:  obj(nil),
		Handler:     h.getTimezone,
	})
	r.Register(&Tool{
		Domain:      "settings",
		Name:        "get_current_time",
		Description: "Get the current time in the user's saved timezone, or in a given timezone. Use when the user asks what time it is, or before working out relative dates.",
		Parameters: obj(map[string]any{
			"timezone": prop("string", "Optional IANA timezone or alias. Defaults to the user's saved timezone."),
		}),
		Handler: h.currentTime,
	})
}

func (h *handlers) setTimezone(_ context.Context, userID string, args Args) (any, error) {
	raw, err := args.requireString("timezone")
	if err != nil {
		return nil, err
	}
	name, err := calendar.ResolveZone(raw)
	if err != nil {
		return nil, &Error{Kind: KindInvalidTimezone, Err: err}
	}
	if err := h.store.SetTimezone(userID, name); err != nil {
		return nil, internal("could not save timezone", err)
	}
	return map[string]any{
		"success":  true,
		"timezone": name,
		"message":  fmt.Sprintf("Timezone set to %s", name),
	}, nil
}

func (h *handlers) getTimezone(_ context.Context, userID string, _ Args) (any, error) {
	zone, err := h.zone(userID)
	if err != nil {
		return nil, err
	}
	if !zone.Configured {
		return map[string]any{
			"timezone":   nil,
			"configured": false,
			"message":    "Timezone not set; using UTC by default. Set it for accurate reminders.",
		}, nil
	}
	return map[string]any{
		"timezone":   zone.Name,
		"configured": true,
		"message":    fmt.Sprintf("Your timezone is %s", zone.Name),
	}, nil
}

func (h *handlers) currentTime(_ context.Context, userID string, args Args) (any, error) {
	override, _ := args.String("timezone")
	zone, err := h.zones.Effective(userID, override)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidTimezone) {
			return nil, &Error{Kind: KindInvalidTimezone, Err: err}
		}
		return nil, internal("could not read timezone", err)
	}
	now := h.now().In(zone.Location)
	res := map[string]any{
		"timezone":  zone.Name,
		"iso":       now.Format(time.RFC3339),
		"formatted": now.Format("2006-01-02 15:04"),
		"weekday":   now.Weekday().String(),
	}
	if !zone.Configured {
		res["timezone_configured"] = false
		res["note"] = unsetZoneNote
	}
	return res, nil
}
