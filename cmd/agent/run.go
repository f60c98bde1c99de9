package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chris/aide/config"
	"github.com/chris/aide/internal/calendar"
	"github.com/chris/aide/internal/discord"
	"github.com/chris/aide/internal/httpapi"
	"github.com/chris/aide/internal/logger"
	"github.com/chris/aide/internal/reminders"
)

func runCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve the Discord bot, the HTTP API and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if cfg.DiscordToken == "" && cfg.HTTPAddr == "" {
		return errors.New("nothing to run: set DISCORD_BOT_TOKEN or HTTP_ADDR")
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	g, ctx := errgroup.WithContext(ctx)

	var notifiers reminders.Fallback
	var bot *discord.Bot
	if cfg.DiscordToken != "" {
		bot, err = discord.NewBot(cfg.DiscordToken, a.agent)
		if err != nil {
			return fmt.Errorf("failed to start Discord bot: %w", err)
		}
		notifiers = append(notifiers, reminders.NotifierFunc(bot.SendDM))
	}
	if cfg.DiscordWebhook != "" {
		notifiers = append(notifiers, &reminders.WebhookNotifier{
			URL:    cfg.DiscordWebhook,
			Client: &http.Client{Timeout: 15 * time.Second},
		})
	}

	var sched *reminders.Scheduler
	if len(notifiers) > 0 {
		sched, err = newScheduler(cfg, reminders.NewService(a.db, notifiers))
		if err != nil {
			if bot != nil {
				bot.Close()
			}
			return err
		}
	} else {
		logger.Warn("run: no reminder delivery configured, scheduler disabled")
	}

	if bot != nil {
		g.Go(func() error { return bot.Run(ctx) })
	}
	if cfg.HTTPAddr != "" {
		srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(a.agent, a.db))
		g.Go(func() error { return srv.Run(ctx) })
	}
	if sched != nil {
		g.Go(func() error { return sched.Run(ctx) })
	}

	logger.Info("run: started, press Ctrl+C to exit")
	err = g.Wait()
	logger.Info("run: shutting down")
	return err
}

func newScheduler(cfg *config.Config, svc *reminders.Service) (*reminders.Scheduler, error) {
	name, err := calendar.ResolveZone(cfg.SchedulerTimezone)
	if err != nil {
		return nil, fmt.Errorf("SCHEDULER_TIMEZONE: %w", err)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("SCHEDULER_TIMEZONE: %w", err)
	}
	return reminders.NewScheduler(svc, reminders.ScheduleConfig{
		TaskCron:  cfg.TaskReminderCron,
		HabitCron: cfg.HabitReminderCron,
		Location:  loc,
	})
}
