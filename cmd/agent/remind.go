package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris/aide/config"
	"github.com/chris/aide/internal/reminders"
)

func remindCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run a reminder scan once, printing reminders to stdout",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tasks",
		Short: "Remind about tasks due within the next hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			return scanOnce(cmd, cfg, (*reminders.Service).ScanTasks)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "habits",
		Short: "Nudge about habits not yet done today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return scanOnce(cmd, cfg, (*reminders.Service).ScanHabits)
		},
	})
	return cmd
}

type scanFunc func(*reminders.Service, context.Context) (int, error)

func scanOnce(cmd *cobra.Command, cfg *config.Config, scan scanFunc) error {
	database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	svc := reminders.NewService(database, &reminders.WriterNotifier{W: cmd.OutOrStdout()})
	n, err := scan(svc, cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d reminder(s) sent\n", n)
	return nil
}
