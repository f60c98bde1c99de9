package main

import (
	"github.com/spf13/cobra"

	"github.com/chris/aide/internal/service"
)

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the launchd agent that keeps 'aide run' alive (macOS)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Install and load the agent for this binary",
			RunE: func(cmd *cobra.Command, args []string) error {
				return service.Install(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "uninstall",
			Short: "Unload and remove the agent",
			RunE: func(cmd *cobra.Command, args []string) error {
				return service.Uninstall(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "start",
			Short: "Start the agent",
			RunE:  func(cmd *cobra.Command, args []string) error { return service.Start() },
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the agent",
			RunE:  func(cmd *cobra.Command, args []string) error { return service.Stop() },
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show launchd status",
			RunE: func(cmd *cobra.Command, args []string) error {
				return service.Status(cmd.OutOrStdout())
			},
		},
	)
	return cmd
}
