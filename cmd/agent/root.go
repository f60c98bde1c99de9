package main

import (
	"github.com/spf13/cobra"

	"github.com/chris/aide/config"
)

func rootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "aide",
		Short: "aide - a chat assistant for tasks, habits and spending",
		Long: `aide turns plain-language messages into tasks, habit check-ins and expense
records, and reminds you about what is coming due.

Run 'aide run' to serve Discord and HTTP, or 'aide chat' to talk to it here.`,
		SilenceUsage: true,
	}

	root.AddCommand(runCmd(cfg))
	root.AddCommand(chatCmd(cfg))
	root.AddCommand(remindCmd(cfg))
	root.AddCommand(secretsCmd())
	root.AddCommand(serviceCmd())
	return root
}
