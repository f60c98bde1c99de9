package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris/aide/config"
)

const cliUser = "cli"

func chatCmd(cfg *config.Config) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the assistant from the terminal",
		Long: `Start an interactive session, or send a single message when one is given as
an argument or piped on stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) > 0 {
				return chatOnce(cmd, a, user, strings.Join(args, " "))
			}
			return chatLoop(cmd, a, user, cmd.InOrStdin(), isPipe())
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", cliUser, "user id the records belong to")
	return cmd
}

func chatOnce(cmd *cobra.Command, a *app, user, input string) error {
	reply, err := a.agent.Run(cmd.Context(), user, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}

func chatLoop(cmd *cobra.Command, a *app, user string, in io.Reader, pipe bool) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(in)
	prompt := func() {
		if !pipe {
			fmt.Fprint(out, "aide> ")
		}
	}

	prompt()
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			prompt()
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		reply, err := a.agent.Run(cmd.Context(), user, input)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		} else {
			fmt.Fprintln(out, reply)
		}

		if pipe {
			break // single exchange in pipe mode
		}
		prompt()
	}
	return scanner.Err()
}

func isPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
