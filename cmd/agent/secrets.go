package main

import (
	"bufio"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris/aide/config"
	"github.com/chris/aide/internal/secrets"
)

func secretsCmd() *cobra.Command {
	keys := strings.Join(config.SecretKeys(), ", ")
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Store API keys and tokens in the OS keyring",
		Long:  "Keys: " + keys,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY",
		Short: "Read a secret from stdin and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := secretKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", key)
			value, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && value == "" {
				return fmt.Errorf("reading secret: %w", err)
			}
			if err := secrets.Set(key, strings.TrimSpace(value)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "stored %s\n", key)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete KEY",
		Short: "Remove a stored secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := secretKey(args[0])
			if err != nil {
				return err
			}
			if err := secrets.Delete(key); err != nil {
				if errors.Is(err, secrets.ErrNotFound) {
					return fmt.Errorf("%s is not stored", key)
				}
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "deleted %s\n", key)
			return nil
		},
	})
	return cmd
}

func secretKey(arg string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(arg))
	if !slices.Contains(config.SecretKeys(), key) {
		return "", fmt.Errorf("unknown secret %q (want one of %s)", arg, strings.Join(config.SecretKeys(), ", "))
	}
	return key, nil
}
