// Package secrets stores provider credentials in the OS keyring so they do
// not have to live in .env files.
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "aide"

var (
	ErrNotFound    = errors.New("secret not found in keyring")
	ErrUnavailable = errors.New("OS keyring is not available")
)

// Get returns the secret stored under key.
func Get(key string) (string, error) {
	v, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, nil
}

func Set(key, value string) error {
	if value == "" {
		return fmt.Errorf("secret %s cannot be empty", key)
	}
	if err := keyring.Set(service, key, value); err != nil {
		return fmt.Errorf("storing %s in keyring: %w", key, err)
	}
	return nil
}

func Delete(key string) error {
	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting %s from keyring: %w", key, err)
	}
	return nil
}

// Lookup returns the secret or "" when it is absent or the keyring is unusable.
func Lookup(key string) string {
	v, err := Get(key)
	if err != nil {
		return ""
	}
	return v
}
