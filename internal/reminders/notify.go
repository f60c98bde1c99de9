package reminders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Notifier delivers a reminder to one user.
type Notifier interface {
	Notify(ctx context.Context, userID, text string) error
}

type NotifierFunc func(ctx context.Context, userID, text string) error

func (f NotifierFunc) Notify(ctx context.Context, userID, text string) error {
	return f(ctx, userID, text)
}

// Fallback tries each notifier in order and stops at the first success.
type Fallback []Notifier

func (f Fallback) Notify(ctx context.Context, userID, text string) error {
	if len(f) == 0 {
		return errors.New("no delivery method configured")
	}
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		err := n.Notify(ctx, userID, text)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WebhookNotifier posts to a Discord-style webhook, mentioning the user.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func (w *WebhookNotifier) Notify(ctx context.Context, userID, text string) error {
	content := text
	if userID != "" {
		content = fmt.Sprintf("<@%s> %s", userID, text)
	}
	body, _ := json.Marshal(map[string]string{"content": content})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// WriterNotifier prints reminders, for the CLI.
type WriterNotifier struct {
	W  io.Writer
	mu sync.Mutex
}

func (w *WriterNotifier) Notify(_ context.Context, userID, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.W, "[%s] %s\n", userID, text)
	return err
}
