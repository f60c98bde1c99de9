package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chris/aide/internal/llm"
	"github.com/chris/aide/internal/logger"
	"github.com/chris/aide/internal/tools"
)

const (
	DefaultMaxRounds = 5

	FallbackReply = "Sorry, I couldn't process that."
	LimitReply    = "I hit a limit on processing. Please try again with a simpler request."
)

// ErrModelUnavailable wraps any failure of the model call itself.
var ErrModelUnavailable = errors.New("model unavailable")

// Dispatcher runs tool calls. *tools.Registry implements it.
type Dispatcher interface {
	Has(name string) bool
	Catalog() []llm.Tool
	Dispatch(ctx context.Context, userID, name string, args map[string]any) string
}

type Agent struct {
	client llm.Client
	tools  Dispatcher

	SystemPrompt string
	MaxRounds    int
	// ModelTimeout bounds each model call. Zero means no limit beyond ctx.
	ModelTimeout time.Duration
}

func New(client llm.Client, dispatcher Dispatcher) *Agent {
	return &Agent{
		client:       client,
		tools:        dispatcher,
		SystemPrompt: llm.SystemPrompt,
		MaxRounds:    DefaultMaxRounds,
	}
}

// Run answers one inbound message. Each call starts a fresh conversation of
// the system prompt and the message; tool results are fed back to the model
// until it answers in text or MaxRounds model calls have been made.
func (a *Agent) Run(ctx context.Context, userID, message string) (string, error) {
	reqID := uuid.NewString()
	logger.Info("agent: message", "req", reqID, "user", userID, "text", truncate(message, 80))

	rounds := a.MaxRounds
	if rounds <= 0 {
		rounds = DefaultMaxRounds
	}
	catalog := a.tools.Catalog()
	messages := []llm.Message{{Role: llm.RoleUser, Content: message}}

	for round := 1; round <= rounds; round++ {
		resp, err := a.chat(ctx, messages, catalog)
		if err != nil {
			logger.Error("agent: model call failed", "req", reqID, "round", round, "err", err)
			return "", fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}

		if len(resp.ToolCalls) == 0 {
			if resp.Content == "" {
				return FallbackReply, nil
			}
			return resp.Content, nil
		}

		// Unknown tools are model noise: drop them from the recorded turn so
		// every recorded call has a matching result.
		calls := make([]llm.ToolCall, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			if !a.tools.Has(tc.Name) {
				logger.Warn("agent: skipping unknown tool", "req", reqID, "tool", tc.Name)
				continue
			}
			calls = append(calls, tc)
		}
		if len(calls) > 0 || resp.Content != "" {
			messages = append(messages, llm.Message{
				Role:      llm.RoleAssistant,
				Content:   resp.Content,
				ToolCalls: calls,
			})
		}

		for _, tc := range calls {
			var result string
			if tc.ArgsErr != nil {
				result = tools.Failure(&tools.Error{Kind: tools.KindMalformedArguments, Err: tc.ArgsErr})
			} else {
				result = a.tools.Dispatch(ctx, userID, tc.Name, tc.Params)
			}
			logger.Debug("agent: tool", "req", reqID, "tool", tc.Name, "result", truncate(result, 200))
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	logger.Warn("agent: round limit reached", "req", reqID, "rounds", rounds)
	return LimitReply, nil
}

func (a *Agent) chat(ctx context.Context, messages []llm.Message, catalog []llm.Tool) (*llm.Response, error) {
	if a.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.ModelTimeout)
		defer cancel()
	}
	resp, err := a.client.Chat(ctx, a.SystemPrompt, messages, catalog)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &llm.Response{}, nil
	}
	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
