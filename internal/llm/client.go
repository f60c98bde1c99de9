package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type Message struct {
	Role       string     `json:"role"` // user, assistant, tool
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // for tool result messages
}

type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`

	// Raw is the argument text exactly as the provider sent it.
	Raw string `json:"-"`
	// ArgsErr is set when Raw could not be read as a JSON object.
	ArgsErr error `json:"-"`
}

type Response struct {
	Content   string
	ToolCalls []ToolCall
}

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

type Client interface {
	Chat(ctx context.Context, systemPrompt string, messages []Message, tools []Tool) (*Response, error)
}

var ErrMalformedArguments = errors.New("tool arguments are not a JSON object")

// ParseParams reads model-produced tool arguments. Blank input and JSON null
// are an empty object; anything else that is not a JSON object is reported
// with ErrMalformedArguments.
func ParseParams(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: %s", ErrMalformedArguments, truncate(raw, 80))
	}
	res := gjson.Parse(raw)
	if res.Type == gjson.Null {
		return map[string]any{}, nil
	}
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrMalformedArguments, truncate(raw, 80))
	}
	params, _ := res.Value().(map[string]any)
	if params == nil {
		params = map[string]any{}
	}
	return params, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// newToolCall builds a ToolCall from provider output, keeping parse failures
// on the call instead of dropping it.
func newToolCall(id, name, raw string) ToolCall {
	params, err := ParseParams(raw)
	if params == nil {
		params = map[string]any{}
	}
	return ToolCall{ID: id, Name: name, Params: params, Raw: raw, ArgsErr: err}
}
