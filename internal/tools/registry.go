package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/chris/aide/internal/llm"
	"github.com/chris/aide/internal/logger"
)

// Handler runs one tool call on behalf of userID. A returned *Error keeps its
// Kind; any other error is reported as internal.
type Handler func(ctx context.Context, userID string, args Args) (any, error)

type Tool struct {
	Domain      string // task, habit, money, settings
	Name        string
	Description string
	Parameters  map[string]any // JSON Schema
	Handler     Handler
}

type Registry struct {
	tools map[string]*Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool. Registering a name twice replaces the handler but
// keeps the original catalog position.
func (r *Registry) Register(t *Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// Catalog returns the model-facing tool list in registration order.
func (r *Registry) Catalog() []llm.Tool {
	out := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, llm.Tool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return out
}

// Execute runs a tool. Handler panics are recovered into internal errors so a
// single bad call cannot take down the conversation.
func (r *Registry) Execute(ctx context.Context, userID, name string, args map[string]any) (result any, err error) {
	t := r.tools[name]
	if t == nil {
		return nil, newError(KindUnknownTool, "unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]any{}
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("tools: handler panic", "tool", name, "panic", p, "stack", string(debug.Stack()))
			result, err = nil, &Error{Kind: KindInternal, Msg: fmt.Sprintf("%s failed unexpectedly", name)}
		}
	}()
	return t.Handler(ctx, userID, Args(args))
}

// Dispatch executes a tool and always returns a payload for the model: the
// JSON result on success, or an error payload.
func (r *Registry) Dispatch(ctx context.Context, userID, name string, args map[string]any) string {
	result, err := r.Execute(ctx, userID, name, args)
	if err != nil {
		logger.Warn("tools: call failed", "tool", name, "user", userID, "kind", KindOf(err), "err", err)
		return Failure(err)
	}
	b, err := json.Marshal(result)
	if err != nil {
		logger.Error("tools: encoding result", "tool", name, "err", err)
		return Failure(&Error{Kind: KindInternal, Msg: "could not encode result", Err: err})
	}
	return string(b)
}

type failurePayload struct {
	Error string `json:"error"`
	Kind  Kind   `json:"kind"`
}

// Failure encodes err as {"error": ..., "kind": ...}.
func Failure(err error) string {
	b, _ := json.Marshal(failurePayload{Error: err.Error(), Kind: KindOf(err)})
	return string(b)
}
