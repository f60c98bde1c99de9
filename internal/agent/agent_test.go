package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/aide/internal/llm"
	"github.com/chris/aide/internal/tools"
)

// scriptedClient replays responses in order and records what it was sent.
type scriptedClient struct {
	responses []*llm.Response
	err       error
	calls     int
	seen      [][]llm.Message
	block     bool
}

func (c *scriptedClient) Chat(ctx context.Context, _ string, messages []llm.Message, _ []llm.Tool) (*llm.Response, error) {
	c.calls++
	c.seen = append(c.seen, append([]llm.Message(nil), messages...))
	if c.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if c.err != nil {
		return nil, c.err
	}
	if len(c.responses) == 0 {
		return &llm.Response{Content: "done"}, nil
	}
	r := c.responses[0]
	c.responses = c.responses[1:]
	return r, nil
}

// recordingTools is a minimal dispatcher that logs calls in order.
type recordingTools struct {
	names []string
	calls []string
}

func (r *recordingTools) Has(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

func (r *recordingTools) Catalog() []llm.Tool {
	out := make([]llm.Tool, len(r.names))
	for i, n := range r.names {
		out[i] = llm.Tool{Name: n}
	}
	return out
}

func (r *recordingTools) Dispatch(_ context.Context, userID, name string, args map[string]any) string {
	r.calls = append(r.calls, name)
	return fmt.Sprintf(`{"tool":%q,"user":%q}`, name, userID)
}

func toolCall(id, name string) llm.ToolCall {
	return llm.ToolCall{ID: id, Name: name, Params: map[string]any{}}
}

func TestRunReturnsText(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{{Content: "Hello!"}}}
	a := New(client, &recordingTools{})

	reply, err := a.Run(context.Background(), "u1", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
	assert.Equal(t, 1, client.calls)
}

func TestRunEmptyResponseFallsBack(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{{}}}
	a := New(client, &recordingTools{})

	reply, err := a.Run(context.Background(), "u1", "hi")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestRunStopsAtRoundLimit(t *testing.T) {
	var script []*llm.Response
	for i := 0; i < 10; i++ {
		script = append(script, &llm.Response{ToolCalls: []llm.ToolCall{toolCall(fmt.Sprintf("c%d", i), "list_tasks")}})
	}
	client := &scriptedClient{responses: script}
	disp := &recordingTools{names: []string{"list_tasks"}}
	a := New(client, disp)

	reply, err := a.Run(context.Background(), "u1", "loop forever")
	require.NoError(t, err)
	assert.Equal(t, LimitReply, reply)
	assert.Equal(t, DefaultMaxRounds, client.calls, "no model call after the limit")
	assert.Len(t, disp.calls, DefaultMaxRounds)
}

func TestRunCustomRoundLimit(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{toolCall("a", "list_tasks")}},
		{ToolCalls: []llm.ToolCall{toolCall("b", "list_tasks")}},
	}}
	a := New(client, &recordingTools{names: []string{"list_tasks"}})
	a.MaxRounds = 2

	reply, err := a.Run(context.Background(), "u1", "x")
	require.NoError(t, err)
	assert.Equal(t, LimitReply, reply)
	assert.Equal(t, 2, client.calls)
}

func TestRunExecutesCallsInOrder(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{toolCall("1", "add_expense"), toolCall("2", "complete_habit")}},
		{Content: "Logged it."},
	}}
	disp := &recordingTools{names: []string{"add_expense", "complete_habit"}}
	a := New(client, disp)

	reply, err := a.Run(context.Background(), "u1", "spent 5 and ran")
	require.NoError(t, err)
	assert.Equal(t, "Logged it.", reply)
	assert.Equal(t, []string{"add_expense", "complete_habit"}, disp.calls)

	// Second model call sees: user, assistant with both calls, two tagged results.
	require.Len(t, client.seen, 2)
	second := client.seen[1]
	require.Len(t, second, 4)
	assert.Equal(t, llm.RoleUser, second[0].Role)
	assert.Len(t, second[1].ToolCalls, 2)
	assert.Equal(t, llm.RoleTool, second[2].Role)
	assert.Equal(t, "1", second[2].ToolCallID)
	assert.Equal(t, "2", second[3].ToolCallID)
}

func TestRunSkipsUnknownTools(t *testing.T) {
	client := &scriptedClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{toolCall("1", "hack_mainframe"), toolCall("2", "list_tasks")}},
		{Content: "Here are your tasks."},
	}}
	disp := &recordingTools{names: []string{"list_tasks"}}
	a := New(client, disp)

	reply, err := a.Run(context.Background(), "u1", "tasks?")
	require.NoError(t, err)
	assert.Equal(t, "Here are your tasks.", reply)
	assert.Equal(t, []string{"list_tasks"}, disp.calls)

	second := client.seen[1]
	require.Len(t, second, 3)
	require.Len(t, second[1].ToolCalls, 1)
	assert.Equal(t, "list_tasks", second[1].ToolCalls[0].Name)
}

func TestRunReportsMalformedArguments(t *testing.T) {
	bad := llm.ToolCall{ID: "x", Name: "add_task", Params: map[string]any{}, Raw: `{"title":`, ArgsErr: llm.ErrMalformedArguments}
	client := &scriptedClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{bad}},
		{Content: "Could you rephrase?"},
	}}
	disp := &recordingTools{names: []string{"add_task"}}
	a := New(client, disp)

	_, err := a.Run(context.Background(), "u1", "add a task")
	require.NoError(t, err)
	assert.Empty(t, disp.calls, "malformed calls are not dispatched")

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(client.seen[1][2].Content), &payload))
	assert.Equal(t, string(tools.KindMalformedArguments), payload["kind"])
}

func TestRunModelFailure(t *testing.T) {
	client := &scriptedClient{err: errors.New("502 bad gateway")}
	a := New(client, &recordingTools{})

	_, err := a.Run(context.Background(), "u1", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), "502")
}

func TestRunModelTimeout(t *testing.T) {
	client := &scriptedClient{block: true}
	a := New(client, &recordingTools{})
	a.ModelTimeout = 10 * time.Millisecond

	_, err := a.Run(context.Background(), "u1", "hi")
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunUnknownToolWithRegistry(t *testing.T) {
	reg := tools.NewRegistry()
	client := &scriptedClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{toolCall("1", "not_a_tool")}},
		{Content: "ok"},
	}}
	a := New(client, reg)

	reply, err := a.Run(context.Background(), "u1", "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, 2, client.calls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hello...", truncate("hello world", 5))
	assert.Equal(t, "", truncate("", 5))
}
