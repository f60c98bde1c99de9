package llm

import (
	"errors"
	"testing"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"blank", "  \n", 0, false},
		{"null", "null", 0, false},
		{"object", `{"title":"x","deadline":"2025-02-13T17:00:00"}`, 2, false},
		{"nested", `{"a":{"b":[1,2]}}`, 1, false},
		{"array", `[1,2]`, 0, true},
		{"string", `"hello"`, 0, true},
		{"truncated", `{"title":"x"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedArguments) {
					t.Fatalf("expected ErrMalformedArguments, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d keys, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseParamsNumbers(t *testing.T) {
	got, err := ParseParams(`{"amount": 12.5, "task_id": 3}`)
	if err != nil {
		t.Fatal(err)
	}
	if got["amount"] != 12.5 {
		t.Errorf("amount = %v", got["amount"])
	}
	if got["task_id"] != float64(3) {
		t.Errorf("task_id = %#v", got["task_id"])
	}
}

func TestNewToolCallKeepsBadArguments(t *testing.T) {
	tc := newToolCall("c1", "add_task", `{"title":`)
	if tc.ArgsErr == nil {
		t.Fatal("expected ArgsErr")
	}
	if tc.Params == nil {
		t.Error("Params should be an empty map, not nil")
	}
	if tc.Raw != `{"title":` {
		t.Errorf("Raw = %q", tc.Raw)
	}
}

func TestNewClient(t *testing.T) {
	for _, p := range []string{"anthropic", "openai", "groq", "ollama"} {
		c, err := NewClient(ProviderConfig{Provider: p, APIKey: "k"})
		if err != nil {
			t.Errorf("%s: %v", p, err)
		}
		if c == nil {
			t.Errorf("%s: nil client", p)
		}
	}
	if _, err := NewClient(ProviderConfig{Provider: "palm"}); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestGroqDefaults(t *testing.T) {
	c, err := NewClient(ProviderConfig{Provider: "groq", APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	oc, ok := c.(*OpenAIClient)
	if !ok {
		t.Fatalf("expected *OpenAIClient, got %T", c)
	}
	if oc.model != groqDefaultModel {
		t.Errorf("model = %q", oc.model)
	}
}

func TestAnthropicMessagesGroupsToolResults(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "log lunch and a run"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "a", Name: "add_expense", Params: map[string]any{"amount": 10}},
			{ID: "b", Name: "complete_habit", Params: map[string]any{"name": "run"}},
		}},
		{Role: RoleTool, ToolCallID: "a", Content: `{"ok":true}`},
		{Role: RoleTool, ToolCallID: "b", Content: `{"ok":true}`},
		{Role: RoleAssistant},
	}
	out := anthropicMessages(msgs)
	if len(out) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(out))
	}
	if len(out[2].Content) != 2 {
		t.Errorf("expected both tool results in one turn, got %d blocks", len(out[2].Content))
	}
}

func TestOpenAIMessagesPrependsSystem(t *testing.T) {
	out := openAIMessages("sys", []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "a", Name: "list_tasks", Raw: "{}"}}},
		{Role: RoleTool, ToolCallID: "a", Content: "[]"},
	})
	if len(out) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(out))
	}
	if out[0].OfSystem == nil {
		t.Error("first message should be the system prompt")
	}
	if out[2].OfAssistant == nil || len(out[2].OfAssistant.ToolCalls) != 1 {
		t.Error("assistant turn should carry its tool call")
	}
	if out[3].OfTool == nil {
		t.Error("last message should be a tool result")
	}
}
