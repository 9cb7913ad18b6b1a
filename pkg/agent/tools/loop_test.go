package tools

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/inbox/pkg/agent"
	"github.com/codeready-toolchain/inbox/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToolChat struct {
	responses []ports.ToolChatResult
	calls     int
}

func (f *fakeToolChat) CompleteWithTools(ctx context.Context, model, system string, messages []ports.ChatMessage, tools []ports.ToolSpec, maxTokens int) (ports.ToolChatResult, error) {
	r := f.responses[f.calls]
	f.calls++
	return r, nil
}

type fakeExecutor struct {
	defs []agent.ToolDefinition
}

func (f *fakeExecutor) Definitions() []agent.ToolDefinition { return f.defs }

func (f *fakeExecutor) Execute(ctx context.Context, userID int64, call agent.ToolCall) (*agent.ToolResult, error) {
	return &agent.ToolResult{CallID: call.ID, Name: call.Name, Content: `{"results":[]}`}, nil
}

func TestLoop_NoToolCalls_ReturnsTextImmediately(t *testing.T) {
	chat := &fakeToolChat{responses: []ports.ToolChatResult{
		{Text: "hello there", StopReason: "end_turn"},
	}}
	l := NewLoop(chat, &fakeExecutor{defs: Definitions()})

	text, transcript, err := l.Run(context.Background(), 1, "fast", nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
	assert.Equal(t, 1, chat.calls)
	// user message + assistant reply
	assert.Len(t, transcript, 2)
}

func TestLoop_OneToolRoundTrip(t *testing.T) {
	chat := &fakeToolChat{responses: []ports.ToolChatResult{
		{ToolUses: []ports.ToolUse{{ID: "t1", Name: "search_items", InputJSON: `{"query":"milk"}`}}, StopReason: "tool_use"},
		{Text: "found it", StopReason: "end_turn"},
	}}
	l := NewLoop(chat, &fakeExecutor{defs: Definitions()})

	text, transcript, err := l.Run(context.Background(), 1, "fast", nil, "find milk")
	require.NoError(t, err)
	assert.Equal(t, "found it", text)
	assert.Equal(t, 2, chat.calls)
	// user, assistant(tool_use), tool result, assistant(final)
	assert.Len(t, transcript, 4)
}

func TestLoop_ExceedsIterationCap(t *testing.T) {
	responses := make([]ports.ToolChatResult, maxIterations)
	for i := range responses {
		responses[i] = ports.ToolChatResult{ToolUses: []ports.ToolUse{{ID: "t", Name: "search_items", InputJSON: "{}"}}, StopReason: "tool_use"}
	}
	chat := &fakeToolChat{responses: responses}
	l := NewLoop(chat, &fakeExecutor{defs: Definitions()})

	_, _, err := l.Run(context.Background(), 1, "fast", nil, "loop forever")
	assert.Error(t, err)
}
