package tools

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/inbox/pkg/agent"
	"github.com/codeready-toolchain/inbox/pkg/ports"
)

// maxIterations bounds the tool-call/tool-result exchange per user
// message — spec.md §4.4 caps the management-intent loop at 5 rounds
// so a confused model can't loop forever racking up LLM calls.
const maxIterations = 5

// Loop drives a ports.ToolChat through the tool-calling exchange until
// it produces a plain-text reply or the iteration cap is hit. Tools is
// typed as the narrow agent.ToolExecutor interface (not *Executor) so
// the loop is testable against a fake.
type Loop struct {
	Chat  ports.ToolChat
	Tools agent.ToolExecutor
}

// NewLoop builds a tool-protocol Loop.
func NewLoop(chat ports.ToolChat, exec agent.ToolExecutor) *Loop {
	return &Loop{Chat: chat, Tools: exec}
}

// systemPrompt instructs the model on the two-phase confirmation
// protocol, grounded on the original's own agent system prompt intent:
// destructive/batch tools return a preview the FIRST time they're
// called, and must be called again with confirmed=true plus the
// returned confirmation_token once the user has said yes.
const systemPrompt = `You are a personal assistant managing the user's items and projects.
Use the available tools to answer requests. batch_update_items, batch_delete_items,
and the delete/move_items actions of manage_projects return a preview and a
confirmation_token the first time they are called — relay that preview to the user
in your final reply and wait for their explicit confirmation before calling the
same tool again with confirmed=true and the same confirmation_token. Never assume
confirmation; only a clear yes from the user justifies the second call.`

// Run executes the loop for a single inbound message, given the prior
// conversation history (oldest first, not including this message).
func (l *Loop) Run(ctx context.Context, userID int64, model string, history []agent.Message, userMessage string) (string, []agent.Message, error) {
	turns := toPortMessages(history)
	turns = append(turns, ports.ChatMessage{Role: "user", Content: userMessage})

	var produced []agent.Message
	produced = append(produced, agent.Message{Role: agent.RoleUser, Content: userMessage})

	for i := 0; i < maxIterations; i++ {
		result, err := l.Chat.CompleteWithTools(ctx, model, systemPrompt, turns, specsOf(l.Tools.Definitions()), 2048)
		if err != nil {
			return "", produced, fmt.Errorf("tool chat turn %d: %w", i, err)
		}

		if len(result.ToolUses) == 0 {
			produced = append(produced, agent.Message{Role: agent.RoleAssistant, Content: result.Text})
			return result.Text, produced, nil
		}

		assistantMsg := agent.Message{Role: agent.RoleAssistant, Content: result.Text}
		turnToolUses := make([]ports.ToolUse, len(result.ToolUses))
		for j, tu := range result.ToolUses {
			assistantMsg.ToolCalls = append(assistantMsg.ToolCalls, agent.ToolCall{ID: tu.ID, Name: tu.Name, Arguments: tu.InputJSON})
			turnToolUses[j] = tu
		}
		produced = append(produced, assistantMsg)
		turns = append(turns, ports.ChatMessage{Role: "assistant", Content: result.Text, ToolUses: turnToolUses})

		for _, tu := range result.ToolUses {
			res, err := l.Tools.Execute(ctx, userID, agent.ToolCall{ID: tu.ID, Name: tu.Name, Arguments: tu.InputJSON})
			if err != nil {
				return "", produced, fmt.Errorf("executing tool %s: %w", tu.Name, err)
			}
			produced = append(produced, agent.Message{Role: agent.RoleTool, Content: res.Content, ToolCallID: res.CallID, ToolName: res.Name})
			turns = append(turns, ports.ChatMessage{Role: "tool", Content: res.Content, ToolUseID: tu.ID, ToolName: tu.Name})
		}
	}

	return "", produced, fmt.Errorf("tool loop exceeded %d iterations", maxIterations)
}

func toPortMessages(history []agent.Message) []ports.ChatMessage {
	out := make([]ports.ChatMessage, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case agent.RoleUser:
			out = append(out, ports.ChatMessage{Role: "user", Content: m.Content})
		case agent.RoleAssistant:
			var uses []ports.ToolUse
			for _, tc := range m.ToolCalls {
				uses = append(uses, ports.ToolUse{ID: tc.ID, Name: tc.Name, InputJSON: tc.Arguments})
			}
			out = append(out, ports.ChatMessage{Role: "assistant", Content: m.Content, ToolUses: uses})
		case agent.RoleTool:
			out = append(out, ports.ChatMessage{Role: "tool", Content: m.Content, ToolUseID: m.ToolCallID, ToolName: m.ToolName})
		}
	}
	return out
}

// specsOf adapts a []agent.ToolDefinition to the []ports.ToolSpec shape
// CompleteWithTools expects.
func specsOf(defs []agent.ToolDefinition) []ports.ToolSpec {
	out := make([]ports.ToolSpec, len(defs))
	for i, d := range defs {
		out[i] = ports.ToolSpec{Name: d.Name, Description: d.Description, ParametersSchema: d.ParametersSchema}
	}
	return out
}
