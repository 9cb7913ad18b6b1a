// Package agent implements the ingestion pipeline: the five-stage
// process that turns one inbound user message into persisted items,
// embeddings, and suggested links. The tool-protocol agent loop used
// for management intents lives in the sibling pkg/agent/tools package;
// both share the conversation/tool-call vocabulary declared here,
// grounded on the teacher's pkg/agent/llm_client.go and
// pkg/agent/tool_executor.go (ToolDefinition/ToolCall/ToolResult,
// errors reported as ToolResult{IsError:true} rather than a Go error).
package agent

import "context"

// Conversation roles, mirroring the teacher's RoleSystem/RoleUser/...
// constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn of a tool-calling conversation.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	ToolName   string
}

// ToolDefinition describes one tool the LLM may call, with its JSON
// Schema parameter description passed through verbatim.
type ToolDefinition struct {
	Name             string
	Description      string
	ParametersSchema string
}

// ToolCall is the LLM's request to invoke a tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // JSON
}

// ToolResult is a tool's output, always reported as a Go value rather
// than a Go error — IsError flags a tool-level failure (bad filter,
// item not found, expired token) the LLM is meant to see and recover
// from, distinct from an infrastructure error.
type ToolResult struct {
	CallID  string
	Name    string
	Content string // JSON
	IsError bool
}

// ToolExecutor runs a single tool call against the store/confirm state.
type ToolExecutor interface {
	Execute(ctx context.Context, userID int64, call ToolCall) (*ToolResult, error)
	Definitions() []ToolDefinition
}
