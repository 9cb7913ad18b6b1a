package ports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/cenkalti/backoff/v4"

	"github.com/codeready-toolchain/inbox/pkg/apperrors"
)

// CompleteWithTools implements ports.ToolChat for AnthropicChat, using
// the SDK's native tool-use support rather than the JSON-object
// convention Complete relies on — the management-intent agent loop
// needs the model to request structured tool calls, not just strict
// JSON text.
func (a *AnthropicChat) CompleteWithTools(ctx context.Context, model, system string, messages []ChatMessage, tools []ToolSpec, maxTokens int) (ToolChatResult, error) {
	toolParams := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		var schema interface{}
		if err := json.Unmarshal([]byte(t.ParametersSchema), &schema); err != nil {
			return ToolChatResult{}, fmt.Errorf("tool %s: invalid parameter schema: %w", t.Name, err)
		}
		toolParams[i] = anthropic.ToolUnionParamOfTool(anthropic.ToolInputSchemaParam{
			Properties: schema,
		}, t.Name)
		toolParams[i].OfTool.Description = anthropic.String(t.Description)
	}

	msgParams := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "user":
			msgParams = append(msgParams, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case "assistant":
			blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(m.ToolUses))
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tu := range m.ToolUses {
				var input interface{}
				_ = json.Unmarshal([]byte(tu.InputJSON), &input)
				blocks = append(blocks, anthropic.NewToolUseBlock(tu.ID, input, tu.Name))
			}
			msgParams = append(msgParams, anthropic.NewAssistantMessage(blocks...))
		case "tool":
			msgParams = append(msgParams, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(m.ToolUseID, m.Content, false),
			))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  msgParams,
		Tools:     toolParams,
	}

	var result ToolChatResult
	op := func() error {
		message, err := a.client.Messages.New(ctx, params)
		if err != nil {
			if !isRetryableAnthropicErr(err) {
				return backoff.Permanent(fmt.Errorf("%w: %v", apperrors.ErrProviderFailed, err))
			}
			return err
		}

		var text string
		var uses []ToolUse
		for _, block := range message.Content {
			switch block.Type {
			case "text":
				text += block.Text
			case "tool_use":
				raw, _ := json.Marshal(block.Input)
				uses = append(uses, ToolUse{ID: block.ID, Name: block.Name, InputJSON: string(raw)})
			}
		}
		result = ToolChatResult{Text: text, ToolUses: uses, StopReason: string(message.StopReason)}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), a.maxRetries)
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return ToolChatResult{}, err
	}
	return result, nil
}
