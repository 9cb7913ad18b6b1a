package ports

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"

	"github.com/codeready-toolchain/inbox/pkg/apperrors"
)

// AnthropicChat is the ChatCompletion reference implementation, backed
// by anthropics/anthropic-sdk-go. Retries transient failures (429,
// 5xx, network timeouts) with cenkalti/backoff's exponential strategy,
// replacing the hand-rolled loop the teacher pack's haiku client uses
// for the same family of errors.
type AnthropicChat struct {
	client     anthropic.Client
	maxRetries uint64
}

// NewAnthropicChat builds an AnthropicChat client. apiKey must be
// non-empty; the caller resolves ANTHROPIC_API_KEY precedence during
// config loading (pkg/config), not here.
func NewAnthropicChat(apiKey string) (*AnthropicChat, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: api key required")
	}
	return &AnthropicChat{
		client:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		maxRetries: 3,
	}, nil
}

// Complete implements ports.ChatCompletion.
func (a *AnthropicChat) Complete(ctx context.Context, model, system, user string, temperature float64, maxTokens int, jsonObject bool) (string, error) {
	if jsonObject {
		user = user + "\n\nRespond with a single JSON object and nothing else."
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}

	var text string
	op := func() error {
		message, err := a.client.Messages.New(ctx, params)
		if err != nil {
			if !isRetryableAnthropicErr(err) {
				return backoff.Permanent(fmt.Errorf("%w: %v", apperrors.ErrProviderFailed, err))
			}
			return err
		}
		if len(message.Content) == 0 {
			return backoff.Permanent(fmt.Errorf("%w: empty response", apperrors.ErrProviderFailed))
		}
		block := message.Content[0]
		if block.Type != "text" {
			return backoff.Permanent(fmt.Errorf("%w: unexpected block type %q", apperrors.ErrProviderFailed, block.Type))
		}
		text = block.Text
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), a.maxRetries)
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return "", err
	}
	return text, nil
}

func isRetryableAnthropicErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
