package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChat struct {
	raw string
	err error
}

func (f *fakeChat) Complete(ctx context.Context, model, system, user string, temperature float64, maxTokens int, jsonObject bool) (string, error) {
	return f.raw, f.err
}

func TestClassify_HighConfidenceSave(t *testing.T) {
	c := NewClassifier(&fakeChat{raw: `{"intent":"save","confidence":0.95,"reasoning":"new task"}`}, "fast")
	r := c.Classify(context.Background(), "купить молоко", "")
	assert.Equal(t, IntentSave, r.Intent)
	assert.Equal(t, 0.95, r.Confidence)
}

func TestClassify_LowConfidenceDowngradesToUnclear(t *testing.T) {
	c := NewClassifier(&fakeChat{raw: `{"intent":"save","confidence":0.5,"reasoning":"ambiguous"}`}, "fast")
	r := c.Classify(context.Background(), "что-то непонятное", "")
	assert.Equal(t, IntentUnclear, r.Intent)
}

func TestClassify_UnknownIntentDowngradesToUnclear(t *testing.T) {
	c := NewClassifier(&fakeChat{raw: `{"intent":"bogus","confidence":0.9}`}, "fast")
	r := c.Classify(context.Background(), "whatever", "")
	assert.Equal(t, IntentUnclear, r.Intent)
}

func TestClassify_ProviderErrorDowngradesToUnclear(t *testing.T) {
	c := NewClassifier(&fakeChat{err: assert.AnError}, "fast")
	r := c.Classify(context.Background(), "whatever", "")
	assert.Equal(t, IntentUnclear, r.Intent)
	assert.Equal(t, 0.0, r.Confidence)
}

func TestClassify_MalformedJSONDowngradesToUnclear(t *testing.T) {
	c := NewClassifier(&fakeChat{raw: "not json"}, "fast")
	r := c.Classify(context.Background(), "whatever", "")
	assert.Equal(t, IntentUnclear, r.Intent)
}

func TestClassify_ContextIsPrependedToUserTurn(t *testing.T) {
	var seenUser string
	c := &Classifier{chat: chatFunc(func(ctx context.Context, model, system, user string, temperature float64, maxTokens int, jsonObject bool) (string, error) {
		seenUser = user
		return `{"intent":"chat","confidence":0.9}`, nil
	}), model: "fast"}
	c.Classify(context.Background(), "спасибо", "User: привет\nBot: Привет!")
	assert.Contains(t, seenUser, "Контекст:")
	assert.Contains(t, seenUser, "Сообщение:")
}

type chatFunc func(ctx context.Context, model, system, user string, temperature float64, maxTokens int, jsonObject bool) (string, error)

func (f chatFunc) Complete(ctx context.Context, model, system, user string, temperature float64, maxTokens int, jsonObject bool) (string, error) {
	return f(ctx, model, system, user, temperature, maxTokens, jsonObject)
}
