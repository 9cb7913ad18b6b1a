// Package router implements the inbound message router: it resolves the
// transport-agnostic envelope described in spec.md §6 into either an
// ingestion run, a management-intent tool-calling turn, or a canned
// reply, and packages the result back into an outbound envelope.
//
// Grounded on original_source/src/ai/router.py (intent classification)
// and src/bot/handlers/message.py (the "black-hole" dispatch shape the
// REDESIGN FLAGS section of spec.md keeps: everything is ingested,
// intent is used only to decide how to answer).
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/inbox/pkg/ports"
)

// Intent is the router's classification of a message's purpose,
// translated from original_source/src/ai/router.py's Intent enum.
type Intent string

const (
	IntentSave    Intent = "save"
	IntentQuery   Intent = "query"
	IntentAction  Intent = "action"
	IntentChat    Intent = "chat"
	IntentUnclear Intent = "unclear"
)

// confidenceFloor is the threshold below which a classification is
// downgraded to IntentUnclear, per router.py's classify().
const confidenceFloor = 0.7

// classifierSystemPrompt is router.py's ROUTER_SYSTEM_PROMPT, kept in
// its original language since the classifier has to read user messages
// in that language and the examples it's calibrated against are in it.
const classifierSystemPrompt = `Определи намерение пользователя. Ответь ТОЛЬКО JSON:

{
  "intent": "save|query|action|chat|unclear",
  "confidence": 0.0-1.0,
  "reasoning": "почему так решил"
}

ПРАВИЛА:
- SAVE: новая информация, задача, идея, файл, ссылка
- QUERY: вопрос, поиск записей, "что там было", "покажи", "найди"
- ACTION: изменить, удалить, отметить выполненным, создать проект, показать/список проектов, добавить в проект
- CHAT: приветствие, благодарность, small talk
- UNCLEAR: если confidence < 0.7

ВАЖНО: Запросы о ПРОЕКТАХ (не записях) всегда ACTION:
- "какие проекты" / "мои проекты" / "список проектов" → action
- "создай проект" / "добавь в проект" → action

ПРИМЕРЫ:
"купить молоко" → save
"что купить?" → query
"удали задачу про молоко" → action
"Создай проект" → action
"какие у меня проекты?" → action
"мои проекты" → action
"добавь задачу в проект Ремонт" → action
"спасибо" → chat
"поиск сотрудников" → unclear`

// Result is the outcome of classifying one message.
type Result struct {
	Intent     Intent
	Confidence float64
	Reasoning  string
}

// Classifier drives an LLM to bucket an inbound message into one of
// the five Intent values.
type Classifier struct {
	chat  ports.ChatCompletion
	model string
}

// NewClassifier builds a Classifier. model should be the deployment's
// fast/cheap model — classification doesn't need the capable one.
func NewClassifier(chat ports.ChatCompletion, model string) *Classifier {
	return &Classifier{chat: chat, model: model}
}

type classifierResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classify asks the model to bucket text, optionally prefixed with
// conversation context exactly as classify()/classify_with_clarification
// build their user turn. It never returns an error itself — a provider
// failure degrades to IntentUnclear with confidence 0, matching
// router.py's except-and-return-unclear behavior, since a classification
// outage shouldn't block the black-hole policy's "ingest everything"
// guarantee upstream.
func (c *Classifier) Classify(ctx context.Context, text, convContext string) Result {
	user := text
	if convContext != "" {
		user = fmt.Sprintf("Контекст:\n%s\n\nСообщение:\n%s", convContext, text)
	}

	raw, err := c.chat.Complete(ctx, c.model, classifierSystemPrompt, user, 0.1, 200, true)
	if err != nil {
		return Result{Intent: IntentUnclear, Confidence: 0, Reasoning: err.Error()}
	}

	var parsed classifierResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return Result{Intent: IntentUnclear, Confidence: 0, Reasoning: err.Error()}
	}

	intent := Intent(parsed.Intent)
	if !validIntent(intent) {
		intent = IntentUnclear
	}
	if parsed.Confidence < confidenceFloor {
		intent = IntentUnclear
	}

	return Result{Intent: intent, Confidence: parsed.Confidence, Reasoning: parsed.Reasoning}
}

func validIntent(i Intent) bool {
	switch i {
	case IntentSave, IntentQuery, IntentAction, IntentChat, IntentUnclear:
		return true
	}
	return false
}

// clarificationPrompt is what the router replies with on IntentUnclear,
// per classify_with_clarification's fixed follow-up question.
const clarificationPrompt = "Сохранить это или найти в записях?"
