package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/codeready-toolchain/inbox/pkg/agent"
	"github.com/codeready-toolchain/inbox/pkg/agent/chatbuf"
	"github.com/codeready-toolchain/inbox/pkg/agent/tools"
	"github.com/codeready-toolchain/inbox/pkg/apperrors"
	"github.com/codeready-toolchain/inbox/pkg/config"
	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/ports"
	"github.com/codeready-toolchain/inbox/pkg/store"
)

// urlPattern matches bare http(s) URLs in free text, translated from
// original_source/src/services/url_parser.py::extract_urls.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// Router dispatches one inbound message at a time: classify intent,
// enrich URLs, then hand off to the ingestion pipeline, the
// management-intent tool loop, or a canned reply, per the black-hole
// policy spec.md §9 settled on (ingest everything, classify via the
// LLM, redirect explicit management verbs rather than act on them
// inline in the chat transport).
type Router struct {
	classifier *Classifier
	pipeline   *agent.Pipeline
	loop       *tools.Loop
	history    *chatbuf.Buffer
	users      *store.UserRepository
	fetchURL   ports.FetchURL
	llm        *config.LLMProviderConfig
	log        *slog.Logger
}

// New builds a Router. fetchURL may be nil to disable URL enrichment.
func New(classifier *Classifier, pipeline *agent.Pipeline, loop *tools.Loop, history *chatbuf.Buffer, users *store.UserRepository, fetchURL ports.FetchURL, llm *config.LLMProviderConfig, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		classifier: classifier,
		pipeline:   pipeline,
		loop:       loop,
		history:    history,
		users:      users,
		fetchURL:   fetchURL,
		llm:        llm,
		log:        log.With("component", "router"),
	}
}

// Route is the single entry point from the transport adapter.
func (r *Router) Route(ctx context.Context, in models.InboundMessage) (models.OutboundReply, error) {
	text := in.Text
	if text == "" {
		text = in.Caption
	}
	if text == "" {
		return models.OutboundReply{}, nil
	}

	u, err := r.users.GetOrCreate(ctx, in.UserID)
	if err != nil {
		return models.OutboundReply{}, fmt.Errorf("router: resolving user: %w", err)
	}
	loc := timezoneOrUTC(u.Timezone)

	if in.Kind == "text" {
		text = r.enrichWithURL(ctx, text)
	}

	result := r.classifier.Classify(ctx, text, "")
	r.log.Info("classified message", "user_id", in.UserID, "intent", result.Intent, "confidence", result.Confidence)

	switch result.Intent {
	case IntentAction:
		return r.routeAction(ctx, in.UserID, loc, text)
	case IntentChat:
		return models.OutboundReply{Text: chatReply()}, nil
	case IntentUnclear:
		return models.OutboundReply{Text: clarificationPrompt}, nil
	default: // IntentSave, IntentQuery — both ingest; query text becomes a retrievable note too
		return r.routeSave(ctx, in, loc)
	}
}

// routeSave runs the ingestion pipeline, falling back to a verbatim
// note persist on timeout or extraction failure, per spec.md §4.3.
func (r *Router) routeSave(ctx context.Context, in models.InboundMessage, loc *time.Location) (models.OutboundReply, error) {
	text := in.Text
	if text == "" {
		text = in.Caption
	}

	pipelineIn := agent.Input{
		UserID:     in.UserID,
		Text:       text,
		Source:     sourceFromKind(in.Kind),
		Attachment: in.Attachment,
		Timezone:   loc,
	}

	result, err := r.pipeline.Run(ctx, pipelineIn)
	if err != nil {
		if errors.Is(err, apperrors.ErrAgentTimeout) || errors.Is(err, apperrors.ErrProviderFailed) {
			r.log.Error("pipeline failed, falling back to verbatim persist", "error", err, "user_id", in.UserID)
			result, err = r.pipeline.FallbackPersist(ctx, pipelineIn)
			if err != nil {
				return models.OutboundReply{}, fmt.Errorf("router: fallback persist: %w", err)
			}
			return models.OutboundReply{Text: "Сохранено (не удалось классифицировать)."}, nil
		}
		return models.OutboundReply{}, fmt.Errorf("router: running pipeline: %w", err)
	}

	return models.OutboundReply{Text: saveReplyText(result)}, nil
}

// routeAction drives the tool-calling loop for a single turn, carrying
// the per-user conversation buffer across turns so a later "yes"
// resolves against the preview the prior turn produced.
func (r *Router) routeAction(ctx context.Context, userID int64, loc *time.Location, text string) (models.OutboundReply, error) {
	history := r.history.History(userID)
	model := r.llm.FastModel

	reply, transcript, err := r.loop.Run(ctx, userID, model, history, text)
	if err != nil {
		r.log.Error("tool loop failed", "error", err, "user_id", userID)
		return models.OutboundReply{Text: fmt.Sprintf("Ошибка при выполнении: %v", err)}, nil
	}

	for _, m := range transcript {
		r.history.Append(userID, m)
	}

	return models.OutboundReply{Text: reply}, nil
}

// enrichWithURL appends the first URL's fetched content to text, same
// as handle_text's inline "--- Содержимое ссылки ---" enrichment.
// Fetch failures are swallowed — the original text is never blocked on
// an unreachable or rejected URL.
func (r *Router) enrichWithURL(ctx context.Context, text string) string {
	if r.fetchURL == nil {
		return text
	}
	urls := urlPattern.FindAllString(text, -1)
	if len(urls) == 0 {
		return text
	}
	page, err := r.fetchURL.Fetch(ctx, urls[0])
	if err != nil || page.Text == "" {
		return text
	}
	return text + "\n\n--- Содержимое ссылки ---\n" + page.Text
}

func sourceFromKind(kind string) models.ItemSource {
	switch kind {
	case "voice":
		return models.SourceVoice
	case "photo":
		return models.SourcePhoto
	case "document":
		return models.SourcePDF
	case "forward":
		return models.SourceForward
	default:
		return models.SourceText
	}
}

func saveReplyText(result *models.PipelineResult) string {
	if len(result.CreatedItems) == 0 {
		if result.ChatResponse != "" {
			return result.ChatResponse
		}
		return "Принято."
	}
	if len(result.CreatedItems) == 1 {
		return "Сохранено."
	}
	return fmt.Sprintf("Сохранено записей: %d.", len(result.CreatedItems))
}

// chatReply is a fixed small-talk reply — the original has no model
// call for CHAT intent, it's just acknowledged.
func chatReply() string {
	return "👋"
}

// timezoneOrUTC loads name as an IANA location, falling back to UTC on
// an unknown or empty name rather than failing the whole request.
func timezoneOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
