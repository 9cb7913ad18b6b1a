package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/ru"

	"github.com/codeready-toolchain/inbox/pkg/apperrors"
	"github.com/codeready-toolchain/inbox/pkg/config"
	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/ports"
	"github.com/codeready-toolchain/inbox/pkg/search"
	"github.com/codeready-toolchain/inbox/pkg/store"
)

// defaultPipelineTimeout is the whole-pipeline wall-clock deadline used
// when the caller doesn't configure one (config.QueueConfig.PipelineDeadline
// is zero), per spec.md §4.3. On expiry the router performs a fallback
// persist.
const defaultPipelineTimeout = 30 * time.Second

const extractionSystemPrompt = `You are the extraction engine for a personal inbox assistant. Given the user's recent context and a new message, extract zero or more structured items (tasks, ideas, notes, resources, contacts, events) and suggest links to existing items. Respond with a single JSON object of exactly this shape and no other keys:
{
  "items": [ { "type": "task|idea|note|resource|contact|event", "title": string, "content": string|null, "tags": [string], "project_id": int|null, "due_at_raw": string|null, "due_at_iso": string|null, "priority": "high"|"medium"|"low"|null } ],
  "chat_response": string|null,
  "suggested_links": [ { "new_item_index": int, "existing_item_id": int, "reason": string } ]
}
If the message is purely conversational and nothing should be saved, return an empty "items" array and put your reply in "chat_response".`

// Pipeline runs the five-stage ingestion process: context gather, LLM
// extraction, persistence, embedding, linking. Grounded on the
// Agent/ExecutionResult/TokenUsage vocabulary the teacher's
// pkg/agent/agent.go uses for its own (differently-shaped) agent runs.
type Pipeline struct {
	store   *store.Store
	search  *search.Engine
	chat    ports.ChatCompletion
	embed   ports.Embed
	llm     *config.LLMProviderConfig
	llmName string
	log     *slog.Logger
	timeout time.Duration
}

// NewPipeline builds an ingestion Pipeline. timeout is the whole-pipeline
// wall-clock deadline (config.QueueConfig.PipelineDeadline); a
// non-positive value falls back to defaultPipelineTimeout.
func NewPipeline(st *store.Store, eng *search.Engine, chat ports.ChatCompletion, embed ports.Embed, llm *config.LLMProviderConfig, llmName string, timeout time.Duration, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultPipelineTimeout
	}
	return &Pipeline{store: st, search: eng, chat: chat, embed: embed, llm: llm, llmName: llmName, log: log, timeout: timeout}
}

// Input is one inbound message to run through the pipeline.
type Input struct {
	UserID     int64
	Text       string
	Source     models.ItemSource
	Attachment *models.Attachment
	Timezone   *time.Location
}

// Run executes the five stages under the pipeline's deadline (p.timeout,
// 30 seconds unless configured otherwise). On timeout
// or extraction failure, the caller (pkg/router) is responsible for
// the fallback persist described in spec.md §4.3 — Run itself only
// reports the failure, it never writes the fallback note, so the
// router's fallback path runs outside this deadline.
func (p *Pipeline) Run(ctx context.Context, in Input) (*models.PipelineResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stageCtx, err := gatherContext(ctx, p.store, p.search, in.UserID, in.Timezone, in.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: gathering context: %v", apperrors.ErrAgentTimeout, err)
	}

	extraction, err := p.extract(ctx, in, stageCtx)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.ErrAgentTimeout
		}
		return nil, err
	}

	if len(extraction.Items) == 0 {
		chat := ""
		if extraction.ChatResponse != nil {
			chat = *extraction.ChatResponse
		}
		return &models.PipelineResult{ChatResponse: chat, Elapsed: time.Since(start)}, nil
	}

	createdIDs, embedTexts := p.persist(ctx, in, extraction.Items)
	p.embedItems(ctx, createdIDs, embedTexts)
	linkCount := p.link(ctx, createdIDs, extraction.SuggestedLinks)

	chat := ""
	if extraction.ChatResponse != nil {
		chat = *extraction.ChatResponse
	}
	return &models.PipelineResult{
		CreatedItems: createdIDs,
		CreatedLinks: linkCount,
		ChatResponse: chat,
		Elapsed:      time.Since(start),
	}, nil
}

// extract runs stage 2: build the prompt, call the LLM with low
// temperature and JSON-only mode, parse the structured result.
func (p *Pipeline) extract(ctx context.Context, in Input, stageCtx *StageContext) (*models.ExtractionResult, error) {
	model := SelectModel(in.Text, string(in.Source), p.llm.FastModel, p.llm.CapableModel)
	userPrompt := p.buildExtractionPrompt(in, stageCtx)

	raw, err := p.chat.Complete(ctx, model, extractionSystemPrompt, userPrompt, 0.3, 2048, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrProviderFailed, err)
	}

	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed extraction response: %v", apperrors.ErrProviderFailed, err)
	}
	return &result, nil
}

func (p *Pipeline) buildExtractionPrompt(in Input, sc *StageContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current time: %s\n\n", sc.NowFormatted)

	if len(sc.Projects) > 0 {
		b.WriteString("Projects:\n")
		for _, proj := range sc.Projects {
			fmt.Fprintf(&b, "- [%d] %s %s\n", proj.ID, proj.Emoji, proj.Name)
		}
		b.WriteString("\n")
	}
	if len(sc.RecentItems) > 0 {
		b.WriteString("Recent items:\n")
		for _, it := range sc.RecentItems {
			fmt.Fprintf(&b, "- [%d] (%s) %s\n", it.ID, it.Type, it.Title)
		}
		b.WriteString("\n")
	}
	if len(sc.SimilarItems) > 0 {
		b.WriteString("Similar existing items:\n")
		for _, it := range sc.SimilarItems {
			fmt.Fprintf(&b, "- [%d] (%s) %s (similarity %.2f)\n", it.ID, it.Type, it.Title, it.Score)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Message:\n%s\n", in.Text)
	return b.String()
}

// persist runs stage 3, returning the created item ids in the order
// returned by the LLM together with the "title content" text each
// item's embedding should be computed over. A failure on one item is
// logged and skipped, never aborting the batch.
func (p *Pipeline) persist(ctx context.Context, in Input, items []models.ExtractedItem) ([]int, []string) {
	var ids []int
	var texts []string

	for _, src := range items {
		create := models.CreateItemInput{
			UserID:        in.UserID,
			Type:          itemTypeOrDefault(src.Type),
			Source:        in.Source,
			Title:         titleOrDefault(src.Title, in.Text),
			Content:       contentOrDefault(src.Content, in.Text),
			OriginalInput: in.Text,
			Priority:      models.Priority(src.Priority),
			ProjectID:     src.ProjectID,
			Tags:          src.Tags,
			Attachment:    in.Attachment,
		}
		if due, raw := p.resolveDueAt(src, in.Timezone); due != nil {
			create.DueAt = due
			create.DueAtRaw = raw
		} else {
			create.DueAtRaw = raw
		}

		it, err := p.store.Items.Create(ctx, create)
		if err != nil {
			p.log.Error("persisting extracted item failed, skipping", "error", err, "title", src.Title)
			continue
		}
		ids = append(ids, it.ID)
		texts = append(texts, strings.TrimSpace(it.Title+" "+it.Content))
	}
	return ids, texts
}

// resolveDueAt parses due_at_iso as RFC3339; on failure it attempts
// github.com/olebedev/when against due_at_raw as a natural-language
// fallback in the user's timezone, a supplement beyond spec.md's
// literal "RFC3339 or nothing" since due_at_raw exists precisely for
// this second-chance parse.
func (p *Pipeline) resolveDueAt(src models.ExtractedItem, tz *time.Location) (*time.Time, string) {
	if src.DueAtISO != "" {
		if t, err := time.Parse(time.RFC3339, src.DueAtISO); err == nil {
			return &t, src.DueAtRaw
		}
	}
	if src.DueAtRaw == "" {
		return nil, ""
	}

	w := when.New(nil)
	w.Add(ru.All...)
	loc := tz
	if loc == nil {
		loc = time.UTC
	}
	base := time.Now().In(loc)
	result, err := w.Parse(src.DueAtRaw, base)
	if err != nil || result == nil {
		return nil, src.DueAtRaw
	}
	return &result.Time, src.DueAtRaw
}

func itemTypeOrDefault(t string) models.ItemType {
	if models.ValidItemType(t) {
		return models.ItemType(t)
	}
	return models.ItemTypeNote
}

func titleOrDefault(title, original string) string {
	if title != "" {
		return title
	}
	if len(original) > 100 {
		return original[:100]
	}
	return original
}

func contentOrDefault(content, original string) string {
	if content != "" {
		return content
	}
	return original
}

// embedItems runs stage 4: a single batch embedding call over every
// newly-created item's "title content" text, writing each vector back.
// Failure is non-fatal — items remain searchable via FTS only.
func (p *Pipeline) embedItems(ctx context.Context, ids []int, texts []string) {
	if p.embed == nil || len(ids) == 0 {
		return
	}
	vecs, err := p.embed.Embed(ctx, texts)
	if err != nil {
		p.log.Error("batch embedding failed, items remain FTS-only", "error", err)
		return
	}
	for i, id := range ids {
		if i >= len(vecs) || len(vecs[i]) == 0 {
			continue
		}
		if err := p.store.Items.SetEmbedding(ctx, id, ports.ToPgvector(vecs[i])); err != nil {
			p.log.Error("storing embedding failed", "error", err, "item_id", id)
		}
	}
}

const maxLinkReasonLen = 200

// link runs stage 5: create an ItemLink for each suggested link whose
// new_item_index and existing_item_id are both valid, truncating
// reason at 200 chars, skipping anything out of range.
func (p *Pipeline) link(ctx context.Context, createdIDs []int, suggestions []models.SuggestedLink) int {
	links := buildLinkInputs(createdIDs, suggestions)
	if len(links) == 0 {
		return 0
	}
	created, err := p.store.ItemLinks.CreateBatch(ctx, links)
	if err != nil {
		p.log.Error("creating suggested links failed", "error", err)
		return 0
	}
	return len(created)
}

// buildLinkInputs filters suggestions to those whose new_item_index and
// existing_item_id are valid, truncating reason at 200 chars.
func buildLinkInputs(createdIDs []int, suggestions []models.SuggestedLink) []store.LinkInput {
	var links []store.LinkInput
	for _, s := range suggestions {
		if s.NewItemIndex < 0 || s.NewItemIndex >= len(createdIDs) {
			continue
		}
		if s.ExistingItemID <= 0 {
			continue
		}
		reason := s.Reason
		if len(reason) > maxLinkReasonLen {
			reason = reason[:maxLinkReasonLen]
		}
		links = append(links, store.LinkInput{
			SourceItemID: createdIDs[s.NewItemIndex],
			TargetItemID: s.ExistingItemID,
			LinkType:     "related",
			Reason:       reason,
			Confirmed:    true,
		})
	}
	return links
}

// FallbackPersist writes a single verbatim note, used by the caller
// when Run fails with apperrors.ErrAgentTimeout or apperrors.ErrProviderFailed
// (which also covers a malformed extraction response).
func (p *Pipeline) FallbackPersist(ctx context.Context, in Input) (*models.PipelineResult, error) {
	it, err := p.store.Items.Create(ctx, models.CreateItemInput{
		UserID:        in.UserID,
		Type:          models.ItemTypeNote,
		Source:        in.Source,
		Title:         titleOrDefault("", in.Text),
		Content:       in.Text,
		OriginalInput: in.Text,
		Attachment:    in.Attachment,
	})
	if err != nil {
		return nil, fmt.Errorf("fallback persist: %w", err)
	}
	return &models.PipelineResult{CreatedItems: []int{it.ID}, FellBack: true}, nil
}
