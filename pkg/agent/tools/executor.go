package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codeready-toolchain/inbox/ent"
	"github.com/codeready-toolchain/inbox/pkg/agent"
	"github.com/codeready-toolchain/inbox/pkg/agent/confirm"
	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/ports"
	"github.com/codeready-toolchain/inbox/pkg/store"
)

// previewLimit caps how many matched items are echoed back in a batch
// preview response, matching the original's items[:5].
const previewLimit = 5

// Executor implements agent.ToolExecutor against pkg/store, with
// destructive/batch actions routed through a confirm.Store for the
// two-phase preview/execute split.
type Executor struct {
	Store   *store.Store
	Confirm *confirm.Store
	Embed   ports.EmbedFunc // optional; nil skips save_item's embedding step
}

// NewExecutor builds a tool Executor.
func NewExecutor(st *store.Store, cs *confirm.Store, embed ports.EmbedFunc) *Executor {
	return &Executor{Store: st, Confirm: cs, Embed: embed}
}

// Definitions implements agent.ToolExecutor.
func (e *Executor) Definitions() []agent.ToolDefinition {
	return Definitions()
}

// Execute implements agent.ToolExecutor, dispatching by call.Name. Tool
// failures are reported as ToolResult{IsError:true}, never as a Go
// error — only a malformed call payload or an unknown tool name is a Go
// error, matching the teacher's pkg/mcp/executor.go convention.
func (e *Executor) Execute(ctx context.Context, userID int64, call agent.ToolCall) (*agent.ToolResult, error) {
	var (
		result interface{}
		err    error
	)

	switch call.Name {
	case "search_items":
		result, err = e.searchItems(ctx, userID, call.Arguments)
	case "get_item_details":
		result, err = e.getItemDetails(ctx, userID, call.Arguments)
	case "batch_update_items":
		result, err = e.batchUpdateItems(ctx, userID, call.Arguments)
	case "batch_delete_items":
		result, err = e.batchDeleteItems(ctx, userID, call.Arguments)
	case "manage_projects":
		result, err = e.manageProjects(ctx, userID, call.Arguments)
	case "save_item":
		result, err = e.saveItem(ctx, userID, call.Arguments)
	default:
		return &agent.ToolResult{CallID: call.ID, Name: call.Name, Content: fmt.Sprintf(`{"error":"unknown tool: %s"}`, call.Name), IsError: true}, nil
	}
	if err != nil {
		return &agent.ToolResult{CallID: call.ID, Name: call.Name, Content: fmt.Sprintf(`{"error":%q}`, err.Error()), IsError: true}, nil
	}

	body, merr := json.Marshal(result)
	if merr != nil {
		return nil, fmt.Errorf("marshaling %s result: %w", call.Name, merr)
	}
	return &agent.ToolResult{CallID: call.ID, Name: call.Name, Content: string(body)}, nil
}

func unmarshalArgs(raw string, dst interface{}) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

type itemSummary struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Status   string  `json:"status"`
	DueAt    *string `json:"due_at,omitempty"`
	Priority string  `json:"priority,omitempty"`
}

func summarize(it *ent.Item) itemSummary {
	s := itemSummary{ID: it.ID, Title: it.Title, Type: string(it.Type), Status: string(it.Status)}
	if it.DueAt != nil {
		due := it.DueAt.Format(time.RFC3339)
		s.DueAt = &due
	}
	if it.Priority != nil {
		s.Priority = string(*it.Priority)
	}
	return s
}

func (e *Executor) searchItems(ctx context.Context, userID int64, raw string) (interface{}, error) {
	var params struct {
		rawFilter
		Limit int `json:"limit"`
	}
	if err := unmarshalArgs(raw, &params); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	filter := resolveFilter(ctx, e.Store, userID, params.rawFilter)
	items, err := e.Store.Items.SearchAdvanced(ctx, userID, filter, limit)
	if err != nil {
		return nil, err
	}
	results := make([]itemSummary, len(items))
	for i, it := range items {
		results[i] = summarize(it)
	}
	return map[string]interface{}{"results": results, "total_count": len(results)}, nil
}

func (e *Executor) getItemDetails(ctx context.Context, userID int64, raw string) (interface{}, error) {
	var params struct {
		ItemID int `json:"item_id"`
	}
	if err := unmarshalArgs(raw, &params); err != nil {
		return nil, err
	}
	if params.ItemID == 0 {
		return map[string]string{"error": "item_id is required"}, nil
	}
	it, err := e.Store.Items.Get(ctx, params.ItemID, userID)
	if err != nil {
		return map[string]string{"error": fmt.Sprintf("item %d not found", params.ItemID)}, nil
	}

	out := map[string]interface{}{
		"id": it.ID, "title": it.Title, "content": it.Content,
		"type": string(it.Type), "status": string(it.Status),
		"tags": it.Tags, "entities": it.Entities, "created_at": it.CreatedAt.Format(time.RFC3339),
	}
	if it.DueAt != nil {
		out["due_at"] = it.DueAt.Format(time.RFC3339)
	}
	if it.DueAtRaw != nil {
		out["due_at_raw"] = *it.DueAtRaw
	}
	if it.Priority != nil {
		out["priority"] = string(*it.Priority)
	}
	if it.ProjectID != nil {
		out["project_id"] = *it.ProjectID
	}
	return out, nil
}

type updateFields struct {
	DueAt     string   `json:"due_at"`
	DueAtRaw  *string  `json:"due_at_raw"`
	Status    string   `json:"status"`
	Priority  string   `json:"priority"`
	ProjectID *int     `json:"project_id"`
	Tags      []string `json:"tags"`
}

func (u updateFields) toModel() models.UpdateItemFields {
	f := models.UpdateItemFields{DueAtRaw: u.DueAtRaw, ProjectID: u.ProjectID, Tags: u.Tags}
	if u.Status != "" {
		s := models.ItemStatus(u.Status)
		f.Status = &s
	}
	if u.Priority != "" {
		p := models.Priority(u.Priority)
		f.Priority = &p
	}
	if t, err := time.Parse(time.RFC3339, u.DueAt); err == nil {
		f.DueAt = &t
	}
	return f
}

func (e *Executor) batchUpdateItems(ctx context.Context, userID int64, raw string) (interface{}, error) {
	var params struct {
		Filter            rawFilter    `json:"filter"`
		Updates           updateFields `json:"updates"`
		Confirmed         bool         `json:"confirmed"`
		ConfirmationToken string       `json:"confirmation_token"`
	}
	if err := unmarshalArgs(raw, &params); err != nil {
		return nil, err
	}

	if params.Confirmed && params.ConfirmationToken != "" {
		pending := e.Confirm.Get(params.ConfirmationToken)
		if pending == nil {
			return map[string]string{"error": "confirmation token expired or invalid"}, nil
		}
		if pending.UserID != userID {
			return map[string]string{"error": "invalid token for this user"}, nil
		}
		count, err := e.Store.Items.BatchUpdate(ctx, pending.MatchedIDs, userID, params.Updates.toModel())
		if err != nil {
			return nil, err
		}
		e.Confirm.Clear(params.ConfirmationToken)
		return map[string]interface{}{"success": true, "updated_count": count}, nil
	}

	filter := resolveFilter(ctx, e.Store, userID, params.Filter)
	items, err := e.Store.Items.SearchAdvanced(ctx, userID, filter, 100)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return map[string]interface{}{"matched_count": 0, "items_preview": []itemSummary{}, "needs_confirmation": false}, nil
	}

	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	token := confirm.GenerateToken("upd")
	e.Confirm.Put(&confirm.PendingOperation{Token: token, Action: "update", UserID: userID, Filter: filter, Updates: ptrUpdate(params.Updates.toModel()), MatchedIDs: ids, CreatedAt: time.Now()})

	preview := previewOf(items)
	return map[string]interface{}{
		"action": "update", "matched_count": len(items), "items_preview": preview,
		"needs_confirmation": true, "confirmation_token": token,
	}, nil
}

func ptrUpdate(f models.UpdateItemFields) *models.UpdateItemFields { return &f }

func previewOf(items []*ent.Item) []map[string]interface{} {
	n := len(items)
	if n > previewLimit {
		n = previewLimit
	}
	out := make([]map[string]interface{}, n)
	for i := 0; i < n; i++ {
		out[i] = map[string]interface{}{"id": items[i].ID, "title": items[i].Title}
	}
	return out
}

func (e *Executor) batchDeleteItems(ctx context.Context, userID int64, raw string) (interface{}, error) {
	var params struct {
		Filter            rawFilter `json:"filter"`
		Confirmed         bool      `json:"confirmed"`
		ConfirmationToken string    `json:"confirmation_token"`
	}
	if err := unmarshalArgs(raw, &params); err != nil {
		return nil, err
	}

	if params.Confirmed && params.ConfirmationToken != "" {
		pending := e.Confirm.Get(params.ConfirmationToken)
		if pending == nil {
			return map[string]string{"error": "confirmation token expired or invalid"}, nil
		}
		if pending.UserID != userID {
			return map[string]string{"error": "invalid token for this user"}, nil
		}
		count, err := e.Store.Items.BatchDelete(ctx, pending.MatchedIDs, userID)
		if err != nil {
			return nil, err
		}
		e.Confirm.Clear(params.ConfirmationToken)
		return map[string]interface{}{"success": true, "deleted_count": count}, nil
	}

	filter := resolveFilter(ctx, e.Store, userID, params.Filter)
	items, err := e.Store.Items.SearchAdvanced(ctx, userID, filter, 100)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return map[string]interface{}{"matched_count": 0, "items_preview": []itemSummary{}, "needs_confirmation": false}, nil
	}

	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	token := confirm.GenerateToken("del")
	e.Confirm.Put(&confirm.PendingOperation{Token: token, Action: "delete", UserID: userID, Filter: filter, MatchedIDs: ids, CreatedAt: time.Now()})

	return map[string]interface{}{
		"action": "delete", "matched_count": len(items), "items_preview": previewOf(items),
		"needs_confirmation": true, "confirmation_token": token,
	}, nil
}

func (e *Executor) saveItem(ctx context.Context, userID int64, raw string) (interface{}, error) {
	var params struct {
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		Type      string   `json:"type"`
		DueAt     string   `json:"due_at"`
		DueAtRaw  string   `json:"due_at_raw"`
		Priority  string   `json:"priority"`
		ProjectID *int     `json:"project_id"`
		Tags      []string `json:"tags"`
	}
	if err := unmarshalArgs(raw, &params); err != nil {
		return nil, err
	}
	if params.Title == "" {
		return map[string]string{"error": "title is required"}, nil
	}
	if params.Type == "" {
		return map[string]string{"error": "type is required"}, nil
	}

	in := models.CreateItemInput{
		UserID: userID, Type: models.ItemType(params.Type), Source: models.SourceText,
		Title: params.Title, Content: params.Content, OriginalInput: params.Title,
		DueAtRaw: params.DueAtRaw, Priority: models.Priority(params.Priority),
		ProjectID: params.ProjectID, Tags: params.Tags,
	}
	if t, err := time.Parse(time.RFC3339, params.DueAt); err == nil {
		in.DueAt = &t
	}

	it, err := e.Store.Items.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	if e.Embed != nil {
		if vec, err := e.Embed(ctx, params.Title+" "+params.Content); err == nil {
			_ = e.Store.Items.SetEmbedding(ctx, it.ID, ports.ToPgvector(vec))
		}
	}

	return map[string]interface{}{
		"success": true,
		"item":    map[string]interface{}{"id": it.ID, "title": it.Title, "type": string(it.Type), "project_id": it.ProjectID},
	}, nil
}
