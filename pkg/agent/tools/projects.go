package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/codeready-toolchain/inbox/pkg/agent/confirm"
	"github.com/codeready-toolchain/inbox/pkg/models"
)

type manageProjectsParams struct {
	Action            string `json:"action"`
	Name              string `json:"name"`
	Color             string `json:"color"`
	Emoji             string `json:"emoji"`
	ProjectID         int    `json:"project_id"`
	TargetProjectID   *int   `json:"target_project_id"`
	Confirmed         bool   `json:"confirmed"`
	ConfirmationToken string `json:"confirmation_token"`
}

func (e *Executor) manageProjects(ctx context.Context, userID int64, raw string) (interface{}, error) {
	var p manageProjectsParams
	if err := unmarshalArgs(raw, &p); err != nil {
		return nil, err
	}
	if p.Action == "" {
		return map[string]string{"error": "action is required"}, nil
	}

	switch p.Action {
	case "create":
		return e.createProject(ctx, userID, p)
	case "list":
		return e.listProjects(ctx, userID)
	case "get":
		return e.getProject(ctx, userID, p)
	case "rename":
		return e.renameProject(ctx, userID, p)
	case "update":
		return e.updateProject(ctx, userID, p)
	case "delete":
		return e.deleteProject(ctx, userID, p)
	case "move_items":
		return e.moveProjectItems(ctx, userID, p)
	default:
		return map[string]string{"error": fmt.Sprintf("unknown action: %s", p.Action)}, nil
	}
}

func (e *Executor) createProject(ctx context.Context, userID int64, p manageProjectsParams) (interface{}, error) {
	if p.Name == "" {
		return map[string]string{"error": "name is required for create"}, nil
	}
	proj, err := e.Store.Projects.Create(ctx, models.CreateProjectInput{UserID: userID, Name: p.Name, Color: p.Color, Emoji: p.Emoji})
	if err != nil {
		return map[string]string{"error": err.Error()}, nil
	}
	return map[string]interface{}{
		"success": true,
		"project": map[string]interface{}{"id": proj.ID, "name": proj.Name, "color": proj.Color, "emoji": proj.Emoji},
	}, nil
}

func (e *Executor) listProjects(ctx context.Context, userID int64) (interface{}, error) {
	projects, err := e.Store.Projects.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, len(projects))
	for i, p := range projects {
		out[i] = map[string]interface{}{"id": p.ID, "name": p.Name, "color": p.Color, "emoji": p.Emoji}
	}
	return map[string]interface{}{"projects": out}, nil
}

func (e *Executor) getProject(ctx context.Context, userID int64, p manageProjectsParams) (interface{}, error) {
	if p.ProjectID == 0 {
		return map[string]string{"error": "project_id is required for get"}, nil
	}
	proj, err := e.Store.Projects.Get(ctx, p.ProjectID, userID)
	if err != nil {
		return map[string]string{"error": fmt.Sprintf("project %d not found", p.ProjectID)}, nil
	}
	count, err := e.Store.Projects.ItemCount(ctx, p.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id": proj.ID, "name": proj.Name, "color": proj.Color, "emoji": proj.Emoji, "items_count": count,
	}, nil
}

func (e *Executor) renameProject(ctx context.Context, userID int64, p manageProjectsParams) (interface{}, error) {
	if p.ProjectID == 0 || p.Name == "" {
		return map[string]string{"error": "project_id and name are required for rename"}, nil
	}
	name := p.Name
	proj, err := e.Store.Projects.Update(ctx, p.ProjectID, userID, models.UpdateProjectFields{Name: &name})
	if err != nil {
		return map[string]string{"error": fmt.Sprintf("project %d not found", p.ProjectID)}, nil
	}
	return map[string]interface{}{"success": true, "project": map[string]interface{}{"id": proj.ID, "name": proj.Name}}, nil
}

func (e *Executor) updateProject(ctx context.Context, userID int64, p manageProjectsParams) (interface{}, error) {
	if p.ProjectID == 0 {
		return map[string]string{"error": "project_id is required for update"}, nil
	}
	var fields models.UpdateProjectFields
	if p.Name != "" {
		fields.Name = &p.Name
	}
	if p.Color != "" {
		fields.Color = &p.Color
	}
	if p.Emoji != "" {
		fields.Emoji = &p.Emoji
	}
	if fields.Name == nil && fields.Color == nil && fields.Emoji == nil {
		return map[string]string{"error": "no fields to update"}, nil
	}
	proj, err := e.Store.Projects.Update(ctx, p.ProjectID, userID, fields)
	if err != nil {
		return map[string]string{"error": fmt.Sprintf("project %d not found", p.ProjectID)}, nil
	}
	return map[string]interface{}{
		"success": true,
		"project": map[string]interface{}{"id": proj.ID, "name": proj.Name, "color": proj.Color, "emoji": proj.Emoji},
	}, nil
}

func (e *Executor) deleteProject(ctx context.Context, userID int64, p manageProjectsParams) (interface{}, error) {
	if p.ProjectID == 0 {
		return map[string]string{"error": "project_id is required for delete"}, nil
	}

	if p.Confirmed && p.ConfirmationToken != "" {
		pending := e.Confirm.Get(p.ConfirmationToken)
		if pending == nil {
			return map[string]string{"error": "confirmation token expired or invalid"}, nil
		}
		if pending.UserID != userID {
			return map[string]string{"error": "invalid token for this user"}, nil
		}
		if len(pending.MatchedIDs) == 0 {
			return map[string]string{"error": "confirmation token carries no matched project"}, nil
		}
		// The preview is the contract: act on the project id captured at
		// preview time, not on p.ProjectID from this call's arguments.
		err := e.Store.Projects.Delete(ctx, pending.MatchedIDs[0], userID)
		e.Confirm.Clear(p.ConfirmationToken)
		return map[string]interface{}{"success": err == nil, "deleted": err == nil}, nil
	}

	proj, err := e.Store.Projects.Get(ctx, p.ProjectID, userID)
	if err != nil {
		return map[string]string{"error": fmt.Sprintf("project %d not found", p.ProjectID)}, nil
	}
	count, err := e.Store.Projects.ItemCount(ctx, p.ProjectID, userID)
	if err != nil {
		return nil, err
	}

	token := confirm.GenerateToken("delp")
	e.Confirm.Put(&confirm.PendingOperation{
		Token: token, Action: "delete_project", UserID: userID,
		Filter: models.ItemFilter{ProjectID: &p.ProjectID}, MatchedIDs: []int{p.ProjectID}, CreatedAt: time.Now(),
	})

	return map[string]interface{}{
		"action":              "delete_project",
		"project":             map[string]interface{}{"id": proj.ID, "name": proj.Name},
		"items_count":         count,
		"needs_confirmation":  true,
		"confirmation_token":  token,
	}, nil
}

func (e *Executor) moveProjectItems(ctx context.Context, userID int64, p manageProjectsParams) (interface{}, error) {
	if p.ProjectID == 0 {
		return map[string]string{"error": "project_id is required for move_items"}, nil
	}

	if p.Confirmed && p.ConfirmationToken != "" {
		pending := e.Confirm.Get(p.ConfirmationToken)
		if pending == nil {
			return map[string]string{"error": "confirmation token expired or invalid"}, nil
		}
		if pending.UserID != userID {
			return map[string]string{"error": "invalid token for this user"}, nil
		}
		if pending.Filter.ProjectID == nil {
			return map[string]string{"error": "confirmation token carries no source project"}, nil
		}
		// The preview is the contract: act on the source/target project ids
		// captured at preview time, not on this call's arguments.
		var target *int
		if pending.ExtraIntID != 0 {
			target = &pending.ExtraIntID
		}
		count, err := e.Store.Projects.MoveItems(ctx, *pending.Filter.ProjectID, target, userID)
		e.Confirm.Clear(p.ConfirmationToken)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"success": true, "moved_count": count}, nil
	}

	count, err := e.Store.Projects.ItemCount(ctx, p.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return map[string]interface{}{"matched_count": 0, "needs_confirmation": false}, nil
	}

	token := confirm.GenerateToken("mov")
	e.Confirm.Put(&confirm.PendingOperation{
		Token: token, Action: "move_items", UserID: userID,
		Filter: models.ItemFilter{ProjectID: &p.ProjectID}, ExtraIntID: derefOr(p.TargetProjectID, 0), CreatedAt: time.Now(),
	})

	source, _ := e.Store.Projects.Get(ctx, p.ProjectID, userID)
	var target map[string]interface{}
	if p.TargetProjectID != nil {
		if t, err := e.Store.Projects.Get(ctx, *p.TargetProjectID, userID); err == nil {
			target = map[string]interface{}{"id": t.ID, "name": t.Name}
		}
	}
	var sourceOut interface{}
	if source != nil {
		sourceOut = map[string]interface{}{"id": source.ID, "name": source.Name}
	}

	return map[string]interface{}{
		"action":              "move_items",
		"source_project":      sourceOut,
		"target_project":      target,
		"items_count":         count,
		"needs_confirmation":  true,
		"confirmation_token":  token,
	}, nil
}

func derefOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
