package tools

import (
	"context"
	"strconv"
	"time"

	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/store"
)

// rawFilter is the wire shape of a "filter" object as the LLM sends it,
// mirroring the original's filter_dict handling in _parse_filter_params.
type rawFilter struct {
	Query     string      `json:"query"`
	Type      string      `json:"type"`
	Status    string      `json:"status"`
	DateField string      `json:"date_field"`
	DateFrom  string      `json:"date_from"`
	DateTo    string      `json:"date_to"`
	Project   interface{} `json:"project"`
	Priority  string      `json:"priority"`
	Tags      []string    `json:"tags"`
}

// resolveFilter turns the wire filter shape into models.ItemFilter,
// resolving a project name/id reference against the store the way
// _resolve_project_id does.
func resolveFilter(ctx context.Context, st *store.Store, userID int64, rf rawFilter) models.ItemFilter {
	f := models.ItemFilter{
		Query:     rf.Query,
		DateField: rf.DateField,
		Priority:  models.Priority(rf.Priority),
		Tags:      rf.Tags,
	}
	if rf.Type != "" {
		f.Types = []models.ItemType{models.ItemType(rf.Type)}
	}
	if rf.Status != "" {
		f.Statuses = []models.ItemStatus{models.ItemStatus(rf.Status)}
	}
	if t, err := time.Parse(time.RFC3339, rf.DateFrom); err == nil {
		f.DateFrom = &t
	}
	if t, err := time.Parse(time.RFC3339, rf.DateTo); err == nil {
		f.DateTo = &t
	}
	if id := resolveProjectRef(ctx, st, userID, rf.Project); id != nil {
		f.ProjectID = id
	}
	return f
}

// resolveProjectRef accepts either a numeric id (float64/json.Number/int,
// as decoded from JSON) or a project name string, returning the
// resolved project id or nil if it can't be resolved.
func resolveProjectRef(ctx context.Context, st *store.Store, userID int64, ref interface{}) *int {
	switch v := ref.(type) {
	case nil:
		return nil
	case float64:
		id := int(v)
		return &id
	case int:
		return &v
	case string:
		if v == "" {
			return nil
		}
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
		projects, err := st.Projects.List(ctx, userID)
		if err != nil {
			return nil
		}
		for _, p := range projects {
			if p.Name == v {
				id := p.ID
				return &id
			}
		}
		return nil
	default:
		return nil
	}
}
