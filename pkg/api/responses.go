package api

import (
	"time"

	"github.com/codeready-toolchain/inbox/ent"
	"github.com/codeready-toolchain/inbox/pkg/database"
	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/store"
)

// ItemResponse is the wire shape of a persisted item.
type ItemResponse struct {
	ID            int                    `json:"id"`
	Type          string                 `json:"type"`
	Status        string                 `json:"status"`
	Title         string                 `json:"title,omitempty"`
	Content       string                 `json:"content,omitempty"`
	OriginalInput string                 `json:"original_input,omitempty"`
	Source        string                 `json:"source"`
	DueAt         *time.Time             `json:"due_at,omitempty"`
	DueAtRaw      string                 `json:"due_at_raw,omitempty"`
	RemindAt      *time.Time             `json:"remind_at,omitempty"`
	Priority      string                 `json:"priority,omitempty"`
	ProjectID     *int                   `json:"project_id,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Entities      map[string]interface{} `json:"entities,omitempty"`
	Recurrence    *models.Recurrence     `json:"recurrence,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	CompletedAt   *time.Time             `json:"completed_at,omitempty"`
}

func newItemResponse(it *ent.Item) ItemResponse {
	resp := ItemResponse{
		ID:            it.ID,
		Type:          string(it.Type),
		Status:        string(it.Status),
		Title:         it.Title,
		Content:       it.Content,
		OriginalInput: it.OriginalInput,
		Source:        string(it.Source),
		DueAt:         it.DueAt,
		RemindAt:      it.RemindAt,
		ProjectID:     it.ProjectID,
		Tags:          it.Tags,
		Entities:      it.Entities,
		Recurrence:    models.RecurrenceFromMap(it.Recurrence),
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
		CompletedAt:   it.CompletedAt,
	}
	if it.DueAtRaw != nil {
		resp.DueAtRaw = *it.DueAtRaw
	}
	if it.Priority != nil {
		resp.Priority = string(*it.Priority)
	}
	return resp
}

func newItemResponses(items []*ent.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = newItemResponse(it)
	}
	return out
}

// ItemListResponse is the paginated result of GET /api/items.
type ItemListResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// CompleteResponse is the result of PATCH /api/items/{id}/complete.
type CompleteResponse struct {
	Completed ItemResponse  `json:"completed"`
	Next      *ItemResponse `json:"next,omitempty"`
}

// RelatedItemsResponse is the result of GET /api/items/{id}/related.
type RelatedItemsResponse struct {
	Auto   []models.SearchResult `json:"auto"`
	Linked []store.RelatedItem   `json:"linked"`
}

// ProjectResponse is the wire shape of a persisted project.
type ProjectResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Emoji     string    `json:"emoji,omitempty"`
	ItemCount int       `json:"item_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProjectResponse(p *ent.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Color != nil {
		resp.Color = *p.Color
	}
	if p.Emoji != nil {
		resp.Emoji = *p.Emoji
	}
	return resp
}

// TaskBucketsResponse is the result of GET /api/tasks: tasks grouped into
// the fixed buckets relative to the caller's wall clock.
type TaskBucketsResponse struct {
	Overdue     []ItemResponse `json:"overdue"`
	Today       []ItemResponse `json:"today"`
	Tomorrow    []ItemResponse `json:"tomorrow"`
	ThisWeek    []ItemResponse `json:"this_week"`
	Later       []ItemResponse `json:"later"`
	WithoutDate []ItemResponse `json:"without_date"`
	Completed   []ItemResponse `json:"completed"`
}

// CalendarDay is one day's task count in GET /api/tasks/calendar.
type CalendarDay struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// CalendarResponse is the result of GET /api/tasks/calendar.
type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []CalendarDay  `json:"days"`
	Tasks []ItemResponse `json:"tasks"`
}

// SettingsResponse is the result of GET/PATCH /api/user/settings.
type SettingsResponse struct {
	Timezone string                 `json:"timezone"`
	Language string                 `json:"language"`
	Settings map[string]interface{} `json:"settings,omitempty"`
}

// HealthResponse is the result of GET /api/health.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Version  string                 `json:"version"`
	Database *database.HealthStatus `json:"database,omitempty"`
}

// errorResponse is the uniform JSON error body every handler returns on
// failure.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
