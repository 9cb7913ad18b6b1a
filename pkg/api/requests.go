package api

// UpdateItemRequest is the PATCH /api/items/{id} body. Pointer/nil-slice
// fields distinguish "not provided" from "clear this", same as
// models.UpdateItemFields downstream.
type UpdateItemRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Status     *string  `json:"status"`
	DueAt      *string  `json:"due_at"`
	ClearDueAt bool     `json:"clear_due_at"`
	Priority   *string  `json:"priority"`
	ProjectID  *int     `json:"project_id"`
	ClearProj  bool     `json:"clear_project_id"`
	Tags       []string `json:"tags"`
}

// MoveItemRequest is the PATCH /api/items/{id}/move body.
type MoveItemRequest struct {
	ProjectID *int `json:"project_id"`
}

// CreateProjectRequest is the POST /api/projects body.
type CreateProjectRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

// UpdateProjectRequest is the PATCH /api/projects/{id} body.
type UpdateProjectRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Emoji *string `json:"emoji"`
}

// UpdateSettingsRequest is the PATCH /api/user/settings body.
type UpdateSettingsRequest struct {
	Timezone *string                `json:"timezone"`
	Settings map[string]interface{} `json:"settings"`
}
