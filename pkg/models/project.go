package models

// CreateProjectInput contains fields for creating a project.
type CreateProjectInput struct {
	UserID int64
	Name   string
	Color  string
	Emoji  string
}

// UpdateProjectFields is the subset of mutable project fields.
type UpdateProjectFields struct {
	Name  *string
	Color *string
	Emoji *string
}
