package store

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/inbox/ent"
	"github.com/codeready-toolchain/inbox/ent/item"
	"github.com/codeready-toolchain/inbox/ent/project"
	"github.com/codeready-toolchain/inbox/pkg/apperrors"
	"github.com/codeready-toolchain/inbox/pkg/models"
)

// ProjectRepository manages Project rows, scoped to their owning user.
type ProjectRepository struct {
	client *ent.Client
}

// Create inserts a project. Duplicate (user_id, name) is rejected by the
// unique index and surfaced as a validation error.
func (r *ProjectRepository) Create(ctx context.Context, in models.CreateProjectInput) (*ent.Project, error) {
	q := r.client.Project.Create().
		SetUserID(in.UserID).
		SetName(in.Name)
	if in.Color != "" {
		q = q.SetColor(in.Color)
	}
	if in.Emoji != "" {
		q = q.SetEmoji(in.Emoji)
	}
	p, err := q.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, apperrors.NewValidationError("name", "a project with this name already exists")
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return p, nil
}

// Get returns a project owned by userID, or apperrors.ErrNotFound.
func (r *ProjectRepository) Get(ctx context.Context, projectID int, userID int64) (*ent.Project, error) {
	p, err := r.client.Project.Query().
		Where(project.IDEQ(projectID), project.UserIDEQ(userID)).
		Only(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

// List returns all of userID's projects, ordered by name.
func (r *ProjectRepository) List(ctx context.Context, userID int64) ([]*ent.Project, error) {
	ps, err := r.client.Project.Query().
		Where(project.UserIDEQ(userID)).
		Order(ent.Asc(project.FieldName)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return ps, nil
}

// Update applies the given field changes to a project.
func (r *ProjectRepository) Update(ctx context.Context, projectID int, userID int64, fields models.UpdateProjectFields) (*ent.Project, error) {
	p, err := r.Get(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	q := p.Update()
	if fields.Name != nil {
		q = q.SetName(*fields.Name)
	}
	if fields.Color != nil {
		q = q.SetColor(*fields.Color)
	}
	if fields.Emoji != nil {
		q = q.SetEmoji(*fields.Emoji)
	}
	p, err = q.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, apperrors.NewValidationError("name", "a project with this name already exists")
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return p, nil
}

// Delete removes a project. Items referencing it have project_id cleared
// (ON DELETE SET NULL at the database level).
func (r *ProjectRepository) Delete(ctx context.Context, projectID int, userID int64) error {
	n, err := r.client.Project.Delete().
		Where(project.IDEQ(projectID), project.UserIDEQ(userID)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ItemCount returns the number of items currently assigned to a project.
func (r *ProjectRepository) ItemCount(ctx context.Context, projectID int, userID int64) (int, error) {
	n, err := r.client.Item.Query().
		Where(item.ProjectIDEQ(projectID), item.UserIDEQ(userID)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting project items: %w", err)
	}
	return n, nil
}

// MoveItems reassigns all items from sourceProjectID to targetProjectID
// (nil clears the assignment), returning the count moved.
func (r *ProjectRepository) MoveItems(ctx context.Context, sourceProjectID int, targetProjectID *int, userID int64) (int, error) {
	q := r.client.Item.Update().
		Where(item.ProjectIDEQ(sourceProjectID), item.UserIDEQ(userID))
	if targetProjectID != nil {
		q = q.SetProjectID(*targetProjectID)
	} else {
		q = q.ClearProjectID()
	}
	n, err := q.Save(ctx)
	if err != nil {
		return 0, fmt.Errorf("moving project items: %w", err)
	}
	return n, nil
}
