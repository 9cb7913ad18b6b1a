package store

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/inbox/ent"
	"github.com/codeready-toolchain/inbox/ent/user"
	"github.com/codeready-toolchain/inbox/pkg/apperrors"
)

// UserRepository manages User rows. Users have no signup flow — they are
// created lazily on first reference, same as the original implementation's
// UserRepository.get_or_create.
type UserRepository struct {
	client *ent.Client
}

// GetOrCreate returns the user with userID, creating it with defaults if
// it doesn't exist yet.
func (r *UserRepository) GetOrCreate(ctx context.Context, userID int64) (*ent.User, error) {
	u, err := r.client.User.Query().Where(user.UserIDEQ(userID)).Only(ctx)
	if err == nil {
		return u, nil
	}
	if !ent.IsNotFound(err) {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	u, err = r.client.User.Create().SetUserID(userID).Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			// Lost a create race — another goroutine created it first.
			return r.client.User.Query().Where(user.UserIDEQ(userID)).Only(ctx)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// Get returns the user with userID, or apperrors.ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, userID int64) (*ent.User, error) {
	u, err := r.client.User.Query().Where(user.UserIDEQ(userID)).Only(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

// UpdateSettings replaces the user's free-form settings map.
func (r *UserRepository) UpdateSettings(ctx context.Context, userID int64, settings map[string]interface{}) (*ent.User, error) {
	u, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err = u.Update().SetSettings(settings).Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("updating user settings: %w", err)
	}
	return u, nil
}

// UpdateTimezone sets the user's IANA timezone name. Callers are expected
// to have already validated tz against the IANA database.
func (r *UserRepository) UpdateTimezone(ctx context.Context, userID int64, tz string) (*ent.User, error) {
	u, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err = u.Update().SetTimezone(tz).Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("updating timezone: %w", err)
	}
	return u, nil
}

// CompleteOnboarding marks the user as having finished onboarding.
func (r *UserRepository) CompleteOnboarding(ctx context.Context, userID int64) error {
	n, err := r.client.User.Update().
		Where(user.UserIDEQ(userID)).
		SetOnboardingCompleted(true).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("completing onboarding: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
