// Package store is the ent-backed repository layer over users, projects,
// items, and item links. Multi-statement writes (Items.Complete,
// ItemLinks.CreateBatch) run inside a single ent transaction via withTx,
// following the teacher's pkg/services transaction pattern; single-row
// writes are issued directly.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeready-toolchain/inbox/ent"
	"github.com/codeready-toolchain/inbox/pkg/apperrors"
)

// Store bundles the per-entity repositories behind one ent client.
type Store struct {
	client *ent.Client

	Items     *ItemRepository
	Projects  *ProjectRepository
	Users     *UserRepository
	ItemLinks *ItemLinkRepository
}

// New builds a Store over an already-migrated ent client.
func New(client *ent.Client) *Store {
	return &Store{
		client:    client,
		Items:     &ItemRepository{client: client},
		Projects:  &ProjectRepository{client: client},
		Users:     &UserRepository{client: client},
		ItemLinks: &ItemLinkRepository{client: client},
	}
}

// withTx runs fn inside a new transaction, committing on success and
// rolling back on any error (including a panic, which it re-raises).
func withTx(ctx context.Context, client *ent.Client, fn func(tx *ent.Tx) error) error {
	tx, err := client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// mapNotFound converts an ent not-found error into apperrors.ErrNotFound so
// callers above this package never import ent directly.
func mapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if ent.IsNotFound(err) {
		return apperrors.ErrNotFound
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) || ent.IsNotFound(err)
}
