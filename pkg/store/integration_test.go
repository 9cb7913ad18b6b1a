package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/store"
	testdb "github.com/codeready-toolchain/inbox/test/database"
)

// TestItemLifecycle exercises create/list/complete/delete against a real
// PostgreSQL instance, grounded on the teacher's
// pkg/services/integration_test.go (testdb.NewTestClient + ent-backed
// assertions instead of mocks).
func TestItemLifecycle(t *testing.T) {
	client := testdb.NewTestClient(t)
	st := store.New(client.Client)
	ctx := context.Background()

	const userID int64 = 1001
	_, err := st.Users.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	it, err := st.Items.Create(ctx, models.CreateItemInput{
		UserID:  userID,
		Type:    models.ItemTypeTask,
		Source:  models.SourceText,
		Title:   "water the plants",
		Content: "water the plants",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, it.UserID)
	assert.Equal(t, "inbox", string(it.Status))

	items, total, err := st.Items.List(ctx, userID, models.ItemFilter{
		Types: []models.ItemType{models.ItemTypeTask},
	}, models.Page{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, it.ID, items[0].ID)

	completed, next, err := st.Items.Complete(ctx, it.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.Equal(t, "done", string(completed.Status))
	assert.Nil(t, next) // no recurrence configured

	ok, err := st.Items.Delete(ctx, it.ID, userID)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestCompleteIsIdempotent confirms completing an already-done item is a
// no-op: no duplicate recurrence instance, completed_at left untouched.
func TestCompleteIsIdempotent(t *testing.T) {
	client := testdb.NewTestClient(t)
	st := store.New(client.Client)
	ctx := context.Background()

	const userID int64 = 1003
	_, err := st.Users.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	dueAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	it, err := st.Items.Create(ctx, models.CreateItemInput{
		UserID:     userID,
		Type:       models.ItemTypeTask,
		Source:     models.SourceText,
		Title:      "take out recycling",
		DueAt:      &dueAt,
		Recurrence: &models.Recurrence{Type: models.RecurrenceWeekly, Interval: 1},
	})
	require.NoError(t, err)

	first, firstNext, err := st.Items.Complete(ctx, it.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, firstNext)
	firstCompletedAt := *first.CompletedAt

	second, secondNext, err := st.Items.Complete(ctx, it.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Nil(t, secondNext, "repeat complete must not materialize a second recurrence")
	assert.Equal(t, firstCompletedAt, *second.CompletedAt, "repeat complete must not update completed_at")

	_, totalAfter, err := st.Items.List(ctx, userID, models.ItemFilter{
		Types: []models.ItemType{models.ItemTypeTask},
	}, models.Page{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, totalAfter, "original done item + one materialized recurrence, no more")
}

// TestProjectDeleteNullsItemReferences confirms the ON DELETE SET NULL
// project_id edge (spec.md §6: deleting a project nulls the project
// reference on its items rather than cascading).
func TestProjectDeleteNullsItemReferences(t *testing.T) {
	client := testdb.NewTestClient(t)
	st := store.New(client.Client)
	ctx := context.Background()

	const userID int64 = 1002
	_, err := st.Users.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	proj, err := st.Projects.Create(ctx, models.CreateProjectInput{UserID: userID, Name: "garden"})
	require.NoError(t, err)

	it, err := st.Items.Create(ctx, models.CreateItemInput{
		UserID:    userID,
		Type:      models.ItemTypeTask,
		Source:    models.SourceText,
		Title:     "buy seeds",
		ProjectID: &proj.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, it.ProjectID)

	require.NoError(t, st.Projects.Delete(ctx, proj.ID, userID))

	got, err := st.Items.Get(ctx, it.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)
}
