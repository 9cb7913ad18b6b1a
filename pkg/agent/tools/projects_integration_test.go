package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/inbox/pkg/agent"
	"github.com/codeready-toolchain/inbox/pkg/agent/confirm"
	"github.com/codeready-toolchain/inbox/pkg/agent/tools"
	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/store"
	testdb "github.com/codeready-toolchain/inbox/test/database"
)

// TestMoveProjectItems_ExecutesAgainstPreviewedState confirms the
// two-phase confirmation contract: once a preview has been shown and
// confirmed, execute acts on the project ids captured in the pending
// state, not on whatever project_id/target_project_id the execute call
// happens to carry.
func TestMoveProjectItems_ExecutesAgainstPreviewedState(t *testing.T) {
	client := testdb.NewTestClient(t)
	st := store.New(client.Client)
	ctx := context.Background()

	const userID int64 = 2001
	_, err := st.Users.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	source, err := st.Projects.Create(ctx, models.CreateProjectInput{UserID: userID, Name: "source"})
	require.NoError(t, err)
	target, err := st.Projects.Create(ctx, models.CreateProjectInput{UserID: userID, Name: "target"})
	require.NoError(t, err)
	decoy, err := st.Projects.Create(ctx, models.CreateProjectInput{UserID: userID, Name: "decoy"})
	require.NoError(t, err)

	_, err = st.Items.Create(ctx, models.CreateItemInput{
		UserID: userID, Type: models.ItemTypeTask, Source: models.SourceText,
		Title: "in source", ProjectID: &source.ID,
	})
	require.NoError(t, err)
	decoyItem, err := st.Items.Create(ctx, models.CreateItemInput{
		UserID: userID, Type: models.ItemTypeTask, Source: models.SourceText,
		Title: "in decoy", ProjectID: &decoy.ID,
	})
	require.NoError(t, err)

	exec := tools.NewExecutor(st, confirm.NewStore(), nil)

	previewArgs, _ := json.Marshal(map[string]interface{}{
		"action": "move_items", "project_id": source.ID, "target_project_id": target.ID,
	})
	previewResult, err := exec.Execute(ctx, userID, agent.ToolCall{Name: "manage_projects", Arguments: string(previewArgs)})
	require.NoError(t, err)
	require.False(t, previewResult.IsError)

	var preview struct {
		ConfirmationToken string `json:"confirmation_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(previewResult.Content), &preview))
	require.NotEmpty(t, preview.ConfirmationToken)

	// Execute call's args point at the decoy project instead of the
	// previewed source project — this must not move the decoy's items.
	execArgs, _ := json.Marshal(map[string]interface{}{
		"action": "move_items", "project_id": decoy.ID, "target_project_id": target.ID,
		"confirmed": true, "confirmation_token": preview.ConfirmationToken,
	})
	execResult, err := exec.Execute(ctx, userID, agent.ToolCall{Name: "manage_projects", Arguments: string(execArgs)})
	require.NoError(t, err)
	require.False(t, execResult.IsError)

	got, err := st.Items.Get(ctx, decoyItem.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, decoy.ID, *got.ProjectID, "decoy item must not have been moved")

	items, _, err := st.Items.List(ctx, userID, models.ItemFilter{ProjectID: &target.ID}, models.Page{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, items, 1, "only the previewed source project's item should have moved to target")
}

// TestDeleteProject_ExecutesAgainstPreviewedState mirrors the move_items
// case for project deletion.
func TestDeleteProject_ExecutesAgainstPreviewedState(t *testing.T) {
	client := testdb.NewTestClient(t)
	st := store.New(client.Client)
	ctx := context.Background()

	const userID int64 = 2002
	_, err := st.Users.GetOrCreate(ctx, userID)
	require.NoError(t, err)

	toDelete, err := st.Projects.Create(ctx, models.CreateProjectInput{UserID: userID, Name: "to-delete"})
	require.NoError(t, err)
	decoy, err := st.Projects.Create(ctx, models.CreateProjectInput{UserID: userID, Name: "decoy"})
	require.NoError(t, err)

	exec := tools.NewExecutor(st, confirm.NewStore(), nil)

	previewArgs, _ := json.Marshal(map[string]interface{}{"action": "delete", "project_id": toDelete.ID})
	previewResult, err := exec.Execute(ctx, userID, agent.ToolCall{Name: "manage_projects", Arguments: string(previewArgs)})
	require.NoError(t, err)
	require.False(t, previewResult.IsError)

	var preview struct {
		ConfirmationToken string `json:"confirmation_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(previewResult.Content), &preview))
	require.NotEmpty(t, preview.ConfirmationToken)

	execArgs, _ := json.Marshal(map[string]interface{}{
		"action": "delete", "project_id": decoy.ID,
		"confirmed": true, "confirmation_token": preview.ConfirmationToken,
	})
	execResult, err := exec.Execute(ctx, userID, agent.ToolCall{Name: "manage_projects", Arguments: string(execArgs)})
	require.NoError(t, err)
	require.False(t, execResult.IsError)

	_, err = st.Projects.Get(ctx, toDelete.ID, userID)
	assert.Error(t, err, "the previewed project should have been deleted")

	_, err = st.Projects.Get(ctx, decoy.ID, userID)
	assert.NoError(t, err, "the decoy project from the execute call's args must survive")
}
