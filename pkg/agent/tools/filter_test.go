package tools

import (
	"testing"
	"time"

	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestResolveProjectRef_NumericString(t *testing.T) {
	id := resolveProjectRef(nil, nil, 0, "42")
	if assert.NotNil(t, id) {
		assert.Equal(t, 42, *id)
	}
}

func TestResolveProjectRef_Float64(t *testing.T) {
	id := resolveProjectRef(nil, nil, 0, float64(7))
	if assert.NotNil(t, id) {
		assert.Equal(t, 7, *id)
	}
}

func TestResolveProjectRef_Nil(t *testing.T) {
	assert.Nil(t, resolveProjectRef(nil, nil, 0, nil))
}

func TestResolveProjectRef_EmptyString(t *testing.T) {
	assert.Nil(t, resolveProjectRef(nil, nil, 0, ""))
}

func TestResolveFilter_BasicFields(t *testing.T) {
	f := resolveFilter(nil, nil, 0, rawFilter{
		Query: "milk", Type: "task", Status: "inbox", Priority: "high",
		DateFrom: "2026-01-01T00:00:00Z", Tags: []string{"x"},
	})
	assert.Equal(t, "milk", f.Query)
	assert.Equal(t, []models.ItemType{models.ItemTypeTask}, f.Types)
	assert.Equal(t, []models.ItemStatus{models.StatusInbox}, f.Statuses)
	assert.Equal(t, models.PriorityHigh, f.Priority)
	assert.Equal(t, []string{"x"}, f.Tags)
	if assert.NotNil(t, f.DateFrom) {
		assert.Equal(t, 2026, f.DateFrom.Year())
	}
}

func TestUpdateFields_ToModel(t *testing.T) {
	u := updateFields{Status: "done", Priority: "low", DueAt: "2026-03-01T10:00:00Z"}
	m := u.toModel()
	if assert.NotNil(t, m.Status) {
		assert.Equal(t, models.StatusDone, *m.Status)
	}
	if assert.NotNil(t, m.Priority) {
		assert.Equal(t, models.PriorityLow, *m.Priority)
	}
	if assert.NotNil(t, m.DueAt) {
		assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), m.DueAt.UTC())
	}
}

func TestUpdateFields_ToModel_NoDueAt(t *testing.T) {
	u := updateFields{}
	m := u.toModel()
	assert.Nil(t, m.DueAt)
	assert.Nil(t, m.Status)
	assert.Nil(t, m.Priority)
}
