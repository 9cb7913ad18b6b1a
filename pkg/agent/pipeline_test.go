package agent

import (
	"strings"
	"testing"

	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestSelectModel_ShortText(t *testing.T) {
	got := SelectModel("buy milk", "text", "fast", "capable")
	assert.Equal(t, "fast", got)
}

func TestSelectModel_LongVoice(t *testing.T) {
	long := strings.Repeat("a", 1001)
	got := SelectModel(long, "voice", "fast", "capable")
	assert.Equal(t, "capable", got)
}

func TestSelectModel_LongText(t *testing.T) {
	long := strings.Repeat("a", 501)
	got := SelectModel(long, "text", "fast", "capable")
	assert.Equal(t, "capable", got)
}

func TestSelectModel_MultiIntentMarkers(t *testing.T) {
	got := SelectModel("во-первых сделай это\nво-вторых сделай то", "text", "fast", "capable")
	assert.Equal(t, "capable", got)
}

func TestSelectModel_ComplexMarker(t *testing.T) {
	got := SelectModel("если будет время, позвони", "text", "fast", "capable")
	assert.Equal(t, "capable", got)
}

func TestItemTypeOrDefault(t *testing.T) {
	assert.Equal(t, models.ItemTypeTask, itemTypeOrDefault("task"))
	assert.Equal(t, models.ItemTypeNote, itemTypeOrDefault("bogus"))
	assert.Equal(t, models.ItemTypeNote, itemTypeOrDefault(""))
}

func TestTitleOrDefault(t *testing.T) {
	assert.Equal(t, "explicit", titleOrDefault("explicit", "fallback"))
	assert.Equal(t, "short", titleOrDefault("", "short"))
	long := strings.Repeat("x", 150)
	assert.Equal(t, long[:100], titleOrDefault("", long))
}

func TestContentOrDefault(t *testing.T) {
	assert.Equal(t, "explicit", contentOrDefault("explicit", "fallback"))
	assert.Equal(t, "fallback", contentOrDefault("", "fallback"))
}

func TestBuildLinkInputs(t *testing.T) {
	createdIDs := []int{10, 11}
	suggestions := []models.SuggestedLink{
		{NewItemIndex: 0, ExistingItemID: 5, Reason: strings.Repeat("r", 250)},
		{NewItemIndex: 1, ExistingItemID: 0, Reason: "invalid target"},
		{NewItemIndex: 5, ExistingItemID: 7, Reason: "out of range index"},
	}

	links := buildLinkInputs(createdIDs, suggestions)
	if assert.Len(t, links, 1) {
		assert.Equal(t, 10, links[0].SourceItemID)
		assert.Equal(t, 5, links[0].TargetItemID)
		assert.Len(t, links[0].Reason, 200)
	}
}

func TestResolveDueAt_RFC3339(t *testing.T) {
	p := &Pipeline{}
	src := models.ExtractedItem{DueAtISO: "2026-02-01T10:00:00Z", DueAtRaw: "1 февраля в 10"}
	due, raw := p.resolveDueAt(src, nil)
	if assert.NotNil(t, due) {
		assert.Equal(t, 2026, due.Year())
	}
	assert.Equal(t, "1 февраля в 10", raw)
}

func TestResolveDueAt_NoDueInfo(t *testing.T) {
	p := &Pipeline{}
	due, raw := p.resolveDueAt(models.ExtractedItem{}, nil)
	assert.Nil(t, due)
	assert.Equal(t, "", raw)
}
