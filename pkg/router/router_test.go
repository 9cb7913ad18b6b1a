package router

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFromKind(t *testing.T) {
	assert.Equal(t, models.SourceVoice, sourceFromKind("voice"))
	assert.Equal(t, models.SourcePhoto, sourceFromKind("photo"))
	assert.Equal(t, models.SourcePDF, sourceFromKind("document"))
	assert.Equal(t, models.SourceForward, sourceFromKind("forward"))
	assert.Equal(t, models.SourceText, sourceFromKind("text"))
	assert.Equal(t, models.SourceText, sourceFromKind("unknown"))
}

func TestSaveReplyText_NoItems(t *testing.T) {
	assert.Equal(t, "Принято.", saveReplyText(&models.PipelineResult{}))
}

func TestSaveReplyText_ChatResponseTakesPriority(t *testing.T) {
	assert.Equal(t, "hi there", saveReplyText(&models.PipelineResult{ChatResponse: "hi there"}))
}

func TestSaveReplyText_SingleItem(t *testing.T) {
	assert.Equal(t, "Сохранено.", saveReplyText(&models.PipelineResult{CreatedItems: []int{1}}))
}

func TestSaveReplyText_MultipleItems(t *testing.T) {
	assert.Equal(t, "Сохранено записей: 3.", saveReplyText(&models.PipelineResult{CreatedItems: []int{1, 2, 3}}))
}

func TestTimezoneOrUTC_Empty(t *testing.T) {
	assert.Equal(t, "UTC", timezoneOrUTC("").String())
}

func TestTimezoneOrUTC_Invalid(t *testing.T) {
	assert.Equal(t, "UTC", timezoneOrUTC("Not/A_Zone").String())
}

func TestTimezoneOrUTC_Valid(t *testing.T) {
	assert.Equal(t, "Asia/Almaty", timezoneOrUTC("Asia/Almaty").String())
}

type fakeFetcher struct {
	page ports.FetchedPage
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (ports.FetchedPage, error) {
	return f.page, f.err
}

func TestEnrichWithURL_AppendsFetchedText(t *testing.T) {
	r := &Router{fetchURL: &fakeFetcher{page: ports.FetchedPage{Text: "extracted body"}}}
	out := r.enrichWithURL(context.Background(), "check this out https://example.com/a")
	assert.Contains(t, out, "extracted body")
	assert.Contains(t, out, "check this out")
}

func TestEnrichWithURL_NoURLReturnsUnchanged(t *testing.T) {
	r := &Router{fetchURL: &fakeFetcher{page: ports.FetchedPage{Text: "x"}}}
	out := r.enrichWithURL(context.Background(), "just text, no links")
	assert.Equal(t, "just text, no links", out)
}

func TestEnrichWithURL_FetchErrorReturnsUnchanged(t *testing.T) {
	r := &Router{fetchURL: &fakeFetcher{err: assert.AnError}}
	out := r.enrichWithURL(context.Background(), "see https://example.com")
	assert.Equal(t, "see https://example.com", out)
}

func TestEnrichWithURL_NilFetcherNoOp(t *testing.T) {
	r := &Router{}
	out := r.enrichWithURL(context.Background(), "see https://example.com")
	assert.Equal(t, "see https://example.com", out)
}

func TestRoute_EmptyTextReturnsEmptyReply(t *testing.T) {
	r := &Router{}
	reply, err := r.Route(context.Background(), models.InboundMessage{UserID: 1, Kind: "text", Text: ""})
	require.NoError(t, err)
	assert.Equal(t, models.OutboundReply{}, reply)
}
