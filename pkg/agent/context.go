package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/codeready-toolchain/inbox/pkg/search"
	"github.com/codeready-toolchain/inbox/pkg/store"
)

// ProjectRef is the compact project shape fed to the LLM as context.
type ProjectRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}

// RecentItemRef is the compact recent-item shape fed to the LLM.
type RecentItemRef struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SimilarItemRef is one semantically-similar prior item.
type SimilarItemRef struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// StageContext is everything stage 1 gathers for the LLM prompt.
type StageContext struct {
	Projects     []ProjectRef
	RecentItems  []RecentItemRef
	SimilarItems []SimilarItemRef
	NowFormatted string
}

const (
	recentItemsLimit     = 20
	similarItemsLimit    = 5
	similarItemsMinScore = 0.5
)

// gatherContext runs stage 1: the user's projects, their 20 most recent
// items, up to 5 semantically similar prior items, and the current
// wall time formatted with weekday name in the user's timezone.
func gatherContext(ctx context.Context, st *store.Store, eng *search.Engine, userID int64, tz *time.Location, inputText string) (*StageContext, error) {
	projects, err := st.Projects.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	projRefs := make([]ProjectRef, len(projects))
	for i, p := range projects {
		projRefs[i] = ProjectRef{ID: p.ID, Name: p.Name, Emoji: p.Emoji}
	}

	recent, err := st.Items.RecentForContext(ctx, userID, recentItemsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing recent items: %w", err)
	}
	recentRefs := make([]RecentItemRef, len(recent))
	for i, it := range recent {
		recentRefs[i] = RecentItemRef{ID: it.ID, Title: it.Title, Type: string(it.Type), Tags: it.Tags, CreatedAt: it.CreatedAt}
	}

	var similarRefs []SimilarItemRef
	if eng != nil && inputText != "" {
		// The hybrid engine ranks against the same corpus a source item's
		// FindSimilar would, so querying it with the raw input text before
		// the item even exists approximates "items semantically close to
		// what I'm about to write" well enough for prompt context.
		results := eng.Hybrid(ctx, userID, inputText, similarItemsLimit, search.Filter{}, models.DefaultSearchWeights())
		for _, r := range results {
			if r.Score <= similarItemsMinScore {
				continue
			}
			similarRefs = append(similarRefs, SimilarItemRef{ID: r.ItemID, Title: r.Title, Type: string(r.Type), Score: r.Score})
		}
	}

	now := time.Now()
	if tz != nil {
		now = now.In(tz)
	}

	return &StageContext{
		Projects:     projRefs,
		RecentItems:  recentRefs,
		SimilarItems: similarRefs,
		NowFormatted: now.Format("Monday, 2006-01-02 15:04"),
	}, nil
}
