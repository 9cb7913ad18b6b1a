package store

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/inbox/ent"
	"github.com/codeready-toolchain/inbox/ent/itemlink"
)

// ItemLinkRepository manages directed links between items, created either
// explicitly (confirmed=true) or as agent suggestions (confirmed=false)
// pending the batch-confirmation flow in pkg/agent/confirm.
type ItemLinkRepository struct {
	client *ent.Client
}

// LinkInput is one link to create.
type LinkInput struct {
	SourceItemID int
	TargetItemID int
	LinkType     string
	Reason       string
	Confidence   *float64
	Confirmed    bool
}

// Create inserts a single link.
func (r *ItemLinkRepository) Create(ctx context.Context, in LinkInput) (*ent.ItemLink, error) {
	return create(ctx, r.client.ItemLink, in)
}

// CreateBatch inserts several links in one transaction, returning however
// many were created before stopping on the first error.
func (r *ItemLinkRepository) CreateBatch(ctx context.Context, links []LinkInput) ([]*ent.ItemLink, error) {
	var created []*ent.ItemLink
	err := withTx(ctx, r.client, func(tx *ent.Tx) error {
		for _, in := range links {
			link, err := create(ctx, tx.ItemLink, in)
			if err != nil {
				return err
			}
			created = append(created, link)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func create(ctx context.Context, client *ent.ItemLinkClient, in LinkInput) (*ent.ItemLink, error) {
	linkType := in.LinkType
	if linkType == "" {
		linkType = "related"
	}
	q := client.Create().
		SetSourceItemID(in.SourceItemID).
		SetTargetItemID(in.TargetItemID).
		SetLinkType(linkType).
		SetConfirmed(in.Confirmed)
	if in.Reason != "" {
		q = q.SetReason(in.Reason)
	}
	if in.Confidence != nil {
		q = q.SetConfidence(*in.Confidence)
	}
	link, err := q.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating item link: %w", err)
	}
	return link, nil
}

// RelatedItem is one row of GetItemLinks' result — the linked item's id,
// title, type, and why it was linked.
type RelatedItem struct {
	ItemID int
	Title  string
	Type   string
	Reason string
}

// GetItemLinks returns every outgoing link from itemID together with the
// target item's display fields, for the "related items" endpoint.
func (r *ItemLinkRepository) GetItemLinks(ctx context.Context, itemID int) ([]RelatedItem, error) {
	links, err := r.client.ItemLink.Query().
		Where(itemlink.SourceItemIDEQ(itemID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading item links: %w", err)
	}

	out := make([]RelatedItem, 0, len(links))
	for _, link := range links {
		target, err := r.client.Item.Get(ctx, link.TargetItemID)
		if err != nil {
			continue
		}
		reason := ""
		if link.Reason != nil {
			reason = *link.Reason
		}
		out = append(out, RelatedItem{
			ItemID: target.ID,
			Title:  target.Title,
			Type:   string(target.Type),
			Reason: reason,
		})
	}
	return out, nil
}
