package models

import "time"

// ExtractedItem is one element of the LLM extraction's "items" array —
// see spec §4.3 stage 2 for the exact JSON shape this mirrors.
type ExtractedItem struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Content    string   `json:"content,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	ProjectID  *int     `json:"project_id,omitempty"`
	DueAtRaw   string   `json:"due_at_raw,omitempty"`
	DueAtISO   string   `json:"due_at_iso,omitempty"`
	Priority   string   `json:"priority,omitempty"`
}

// SuggestedLink is one element of the LLM extraction's "suggested_links".
type SuggestedLink struct {
	NewItemIndex   int    `json:"new_item_index"`
	ExistingItemID int    `json:"existing_item_id"`
	Reason         string `json:"reason"`
}

// ExtractionResult is the full JSON object the LLM returns during
// ingestion stage 2.
type ExtractionResult struct {
	Items          []ExtractedItem `json:"items"`
	ChatResponse   *string         `json:"chat_response"`
	SuggestedLinks []SuggestedLink `json:"suggested_links"`
}

// PipelineResult is what the ingestion pipeline returns to its caller.
type PipelineResult struct {
	CreatedItems []int // item ids, in creation order
	CreatedLinks int
	ChatResponse string
	Elapsed      time.Duration
	FellBack     bool // true if this is a fallback persist, not a full run
}

// InboundMessage is the envelope the transport adapter hands to the router.
type InboundMessage struct {
	UserID     int64
	Kind       string // "text"|"voice"|"photo"|"document"|"forward"
	Text       string
	Caption    string
	Attachment *Attachment
}

// OutboundReply is the envelope the router hands back to the transport.
type OutboundReply struct {
	Text        string
	Buttons     []ReplyButton
	Attachments []Attachment
}

// ReplyButton is one button in an outbound reply.
type ReplyButton struct {
	Label      string `json:"label"`
	CallbackID string `json:"callback_id"`
}
