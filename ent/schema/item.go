package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the fixed dense-vector width for Item.embedding.
// Invariant: every stored embedding has exactly this many components, or
// the column is null — enforced by the vector(1536) column type.
const EmbeddingDimensions = 1536

// Item holds the schema definition for the Item entity — the central
// record produced by ingestion. See spec §3 for the full invariant list.
type Item struct {
	ent.Schema
}

// Fields of the Item.
func (Item) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("user_id").
			Immutable(),
		field.Enum("type").
			Values("task", "idea", "note", "resource", "contact", "event"),
		field.Enum("status").
			Values("processing", "inbox", "active", "done", "archived").
			Default("processing"),
		field.String("title").
			Optional().
			MaxLen(500),
		field.Text("content").
			Optional(),
		field.Text("original_input").
			Optional().
			Immutable().
			Comment("Verbatim user text — never overwritten once set"),
		field.Enum("source").
			Values("text", "voice", "photo", "pdf", "forward", "link"),
		field.Time("due_at").
			Optional().
			Nillable().
			Comment("Absolute instant in UTC"),
		field.String("due_at_raw").
			Optional().
			Nillable().
			Comment("User's original phrasing; kept even if parsing failed"),
		field.Time("remind_at").
			Optional().
			Nillable(),
		field.Enum("priority").
			Values("high", "medium", "low").
			Optional().
			Nillable(),
		field.Int("project_id").
			Optional().
			Nillable(),
		field.JSON("tags", []string{}).
			Optional().
			Comment("Ordered, duplicates ignored"),
		field.JSON("entities", map[string]interface{}{}).
			Optional(),
		field.JSON("recurrence", map[string]interface{}{}).
			Optional().
			Nillable().
			Comment("{type, interval, days, end_date} — only meaningful with due_at"),
		field.Other("embedding", &pgvector.Vector{}).
			SchemaType(map[string]string{
				dialect.Postgres: "vector(1536)",
			}).
			Optional().
			Nillable(),
		field.String("file_id").
			Optional().
			Nillable(),
		field.String("attachment_type").
			Optional().
			Nillable(),
		field.String("filename").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

// Edges of the Item.
func (Item) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("owner", User.Type).
			Ref("items").
			Field("user_id").
			Unique().
			Required().
			Immutable(),
		edge.From("project", Project.Type).
			Ref("items").
			Field("project_id").
			Unique(),
		edge.To("outgoing_links", ItemLink.Type),
	}
}

// Indexes of the Item.
func (Item) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "status"),
		index.Fields("user_id", "due_at"),
		index.Fields("user_id", "type"),
	}
}
